package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tanker-run/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all vehicles",
	Long:  `Shows every vehicle profile in the loaded configuration.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	vehicles := registry.List()

	if len(vehicles) == 0 {
		fmt.Println("No vehicles configured.")
		return
	}

	fmt.Println("Vehicles:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, v := range vehicles {
		if len(v.ID) > maxIDLen {
			maxIDLen = len(v.ID)
		}
	}

	fmt.Printf("  %-*s  %-8s  %-8s  %-5s  %s\n", maxIDLen, "ID", "Title", "Steering", "Lives", "Station")
	fmt.Printf("  %-*s  %-8s  %-8s  %-5s  %s\n", maxIDLen, "--", "-----", "--------", "-----", "-------")

	for _, v := range vehicles {
		vc, err := runConfig.Vehicle(v.ID)
		if err != nil {
			continue
		}
		lives := "no"
		if vc.Lives {
			lives = fmt.Sprintf("%d", runConfig.Player.Lives)
		}
		fmt.Printf("  %-*s  %-8s  %-8s  %-5s  %s\n", maxIDLen, v.ID, v.Title, vc.Steering, lives, vc.GasMode)
	}

	fmt.Println()
	fmt.Println("Run 'tanker play <id>' to start a delivery.")
}

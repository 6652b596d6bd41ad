package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tanker-run/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start screen and vehicle picker",
	Long: `Start Tanker Run in interactive mode.

Press Enter on the start screen, then pick a vehicle with the arrow keys
or j/k. Leaving a run returns to the picker. Tab opens the run journal.

Examples:
  tanker menu
  tanker menu --mute
  tanker menu --db ./runs.db`,
	Run: runMenu,
}

func runMenu(cmd *cobra.Command, _ []string) {
	env, cleanup, err := interactiveEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	runErr := tui.RunSession(contextOf(cmd), env)
	cleanup()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}

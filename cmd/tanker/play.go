package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tanker-run/internal/platform/tui"
	"github.com/vovakirdan/tanker-run/internal/registry"
)

var playCmd = &cobra.Command{
	Use:   "play <vehicle>",
	Short: "Play a vehicle",
	Long: `Start a delivery run with the given vehicle.

Controls:
  Up/W, Down/S  - Steer across the road
  Left/A        - Slow down (bike) or shift back (tanker, truck)
  Right/D       - Speed up (bike) or shift forward (tanker, truck)
  +/-           - Raise or lower road speed
  Space/F       - Fire
  P             - Pause
  R             - Restart after the run ended
  M             - Mute
  B/Esc         - Leave (paused or ended)
  Q/Ctrl+C      - Quit

Every finished run is stored in the journal with its replay.

Examples:
  tanker play bike
  tanker play tanker --seed 42
  tanker play truck --config ./my-delivery.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) {
	vehicle := args[0]

	if !registry.Exists(vehicle) {
		fmt.Fprintf(os.Stderr, "Error: unknown vehicle %q\n", vehicle)
		fmt.Fprintln(os.Stderr, "Run 'tanker list' to see available vehicles.")
		os.Exit(1)
	}

	env, cleanup, err := interactiveEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	runErr := tui.Run(contextOf(cmd), env, vehicle)
	cleanup()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// contextOf returns the command context, or a background one.
func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

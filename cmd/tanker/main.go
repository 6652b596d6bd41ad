// tanker is a side-scrolling delivery run for the terminal: ride a bike,
// haul a tanker or drive a truck to the gas station without being burned.
//
// Usage:
//
//	tanker list              - List vehicles
//	tanker play <vehicle>    - Play a vehicle directly
//	tanker menu              - Start screen and vehicle picker
//	tanker sim <vehicle>     - Run a headless simulation
//	tanker replays           - Browse the run journal
//	tanker replay <id>       - Re-simulate and verify a stored run
//	tanker serve             - Start SSH server for remote play
//	tanker config            - Print the default configuration
//
// Global flags:
//
//	--seed <value>    - Set RNG seed for reproducible runs
//	--db <path>       - Set journal path (default: ~/.tanker-run/runs.db)
//	--config <path>   - Load a custom delivery.yaml
//	--log-file <path> - Write logs to a file
//	--mute            - Disable sound
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tanker-run/internal/config"
	"github.com/vovakirdan/tanker-run/internal/games/delivery"
)

var (
	// Global flags
	flagSeed    int64
	flagDBPath  string
	flagConfig  string
	flagLogFile string
	flagDebug   bool
	flagMute    bool

	// Loaded once before any subcommand runs.
	runConfig config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tanker",
	Short: "Tanker Run - deliver the cargo without getting burned",
	Long: `Tanker Run is a side-scrolling delivery game for the terminal.

Pick a bike, a tanker or a truck, dodge or shoot the fires on the road
and reach the gas station at the end of the route.

Available commands:
  list     - Show all vehicles
  play     - Play a vehicle directly
  menu     - Start screen and vehicle picker
  sim      - Headless simulation
  replays  - Browse the run journal
  replay   - Verify a stored run
  serve    - Start SSH server for remote play
  config   - Print the default configuration

Examples:
  tanker list
  tanker play tanker
  tanker menu --mute
  tanker sim truck --ticks 2000 --fire-every 10
  tanker serve --ssh :2222`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return err
		}
		runConfig = cfg
		delivery.RegisterVehicles(cfg)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.tanker-run/runs.db", "Path to the run journal")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a custom delivery.yaml")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (default: no logs while playing)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Log at debug level")
	rootCmd.PersistentFlags().BoolVar(&flagMute, "mute", false, "Disable sound")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(replaysCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

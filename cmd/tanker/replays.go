package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tanker-run/internal/platform/tui"
	"github.com/vovakirdan/tanker-run/internal/registry"
	"github.com/vovakirdan/tanker-run/internal/replay"
	"github.com/vovakirdan/tanker-run/internal/storage"
)

var (
	flagPlain  bool
	flagLimit  int
	flagFile   string
	flagDelete bool
)

var replaysCmd = &cobra.Command{
	Use:   "replays [vehicle]",
	Short: "Browse the run journal",
	Long: `Open the run journal. Select a run and press Enter to re-simulate it.

With --plain, print the most recent runs instead.

Examples:
  tanker replays
  tanker replays --plain
  tanker replays tanker --plain --limit 5`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplays,
}

var replayCmd = &cobra.Command{
	Use:   "replay [id]",
	Short: "Verify a stored run",
	Long: `Re-simulate a run from the journal, or from a replay file, and check
that it ends exactly as recorded.

Examples:
  tanker replay 12
  tanker replay 12 --delete
  tanker replay --file truck.replay`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

func init() {
	replaysCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print the journal instead of browsing it")
	replaysCmd.Flags().IntVar(&flagLimit, "limit", 20, "Number of runs to print with --plain")

	replayCmd.Flags().StringVar(&flagFile, "file", "", "Verify a replay file written by 'tanker sim --replay-out'")
	replayCmd.Flags().BoolVar(&flagDelete, "delete", false, "Delete the run from the journal instead")
}

func runReplays(cmd *cobra.Command, args []string) error {
	vehicle := ""
	if len(args) == 1 {
		vehicle = args[0]
		if !registry.Exists(vehicle) {
			return fmt.Errorf("unknown vehicle %q", vehicle)
		}
	}

	if !flagPlain {
		env, cleanup, err := interactiveEnv()
		if err != nil {
			return err
		}
		defer cleanup()
		return tui.RunReplays(env)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns(vehicle, flagLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Play 'tanker play <vehicle>' to make the first delivery!")
		return nil
	}

	fmt.Fprintf(out, "  %-5s  %-7s  %-10s  %-8s  %-5s  %-6s  %s\n", "ID", "Vehicle", "Outcome", "Distance", "Lives", "Ticks", "Date")
	fmt.Fprintf(out, "  %-5s  %-7s  %-10s  %-8s  %-5s  %-6s  %s\n", "--", "-------", "-------", "--------", "-----", "-----", "----")
	for _, r := range runs {
		fmt.Fprintf(out, "  %-5d  %-7s  %-10s  %-8d  %-5d  %-6d  %s\n",
			r.ID, r.Vehicle, r.Phase, r.Distance, r.Lives, r.Ticks, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	counts, err := store.CountRuns()
	if err == nil && vehicle == "" {
		fmt.Fprintln(out)
		for _, v := range registry.List() {
			fmt.Fprintf(out, "%s: %d runs\n", v.Title, counts[v.ID])
		}
	}
	return nil
}

func runReplay(cmd *cobra.Command, args []string) error {
	var (
		data  []byte
		label string
	)

	switch {
	case flagFile != "":
		b, err := os.ReadFile(flagFile)
		if err != nil {
			return fmt.Errorf("read replay: %w", err)
		}
		data, label = b, flagFile

	case len(args) == 1:
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid run id %q", args[0])
		}
		store, err := storage.Open(flagDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		if flagDelete {
			if err := store.DeleteRun(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "run %d deleted\n", id)
			return nil
		}

		entry, err := store.LoadRun(id)
		if err != nil {
			return err
		}
		data, label = entry.Replay, "run "+args[0]

	default:
		return errors.New("give a run id or --file")
	}

	rep, err := replay.Decode(data)
	if err != nil {
		return err
	}
	s, err := replay.Verify(rep)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s verified: %s %s at %d / %d after %d ticks\n",
		label, rep.Vehicle, s.Phase, s.Distance, s.RouteLength, s.Tick)
	return nil
}

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tanker-run/internal/core"
	"github.com/vovakirdan/tanker-run/internal/games/delivery"
	"github.com/vovakirdan/tanker-run/internal/replay"
	"github.com/vovakirdan/tanker-run/internal/storage"
)

var (
	flagTicks     int
	flagFireEvery int
	flagSave      bool
	flagReplayOut string
)

var simCmd = &cobra.Command{
	Use:   "sim <vehicle>",
	Short: "Run a headless simulation",
	Long: `Step a run without a terminal UI and print how it ended.

The simulation holds its lane and fires on a fixed cadence. It stops at
the first terminal phase or after --ticks steps. With the same --seed it
always ends the same way.

Examples:
  tanker sim tanker --seed 7
  tanker sim bike --ticks 5000 --fire-every 5 --save
  tanker sim truck --seed 3 --replay-out truck.replay`,
	Args: cobra.ExactArgs(1),
	RunE: runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagTicks, "ticks", 10000, "Maximum number of ticks to simulate")
	simCmd.Flags().IntVar(&flagFireEvery, "fire-every", 0, "Fire every N ticks (0 = never)")
	simCmd.Flags().BoolVar(&flagSave, "save", false, "Store a finished run in the journal")
	simCmd.Flags().StringVar(&flagReplayOut, "replay-out", "", "Write the encoded replay to this file")
}

func runSim(cmd *cobra.Command, args []string) error {
	vehicle := args[0]
	g, err := delivery.New(vehicle, runConfig)
	if err != nil {
		return err
	}

	rt := core.DefaultConfig()
	rt.TickDuration = runConfig.Timing.TickDuration()
	rt.Seed = flagSeed
	if rt.Seed == 0 {
		rt.Seed = time.Now().UnixNano()
	}
	g.Reset(rt)

	rec := replay.NewRecorder(vehicle, g.Seed(), runConfig)
	for i := range flagTicks {
		frame := core.NewInputFrame()
		if flagFireEvery > 0 && i%flagFireEvery == 0 {
			frame.Set(core.ActionFire)
		}
		res := g.Step(frame)
		rec.Record(frame)
		if res.State.Ended() {
			break
		}
	}

	s := g.Snapshot()
	rep := rec.Finish(s)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "vehicle:  %s\n", s.Vehicle)
	fmt.Fprintf(out, "seed:     %d\n", rep.Seed)
	fmt.Fprintf(out, "phase:    %s\n", s.Phase)
	fmt.Fprintf(out, "distance: %d / %d\n", s.Distance, s.RouteLength)
	if s.LivesEnabled {
		fmt.Fprintf(out, "lives:    %d\n", s.Lives)
	}
	fmt.Fprintf(out, "ticks:    %d\n", s.Tick)

	if flagReplayOut != "" {
		data, err := replay.Encode(rep)
		if err != nil {
			return err
		}
		if err := os.WriteFile(flagReplayOut, data, 0o644); err != nil {
			return fmt.Errorf("write replay: %w", err)
		}
		fmt.Fprintf(out, "replay:   %s\n", flagReplayOut)
	}

	if !flagSave {
		return nil
	}
	if !s.Ended() {
		fmt.Fprintln(out, "run did not finish; not saved")
		return nil
	}
	return saveRun(cmd, rep)
}

// saveRun stores rep in the journal and prints its id.
func saveRun(cmd *cobra.Command, rep replay.Replay) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	data, err := replay.Encode(rep)
	if err != nil {
		return err
	}
	id, err := store.SaveRun(storage.RunEntry{
		Vehicle:  rep.Vehicle,
		Seed:     rep.Seed,
		Phase:    rep.Outcome.Phase,
		Distance: rep.Outcome.Distance,
		Lives:    rep.Outcome.Lives,
		Ticks:    rep.Outcome.Ticks,
		Replay:   data,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "saved:    run %d\n", id)
	return nil
}

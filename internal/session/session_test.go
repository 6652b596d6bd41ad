package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/tanker-run/internal/config"
	"github.com/vovakirdan/tanker-run/internal/core"
	"github.com/vovakirdan/tanker-run/internal/games/delivery"
	"github.com/vovakirdan/tanker-run/internal/replay"
)

func newGame(t *testing.T, vehicle string, cfg config.Config) *delivery.Game {
	t.Helper()
	g, err := delivery.New(vehicle, cfg)
	if err != nil {
		t.Fatalf("delivery.New() error = %v", err)
	}
	return g
}

// quickDelivery returns a config where the truck docks on its first tick.
func quickDelivery() config.Config {
	cfg := config.Default()
	cfg.Route.GasAppearDistance = 15
	cfg.GasStation.StartX = 150
	return cfg
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestRunTicksFromClock(t *testing.T) {
	ticks := make(chan time.Time)
	run := Start(context.Background(), newGame(t, config.VehicleTanker, config.Default()), core.RuntimeConfig{Seed: 1}, Options{Ticks: ticks})
	defer run.Stop()

	if s := run.Snapshot(); s.Tick != 0 || s.Distance != 0 {
		t.Fatalf("initial snapshot Tick = %d, Distance = %d", s.Tick, s.Distance)
	}

	for i := 0; i < 3; i++ {
		ticks <- time.Now()
	}
	waitFor(t, "three ticks", func() bool { return run.Snapshot().Tick == 3 })

	if d := run.Snapshot().Distance; d != 45 {
		t.Errorf("Distance = %d, expected 45", d)
	}
}

func TestRunAppliesInputAtNextTick(t *testing.T) {
	ticks := make(chan time.Time)
	run := Start(context.Background(), newGame(t, config.VehicleTanker, config.Default()), core.RuntimeConfig{Seed: 1}, Options{Ticks: ticks})
	defer run.Stop()

	run.OnInput(core.ActionMoveUp)
	run.OnInput(core.ActionMoveUp)
	run.OnInput(core.Action(99))
	ticks <- time.Now()
	waitFor(t, "first tick", func() bool { return run.Snapshot().Tick == 1 })

	if y := run.Snapshot().Player.Y; y != 160 {
		t.Errorf("Player.Y = %v, expected 160", y)
	}
}

func TestRunSnapshotIsCopy(t *testing.T) {
	ticks := make(chan time.Time)
	run := Start(context.Background(), newGame(t, config.VehicleBike, config.Default()), core.RuntimeConfig{Seed: 1}, Options{Ticks: ticks})
	defer run.Stop()

	run.OnInput(core.ActionFire)
	ticks <- time.Now()
	waitFor(t, "first tick", func() bool { return run.Snapshot().Tick == 1 })

	s := run.Snapshot()
	x := s.Bullets[0].X
	ticks <- time.Now()
	waitFor(t, "second tick", func() bool { return run.Snapshot().Tick == 2 })

	if s.Bullets[0].X != x {
		t.Error("an earlier snapshot changed after the next tick")
	}
	if run.Snapshot().Bullets[0].X != x+15 {
		t.Errorf("bullet X = %v, expected %v", run.Snapshot().Bullets[0].X, x+15)
	}
}

func TestRunFinishAndRestart(t *testing.T) {
	ticks := make(chan time.Time)

	var mu sync.Mutex
	var finished []replay.Replay
	var events []core.EventKind

	opts := Options{
		Ticks: ticks,
		OnFinish: func(s delivery.Snapshot, rep replay.Replay) {
			mu.Lock()
			defer mu.Unlock()
			finished = append(finished, rep)
		},
		OnEvents: func(evs []core.Event) {
			mu.Lock()
			defer mu.Unlock()
			for _, e := range evs {
				events = append(events, e.Kind)
			}
		},
	}

	run := Start(context.Background(), newGame(t, config.VehicleTruck, quickDelivery()), core.RuntimeConfig{Seed: 7}, opts)
	defer run.Stop()

	ticks <- time.Now()
	waitFor(t, "delivery", func() bool { return run.Snapshot().Phase == delivery.PhaseDelivered })

	mu.Lock()
	if len(finished) != 1 {
		t.Fatalf("OnFinish called %d times, expected 1", len(finished))
	}
	rep := finished[0]
	mu.Unlock()

	if rep.Outcome.Phase != "delivered" || rep.Steps != 1 || rep.Seed != 7 {
		t.Errorf("replay = %+v, expected one delivered step with seed 7", rep)
	}
	if _, err := replay.Verify(rep); err != nil {
		t.Errorf("Verify() error = %v", err)
	}

	// The clock is stopped; ordinary input is ignored and Restart resumes.
	select {
	case ticks <- time.Now():
		t.Fatal("clock still ticking after the run ended")
	case <-time.After(20 * time.Millisecond):
	}

	run.OnInput(core.ActionFire)
	run.OnInput(core.ActionRestart)
	waitFor(t, "restart", func() bool { return run.Snapshot().Phase == delivery.PhasePlaying })

	if s := run.Snapshot(); s.Tick != 0 || len(s.Bullets) != 0 {
		t.Errorf("after restart Tick = %d, bullets = %d, expected a fresh run", s.Tick, len(s.Bullets))
	}

	ticks <- time.Now()
	waitFor(t, "second delivery", func() bool { return run.Snapshot().Phase == delivery.PhaseDelivered })

	mu.Lock()
	defer mu.Unlock()
	if len(finished) != 2 {
		t.Errorf("OnFinish called %d times, expected 2", len(finished))
	}
	if finished[1].Seed == 7 {
		t.Error("restarted run reused the first seed")
	}
	want := []core.EventKind{core.EventDelivered, core.EventRestarted, core.EventDelivered}
	if len(events) != len(want) {
		t.Fatalf("events = %v, expected %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("events[%d] = %v, expected %v", i, events[i], want[i])
		}
	}
}

func TestRunStop(t *testing.T) {
	run := Start(context.Background(), newGame(t, config.VehicleBike, config.Default()), core.RuntimeConfig{Seed: 1, TickDuration: time.Millisecond}, Options{})

	waitFor(t, "wall clock ticks", func() bool { return run.Snapshot().Tick > 2 })

	run.Stop()
	run.Stop()

	select {
	case <-run.Done():
	default:
		t.Fatal("Done() not closed after Stop()")
	}

	tick := run.Snapshot().Tick
	time.Sleep(10 * time.Millisecond)
	if run.Snapshot().Tick != tick {
		t.Error("run kept ticking after Stop()")
	}

	// Input after teardown is dropped without blocking.
	for i := 0; i < DefaultInputBuffer*2; i++ {
		run.OnInput(core.ActionFire)
	}
}

func TestRunStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	run := Start(ctx, newGame(t, config.VehicleBike, config.Default()), core.RuntimeConfig{Seed: 1}, Options{Ticks: make(chan time.Time)})

	cancel()
	select {
	case <-run.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("run did not exit after context cancel")
	}
	run.Stop()
}

// Package session runs a simulation on its own goroutine.
//
// One clock drives every tick: spawning, motion and collisions all happen
// inside Step. Intents are queued and applied at the next tick in arrival
// order. After each tick an immutable snapshot is published for readers on
// other goroutines.
package session

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tanker-run/internal/config"
	"github.com/vovakirdan/tanker-run/internal/core"
	"github.com/vovakirdan/tanker-run/internal/games/delivery"
	"github.com/vovakirdan/tanker-run/internal/replay"
)

// DefaultInputBuffer is the intent queue length used when Options leaves it zero.
const DefaultInputBuffer = 64

// Simulation is the game a Run drives. *delivery.Game implements it.
type Simulation interface {
	ID() string
	Reset(rt core.RuntimeConfig)
	Step(in core.InputFrame) core.StepResult
	Snapshot() delivery.Snapshot
	Seed() int64
	Config() config.Config
}

var _ Simulation = (*delivery.Game)(nil)

// Options configures a Run.
type Options struct {
	// Ticks replaces the wall clock; each receive is one tick. Tests and
	// headless runs inject it. Nil uses a ticker of the runtime tick duration.
	Ticks <-chan time.Time

	// InputBuffer is the intent queue length. Intents beyond it are dropped.
	InputBuffer int

	Logger *log.Logger

	// OnEvents receives the events of every tick that produced any.
	OnEvents func([]core.Event)

	// OnFinish is called once per run that reaches a terminal phase.
	OnFinish func(delivery.Snapshot, replay.Replay)
}

// Run is a live simulation. All methods are safe for concurrent use.
type Run struct {
	sim    Simulation
	opts   Options
	log    *log.Logger
	input  chan core.Action
	snap   atomic.Pointer[delivery.Snapshot]
	cancel context.CancelFunc
	done   chan struct{}
	stop   sync.Once

	// Owned by the loop goroutine.
	rec   *replay.Recorder
	ended bool
}

// Start resets sim with rt and begins ticking it.
// The run stops when ctx is cancelled or Stop is called.
func Start(ctx context.Context, sim Simulation, rt core.RuntimeConfig, opts Options) *Run {
	if opts.InputBuffer <= 0 {
		opts.InputBuffer = DefaultInputBuffer
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	ctx, cancel := context.WithCancel(ctx)
	r := &Run{
		sim:    sim,
		opts:   opts,
		log:    logger,
		input:  make(chan core.Action, opts.InputBuffer),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	sim.Reset(rt)
	r.begin()

	go r.loop(ctx, rt.TickDuration)
	return r
}

// OnInput queues an intent for the next tick.
// Invalid intents and intents that do not fit the queue are dropped.
func (r *Run) OnInput(a core.Action) {
	if !a.Valid() {
		return
	}
	select {
	case r.input <- a:
	default:
	}
}

// Snapshot returns the state published after the latest tick.
func (r *Run) Snapshot() delivery.Snapshot {
	return *r.snap.Load()
}

// Stop cancels the run and waits for its goroutine to exit.
// It is safe to call more than once.
func (r *Run) Stop() {
	r.stop.Do(r.cancel)
	<-r.done
}

// Done is closed once the run goroutine has exited.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

func (r *Run) loop(ctx context.Context, tick time.Duration) {
	defer close(r.done)

	c := newClock(r.opts.Ticks, tick)
	defer c.stop()
	c.start()

	frame := core.NewInputFrame()
	for {
		select {
		case <-ctx.Done():
			r.log.Debug("run stopped", "vehicle", r.sim.ID())
			return

		case a := <-r.input:
			r.accept(a, &frame, c)

		case <-c.C():
			r.drain(&frame, c)
			if r.ended {
				continue
			}
			r.step(frame, c)
			frame.Clear()
		}
	}
}

// drain moves every queued intent into frame so a tick sees all input that
// arrived before it.
func (r *Run) drain(frame *core.InputFrame, c *clock) {
	for {
		select {
		case a := <-r.input:
			r.accept(a, frame, c)
		default:
			return
		}
	}
}

// accept routes one intent. While ended only Restart is honored, and it
// takes effect at once since the clock is stopped.
func (r *Run) accept(a core.Action, frame *core.InputFrame, c *clock) {
	if !r.ended {
		frame.Set(a)
		return
	}
	if a != core.ActionRestart {
		return
	}

	res := r.sim.Step(core.FrameOf(core.ActionRestart))
	frame.Clear()
	r.begin()
	r.emit(res.Events)
	c.start()
}

func (r *Run) step(frame core.InputFrame, c *clock) {
	res := r.sim.Step(frame)
	r.rec.Record(frame)

	s := r.publish()
	r.emit(res.Events)

	if !res.State.Ended() {
		return
	}

	c.stop()
	r.ended = true
	rep := r.rec.Finish(s)
	r.log.Info("run finished",
		"vehicle", s.Vehicle,
		"phase", s.Phase,
		"distance", s.Distance,
		"ticks", s.Tick,
	)
	if r.opts.OnFinish != nil {
		r.opts.OnFinish(s, rep)
	}
}

// begin starts recording the run the simulation was just reset to.
func (r *Run) begin() {
	r.ended = false
	r.rec = replay.NewRecorder(r.sim.ID(), r.sim.Seed(), r.sim.Config())
	r.publish()
	r.log.Info("run started", "vehicle", r.sim.ID(), "seed", r.sim.Seed())
}

func (r *Run) publish() delivery.Snapshot {
	s := r.sim.Snapshot()
	published := s
	r.snap.Store(&published)
	return s
}

func (r *Run) emit(events []core.Event) {
	if len(events) > 0 && r.opts.OnEvents != nil {
		r.opts.OnEvents(events)
	}
}

// clock yields ticks while running. A stopped clock returns a nil channel,
// which blocks forever in a select.
type clock struct {
	injected <-chan time.Time
	ticker   *time.Ticker
	every    time.Duration
	running  bool
}

func newClock(injected <-chan time.Time, every time.Duration) *clock {
	if every <= 0 {
		every = core.DefaultConfig().TickDuration
	}
	return &clock{injected: injected, every: every}
}

func (c *clock) C() <-chan time.Time {
	switch {
	case !c.running:
		return nil
	case c.injected != nil:
		return c.injected
	default:
		return c.ticker.C
	}
}

func (c *clock) start() {
	c.running = true
	if c.injected != nil {
		return
	}
	if c.ticker == nil {
		c.ticker = time.NewTicker(c.every)
		return
	}
	c.ticker.Reset(c.every)
}

func (c *clock) stop() {
	c.running = false
	if c.ticker != nil {
		c.ticker.Stop()
	}
}

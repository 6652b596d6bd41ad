// Package replay records the intents of a run and re-simulates them.
//
// A run is reproducible from its configuration, seed and per-step intents,
// so a replay stores only those plus the outcome it produced. Replays are
// encoded with msgpack for the run journal.
package replay

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/tanker-run/internal/config"
	"github.com/vovakirdan/tanker-run/internal/core"
	"github.com/vovakirdan/tanker-run/internal/games/delivery"
)

// Version is the encoding version written by Encode.
const Version = 1

// ErrMismatch is returned by Verify when re-simulation ends differently
// from the recorded outcome.
var ErrMismatch = errors.New("replay: outcome mismatch")

// Frame holds the intents delivered at one step, in arrival order.
type Frame struct {
	Step    uint32        `msgpack:"s"`
	Actions []core.Action `msgpack:"a"`
}

// Outcome is what a run looked like when it ended.
type Outcome struct {
	Phase    string `msgpack:"phase"`
	Distance int    `msgpack:"distance"`
	Lives    int    `msgpack:"lives"`
	Ticks    uint64 `msgpack:"ticks"`
}

// OutcomeOf extracts the recorded fields from a snapshot.
func OutcomeOf(s delivery.Snapshot) Outcome {
	return Outcome{
		Phase:    s.Phase.String(),
		Distance: s.Distance,
		Lives:    s.Lives,
		Ticks:    s.Tick,
	}
}

// Replay is one run from reset to its terminal phase.
type Replay struct {
	Version int           `msgpack:"v"`
	Vehicle string        `msgpack:"vehicle"`
	Seed    int64         `msgpack:"seed"`
	Config  config.Config `msgpack:"config"`
	Steps   uint32        `msgpack:"steps"`  // Step calls made, including paused ones
	Frames  []Frame       `msgpack:"frames"` // Only steps that carried intents
	Outcome Outcome       `msgpack:"outcome"`
}

// Recorder collects frames while a run is played.
type Recorder struct {
	rep Replay
}

// NewRecorder starts recording a run.
func NewRecorder(vehicle string, seed int64, cfg config.Config) *Recorder {
	return &Recorder{rep: Replay{
		Version: Version,
		Vehicle: vehicle,
		Seed:    seed,
		Config:  cfg,
	}}
}

// Record notes the frame handed to one Step call.
func (r *Recorder) Record(in core.InputFrame) {
	r.rep.Steps++
	if in.Len() == 0 {
		return
	}
	r.rep.Frames = append(r.rep.Frames, Frame{Step: r.rep.Steps, Actions: in.Actions()})
}

// Steps returns how many steps have been recorded.
func (r *Recorder) Steps() uint32 {
	return r.rep.Steps
}

// Finish stamps the outcome and returns the replay.
func (r *Recorder) Finish(s delivery.Snapshot) Replay {
	rep := r.rep
	rep.Frames = append([]Frame(nil), r.rep.Frames...)
	rep.Outcome = OutcomeOf(s)
	return rep
}

// Encode serializes a replay.
func Encode(rep Replay) ([]byte, error) {
	data, err := msgpack.Marshal(&rep)
	if err != nil {
		return nil, fmt.Errorf("replay: encode: %w", err)
	}
	return data, nil
}

// Decode parses a replay written by Encode.
func Decode(data []byte) (Replay, error) {
	var rep Replay
	if err := msgpack.Unmarshal(data, &rep); err != nil {
		return Replay{}, fmt.Errorf("replay: decode: %w", err)
	}
	if rep.Version != Version {
		return Replay{}, fmt.Errorf("replay: unsupported version %d", rep.Version)
	}
	return rep, nil
}

// Simulate re-plays the recorded steps on a fresh game and returns the final
// snapshot.
func Simulate(rep Replay) (delivery.Snapshot, error) {
	g, err := delivery.New(rep.Vehicle, rep.Config)
	if err != nil {
		return delivery.Snapshot{}, fmt.Errorf("replay: %w", err)
	}

	rt := core.DefaultConfig()
	rt.TickDuration = rep.Config.Timing.TickDuration()
	rt.Seed = rep.Seed
	g.Reset(rt)

	next := 0
	for step := uint32(1); step <= rep.Steps; step++ {
		in := core.NewInputFrame()
		if next < len(rep.Frames) && rep.Frames[next].Step == step {
			in = core.FrameOf(rep.Frames[next].Actions...)
			next++
		}
		g.Step(in)
	}

	return g.Snapshot(), nil
}

// Verify re-simulates rep and checks that it reproduces the recorded outcome.
func Verify(rep Replay) (delivery.Snapshot, error) {
	s, err := Simulate(rep)
	if err != nil {
		return s, err
	}
	if got := OutcomeOf(s); got != rep.Outcome {
		return s, fmt.Errorf("%w: recorded %+v, simulated %+v", ErrMismatch, rep.Outcome, got)
	}
	return s, nil
}

// Package audio plays synthesized music and event cues for a run.
//
// Sound is optional: an Engine without an Output accepts every call and
// stays silent, so the game never depends on an audio device.
package audio

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/vovakirdan/tanker-run/internal/core"
)

// Output is a device that plays a streamer until it is drained.
// Lock and Unlock guard streamers the device is currently reading.
type Output interface {
	Play(s beep.Streamer)
	Lock()
	Unlock()
	Close()
}

// Engine mixes the music loop with one-shot cues.
type Engine struct {
	mu      sync.Mutex
	out     Output
	log     *log.Logger
	mixer   *beep.Mixer
	music   *effects.Volume
	fade    fader
	muted   bool
	started bool
	stop    chan struct{}
	wg      sync.WaitGroup
}

// New creates an engine on out. A nil out gives a silent engine.
func New(out Output, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{
		out:   out,
		log:   logger,
		mixer: &beep.Mixer{},
		fade:  newFader(),
	}
}

// Silent reports whether the engine has no output device.
func (e *Engine) Silent() bool {
	return e.out == nil
}

// Start begins the music loop and its fade-in. An engine stopped by Close
// can be started again.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started || e.out == nil {
		return
	}
	e.started = true
	e.fade = newFader()

	e.music = newVolume(music(), e.fade.gain)
	e.mixer.Add(e.music)
	e.out.Play(e.mixer)

	e.stop = make(chan struct{})
	e.wg.Add(1)
	go e.fadeLoop(e.stop)

	e.log.Debug("audio started")
}

func (e *Engine) fadeLoop(stop <-chan struct{}) {
	defer e.wg.Done()

	ticker := time.NewTicker(FadeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			e.fadeStep()
		}
	}
}

// fadeStep raises the music gain one notch until it is full.
func (e *Engine) fadeStep() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.fade.gain >= 1 {
		return
	}
	e.fade.next()
	e.applyGain()
}

// applyGain pushes the current gain to the music stream. Requires e.mu.
func (e *Engine) applyGain() {
	if e.music == nil {
		return
	}
	gain := e.fade.gain
	if e.muted {
		gain = 0
	}
	e.out.Lock()
	setGain(e.music, gain)
	e.out.Unlock()
}

// Gain returns the current music gain before muting.
func (e *Engine) Gain() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fade.gain
}

// ToggleMute flips muting and returns the new state.
func (e *Engine) ToggleMute() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.muted = !e.muted
	e.applyGain()
	return e.muted
}

// HandleEvents plays the cue of each event. It matches session.Options.OnEvents.
func (e *Engine) HandleEvents(events []core.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started || e.muted {
		return
	}

	for _, ev := range events {
		if ev.Kind == core.EventRestarted {
			e.restartFade()
			continue
		}
		if s := Cue(ev.Kind); s != nil {
			e.out.Lock()
			e.mixer.Add(s)
			e.out.Unlock()
		}
	}
}

// restartFade drops the music back to its quiet start; the fade loop
// ramps it up again. Requires e.mu.
func (e *Engine) restartFade() {
	e.fade = newFader()
	e.applyGain()
}

// Close stops the fade loop and releases the output.
func (e *Engine) Close() {
	e.mu.Lock()
	if !e.started {
		e.mu.Unlock()
		return
	}
	e.started = false
	close(e.stop)
	e.mu.Unlock()

	e.wg.Wait()

	e.out.Lock()
	e.mixer.Clear()
	e.out.Unlock()
	e.out.Close()
}

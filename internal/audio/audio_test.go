package audio

import (
	"math"
	"sync"
	"testing"

	"github.com/gopxl/beep"

	"github.com/vovakirdan/tanker-run/internal/core"
)

type fakeOutput struct {
	mu     sync.Mutex
	played []beep.Streamer
	closed bool
}

func (f *fakeOutput) Play(s beep.Streamer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.played = append(f.played, s)
}

func (f *fakeOutput) Lock()   {}
func (f *fakeOutput) Unlock() {}

func (f *fakeOutput) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

// drain counts the samples a finite streamer yields, up to limit.
func drain(s beep.Streamer, limit int) int {
	buf := make([][2]float64, 512)
	total := 0
	for total < limit {
		n, ok := s.Stream(buf)
		total += n
		if !ok {
			break
		}
	}
	return total
}

func TestFader(t *testing.T) {
	f := newFader()
	if f.gain != FadeStart {
		t.Fatalf("start gain = %v, expected %v", f.gain, FadeStart)
	}

	steps := 0
	for f.next() {
		steps++
		if steps > 100 {
			t.Fatal("fader never reached full volume")
		}
	}

	if f.gain != 1 {
		t.Errorf("final gain = %v, expected 1", f.gain)
	}
	// 0.2 to 1.0 in 0.02 steps, allowing for float rounding on the last one.
	if steps < 38 || steps > 40 {
		t.Errorf("fade took %d steps, expected about 40", steps)
	}
	if f.next() {
		t.Error("next() = true at full volume")
	}
}

func TestCues(t *testing.T) {
	tests := []struct {
		kind    core.EventKind
		wantDur float64 // seconds
	}{
		{core.EventFired, 0.05},
		{core.EventObstacleDestroyed, 0.12},
		{core.EventPlayerHit, 0.18},
		{core.EventDelivered, 0.48},
		{core.EventGameOver, 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			s := Cue(tt.kind)
			if s == nil {
				t.Fatal("Cue() = nil")
			}
			got := drain(s, SampleRate.N(2e9))
			want := float64(SampleRate) * tt.wantDur
			if math.Abs(float64(got)-want) > 4 {
				t.Errorf("cue length = %d samples, expected about %.0f", got, want)
			}
		})
	}

	if Cue(core.EventRestarted) != nil {
		t.Error("Cue(Restarted) != nil, expected no sound")
	}
}

func TestMusicLoops(t *testing.T) {
	s := music()
	limit := SampleRate.N(3e9)
	if got := drain(s, limit); got < limit {
		t.Errorf("music stopped after %d samples", got)
	}
}

func TestSilentEngine(t *testing.T) {
	e := New(nil, nil)
	if !e.Silent() {
		t.Fatal("Silent() = false without an output")
	}

	e.Start()
	e.HandleEvents([]core.Event{{Kind: core.EventFired}, {Kind: core.EventRestarted}})
	e.ToggleMute()
	e.Close()
}

func TestEngineWithOutput(t *testing.T) {
	out := &fakeOutput{}
	e := New(out, nil)
	e.Start()

	out.mu.Lock()
	if len(out.played) != 1 {
		t.Fatalf("Play() called %d times, expected 1", len(out.played))
	}
	out.mu.Unlock()

	if e.mixer.Len() != 1 {
		t.Fatalf("mixer has %d streams, expected the music loop", e.mixer.Len())
	}

	e.HandleEvents([]core.Event{{Kind: core.EventFired}, {Kind: core.EventPlayerHit}})
	if e.mixer.Len() != 3 {
		t.Errorf("mixer has %d streams after two cues, expected 3", e.mixer.Len())
	}

	if !e.ToggleMute() {
		t.Fatal("ToggleMute() = false, expected muted")
	}
	e.HandleEvents([]core.Event{{Kind: core.EventFired}})
	if e.mixer.Len() != 3 {
		t.Errorf("muted engine queued a cue")
	}
	e.mu.Lock()
	silent := e.music.Silent
	e.mu.Unlock()
	if !silent {
		t.Error("music not silenced while muted")
	}
	e.ToggleMute()

	e.Close()
	out.mu.Lock()
	defer out.mu.Unlock()
	if !out.closed {
		t.Error("Close() did not close the output")
	}
}

func TestEngineRestartFade(t *testing.T) {
	e := New(&fakeOutput{}, nil)
	e.Start()
	defer e.Close()

	for i := 0; i < 10; i++ {
		e.fadeStep()
	}
	if e.Gain() <= FadeStart {
		t.Fatalf("Gain() = %v after fading, expected above %v", e.Gain(), FadeStart)
	}

	e.HandleEvents([]core.Event{{Kind: core.EventRestarted}})
	if e.Gain() != FadeStart {
		t.Errorf("Gain() = %v after restart, expected %v", e.Gain(), FadeStart)
	}
}

package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/vovakirdan/tanker-run/internal/core"
)

// SampleRate is used for every synthesized stream.
const SampleRate = beep.SampleRate(44100)

// note is one tone of a cue or of the music loop.
type note struct {
	freq float64 // Hz; 0 is a rest
	dur  time.Duration
}

// tone renders a note as a finite streamer.
func tone(n note, square bool) beep.Streamer {
	samples := SampleRate.N(n.dur)
	if n.freq <= 0 {
		return beep.Silence(samples)
	}

	var (
		s   beep.Streamer
		err error
	)
	if square {
		s, err = generators.SquareTone(SampleRate, n.freq)
	} else {
		s, err = generators.SineTone(SampleRate, n.freq)
	}
	if err != nil {
		return beep.Silence(samples)
	}
	return beep.Take(samples, s)
}

func phrase(notes []note, square bool, vol float64) beep.Streamer {
	parts := make([]beep.Streamer, len(notes))
	for i, n := range notes {
		parts[i] = tone(n, square)
	}
	return newVolume(beep.Seq(parts...), vol)
}

// newVolume wraps s at a linear gain.
// math.Log2(0) is -Inf, so zero gain is expressed as silence.
func newVolume(s beep.Streamer, vol float64) *effects.Volume {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// setGain updates an existing volume effect in place.
func setGain(v *effects.Volume, vol float64) {
	if vol <= 0 {
		v.Silent = true
		return
	}
	v.Silent = false
	v.Volume = math.Log2(vol)
}

var cues = map[core.EventKind]struct {
	notes  []note
	square bool
	vol    float64
}{
	core.EventFired:             {[]note{{1320, 25 * time.Millisecond}, {990, 25 * time.Millisecond}}, true, 0.15},
	core.EventObstacleDestroyed: {[]note{{220, 40 * time.Millisecond}, {110, 80 * time.Millisecond}}, true, 0.3},
	core.EventPlayerHit:         {[]note{{90, 180 * time.Millisecond}}, true, 0.4},
	core.EventDelivered:         {[]note{{523.25, 120 * time.Millisecond}, {659.25, 120 * time.Millisecond}, {783.99, 240 * time.Millisecond}}, false, 0.5},
	core.EventGameOver:          {[]note{{392, 200 * time.Millisecond}, {311.13, 200 * time.Millisecond}, {196, 400 * time.Millisecond}}, false, 0.5},
}

// Cue returns the sound for an event kind, or nil if the kind is silent.
func Cue(kind core.EventKind) beep.Streamer {
	c, ok := cues[kind]
	if !ok {
		return nil
	}
	return phrase(c.notes, c.square, c.vol)
}

// engineLine is the looping bass line under a run.
var engineLine = []note{
	{55, 180 * time.Millisecond}, {0, 60 * time.Millisecond},
	{55, 120 * time.Millisecond}, {82.41, 120 * time.Millisecond},
	{73.42, 180 * time.Millisecond}, {0, 60 * time.Millisecond},
	{65.41, 240 * time.Millisecond},
}

// music plays engineLine forever.
func music() beep.Streamer {
	i := 0
	return beep.Iterate(func() beep.Streamer {
		n := engineLine[i%len(engineLine)]
		i++
		return tone(n, false)
	})
}

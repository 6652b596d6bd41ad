package audio

import "time"

// Music fade-in: start quiet and rise by a fixed step until full volume.
const (
	FadeStart    = 0.2
	FadeStep     = 0.02
	FadeInterval = 50 * time.Millisecond
)

// fader ramps a gain toward 1.
type fader struct {
	gain float64
}

func newFader() fader {
	return fader{gain: FadeStart}
}

// next advances one step and reports whether the ramp is still rising.
func (f *fader) next() bool {
	if f.gain >= 1 {
		f.gain = 1
		return false
	}
	f.gain = min(f.gain+FadeStep, 1)
	return f.gain < 1
}

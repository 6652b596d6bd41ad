// Package speakerout connects the audio engine to the system sound device
// through the beep speaker.
package speakerout

import (
	"fmt"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Speaker is the process-wide beep speaker. Only one may be open.
type Speaker struct{}

// Open initializes the speaker. A machine without a sound device returns
// an error; callers fall back to a silent engine.
func Open(rate beep.SampleRate, buffer time.Duration) (*Speaker, error) {
	if err := speaker.Init(rate, rate.N(buffer)); err != nil {
		return nil, fmt.Errorf("speakerout: init: %w", err)
	}
	return &Speaker{}, nil
}

// Play starts streaming s.
func (*Speaker) Play(s beep.Streamer) {
	speaker.Play(s)
}

// Lock pauses the speaker's reads so streamers can be changed safely.
func (*Speaker) Lock() {
	speaker.Lock()
}

// Unlock resumes the speaker.
func (*Speaker) Unlock() {
	speaker.Unlock()
}

// Close stops everything that is playing.
func (*Speaker) Close() {
	speaker.Clear()
}

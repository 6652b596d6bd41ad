// Package tui provides the Bubble Tea front end for tanker-run.
// It maps keys to intents, draws published snapshots and runs the
// start, vehicle select and replay screens, locally or over SSH.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FrameInterval is how often the view redraws. The simulation runs on its
// own clock inside session.Run; frames only read snapshots.
const FrameInterval = time.Second / 30

// FrameMsg triggers a redraw of the game view that scheduled it.
type FrameMsg struct {
	view uint64
	At   time.Time
}

var lastView atomic.Uint64

// nextView returns an id that tells one game view's frames from another's.
func nextView() uint64 {
	return lastView.Add(1)
}

// frameCmd returns a Bubble Tea command that sends the next frame message.
func frameCmd(view uint64) tea.Cmd {
	return tea.Tick(FrameInterval, func(t time.Time) tea.Msg {
		return FrameMsg{view: view, At: t}
	})
}

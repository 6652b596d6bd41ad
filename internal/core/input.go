package core

// Action is a discrete intent produced by an input adapter.
// Games consume actions rather than raw key presses or touch zones.
type Action int

const (
	ActionNone       Action = iota
	ActionMoveUp            // Up / W - steer toward the top of the road
	ActionMoveDown          // Down / S - steer toward the bottom of the road
	ActionAccelerate        // + - raise road speed
	ActionDecelerate        // - - lower road speed
	ActionMoveLeft          // Left / A - slow down (bike) or shift back (tanker, truck)
	ActionMoveRight         // Right / D - speed up (bike) or shift forward (tanker, truck)
	ActionFire              // Space / F - shoot
	ActionPause             // P - pause/unpause
	ActionRestart           // R - play again after the run ended
	ActionBack              // B, Escape - back to menu
	ActionQuit              // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionMoveUp:
		return "MoveUp"
	case ActionMoveDown:
		return "MoveDown"
	case ActionAccelerate:
		return "Accelerate"
	case ActionDecelerate:
		return "Decelerate"
	case ActionMoveLeft:
		return "MoveLeft"
	case ActionMoveRight:
		return "MoveRight"
	case ActionFire:
		return "Fire"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Valid reports whether a is one of the declared actions other than ActionNone.
func (a Action) Valid() bool {
	return a > ActionNone && a <= ActionQuit
}

// InputFrame collects the actions triggered during one simulation tick.
// Actions keep their arrival order; pressing Up twice moves twice.
type InputFrame struct {
	actions []Action
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{actions: make([]Action, 0, 4)}
}

// FrameOf builds a frame from a list of actions, mostly for tests and replays.
func FrameOf(actions ...Action) InputFrame {
	f := NewInputFrame()
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

// Set records an action for this frame. Invalid actions are dropped.
func (f *InputFrame) Set(a Action) {
	if !a.Valid() {
		return
	}
	f.actions = append(f.actions, a)
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	for _, got := range f.actions {
		if got == a {
			return true
		}
	}
	return false
}

// Actions returns the frame's actions in arrival order.
// The returned slice is a copy.
func (f InputFrame) Actions() []Action {
	out := make([]Action, len(f.actions))
	copy(out, f.actions)
	return out
}

// Len returns the number of actions in the frame.
func (f InputFrame) Len() int {
	return len(f.actions)
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	f.actions = f.actions[:0]
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	return InputFrame{actions: f.Actions()}
}

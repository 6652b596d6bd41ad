package core

import "time"

// RuntimeConfig contains configuration passed to games at initialization.
type RuntimeConfig struct {
	ScreenW      int           // Screen width in characters
	ScreenH      int           // Screen height in characters
	TickDuration time.Duration // Wall-clock length of one simulation tick
	Seed         int64         // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:      80,
		ScreenH:      24,
		TickDuration: 30 * time.Millisecond,
		Seed:         0, // 0 means use current time in platform layer
	}
}

// GameState summarizes the run for the platform layer.
// GameOver and Won are never both true.
type GameState struct {
	Score    int  // Distance traveled
	GameOver bool // Run lost
	Won      bool // Delivery made
	Paused   bool
}

// Ended reports whether the run reached a terminal state.
func (s GameState) Ended() bool {
	return s.GameOver || s.Won
}

// EventKind identifies something notable that happened during a tick.
type EventKind int

const (
	EventFired EventKind = iota + 1
	EventObstacleDestroyed
	EventPlayerHit
	EventDelivered
	EventGameOver
	EventRestarted
)

// String returns the event name used in logs.
func (k EventKind) String() string {
	switch k {
	case EventFired:
		return "fired"
	case EventObstacleDestroyed:
		return "obstacle_destroyed"
	case EventPlayerHit:
		return "player_hit"
	case EventDelivered:
		return "delivered"
	case EventGameOver:
		return "game_over"
	case EventRestarted:
		return "restarted"
	default:
		return "unknown"
	}
}

// Event is a single occurrence reported by Step.
type Event struct {
	Kind EventKind
	Tick uint64
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State  GameState
	Events []Event
}

// Has reports whether an event of the given kind occurred.
func (r StepResult) Has(kind EventKind) bool {
	for _, e := range r.Events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

package delivery

import (
	"sync/atomic"

	"github.com/vovakirdan/tanker-run/internal/core"
)

// EntityID identifies an obstacle or bullet for rendering keys and removal.
// Movement and collision never depend on it.
type EntityID uint64

var lastID atomic.Uint64

func nextID() EntityID {
	return EntityID(lastID.Add(1))
}

// Player is the vehicle the user drives.
type Player struct {
	X, Y  float64
	W, H  float64
	Speed int // Road speed, world units per tick
	Lives int
}

// Box returns the player's collision box.
func (p Player) Box() core.Box {
	return core.NewBox(p.X, p.Y, p.W, p.H)
}

// Obstacle is a road hazard scrolling toward the player.
type Obstacle struct {
	ID    EntityID
	X, Y  float64
	W, H  float64
	Speed float64 // Own forward speed; closes on the player at (player speed - Speed)
	Kind  string
}

// Box returns the obstacle's collision box.
func (o Obstacle) Box() core.Box {
	return core.NewBox(o.X, o.Y, o.W, o.H)
}

// Bullet is a projectile fired forward by the player.
type Bullet struct {
	ID   EntityID
	X, Y float64
	W, H float64
}

// Box returns the bullet's collision box.
func (b Bullet) Box() core.Box {
	return core.NewBox(b.X, b.Y, b.W, b.H)
}

// GasStation is the delivery target. It stays hidden until the route's
// appear distance is reached.
type GasStation struct {
	X, Y    float64
	W, H    float64
	Visible bool
}

// Box returns the station's collision box.
func (s GasStation) Box() core.Box {
	return core.NewBox(s.X, s.Y, s.W, s.H)
}

// Phase is the run's position in the state machine.
type Phase int

const (
	PhasePlaying Phase = iota
	PhaseGameOver
	PhaseDelivered
)

// String returns the phase name used in logs and the replay journal.
func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhaseGameOver:
		return "game_over"
	case PhaseDelivered:
		return "delivered"
	default:
		return "unknown"
	}
}

// Terminal reports whether the run has ended.
func (p Phase) Terminal() bool {
	return p == PhaseGameOver || p == PhaseDelivered
}

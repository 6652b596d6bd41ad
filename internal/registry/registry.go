// Package registry holds the vehicles a player can pick from.
// Each entry is a factory for a simulation; the platform looks vehicles up
// by ID without knowing how they are built.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tanker-run/internal/core"
)

// ErrUnknown is returned by Create for an ID nobody registered.
var ErrUnknown = errors.New("registry: unknown vehicle")

// Game is what the platform drives each tick.
// Implementations hold pure simulation logic and never touch the terminal.
type Game interface {
	// ID returns the vehicle identifier used on the command line ("tanker").
	ID() string

	// Title returns the display name ("Tanker").
	Title() string

	// Reset empties the world and starts a fresh run.
	// The RuntimeConfig carries screen size and the RNG seed.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one fixed tick using the intents
	// gathered since the previous tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current state into dst.
	Render(dst *core.Screen)

	// State returns the coarse run state (score, ended, paused).
	State() core.GameState
}

// Info describes a registered vehicle.
type Info struct {
	ID    string
	Title string
}

// Factory creates a new, not yet reset, game.
type Factory func() Game

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
)

// Register adds a factory under id.
// Panics if id is already taken.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: vehicle %q already registered", id))
	}

	factories[id] = f
	titles[id] = f().Title()
}

// List returns every registered vehicle sorted by ID.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(factories))
	for id := range factories {
		result = append(result, Info{ID: id, Title: titles[id]})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create builds a new game for id.
func Create(id string) (Game, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknown, id)
	}
	return f(), nil
}

// Exists reports whether id is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}

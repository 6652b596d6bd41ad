// Package delivery implements the side-scrolling delivery run: the player
// drives a bike, tanker or truck down a scrolling road, shoots or dodges
// obstacles, and wins by docking with the gas station at the end of the route.
//
// One Game type serves every vehicle; a config.VehicleConfig selects sprite
// size, steering, lives and gas station behavior.
package delivery

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/tanker-run/internal/config"
	"github.com/vovakirdan/tanker-run/internal/core"
	"github.com/vovakirdan/tanker-run/internal/registry"
)

// Game is the authoritative simulation state for one run.
// It is not safe for concurrent use; session.Run owns it on a single goroutine.
type Game struct {
	id      string
	cfg     config.Config
	vehicle config.VehicleConfig
	runtime core.RuntimeConfig
	rng     *rand.Rand
	spawner *Spawner

	player Player
	world  world
	phase  Phase
	paused bool
	tick   uint64 // Ticks simulated since reset
}

// New creates a game for the vehicle id described in cfg.
// The game must be Reset before the first Step.
func New(id string, cfg config.Config) (*Game, error) {
	v, err := cfg.Vehicle(id)
	if err != nil {
		return nil, err
	}
	g := &Game{id: id, cfg: cfg, vehicle: v}
	g.Reset(core.DefaultConfig())
	return g, nil
}

// RegisterVehicles adds a registry entry for every vehicle in cfg that is
// not registered yet.
func RegisterVehicles(cfg config.Config) {
	for _, id := range cfg.VehicleIDs() {
		if registry.Exists(id) {
			continue
		}
		registry.Register(id, func() registry.Game {
			g, err := New(id, cfg)
			if err != nil {
				panic(fmt.Sprintf("delivery: vehicle %q vanished from config: %v", id, err))
			}
			return g
		})
	}
}

// ID returns the vehicle identifier.
func (g *Game) ID() string {
	return g.id
}

// Title returns the vehicle display name.
func (g *Game) Title() string {
	return g.vehicle.Title
}

// Config returns the configuration the game was built with.
func (g *Game) Config() config.Config {
	return g.cfg
}

// Seed returns the RNG seed of the current run.
func (g *Game) Seed() int64 {
	return g.runtime.Seed
}

// Phase returns where the run is in its state machine.
func (g *Game) Phase() Phase {
	return g.phase
}

// Reset empties every collection and restores all state to its initial
// constants. The spawner is reseeded from runtime.Seed.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.rng = rand.New(rand.NewSource(runtime.Seed))
	g.spawner = NewSpawner(g.rng, g.cfg, g.vehicle)

	p := g.cfg.Player
	g.player = Player{
		X:     p.StartX,
		Y:     p.StartY,
		W:     g.vehicle.Width,
		H:     g.vehicle.Height,
		Speed: p.StartSpeed,
	}
	if g.vehicle.Lives {
		g.player.Lives = p.Lives
	}

	gas := g.cfg.GasStation
	g.world = world{
		obstacles: []Obstacle{},
		bullets:   []Bullet{},
		station: GasStation{
			X: gas.StartX,
			Y: gas.StartY,
			W: gas.Width,
			H: gas.Height,
		},
	}

	g.phase = PhasePlaying
	g.paused = false
	g.tick = 0
}

// Step advances the run by one tick.
//
// In a terminal phase only Restart is honored. While playing, Pause toggles
// first; otherwise intents are applied in arrival order, then the spawner,
// the motion step and the collision pass run in that order.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.phase.Terminal() {
		if in.Has(core.ActionRestart) {
			g.restart()
			return core.StepResult{
				State:  g.State(),
				Events: []core.Event{{Kind: core.EventRestarted}},
			}
		}
		return core.StepResult{State: g.State()}
	}

	for _, a := range in.Actions() {
		if a == core.ActionPause {
			g.paused = !g.paused
		}
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.tick++
	var events []core.Event

	for _, a := range in.Actions() {
		if g.applyIntent(a) && a == core.ActionFire {
			events = append(events, core.Event{Kind: core.EventFired, Tick: g.tick})
		}
	}

	if o, ok := g.spawner.Tick(g.tick, g.phase); ok {
		g.world.obstacles = append(g.world.obstacles, o)
	}

	next := advance(g.world, g.player.Speed, g.cfg, g.vehicle.GasMode, g.rng)
	c := g.resolve(&next)
	g.world = next

	for range c.destroyed {
		events = append(events, core.Event{Kind: core.EventObstacleDestroyed, Tick: g.tick})
	}
	for range c.playerHits {
		events = append(events, core.Event{Kind: core.EventPlayerHit, Tick: g.tick})
	}
	switch g.phase {
	case PhaseGameOver:
		events = append(events, core.Event{Kind: core.EventGameOver, Tick: g.tick})
	case PhaseDelivered:
		events = append(events, core.Event{Kind: core.EventDelivered, Tick: g.tick})
	}

	return core.StepResult{State: g.State(), Events: events}
}

// Apply handles a single intent outside the tick loop.
// It reports whether the intent changed anything.
func (g *Game) Apply(a core.Action) bool {
	switch {
	case a == core.ActionRestart:
		if !g.phase.Terminal() {
			return false
		}
		g.restart()
		return true
	case g.phase.Terminal():
		return false
	case a == core.ActionPause:
		g.paused = !g.paused
		return true
	case g.paused:
		return false
	default:
		return g.applyIntent(a)
	}
}

// restart begins a new run with a seed drawn from the current one, so a
// session of several runs stays reproducible from its first seed.
func (g *Game) restart() {
	rt := g.runtime
	rt.Seed = g.rng.Int63()
	g.Reset(rt)
}

// applyIntent mutates the player for one movement or fire intent.
// Unknown actions are ignored.
func (g *Game) applyIntent(a core.Action) bool {
	p := g.cfg.Player

	switch a {
	case core.ActionMoveUp:
		g.player.Y = core.ClampF(g.player.Y-p.StepY, p.MinY, p.MaxY)
	case core.ActionMoveDown:
		g.player.Y = core.ClampF(g.player.Y+p.StepY, p.MinY, p.MaxY)
	case core.ActionAccelerate:
		g.changeSpeed(1)
	case core.ActionDecelerate:
		g.changeSpeed(-1)
	case core.ActionMoveLeft:
		g.steer(-1)
	case core.ActionMoveRight:
		g.steer(1)
	case core.ActionFire:
		g.fire()
	default:
		return false
	}
	return true
}

func (g *Game) changeSpeed(delta int) {
	p := g.cfg.Player
	g.player.Speed = core.Clamp(g.player.Speed+delta, p.MinSpeed, p.MaxSpeed)
}

// steer handles left/right. Speed-steered vehicles change road speed;
// position-steered ones shift along the road.
func (g *Game) steer(dir int) {
	if g.vehicle.Steering == config.SteeringSpeed {
		g.changeSpeed(dir)
		return
	}
	maxX := max(g.cfg.World.Width-g.player.W, 0)
	g.player.X = core.ClampF(g.player.X+float64(dir)*g.cfg.Player.StepX, 0, maxX)
}

func (g *Game) fire() {
	bc := g.cfg.Bullet
	g.world.bullets = append(g.world.bullets, Bullet{
		ID: nextID(),
		X:  g.player.X + g.vehicle.Muzzle.X,
		Y:  g.player.Y + g.vehicle.Muzzle.Y,
		W:  bc.Width,
		H:  bc.Height,
	})
}

// State returns the coarse run state for the platform.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.world.distance,
		GameOver: g.phase == PhaseGameOver,
		Won:      g.phase == PhaseDelivered,
		Paused:   g.paused,
	}
}

// Tick returns the number of ticks simulated since reset.
func (g *Game) Tick() uint64 {
	return g.tick
}

// Render draws the current state into dst.
func (g *Game) Render(dst *core.Screen) {
	Draw(dst, g.Snapshot())
}

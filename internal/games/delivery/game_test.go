package delivery

import (
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"github.com/vovakirdan/tanker-run/internal/config"
	"github.com/vovakirdan/tanker-run/internal/core"
	"github.com/vovakirdan/tanker-run/internal/registry"
)

func step(g *Game, actions ...core.Action) core.StepResult {
	return g.Step(core.FrameOf(actions...))
}

func TestNewUnknownVehicle(t *testing.T) {
	if _, err := New("hovercraft", config.Default()); err == nil {
		t.Error("New() error = nil, expected unknown vehicle error")
	}
}

func TestResetState(t *testing.T) {
	g := newTestGame(t, config.VehicleTanker)
	s := g.Snapshot()

	if s.Phase != PhasePlaying || s.Paused {
		t.Errorf("Phase = %v, Paused = %v, expected playing and unpaused", s.Phase, s.Paused)
	}
	if s.Player.X != 100 || s.Player.Y != 200 || s.Player.W != 200 || s.Player.H != 150 {
		t.Errorf("Player = %+v, expected 200x150 at (100, 200)", s.Player)
	}
	if s.Speed != 15 || s.Lives != 3 || s.Distance != 0 {
		t.Errorf("Speed = %d, Lives = %d, Distance = %d, expected 15, 3, 0", s.Speed, s.Lives, s.Distance)
	}
	if s.GasStation != nil {
		t.Errorf("GasStation = %+v, expected hidden", s.GasStation)
	}
}

func TestThreeHitsEndTheRun(t *testing.T) {
	g := newTestGame(t, config.VehicleTanker)
	g.player.Speed = 0

	for hit := 1; hit <= 3; hit++ {
		p := g.player
		g.world.obstacles = append(g.world.obstacles, Obstacle{ID: nextID(), X: p.X + 10, Y: p.Y + 10, W: 80, H: 60})

		res := step(g)
		if !res.Has(core.EventPlayerHit) {
			t.Fatalf("hit %d: no PlayerHit event", hit)
		}
		if g.player.Lives != 3-hit {
			t.Errorf("hit %d: Lives = %d, expected %d", hit, g.player.Lives, 3-hit)
		}

		// A clear tick in between.
		if hit < 3 {
			step(g)
		}
	}

	if !g.State().GameOver {
		t.Fatal("GameOver = false after three hits")
	}
	if g.player.Lives != 0 {
		t.Errorf("Lives = %d, expected 0", g.player.Lives)
	}
}

func TestDeliveryOnFirstAppearance(t *testing.T) {
	g := newTestGame(t, config.VehicleTanker)
	g.world.distance = 10000 - g.player.Speed
	g.player.X = 600

	if g.Snapshot().GasStation != nil {
		t.Fatal("station visible before the appear distance")
	}

	res := step(g)

	if g.world.distance != 10000 {
		t.Fatalf("distance = %d, expected 10000", g.world.distance)
	}
	if !res.Has(core.EventDelivered) || !res.State.Won {
		t.Errorf("Won = %v, expected delivery on the station's first tick", res.State.Won)
	}
	if res.State.GameOver {
		t.Error("GameOver and Won both set")
	}
}

func TestBulletReachesObstacle(t *testing.T) {
	g := newTestGame(t, config.VehicleBike)
	g.player.Speed = 5
	p := g.player

	// Obstacle spans x=150..200 and holds still relative to the player.
	g.world.obstacles = []Obstacle{{ID: nextID(), X: 150, Y: p.Y, W: 50, H: 30, Speed: 5}}

	res := step(g, core.ActionFire)

	if !res.Has(core.EventFired) {
		t.Fatal("no Fired event")
	}
	if !res.Has(core.EventObstacleDestroyed) {
		t.Error("obstacle survived the tick the bullet was fired in")
	}
	if len(g.world.obstacles) != 0 {
		t.Errorf("len(obstacles) = %d, expected 0", len(g.world.obstacles))
	}
	if g.player.Lives != 3 {
		t.Errorf("Lives = %d, expected 3", g.player.Lives)
	}
}

func TestBulletDoesNotTunnel(t *testing.T) {
	g := newTestGame(t, config.VehicleBike)
	g.player.Speed = 20
	p := g.player

	// Closing at 33 units per tick, wider than the 18 unit overlap window.
	g.world.obstacles = []Obstacle{{ID: nextID(), X: 420, Y: p.Y, W: 10, H: 30, Speed: 2}}
	step(g, core.ActionFire)

	for tick := 0; tick < 20; tick++ {
		if len(g.world.obstacles) == 0 {
			return
		}
		o := g.world.obstacles[0]
		for _, b := range g.world.bullets {
			if b.X > o.Box().Right() {
				t.Fatalf("bullet at %v passed obstacle ending at %v", b.X, o.Box().Right())
			}
		}
		step(g)
	}
	t.Fatal("obstacle never destroyed")
}

func TestRestartAfterGameOver(t *testing.T) {
	g := newTestGame(t, config.VehicleTanker)
	for i := 0; i < 10; i++ {
		step(g, core.ActionFire)
	}
	g.world.station.Visible = true
	g.world.station.X = 300
	g.player.Lives = 1
	p := g.player
	g.world.obstacles = append(g.world.obstacles, Obstacle{ID: nextID(), X: p.X + 10, Y: p.Y + 10, W: 80, H: 60, Speed: 15})
	step(g)

	if !g.State().GameOver {
		t.Fatal("expected game over before restart")
	}

	res := step(g, core.ActionRestart)

	if !res.Has(core.EventRestarted) {
		t.Error("no Restarted event")
	}
	s := g.Snapshot()
	if s.Phase != PhasePlaying {
		t.Errorf("Phase = %v, expected playing", s.Phase)
	}
	if s.Distance != 0 || s.Lives != 3 || s.Tick != 0 {
		t.Errorf("Distance = %d, Lives = %d, Tick = %d, expected 0, 3, 0", s.Distance, s.Lives, s.Tick)
	}
	if len(s.Obstacles) != 0 || len(s.Bullets) != 0 {
		t.Errorf("obstacles = %d, bullets = %d, expected empty", len(s.Obstacles), len(s.Bullets))
	}
	if g.world.station != (GasStation{X: 800, Y: 200, W: 80, H: 100}) {
		t.Errorf("station = %+v, expected hidden at (800, 200)", g.world.station)
	}
}

func TestTerminalIsIdempotent(t *testing.T) {
	g := newTestGame(t, config.VehicleTanker)
	g.player.Lives = 1
	p := g.player
	g.world.obstacles = append(g.world.obstacles, Obstacle{ID: nextID(), X: p.X + 10, Y: p.Y + 10, W: 80, H: 60, Speed: 15})
	g.world.bullets = append(g.world.bullets, Bullet{ID: nextID(), X: 700, Y: 10, W: 8, H: 4})
	step(g)

	before := g.Snapshot()
	for i := 0; i < 200; i++ {
		res := step(g, core.ActionFire, core.ActionMoveUp, core.ActionAccelerate, core.ActionPause)
		if len(res.Events) != 0 {
			t.Fatalf("tick %d after game over produced events %v", i, res.Events)
		}
	}
	if after := g.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Errorf("state changed after game over:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestRestartIgnoredWhilePlaying(t *testing.T) {
	g := newTestGame(t, config.VehicleBike)
	step(g)
	step(g, core.ActionRestart)

	if g.Tick() != 2 || g.world.distance != 30 {
		t.Errorf("Tick = %d, distance = %d, expected 2, 30", g.Tick(), g.world.distance)
	}
	if g.Apply(core.ActionRestart) {
		t.Error("Apply(Restart) = true while playing")
	}
}

func TestPause(t *testing.T) {
	g := newTestGame(t, config.VehicleBike)

	res := step(g, core.ActionPause)
	if !res.State.Paused {
		t.Fatal("Paused = false after Pause")
	}

	y := g.player.Y
	step(g, core.ActionMoveUp)
	step(g)
	if g.Tick() != 0 || g.player.Y != y {
		t.Errorf("Tick = %d, Y = %v while paused, expected 0, %v", g.Tick(), g.player.Y, y)
	}

	step(g, core.ActionPause)
	if g.State().Paused || g.Tick() != 1 {
		t.Errorf("Paused = %v, Tick = %d after resume, expected false, 1", g.State().Paused, g.Tick())
	}
}

func TestIntents(t *testing.T) {
	tests := []struct {
		name    string
		vehicle string
		setup   func(g *Game)
		actions []core.Action
		check   func(t *testing.T, g *Game)
	}{
		{
			name:    "move up clamps at top",
			vehicle: config.VehicleBike,
			setup:   func(g *Game) { g.player.Y = 10 },
			actions: []core.Action{core.ActionMoveUp, core.ActionMoveUp},
			check: func(t *testing.T, g *Game) {
				if g.player.Y != 0 {
					t.Errorf("Y = %v, expected 0", g.player.Y)
				}
			},
		},
		{
			name:    "move down clamps at bottom",
			vehicle: config.VehicleBike,
			setup:   func(g *Game) { g.player.Y = 370 },
			actions: []core.Action{core.ActionMoveDown},
			check: func(t *testing.T, g *Game) {
				if g.player.Y != 380 {
					t.Errorf("Y = %v, expected 380", g.player.Y)
				}
			},
		},
		{
			name:    "accelerate clamps at max",
			vehicle: config.VehicleTanker,
			setup:   func(g *Game) { g.player.Speed = 19 },
			actions: []core.Action{core.ActionAccelerate, core.ActionAccelerate},
			check: func(t *testing.T, g *Game) {
				if g.player.Speed != 20 {
					t.Errorf("Speed = %d, expected 20", g.player.Speed)
				}
			},
		},
		{
			name:    "decelerate clamps at zero",
			vehicle: config.VehicleTanker,
			setup:   func(g *Game) { g.player.Speed = 1 },
			actions: []core.Action{core.ActionDecelerate, core.ActionDecelerate},
			check: func(t *testing.T, g *Game) {
				if g.player.Speed != 0 {
					t.Errorf("Speed = %d, expected 0", g.player.Speed)
				}
			},
		},
		{
			name:    "bike steers with speed",
			vehicle: config.VehicleBike,
			setup:   func(g *Game) {},
			actions: []core.Action{core.ActionMoveLeft, core.ActionMoveLeft, core.ActionMoveRight},
			check: func(t *testing.T, g *Game) {
				if g.player.Speed != 14 || g.player.X != 100 {
					t.Errorf("Speed = %d, X = %v, expected 14, 100", g.player.Speed, g.player.X)
				}
			},
		},
		{
			name:    "tanker steers with position",
			vehicle: config.VehicleTanker,
			setup:   func(g *Game) {},
			actions: []core.Action{core.ActionMoveLeft, core.ActionMoveLeft, core.ActionMoveRight},
			check: func(t *testing.T, g *Game) {
				if g.player.Speed != 15 || g.player.X != 80 {
					t.Errorf("Speed = %d, X = %v, expected 15, 80", g.player.Speed, g.player.X)
				}
			},
		},
		{
			name:    "truck stays on the road",
			vehicle: config.VehicleTruck,
			setup:   func(g *Game) { g.player.X = 490 },
			actions: []core.Action{core.ActionMoveRight, core.ActionMoveRight},
			check: func(t *testing.T, g *Game) {
				if g.player.X != 500 {
					t.Errorf("X = %v, expected 500", g.player.X)
				}
			},
		},
		{
			name:    "unknown actions are ignored",
			vehicle: config.VehicleBike,
			setup:   func(g *Game) {},
			actions: []core.Action{core.Action(99), core.ActionBack, core.ActionQuit},
			check: func(t *testing.T, g *Game) {
				if g.player.Speed != 15 || g.player.Y != 200 {
					t.Errorf("Speed = %d, Y = %v, expected untouched", g.player.Speed, g.player.Y)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, tt.vehicle)
			tt.setup(g)
			for _, a := range tt.actions {
				g.Apply(a)
			}
			tt.check(t, g)
		})
	}
}

func TestFireSpawnsAtMuzzle(t *testing.T) {
	g := newTestGame(t, config.VehicleTanker)

	res := step(g, core.ActionFire, core.ActionFire)

	count := 0
	for _, e := range res.Events {
		if e.Kind == core.EventFired {
			count++
		}
	}
	if count != 2 {
		t.Errorf("Fired events = %d, expected 2", count)
	}
	if len(g.world.bullets) != 2 {
		t.Fatalf("len(bullets) = %d, expected 2", len(g.world.bullets))
	}
	b := g.world.bullets[0]
	if b.X != 100+200+15 || b.Y != 200+70 {
		t.Errorf("bullet at (%v, %v), expected (315, 270)", b.X, b.Y)
	}
}

func TestRunInvariants(t *testing.T) {
	actions := []core.Action{
		core.ActionMoveUp, core.ActionMoveDown, core.ActionAccelerate, core.ActionDecelerate,
		core.ActionMoveLeft, core.ActionMoveRight, core.ActionFire, core.ActionNone,
	}

	for _, vehicle := range []string{config.VehicleBike, config.VehicleTanker, config.VehicleTruck} {
		t.Run(vehicle, func(t *testing.T) {
			g := newTestGame(t, vehicle)
			g.Reset(core.RuntimeConfig{Seed: 99})
			rng := rand.New(rand.NewSource(3))

			sum := 0
			lives := g.player.Lives
			for i := 0; i < 3000 && !g.phase.Terminal(); i++ {
				before := g.world.distance
				res := step(g, actions[rng.Intn(len(actions))])

				sum += g.player.Speed
				if g.world.distance < before {
					t.Fatalf("tick %d: distance went from %d to %d", i, before, g.world.distance)
				}
				if g.world.distance != sum {
					t.Fatalf("tick %d: distance = %d, expected sum of speeds %d", i, g.world.distance, sum)
				}
				if res.State.GameOver && res.State.Won {
					t.Fatalf("tick %d: GameOver and Won both set", i)
				}
				if g.player.Lives > lives || g.player.Lives < 0 {
					t.Fatalf("tick %d: Lives = %d after %d", i, g.player.Lives, lives)
				}
				lives = g.player.Lives
				if g.world.backgroundX > 0 || g.world.backgroundX <= -800 {
					t.Fatalf("tick %d: backgroundX = %d out of (-800, 0]", i, g.world.backgroundX)
				}
			}
		})
	}
}

func TestSameSeedSameRun(t *testing.T) {
	run := func() Snapshot {
		g := newTestGame(t, config.VehicleTanker)
		g.Reset(core.RuntimeConfig{Seed: 1234})
		for i := 0; i < 500; i++ {
			step(g)
		}
		s := g.Snapshot()
		for i := range s.Obstacles {
			s.Obstacles[i].ID = 0
		}
		return s
	}

	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Error("two runs with the same seed and intents diverged")
	}
}

func TestSnapshotIsolation(t *testing.T) {
	g := newTestGame(t, config.VehicleBike)
	step(g, core.ActionFire)

	s := g.Snapshot()
	s.Bullets[0].X = -1000
	s.Bullets = append(s.Bullets, Bullet{ID: 1})
	s.Player.Y = -50

	if g.world.bullets[0].X == -1000 || len(g.world.bullets) != 1 {
		t.Error("mutating a snapshot changed the game's bullets")
	}
	if g.player.Y == -50 {
		t.Error("mutating a snapshot changed the player")
	}

	old := g.Snapshot()
	x := old.Bullets[0].X
	step(g)
	if old.Bullets[0].X != x {
		t.Error("stepping the game changed an earlier snapshot")
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		vehicle string
		setup   func(g *Game)
		want    []string
		reject  []string
	}{
		{"hud with lives", config.VehicleTanker, func(g *Game) {}, []string{"Speed: 15", "Distance: 0 / 15000", "Lives: 3"}, []string{"GAME OVER"}},
		{"hud without lives", config.VehicleTruck, func(g *Game) {}, []string{"Speed: 15"}, []string{"Lives:"}},
		{"game over", config.VehicleBike, func(g *Game) { g.phase = PhaseGameOver }, []string{"GAME OVER"}, nil},
		{"delivered", config.VehicleBike, func(g *Game) { g.phase = PhaseDelivered }, []string{"DELIVERY MADE!"}, []string{"GAME OVER"}},
		{"paused", config.VehicleBike, func(g *Game) { g.paused = true }, []string{"PAUSED"}, nil},
		{"gas station", config.VehicleBike, func(g *Game) { g.world.station = GasStation{X: 400, Y: 200, W: 80, H: 100, Visible: true} }, []string{"GAS"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, tt.vehicle)
			tt.setup(g)

			screen := core.NewScreen(100, 30)
			g.Render(screen)
			out := screen.String()

			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("render missing %q:\n%s", w, out)
				}
			}
			for _, r := range tt.reject {
				if strings.Contains(out, r) {
					t.Errorf("render unexpectedly contains %q", r)
				}
			}
		})
	}
}

func TestRegisterVehicles(t *testing.T) {
	cfg := config.Default()
	RegisterVehicles(cfg)
	RegisterVehicles(cfg)

	for _, id := range cfg.VehicleIDs() {
		g, err := registry.Create(id)
		if err != nil {
			t.Fatalf("Create(%q) error = %v", id, err)
		}
		if g.ID() != id {
			t.Errorf("Create(%q).ID() = %q", id, g.ID())
		}
	}

	g, _ := registry.Create(config.VehicleTanker)
	if g.Title() != "Tanker" {
		t.Errorf("Title() = %q, expected Tanker", g.Title())
	}
}

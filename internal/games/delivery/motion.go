package delivery

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/tanker-run/internal/config"
)

// world is the moving part of the simulation state.
type world struct {
	backgroundX int
	distance    int
	obstacles   []Obstacle
	bullets     []Bullet
	station     GasStation
}

// clone returns a copy that shares no slices with w.
func (w world) clone() world {
	c := w
	c.obstacles = append([]Obstacle(nil), w.obstacles...)
	c.bullets = append([]Bullet(nil), w.bullets...)
	return c
}

// advance moves every entity by one tick at the given road speed.
// The input world is left untouched; the result owns fresh slices.
func advance(w world, speed int, cfg config.Config, mode config.GasMode, rng *rand.Rand) world {
	next := world{
		backgroundX: (w.backgroundX - speed) % cfg.World.BackgroundTile,
		distance:    w.distance + speed,
		station:     w.station,
	}

	road := float64(speed)
	next.obstacles = make([]Obstacle, 0, len(w.obstacles))
	for _, o := range w.obstacles {
		o.X -= road - o.Speed
		if o.X+o.W > 0 && o.X < cfg.World.DespawnX {
			next.obstacles = append(next.obstacles, o)
		}
	}

	next.bullets = make([]Bullet, 0, len(w.bullets))
	for _, b := range w.bullets {
		b.X += cfg.Bullet.Velocity
		if b.X < cfg.World.DespawnX {
			next.bullets = append(next.bullets, b)
		}
	}

	if next.distance >= cfg.Route.GasAppearDistance {
		next.station = moveStation(next.station, cfg.GasStation, mode, rng)
	}

	return next
}

func moveStation(s GasStation, gas config.GasStation, mode config.GasMode, rng *rand.Rand) GasStation {
	s.Visible = true

	switch mode {
	case config.GasDock:
		s.X = math.Max(s.X-gas.Speed, gas.StopX)
	default:
		s.X -= gas.Speed
		if s.X < -s.W {
			s.X = gas.StartX
			s.Y = rng.Float64() * gas.RerollMaxY
		}
	}

	return s
}

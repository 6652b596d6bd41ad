package delivery

import (
	"math/rand"

	"github.com/vovakirdan/tanker-run/internal/config"
)

// Spawner creates obstacles on a fixed tick cadence.
// The cadence is derived from the simulation clock, never from render calls.
type Spawner struct {
	rng    *rand.Rand
	every  uint64
	spawnX float64
	minSpd float64
	maxSpd float64
	band   config.Band
	kinds  []config.ObstacleKind
}

// NewSpawner creates a spawner for the given vehicle profile.
func NewSpawner(rng *rand.Rand, cfg config.Config, v config.VehicleConfig) *Spawner {
	return &Spawner{
		rng:    rng,
		every:  cfg.Timing.SpawnEvery(),
		spawnX: cfg.Obstacles.SpawnX,
		minSpd: cfg.Obstacles.MinSpeed,
		maxSpd: cfg.Obstacles.MaxSpeed,
		band:   v.ObstacleBand,
		kinds:  v.ObstacleKinds,
	}
}

// Every returns the spawn interval in ticks.
func (s *Spawner) Every() uint64 {
	return s.every
}

// Tick returns a new obstacle when tick lands on the spawn cadence and the
// run is still in play.
func (s *Spawner) Tick(tick uint64, phase Phase) (Obstacle, bool) {
	if phase.Terminal() || tick == 0 || tick%s.every != 0 {
		return Obstacle{}, false
	}
	return s.spawn(), true
}

func (s *Spawner) spawn() Obstacle {
	kind := s.kinds[0]
	if len(s.kinds) > 1 {
		kind = s.kinds[s.rng.Intn(len(s.kinds))]
	}

	return Obstacle{
		ID:    nextID(),
		X:     s.spawnX,
		Y:     s.band.MinY + s.rng.Float64()*(s.band.MaxY-s.band.MinY),
		W:     kind.Width,
		H:     kind.Height,
		Speed: s.minSpd + s.rng.Float64()*(s.maxSpd-s.minSpd),
		Kind:  kind.Name,
	}
}

// Package config provides YAML-based run configuration for tanker-run:
// timing, world geometry, route, entity constants and per-vehicle profiles.
package config

import "time"

// Config contains everything a delivery run needs.
type Config struct {
	Timing     Timing                   `yaml:"timing"`
	World      World                    `yaml:"world"`
	Route      Route                    `yaml:"route"`
	Player     Player                   `yaml:"player"`
	Bullet     Bullet                   `yaml:"bullet"`
	Obstacles  Obstacles                `yaml:"obstacles"`
	GasStation GasStation               `yaml:"gas_station"`
	Vehicles   map[string]VehicleConfig `yaml:"vehicles"`
}

// Timing defines the simulation clock.
type Timing struct {
	TickMS          int `yaml:"tick_ms"`
	SpawnIntervalMS int `yaml:"spawn_interval_ms"`
}

// TickDuration returns the wall-clock length of one tick.
func (t Timing) TickDuration() time.Duration {
	return time.Duration(t.TickMS) * time.Millisecond
}

// SpawnEvery returns the spawn interval expressed in ticks (at least 1).
func (t Timing) SpawnEvery() uint64 {
	if t.TickMS <= 0 {
		return 1
	}
	n := (t.SpawnIntervalMS + t.TickMS/2) / t.TickMS
	if n < 1 {
		n = 1
	}
	return uint64(n)
}

// World defines the playfield in world units.
type World struct {
	Width          float64 `yaml:"width"`
	Height         float64 `yaml:"height"`
	BackgroundTile int     `yaml:"background_tile"` // Scroll offset wraps modulo this
	DespawnX       float64 `yaml:"despawn_x"`       // Entities at or past this x are dropped
}

// Route defines trip length and when the gas station shows up.
type Route struct {
	Length            int `yaml:"length"`
	GasAppearDistance int `yaml:"gas_appear_distance"`
}

// Player defines the shared player constants.
type Player struct {
	StartX     float64 `yaml:"start_x"`
	StartY     float64 `yaml:"start_y"`
	MinY       float64 `yaml:"min_y"`
	MaxY       float64 `yaml:"max_y"`
	StepY      float64 `yaml:"step_y"`
	StepX      float64 `yaml:"step_x"`
	MinSpeed   int     `yaml:"min_speed"`
	MaxSpeed   int     `yaml:"max_speed"`
	StartSpeed int     `yaml:"start_speed"`
	Lives      int     `yaml:"lives"`
}

// Bullet defines projectile constants.
type Bullet struct {
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	Velocity  float64 `yaml:"velocity"`
	SingleUse bool    `yaml:"single_use"` // Consumed on first hit instead of flying through
}

// Obstacles defines shared obstacle constants.
type Obstacles struct {
	SpawnX   float64 `yaml:"spawn_x"`
	MinSpeed float64 `yaml:"min_speed"`
	MaxSpeed float64 `yaml:"max_speed"`
}

// GasStation defines the delivery target.
type GasStation struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	StartX     float64 `yaml:"start_x"`
	StartY     float64 `yaml:"start_y"`
	Speed      float64 `yaml:"speed"`
	StopX      float64 `yaml:"stop_x"`       // Dock mode resting position
	RerollMaxY float64 `yaml:"reroll_max_y"` // Recycle mode picks a new y in [0, this]
}

// Steering selects what horizontal intents do.
type Steering string

const (
	SteeringSpeed    Steering = "speed"    // Left/right change road speed
	SteeringPosition Steering = "position" // Left/right move the vehicle
)

// GasMode selects what the gas station does when it is not docked with.
type GasMode string

const (
	GasRecycle GasMode = "recycle" // Wraps back off-screen with a new y
	GasDock    GasMode = "dock"    // Eases to a stop at stop_x and waits
)

// VehicleConfig is the per-vehicle profile selected at run start.
type VehicleConfig struct {
	Title         string         `yaml:"title"`
	Width         float64        `yaml:"width"`
	Height        float64        `yaml:"height"`
	Steering      Steering       `yaml:"steering"`
	Lives         bool           `yaml:"lives"` // Obstacle contact costs lives and can end the run
	Muzzle        Offset         `yaml:"muzzle"`
	ObstacleBand  Band           `yaml:"obstacle_band"`
	ObstacleKinds []ObstacleKind `yaml:"obstacle_kinds"`
	GasMode       GasMode        `yaml:"gas_mode"`
}

// Offset is a position relative to the player's top-left corner.
type Offset struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Band is an inclusive vertical range.
type Band struct {
	MinY float64 `yaml:"min_y"`
	MaxY float64 `yaml:"max_y"`
}

// ObstacleKind is one visual class of obstacle with its own size.
type ObstacleKind struct {
	Name   string  `yaml:"name"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

package config

import "fmt"

// ValidationError describes a configuration value that cannot be simulated.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Validate checks that the configuration describes a playable run.
func (c Config) Validate() error {
	switch {
	case c.Timing.TickMS <= 0:
		return invalid("timing.tick_ms", "must be positive, got %d", c.Timing.TickMS)
	case c.Timing.SpawnIntervalMS <= 0:
		return invalid("timing.spawn_interval_ms", "must be positive, got %d", c.Timing.SpawnIntervalMS)
	case c.World.Width <= 0 || c.World.Height <= 0:
		return invalid("world", "size must be positive, got %gx%g", c.World.Width, c.World.Height)
	case c.World.BackgroundTile <= 0:
		return invalid("world.background_tile", "must be positive, got %d", c.World.BackgroundTile)
	case c.World.DespawnX < c.World.Width:
		return invalid("world.despawn_x", "must not be left of the right edge (%g), got %g", c.World.Width, c.World.DespawnX)
	case c.Route.GasAppearDistance < 0:
		return invalid("route.gas_appear_distance", "must not be negative, got %d", c.Route.GasAppearDistance)
	case c.Player.MinSpeed < 0 || c.Player.MinSpeed > c.Player.MaxSpeed:
		return invalid("player.min_speed", "range [%d, %d] is empty or negative", c.Player.MinSpeed, c.Player.MaxSpeed)
	case c.Player.StartSpeed < c.Player.MinSpeed || c.Player.StartSpeed > c.Player.MaxSpeed:
		return invalid("player.start_speed", "%d outside [%d, %d]", c.Player.StartSpeed, c.Player.MinSpeed, c.Player.MaxSpeed)
	case c.Player.MinY > c.Player.MaxY:
		return invalid("player.min_y", "%g above max_y %g", c.Player.MinY, c.Player.MaxY)
	case c.Player.Lives <= 0:
		return invalid("player.lives", "must be positive, got %d", c.Player.Lives)
	case c.Bullet.Width <= 0 || c.Bullet.Height <= 0:
		return invalid("bullet", "size must be positive")
	case c.Obstacles.MinSpeed > c.Obstacles.MaxSpeed:
		return invalid("obstacles.min_speed", "%g above max_speed %g", c.Obstacles.MinSpeed, c.Obstacles.MaxSpeed)
	case c.GasStation.Width <= 0 || c.GasStation.Height <= 0:
		return invalid("gas_station", "size must be positive")
	case len(c.Vehicles) == 0:
		return invalid("vehicles", "at least one vehicle is required")
	}

	for _, id := range c.VehicleIDs() {
		if err := c.Vehicles[id].validate("vehicles." + id); err != nil {
			return err
		}
	}
	return nil
}

func (v VehicleConfig) validate(field string) error {
	switch {
	case v.Width <= 0 || v.Height <= 0:
		return invalid(field, "size must be positive, got %gx%g", v.Width, v.Height)
	case v.Steering != SteeringSpeed && v.Steering != SteeringPosition:
		return invalid(field+".steering", "unknown mode %q", v.Steering)
	case v.GasMode != GasRecycle && v.GasMode != GasDock:
		return invalid(field+".gas_mode", "unknown mode %q", v.GasMode)
	case v.ObstacleBand.MinY > v.ObstacleBand.MaxY:
		return invalid(field+".obstacle_band", "min_y %g above max_y %g", v.ObstacleBand.MinY, v.ObstacleBand.MaxY)
	case len(v.ObstacleKinds) == 0:
		return invalid(field+".obstacle_kinds", "at least one kind is required")
	}
	for i, k := range v.ObstacleKinds {
		if k.Width <= 0 || k.Height <= 0 {
			return invalid(fmt.Sprintf("%s.obstacle_kinds[%d]", field, i), "size must be positive")
		}
	}
	return nil
}

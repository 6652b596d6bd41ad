package config

import (
	_ "embed"
)

//go:embed defaults/delivery.yaml
var defaultDeliveryYAML []byte

// Vehicle IDs shipped with the default configuration.
const (
	VehicleBike   = "bike"
	VehicleTanker = "tanker"
	VehicleTruck  = "truck"
)

// Default returns the hardcoded configuration. It mirrors
// defaults/delivery.yaml and is used when the embedded copy cannot be parsed.
func Default() Config {
	return Config{
		Timing: Timing{
			TickMS:          30,
			SpawnIntervalMS: 2500,
		},
		World: World{
			Width:          800,
			Height:         400,
			BackgroundTile: 800,
			DespawnX:       900,
		},
		Route: Route{
			Length:            15000,
			GasAppearDistance: 10000,
		},
		Player: Player{
			StartX:     100,
			StartY:     200,
			MinY:       0,
			MaxY:       380,
			StepY:      20,
			StepX:      20,
			MinSpeed:   0,
			MaxSpeed:   20,
			StartSpeed: 15,
			Lives:      3,
		},
		Bullet: Bullet{
			Width:    8,
			Height:   4,
			Velocity: 15,
		},
		Obstacles: Obstacles{
			SpawnX:   800,
			MinSpeed: 2,
			MaxSpeed: 7,
		},
		GasStation: GasStation{
			Width:      80,
			Height:     100,
			StartX:     800,
			StartY:     200,
			Speed:      3,
			StopX:      50,
			RerollMaxY: 250,
		},
		Vehicles: map[string]VehicleConfig{
			VehicleBike: {
				Title:         "Bike",
				Width:         50,
				Height:        30,
				Steering:      SteeringSpeed,
				Lives:         true,
				Muzzle:        Offset{X: 50, Y: 10},
				ObstacleBand:  Band{MinY: 0, MaxY: 320},
				ObstacleKinds: []ObstacleKind{{Name: "crate", Width: 50, Height: 30}},
				GasMode:       GasRecycle,
			},
			VehicleTanker: {
				Title:         "Tanker",
				Width:         200,
				Height:        150,
				Steering:      SteeringPosition,
				Lives:         true,
				Muzzle:        Offset{X: 200, Y: 70},
				ObstacleBand:  Band{MinY: 100, MaxY: 250},
				ObstacleKinds: heatKinds(),
				GasMode:       GasRecycle,
			},
			VehicleTruck: {
				Title:         "Truck",
				Width:         300,
				Height:        300,
				Steering:      SteeringPosition,
				Lives:         false,
				Muzzle:        Offset{X: 300, Y: 140},
				ObstacleBand:  Band{MinY: 100, MaxY: 250},
				ObstacleKinds: heatKinds(),
				GasMode:       GasDock,
			},
		},
	}
}

func heatKinds() []ObstacleKind {
	return []ObstacleKind{
		{Name: "cool", Width: 80, Height: 60},
		{Name: "fire", Width: 100, Height: 80},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultDeliveryYAML
}

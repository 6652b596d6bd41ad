package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the search path.
const FileName = "delivery.yaml"

// ErrUnknownVehicle is returned when a vehicle ID has no profile.
var ErrUnknownVehicle = errors.New("config: unknown vehicle")

// Load loads the run configuration.
// Search order: customPath -> ~/.tanker-run/configs/delivery.yaml ->
// ./configs/delivery.yaml -> embedded default.
// A custom path that cannot be read, parsed or validated is an error; the
// implicit locations are skipped when they are broken.
func Load(customPath string) (Config, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Config{}, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", customPath, err)
		}
		return cfg, nil
	}

	candidates := []string{
		userConfigPath(FileName),
		filepath.Join("configs", FileName),
	}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	cfg, err := Parse(defaultDeliveryYAML)
	if err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes YAML over the hardcoded defaults and validates the result,
// so a file only has to mention the values it changes.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	// Vehicles present in the file replace the default set entirely.
	cfg.Vehicles = nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse yaml: %w", err)
	}
	if len(cfg.Vehicles) == 0 {
		cfg.Vehicles = Default().Vehicles
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tanker-run", "configs", filename)
}

// Vehicle returns the profile registered under id.
func (c Config) Vehicle(id string) (VehicleConfig, error) {
	v, ok := c.Vehicles[id]
	if !ok {
		return VehicleConfig{}, fmt.Errorf("%w %q", ErrUnknownVehicle, id)
	}
	return v, nil
}

// VehicleIDs returns the configured vehicle IDs, sorted.
func (c Config) VehicleIDs() []string {
	ids := make([]string, 0, len(c.Vehicles))
	for id := range c.Vehicles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

package interaction

import (
	"fmt"
	"time"

	"github.com/ayusman/heartsketch/internal/gesture"
)

// DetectionConfig controls when the heart classifier runs.
type DetectionConfig struct {
	// Interval between heart checks driven by the caller's ticker. Zero runs
	// the check after every accepted trail point instead.
	Interval time.Duration `yaml:"interval"`
	// MinTrailPoints skips checks on shorter trails.
	MinTrailPoints int `yaml:"min_trail_points"`
}

// Config gathers the settings of every component the machine owns.
type Config struct {
	Smoothing gesture.SmootherConfig `yaml:"smoothing"`
	Trail     gesture.TrailConfig    `yaml:"trail"`
	Heart     gesture.HeartConfig    `yaml:"heart"`
	Pinch     gesture.PinchConfig    `yaml:"pinch"`
	Rotation  gesture.RotationConfig `yaml:"rotation"`
	Detection DetectionConfig        `yaml:"detection"`
}

// DefaultConfig returns the tuned defaults for every component.
func DefaultConfig() Config {
	return Config{
		Smoothing: gesture.DefaultSmootherConfig(),
		Trail:     gesture.DefaultTrailConfig(),
		Heart:     gesture.DefaultHeartConfig(),
		Pinch:     gesture.DefaultPinchConfig(),
		Rotation:  gesture.DefaultRotationConfig(),
		Detection: DetectionConfig{
			Interval:       100 * time.Millisecond,
			MinTrailPoints: 15,
		},
	}
}

// Validate checks every section. Errors wrap gesture.ErrInvalidConfig.
func (c Config) Validate() error {
	checks := []struct {
		name string
		fn   func() error
	}{
		{"smoothing", c.Smoothing.Validate},
		{"trail", c.Trail.Validate},
		{"heart", c.Heart.Validate},
		{"pinch", c.Pinch.Validate},
		{"rotation", c.Rotation.Validate},
		{"detection", c.Detection.validate},
	}
	for _, check := range checks {
		if err := check.fn(); err != nil {
			return fmt.Errorf("%s: %w", check.name, err)
		}
	}
	return nil
}

func (c DetectionConfig) validate() error {
	if c.Interval < 0 {
		return fmt.Errorf("%w: detection interval %v is negative", gesture.ErrInvalidConfig, c.Interval)
	}
	if c.MinTrailPoints < 0 {
		return fmt.Errorf("%w: detection min trail points %d is negative", gesture.ErrInvalidConfig, c.MinTrailPoints)
	}
	return nil
}

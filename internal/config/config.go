// Package config loads heartsketch settings from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/heartsketch/internal/capture"
	"github.com/ayusman/heartsketch/internal/detector"
	"github.com/ayusman/heartsketch/internal/gesture"
	"github.com/ayusman/heartsketch/internal/interaction"
	"github.com/ayusman/heartsketch/internal/logging"
)

// DataDirName is the per-user directory holding the journal and bridge assets.
const DataDirName = ".heartsketch"

// Config is the full application configuration. The interaction sections
// (smoothing, trail, heart, pinch, rotation, detection) sit at the top level.
type Config struct {
	Interaction interaction.Config `yaml:",inline"`
	Camera      capture.Config     `yaml:"camera"`
	Detector    detector.Config    `yaml:"detector"`
	Server      ServerConfig       `yaml:"server"`
	Store       StoreConfig        `yaml:"store"`
	Log         logging.Config     `yaml:"log"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"` // optional web UI
}

// StoreConfig configures the detection journal.
type StoreConfig struct {
	Path string `yaml:"path"` // empty disables the journal
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Interaction: interaction.DefaultConfig(),
		Camera:      capture.DefaultConfig(),
		Detector:    detector.DefaultConfig(),
		Server:      ServerConfig{Addr: ":8080"},
		Store:       StoreConfig{Path: defaultStorePath()},
		Log:         logging.DefaultConfig(),
	}
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "heartsketch.db"
	}
	return filepath.Join(home, DataDirName, "heartsketch.db")
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty or missing path keeps the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides settings from HEARTSKETCH_* variables.
func (c *Config) applyEnv() error {
	if v := os.Getenv("HEARTSKETCH_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v, ok := os.LookupEnv("HEARTSKETCH_DB"); ok {
		c.Store.Path = v
	}
	if v := os.Getenv("HEARTSKETCH_CAMERA"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("HEARTSKETCH_CAMERA: %w", err)
		}
		c.Camera.Device = n
	}
	if v := os.Getenv("HEARTSKETCH_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("HEARTSKETCH_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv("HEARTSKETCH_SMOOTHING"); v != "" {
		c.Interaction.Smoothing.Method = v
	}
	return nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Interaction.Validate(); err != nil {
		return err
	}
	if err := c.Camera.Validate(); err != nil {
		return fmt.Errorf("camera: %w: %w", gesture.ErrInvalidConfig, err)
	}
	switch c.Detector.Kind {
	case detector.KindMediaPipe, detector.KindMock:
	default:
		return fmt.Errorf("detector: %w: unknown kind %q", gesture.ErrInvalidConfig, c.Detector.Kind)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server: %w: addr is empty", gesture.ErrInvalidConfig)
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w: %w", gesture.ErrInvalidConfig, err)
	}
	return nil
}

// Write saves the configuration as YAML, creating parent directories.
func (c Config) Write(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

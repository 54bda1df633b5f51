package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/partisim/internal/particle"
	"github.com/san-kum/partisim/internal/rng"
)

const (
	DefaultCount       = 1000
	DefaultWidth       = 800.0
	DefaultHeight      = 600.0
	DefaultTicks       = 600
	DefaultFPS         = 60
	DefaultSampleEvery = 10
	DefaultTheme       = "cyberpunk"
)

type Config struct {
	Count       int     `yaml:"count"`
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	Seed        uint32  `yaml:"seed"`
	Ticks       int     `yaml:"ticks"`
	FPS         int     `yaml:"fps"`
	SampleEvery int     `yaml:"sample_every"`
	Parallel    bool    `yaml:"parallel"`
	Theme       string  `yaml:"theme"`
}

func DefaultConfig() *Config {
	return &Config{
		Count:       DefaultCount,
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		Seed:        rng.DefaultSeed,
		Ticks:       DefaultTicks,
		FPS:         DefaultFPS,
		SampleEvery: DefaultSampleEvery,
		Theme:       DefaultTheme,
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := Overlay(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Overlay reads the YAML file at path on top of cfg. Keys missing from the
// file leave the existing values alone.
func Overlay(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects configurations that would build a degenerate system.
// The particle package itself accepts anything; this is the CLI's guard.
func (c *Config) Validate() error {
	if c.Count < 0 {
		return &particle.ConfigurationError{Field: "count", Value: float64(c.Count), Wrapped: particle.ErrInvalidCount}
	}
	if !positiveFinite(c.Width) {
		return &particle.ConfigurationError{Field: "width", Value: c.Width, Wrapped: particle.ErrInvalidBounds}
	}
	if !positiveFinite(c.Height) {
		return &particle.ConfigurationError{Field: "height", Value: c.Height, Wrapped: particle.ErrInvalidBounds}
	}
	if c.Ticks <= 0 {
		return fmt.Errorf("ticks must be positive, got %d", c.Ticks)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	if c.SampleEvery <= 0 {
		return fmt.Errorf("sample_every must be positive, got %d", c.SampleEvery)
	}
	return nil
}

// NewSystem builds the particle system described by c, seeded from c.Seed.
func (c *Config) NewSystem() *particle.System {
	return particle.NewWithSource(c.Count, c.Width, c.Height, rng.New(c.Seed))
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/partisim/internal/particle"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Count != 1000 {
		t.Errorf("expected count 1000, got %d", cfg.Count)
	}
	if cfg.Width != 800 || cfg.Height != 600 {
		t.Errorf("expected 800x600, got %vx%v", cfg.Width, cfg.Height)
	}
	if cfg.Seed != 12345 {
		t.Errorf("expected seed 12345, got %d", cfg.Seed)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partisim.yaml")
	data := []byte("count: 42\nwidth: 320\nparallel: true\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Count != 42 {
		t.Errorf("expected count 42, got %d", cfg.Count)
	}
	if cfg.Width != 320 {
		t.Errorf("expected width 320, got %v", cfg.Width)
	}
	if cfg.Height != DefaultHeight {
		t.Errorf("expected default height, got %v", cfg.Height)
	}
	if !cfg.Parallel {
		t.Error("expected parallel true")
	}
}

func TestOverlayKeepsPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partisim.yaml")
	if err := os.WriteFile(path, []byte("count: 7\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := GetPreset("wide")
	if err := Overlay(path, cfg); err != nil {
		t.Fatalf("overlay failed: %v", err)
	}
	if cfg.Count != 7 {
		t.Errorf("expected count 7, got %d", cfg.Count)
	}
	if cfg.Width != 1920 || cfg.Seed != 777 {
		t.Errorf("preset fields lost: %+v", cfg)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("count: [1, 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := GetPreset("wide")

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch: %+v vs %+v", loaded, cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"negative count", func(c *Config) { c.Count = -1 }, particle.ErrInvalidCount},
		{"zero width", func(c *Config) { c.Width = 0 }, particle.ErrInvalidBounds},
		{"negative height", func(c *Config) { c.Height = -5 }, particle.ErrInvalidBounds},
		{"infinite width", func(c *Config) { c.Width = math.Inf(1) }, particle.ErrInvalidBounds},
		{"nan height", func(c *Config) { c.Height = math.NaN() }, particle.ErrInvalidBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			var cfgErr *particle.ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Errorf("expected ConfigurationError, got %T", err)
			}
		})
	}
}

func TestValidateRunSettings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero ticks", func(c *Config) { c.Ticks = 0 }},
		{"zero fps", func(c *Config) { c.FPS = 0 }},
		{"zero sample", func(c *Config) { c.SampleEvery = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestZeroCountIsValid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Count = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("empty system should be valid: %v", err)
	}
	if cfg.NewSystem().Count() != 0 {
		t.Error("expected empty system")
	}
}

func TestNewSystemUsesSeed(t *testing.T) {
	a := DefaultConfig()
	b := DefaultConfig()
	b.Seed = 99

	if a.NewSystem().At(0) == b.NewSystem().At(0) {
		t.Error("seed not applied")
	}
	if a.NewSystem().At(0) != DefaultConfig().NewSystem().At(0) {
		t.Error("same seed gave different systems")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("tiny")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Count != 1 {
		t.Errorf("expected count 1, got %d", cfg.Count)
	}

	cfg.Count = 99
	if Presets["tiny"].Count != 1 {
		t.Error("GetPreset returned shared pointer")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("presets not sorted: %v", names)
		}
	}
	for _, name := range names {
		if err := Presets[name].Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

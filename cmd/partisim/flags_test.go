package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/san-kum/partisim/internal/particle"
)

func newTestCmd(args ...string) (*cobra.Command, *systemFlags) {
	f := &systemFlags{}
	cmd := &cobra.Command{Use: "test"}
	addSystemFlags(cmd, f)
	if err := cmd.ParseFlags(args); err != nil {
		panic(err)
	}
	return cmd, f
}

func TestResolveConfig_Defaults(t *testing.T) {
	cmd, f := newTestCmd()
	cfg, err := resolveConfig(cmd, f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Count != 1000 || cfg.Width != 800 || cfg.Height != 600 || cfg.Seed != 12345 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestResolveConfig_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("count: 50\nheight: 100\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd, f := newTestCmd("--preset", "wide", "--config", path, "--height", "300")
	cfg, err := resolveConfig(cmd, f)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Width != 1920 || cfg.Seed != 777 {
		t.Errorf("preset values lost: %+v", cfg)
	}
	if cfg.Count != 50 {
		t.Errorf("config file should override preset count, got %d", cfg.Count)
	}
	if cfg.Height != 300 {
		t.Errorf("flag should override config file height, got %v", cfg.Height)
	}
}

func TestResolveConfig_UnknownPreset(t *testing.T) {
	cmd, f := newTestCmd("--preset", "nope")
	if _, err := resolveConfig(cmd, f); err == nil {
		t.Error("expected unknown preset error")
	}
}

func TestResolveConfig_Invalid(t *testing.T) {
	cmd, f := newTestCmd("--width", "0")
	_, err := resolveConfig(cmd, f)
	if !errors.Is(err, particle.ErrInvalidBounds) {
		t.Errorf("expected ErrInvalidBounds, got %v", err)
	}
}

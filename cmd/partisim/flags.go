package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/san-kum/partisim/internal/config"
)

// systemFlags are shared by every command that builds a particle system.
type systemFlags struct {
	configFile  string
	preset      string
	count       int
	width       float64
	height      float64
	seed        uint32
	ticks       int
	fps         int
	sampleEvery int
	parallel    bool
	theme       string
}

func addSystemFlags(cmd *cobra.Command, f *systemFlags) {
	d := config.DefaultConfig()
	cmd.Flags().StringVar(&f.configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&f.preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVarP(&f.count, "count", "n", d.Count, "number of particles")
	cmd.Flags().Float64Var(&f.width, "width", d.Width, "region width")
	cmd.Flags().Float64Var(&f.height, "height", d.Height, "region height")
	cmd.Flags().Uint32Var(&f.seed, "seed", d.Seed, "generator seed")
	cmd.Flags().IntVar(&f.ticks, "ticks", d.Ticks, "ticks to simulate")
	cmd.Flags().IntVar(&f.fps, "fps", d.FPS, "frame rate")
	cmd.Flags().IntVar(&f.sampleEvery, "sample-every", d.SampleEvery, "record a frame every n ticks")
	cmd.Flags().BoolVar(&f.parallel, "parallel", d.Parallel, "step particles in parallel")
	cmd.Flags().StringVar(&f.theme, "theme", d.Theme, "live view theme")
}

// resolveConfig applies preset, then config file, then explicitly set flags.
func resolveConfig(cmd *cobra.Command, f *systemFlags) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if f.preset != "" {
		cfg = config.GetPreset(f.preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", f.preset, config.ListPresets())
		}
	}

	if f.configFile != "" {
		if err := config.Overlay(f.configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("count") {
		cfg.Count = f.count
	}
	if flags.Changed("width") {
		cfg.Width = f.width
	}
	if flags.Changed("height") {
		cfg.Height = f.height
	}
	if flags.Changed("seed") {
		cfg.Seed = f.seed
	}
	if flags.Changed("ticks") {
		cfg.Ticks = f.ticks
	}
	if flags.Changed("fps") {
		cfg.FPS = f.fps
	}
	if flags.Changed("sample-every") {
		cfg.SampleEvery = f.sampleEvery
	}
	if flags.Changed("parallel") {
		cfg.Parallel = f.parallel
	}
	if flags.Changed("theme") {
		cfg.Theme = f.theme
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

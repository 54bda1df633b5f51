package config

import "sort"

var Presets = map[string]*Config{
	"tiny": {
		Count: 1, Width: 10, Height: 10, Seed: 12345,
		Ticks: 200, FPS: 30, SampleEvery: 1, Theme: "minimal",
	},
	"small": {
		Count: 100, Width: 800, Height: 600, Seed: 12345,
		Ticks: 600, FPS: 60, SampleEvery: 10, Theme: "cyberpunk",
	},
	"default": {
		Count: 1000, Width: 800, Height: 600, Seed: 12345,
		Ticks: 600, FPS: 60, SampleEvery: 10, Theme: "cyberpunk",
	},
	"stress": {
		Count: 10000, Width: 800, Height: 600, Seed: 12345,
		Ticks: 600, FPS: 60, SampleEvery: 60, Parallel: true, Theme: "retro",
	},
	"wide": {
		Count: 500, Width: 1920, Height: 200, Seed: 777,
		Ticks: 1200, FPS: 60, SampleEvery: 20, Theme: "ocean",
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package automation

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/partisim/internal/config"
	"github.com/san-kum/partisim/internal/metrics"
	"github.com/san-kum/partisim/internal/sim"
)

// Scenario defines a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a preset (or the defaults) and overrides the
// fields it sets. Zero values mean "keep".
type ScenarioStep struct {
	Preset      string  `yaml:"preset"`
	Count       int     `yaml:"count"`
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	Seed        uint32  `yaml:"seed"`
	Ticks       int     `yaml:"ticks"`
	SampleEvery int     `yaml:"sample_every"`
	Parallel    bool    `yaml:"parallel"`
	SaveAs      string  `yaml:"save_as"`
}

// Config resolves the step into a validated run configuration.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	}
	if s.Count != 0 {
		cfg.Count = s.Count
	}
	if s.Width != 0 {
		cfg.Width = s.Width
	}
	if s.Height != 0 {
		cfg.Height = s.Height
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if s.Ticks != 0 {
		cfg.Ticks = s.Ticks
	}
	if s.SampleEvery != 0 {
		cfg.SampleEvery = s.SampleEvery
	}
	if s.Parallel {
		cfg.Parallel = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// StepResult pairs a finished run with the configuration that produced it.
type StepResult struct {
	Name   string
	Config *config.Config
	Result *sim.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}

	return &scenario, nil
}

// RunScenario executes all steps in order, reporting progress to log.
func RunScenario(ctx context.Context, scenario *Scenario, log io.Writer) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		name := step.SaveAs
		if name == "" {
			name = fmt.Sprintf("step%d", i+1)
		}
		fmt.Fprintf(log, "Running step %d/%d: %s (%d particles, %d ticks)\n", i+1, len(scenario.Steps), name, cfg.Count, cfg.Ticks)

		result, err := run(ctx, cfg)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Name: name, Config: cfg, Result: result})
	}

	return results, nil
}

func run(ctx context.Context, cfg *config.Config) (*sim.Result, error) {
	s := sim.New(cfg.NewSystem())
	for _, m := range metrics.Defaults() {
		s.AddMetric(m)
	}
	sc := sim.DefaultConfig()
	sc.Ticks = cfg.Ticks
	sc.SampleEvery = cfg.SampleEvery
	sc.Parallel = cfg.Parallel
	return s.Run(ctx, sc)
}

// ParameterSweep runs the same base configuration across a range of values
// for one field.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue     float64
	StepsPerSecond float64
	Metrics        map[string]float64
}

// sweepable lists the fields a sweep can vary.
var sweepable = map[string]func(*config.Config, float64){
	"count":  func(c *config.Config, v float64) { c.Count = int(v) },
	"width":  func(c *config.Config, v float64) { c.Width = v },
	"height": func(c *config.Config, v float64) { c.Height = v },
	"seed":   func(c *config.Config, v float64) { c.Seed = uint32(v) },
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, log io.Writer) ([]SweepResult, error) {
	set, ok := sweepable[sweep.ParamName]
	if !ok {
		return nil, fmt.Errorf("parameter %s cannot be swept", sweep.ParamName)
	}
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		cfg := *sweep.Base
		set(&cfg, paramVal)
		if err := cfg.Validate(); err != nil {
			return results, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}

		result, err := run(ctx, &cfg)
		if err != nil {
			return results, err
		}

		results = append(results, SweepResult{
			ParamValue:     paramVal,
			StepsPerSecond: result.StepsPerSecond,
			Metrics:        result.Metrics,
		})

		fmt.Fprintf(log, "Sweep %d/%d: %s=%.4g\n", i+1, sweep.NumSteps, sweep.ParamName, paramVal)
	}

	return results, nil
}

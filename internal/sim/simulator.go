package sim

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/san-kum/partisim/internal/particle"
)

type Simulator struct {
	sys       *particle.System
	metrics   []Metric
	observers []Observer
}

func New(sys *particle.System) *Simulator {
	return &Simulator{
		sys:       sys,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) System() *particle.System { return s.sys }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Frames:  make([]Frame, 0, cfg.Ticks/cfg.SampleEvery+2),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result.Frames = append(result.Frames, s.frame())

	start := time.Now()
	for i := 0; i < cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			s.finish(result, start)
			return result, ctx.Err()
		default:
		}

		s.step(cfg)
		result.StepsTaken++

		if i := firstNonFinite(s.sys); i >= 0 {
			result.Frames = append(result.Frames, s.frame())
			s.finish(result, start)
			return result, SimError{Tick: s.sys.Tick(), Message: fmt.Sprintf("invalid state (NaN/Inf) in particle %d", i)}
		}

		for _, m := range s.metrics {
			m.Observe(s.sys)
		}
		for _, obs := range s.observers {
			obs.OnStep(s.sys.Tick(), s.sys)
		}

		if (i+1)%cfg.SampleEvery == 0 || i == cfg.Ticks-1 {
			result.Frames = append(result.Frames, s.frame())
		}
	}

	s.finish(result, start)
	return result, nil
}

// RunWithCallback steps until the callback returns false, the context ends,
// or cfg.Ticks steps have run. Nothing is recorded.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(tick uint64, sys *particle.System) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	for i := 0; i < cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(s.sys.Tick(), s.sys) {
			return nil
		}
		s.step(cfg)
		if i := firstNonFinite(s.sys); i >= 0 {
			return SimError{Tick: s.sys.Tick(), Message: fmt.Sprintf("invalid state (NaN/Inf) in particle %d", i)}
		}
	}

	return nil
}

func (s *Simulator) step(cfg Config) {
	if cfg.Parallel {
		s.sys.UpdateParallel(cfg.MinChunk)
	} else {
		s.sys.Update()
	}
}

func (s *Simulator) frame() Frame {
	return Frame{Tick: s.sys.Tick(), Particles: s.sys.Particles()}
}

func (s *Simulator) finish(result *Result, start time.Time) {
	result.Elapsed = time.Since(start)
	if secs := result.Elapsed.Seconds(); secs > 0 {
		result.StepsPerSecond = float64(result.StepsTaken) / secs
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// firstNonFinite returns the index of the first particle whose position or
// velocity is NaN or infinite, or -1.
func firstNonFinite(sys *particle.System) int {
	for i := range sys.Count() {
		p := sys.At(i)
		if !finite(p.X) || !finite(p.Y) || !finite(p.VX) || !finite(p.VY) {
			return i
		}
	}
	return -1
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func validateConfig(cfg Config) error {
	if cfg.Ticks <= 0 {
		return fmt.Errorf("ticks must be positive, got %d", cfg.Ticks)
	}
	if cfg.SampleEvery <= 0 {
		return fmt.Errorf("sample interval must be positive, got %d", cfg.SampleEvery)
	}
	return nil
}

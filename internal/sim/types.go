package sim

import (
	"fmt"
	"time"

	"github.com/san-kum/partisim/internal/particle"
)

type Metric interface {
	Name() string
	Observe(sys *particle.System)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(tick uint64, sys *particle.System)
}

type Config struct {
	Ticks       int
	SampleEvery int
	Parallel    bool
	MinChunk    int
}

func DefaultConfig() Config {
	return Config{
		Ticks:       600,
		SampleEvery: 10,
		MinChunk:    1024,
	}
}

// Frame is a snapshot of every particle at one tick.
type Frame struct {
	Tick      uint64
	Particles []particle.Particle
}

type Result struct {
	Frames         []Frame
	Metrics        map[string]float64
	StepsTaken     int
	Elapsed        time.Duration
	StepsPerSecond float64
}

// Final returns the last recorded frame.
func (r *Result) Final() Frame {
	if len(r.Frames) == 0 {
		return Frame{}
	}
	return r.Frames[len(r.Frames)-1]
}

type SimError struct {
	Tick    uint64
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("tick %d: %s", e.Tick, e.Message)
}

package sim

import (
	"fmt"
	"io"

	"github.com/san-kum/partisim/internal/particle"
)

// TraceObserver prints the first particle's position and velocity every
// Interval ticks.
type TraceObserver struct {
	w        io.Writer
	Interval uint64
}

func NewTraceObserver(w io.Writer, interval uint64) *TraceObserver {
	if interval == 0 {
		interval = 60
	}
	return &TraceObserver{w: w, Interval: interval}
}

func (o *TraceObserver) OnStep(tick uint64, sys *particle.System) {
	if sys.Count() == 0 || tick%o.Interval != 0 {
		return
	}
	p := sys.At(0)
	fmt.Fprintf(o.w, "tick %d: first particle pos (%.2f, %.2f) vel (%.2f, %.2f)\n", tick, p.X, p.Y, p.VX, p.VY)
}

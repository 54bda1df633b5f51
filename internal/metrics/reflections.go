package metrics

import (
	"math"

	"github.com/san-kum/partisim/internal/particle"
)

// Reflections counts velocity sign flips across observed ticks, one per
// flipped axis.
type Reflections struct {
	name  string
	prev  []particle.Particle
	count int
}

func NewReflections() *Reflections {
	return &Reflections{name: "reflections"}
}

func (r *Reflections) Name() string {
	return r.name
}

func (r *Reflections) Observe(sys *particle.System) {
	cur := sys.AppendParticles(r.prev[:0:0])
	if len(r.prev) == len(cur) {
		for i := range cur {
			if flipped(r.prev[i].VX, cur[i].VX) {
				r.count++
			}
			if flipped(r.prev[i].VY, cur[i].VY) {
				r.count++
			}
		}
	}
	r.prev = cur
}

func (r *Reflections) Value() float64 {
	return float64(r.count)
}

func (r *Reflections) Reset() {
	r.prev = nil
	r.count = 0
}

func flipped(a, b float64) bool {
	return a != 0 && math.Signbit(a) != math.Signbit(b)
}

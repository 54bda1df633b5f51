package metrics

import (
	"github.com/san-kum/partisim/internal/particle"
)

// Containment is the fraction of observed ticks where every particle sat
// inside the region. Anything below 1.0 is a bug in the step rule.
type Containment struct {
	name       string
	violations int
	samples    int
}

func NewContainment() *Containment {
	return &Containment{name: "containment"}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(sys *particle.System) {
	c.samples++
	w, h := sys.Width(), sys.Height()
	for _, p := range sys.Particles() {
		if !p.InBounds(w, h) {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}

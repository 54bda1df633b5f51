package particle

import (
	"github.com/san-kum/partisim/internal/rng"
)

const (
	maxSpeed     = 4.0
	minRadius    = 2.0
	radiusSpread = 3.0
	hueRange     = 360.0
)

// System owns a fixed set of particles inside [0, width] x [0, height].
type System struct {
	particles []Particle
	width     float64
	height    float64
	tick      uint64
}

// New seeds count particles from a fresh generator at rng.DefaultSeed.
// Two systems built with the same arguments are identical.
func New(count int, width, height float64) *System {
	return NewWithSource(count, width, height, rng.NewDefault())
}

// NewWithSource seeds count particles from src. Each particle consumes six
// draws in a fixed order: x, y, vx, vy, radius, hue.
func NewWithSource(count int, width, height float64, src rng.Source) *System {
	if count < 0 {
		count = 0
	}
	particles := make([]Particle, 0, count)
	for i := 0; i < count; i++ {
		x := src.Next() * width
		y := src.Next() * height
		vx := (src.Next() - 0.5) * maxSpeed
		vy := (src.Next() - 0.5) * maxSpeed
		radius := minRadius + src.Next()*radiusSpread
		hue := src.Next() * hueRange
		particles = append(particles, NewParticle(x, y, vx, vy, radius, hue))
	}
	return &System{particles: particles, width: width, height: height}
}

// Update advances every particle by one step.
func (s *System) Update() {
	step(s.particles, s.width, s.height)
	s.tick++
}

// UpdateParallel is Update with the particle range split across goroutines.
// Chunks smaller than minChunk are not split further.
func (s *System) UpdateParallel(minChunk int) {
	ParallelFor(len(s.particles), minChunk, func(start, end int) {
		step(s.particles[start:end], s.width, s.height)
	})
	s.tick++
}

// step integrates, then reflects on the integrated position, then clamps.
// The reflection test runs before the clamp, so a particle whose next step
// still lands outside the region flips again.
func step(ps []Particle, width, height float64) {
	for i := range ps {
		p := &ps[i]
		p.X += p.VX
		p.Y += p.VY

		if p.X < 0 || p.X > width {
			p.VX = -p.VX
		}
		if p.Y < 0 || p.Y > height {
			p.VY = -p.VY
		}

		p.X = clamp(p.X, 0, width)
		p.Y = clamp(p.Y, 0, height)
	}
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}

// Particles returns a copy of the particles in creation order.
func (s *System) Particles() []Particle {
	out := make([]Particle, len(s.particles))
	copy(out, s.particles)
	return out
}

// AppendParticles appends a copy of the particles to dst and returns it.
func (s *System) AppendParticles(dst []Particle) []Particle {
	return append(dst, s.particles...)
}

// At returns a copy of the i-th particle.
func (s *System) At(i int) Particle { return s.particles[i] }

func (s *System) Count() int      { return len(s.particles) }
func (s *System) Width() float64  { return s.width }
func (s *System) Height() float64 { return s.height }
func (s *System) Tick() uint64    { return s.tick }

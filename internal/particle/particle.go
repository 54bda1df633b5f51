package particle

import "math"

// Particle is a point mass with a render radius and hue.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Radius float64
	Hue    float64
}

// NewParticle builds a particle from explicit values. Nothing is validated;
// radius and hue only matter to whoever draws the particle.
func NewParticle(x, y, vx, vy, radius, hue float64) Particle {
	return Particle{X: x, Y: y, VX: vx, VY: vy, Radius: radius, Hue: hue}
}

func (p Particle) Speed() float64 {
	return math.Hypot(p.VX, p.VY)
}

func (p Particle) InBounds(width, height float64) bool {
	return p.X >= 0 && p.X <= width && p.Y >= 0 && p.Y <= height
}

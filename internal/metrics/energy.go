package metrics

import (
	"github.com/san-kum/partisim/internal/particle"
)

// KineticEnergy tracks mean per-particle kinetic energy (unit mass).
// Reflections only change sign, so for a healthy run the value is constant.
type KineticEnergy struct {
	name    string
	current float64
	initial float64
	samples int
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string {
	return k.name
}

func (k *KineticEnergy) Observe(sys *particle.System) {
	k.current = MeanKineticEnergy(sys.Particles())
	if k.samples == 0 {
		k.initial = k.current
	}
	k.samples++
}

func (k *KineticEnergy) Value() float64 {
	return k.current
}

// Drift is the relative change since the first observation.
func (k *KineticEnergy) Drift() float64 {
	if k.initial == 0 {
		return 0
	}
	d := (k.current - k.initial) / k.initial
	if d < 0 {
		return -d
	}
	return d
}

func (k *KineticEnergy) Reset() {
	k.current = 0
	k.initial = 0
	k.samples = 0
}

func MeanKineticEnergy(ps []particle.Particle) float64 {
	if len(ps) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range ps {
		sum += 0.5 * (p.VX*p.VX + p.VY*p.VY)
	}
	return sum / float64(len(ps))
}

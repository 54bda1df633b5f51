package metrics

import "github.com/san-kum/partisim/internal/sim"

// Defaults returns a fresh set of the standard run metrics.
func Defaults() []sim.Metric {
	return []sim.Metric{
		NewKineticEnergy(),
		NewReflections(),
		NewContainment(),
	}
}

package sim

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/partisim/internal/particle"
	"github.com/san-kum/partisim/internal/rng"
)

// Ensemble runs independent systems that differ only in seed.
type Ensemble struct {
	count         int
	width, height float64
	numRuns       int
	seedStart     uint32
	newMetrics    func() []Metric
}

// NewEnsemble prepares numRuns systems seeded seedStart, seedStart+1, ...
// newMetrics may be nil; when set it is called once per run.
func NewEnsemble(count int, width, height float64, numRuns int, seedStart uint32, newMetrics func() []Metric) *Ensemble {
	return &Ensemble{
		count:      count,
		width:      width,
		height:     height,
		numRuns:    numRuns,
		seedStart:  seedStart,
		newMetrics: newMetrics,
	}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			sys := particle.NewWithSource(e.count, e.width, e.height, rng.New(e.seedStart+uint32(i)))
			s := New(sys)
			if e.newMetrics != nil {
				for _, m := range e.newMetrics() {
					s.AddMetric(m)
				}
			}

			res, err := s.Run(ctx, cfg)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

package optim

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/san-kum/partisim/internal/particle"
)

// Objective scores one parameter combination; lower is better.
type Objective func(ctx context.Context, params map[string]float64) (float64, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search evaluates every combination and returns the best one. Combinations
// whose objective fails are skipped; an error is returned only when none
// succeeded or the context ended.
func (g *GridSearch) Search(ctx context.Context, objective Objective) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("%d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := math.Inf(1)
	var bestParams map[string]float64

	g.searchRecursive(ctx, 0, make(map[string]float64), objective, &best, &bestParams)

	if err := ctx.Err(); err != nil {
		return bestParams, best, err
	}
	if bestParams == nil {
		return nil, best, fmt.Errorf("no parameter combination could be evaluated")
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	objective Objective,
	best *float64,
	bestParams *map[string]float64,
) {
	if ctx.Err() != nil {
		return
	}
	if depth == len(g.paramNames) {
		val, err := objective(ctx, current)
		if err != nil {
			return
		}

		if val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.searchRecursive(ctx, depth+1, newParams, objective, best, bestParams)
	}
}

// StepTime returns an objective measuring the mean wall time of one parallel
// step of sys, in seconds, for the "min_chunk" parameter.
func StepTime(sys *particle.System, steps int) Objective {
	return func(ctx context.Context, params map[string]float64) (float64, error) {
		chunk := int(params["min_chunk"])
		if chunk < 1 {
			return 0, fmt.Errorf("min_chunk must be positive, got %d", chunk)
		}
		start := time.Now()
		for range steps {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
			sys.UpdateParallel(chunk)
		}
		return time.Since(start).Seconds() / float64(max(steps, 1)), nil
	}
}

package sweep

import (
	"context"
	"math"

	"github.com/triadlab/triadsim/internal/resonance"
)

// BuildFunc constructs a fresh simulator, initial state and run config
// for one grid point.
type BuildFunc func(params map[string]float64) (*resonance.Simulator, resonance.Vector, resonance.Config, error)

// GridSearch exhaustively evaluates an objective over the cartesian
// product of parameter ranges.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search returns the parameter assignment minimizing the objective.
// Grid points whose runs fail are skipped.
func (g *GridSearch) Search(ctx context.Context, build BuildFunc, objective func(*resonance.Result) float64) (map[string]float64, float64, error) {
	best := math.Inf(1)
	var bestParams map[string]float64

	g.searchRecursive(ctx, 0, make(map[string]float64), build, objective, &best, &bestParams)

	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	build BuildFunc,
	objective func(*resonance.Result) float64,
	best *float64,
	bestParams *map[string]float64,
) {
	if depth == len(g.paramNames) {
		sim, x0, cfg, err := build(current)
		if err != nil {
			return
		}

		result, err := sim.Run(ctx, x0, cfg)
		if err != nil {
			return
		}

		val := objective(result)
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

		g.searchRecursive(ctx, depth+1, newParams, build, objective, best, bestParams)
	}
}

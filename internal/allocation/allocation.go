// Package allocation evaluates fixed-weight portfolios and searches a weight grid
// for the best Sharpe ratio.
package allocation

import (
	"context"
	"math"

	"github.com/rxtech-lab/argo-marketsim/internal/panel"
	"github.com/rxtech-lab/argo-marketsim/internal/performance"
	"github.com/rxtech-lab/argo-marketsim/internal/types"
	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
)

const weightTolerance = 1e-9

// Simulate values a buy-and-hold portfolio that starts with weights of 1 unit of
// capital in symbols and returns its statistics.
func Simulate(p *panel.PricePanel, symbols []string, weights []float64) (performance.Stats, error) {
	normalized, err := normalizedCloses(p, symbols)
	if err != nil {
		return performance.Stats{}, err
	}

	return simulate(normalized, p.Calendar.Len(), weights)
}

func simulate(normalized [][]float64, sessions int, weights []float64) (performance.Stats, error) {
	if err := checkWeights(len(normalized), weights); err != nil {
		return performance.Stats{}, err
	}

	values := make([]float64, sessions)
	for i, series := range normalized {
		for t, v := range series {
			values[t] += weights[i] * v
		}
	}

	return performance.Analyze(values)
}

func normalizedCloses(p *panel.PricePanel, symbols []string) ([][]float64, error) {
	closes, err := p.Field(types.FieldClose)
	if err != nil {
		return nil, err
	}

	out := make([][]float64, len(symbols))

	for i, symbol := range symbols {
		series, ok := closes.Series(symbol)
		if !ok {
			return nil, errors.Newf(errors.ErrCodeSymbolNotInPanel, "symbol %s not in panel", symbol)
		}

		if out[i], err = performance.Normalize(series); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidSeries, err, "symbol %s", symbol)
		}
	}

	return out, nil
}

func checkWeights(n int, weights []float64) error {
	if len(weights) != n {
		return errors.Newf(errors.ErrCodeInvalidWeights, "got %d weights for %d symbols", len(weights), n)
	}

	sum := 0.0

	for _, w := range weights {
		if w < 0 {
			return errors.Newf(errors.ErrCodeInvalidWeights, "negative weight %v", w)
		}

		sum += w
	}

	if math.Abs(sum-1) > weightTolerance {
		return errors.Newf(errors.ErrCodeInvalidWeights, "weights sum to %v, not 1", sum)
	}

	return nil
}

// Grid lists every weight vector for n symbols whose entries are multiples of
// step and sum to 1. step must divide 1.
func Grid(n int, step float64) ([][]float64, error) {
	if n <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "grid needs at least one symbol")
	}

	if step <= 0 || step > 1 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "step %v out of range", step)
	}

	units := int(math.Round(1 / step))
	if math.Abs(float64(units)*step-1) > weightTolerance {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "step %v does not divide 1", step)
	}

	var (
		grid    [][]float64
		current = make([]int, n)
	)

	var fill func(pos, left int)
	fill = func(pos, left int) {
		if pos == n-1 {
			current[pos] = left

			weights := make([]float64, n)
			for i, u := range current {
				weights[i] = float64(u) / float64(units)
			}

			grid = append(grid, weights)

			return
		}

		for u := left; u >= 0; u-- {
			current[pos] = u
			fill(pos+1, left-u)
		}
	}

	fill(0, units)

	return grid, nil
}

// Result is the best grid point.
type Result struct {
	Weights []float64
	Stats   performance.Stats
	Sharpe  float64
	// Evaluated counts grid points with a defined Sharpe ratio.
	Evaluated int
}

// Search evaluates every grid point and returns the one with the highest Sharpe ratio.
// Points with an undefined Sharpe ratio are skipped. Ties keep the earlier point.
func Search(ctx context.Context, p *panel.PricePanel, symbols []string, step float64) (Result, error) {
	grid, err := Grid(len(symbols), step)
	if err != nil {
		return Result{}, err
	}

	normalized, err := normalizedCloses(p, symbols)
	if err != nil {
		return Result{}, err
	}

	best := Result{Sharpe: math.Inf(-1)}

	for _, weights := range grid {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		stats, err := simulate(normalized, p.Calendar.Len(), weights)
		if err != nil {
			return Result{}, err
		}

		sharpe, err := stats.SharpeRatio()
		if err != nil {
			continue
		}

		best.Evaluated++

		if sharpe > best.Sharpe {
			best.Weights, best.Stats, best.Sharpe = weights, stats, sharpe
		}
	}

	if best.Evaluated == 0 {
		return Result{}, &errors.DegenerateSeriesError{Reason: "no grid point has a defined sharpe ratio"}
	}

	return best, nil
}

// Package performance derives return statistics from daily value series.
package performance

import (
	"math"
	"slices"

	"github.com/markcheno/go-talib"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-marketsim/internal/types"
	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
)

// TradingDaysPerYear annualizes the Sharpe ratio.
const TradingDaysPerYear = 252

// Stats summarizes a value series.
type Stats struct {
	Volatility       float64
	MeanDailyReturn  float64
	CumulativeReturn float64
	MaxDrawdown      float64
	Sessions         int

	sharpe optional.Option[float64]
}

// SharpeRatio returns the annualized Sharpe ratio, or a DegenerateSeriesError
// when the return series has zero volatility.
func (s Stats) SharpeRatio() (float64, error) {
	if s.sharpe.IsNone() {
		return 0, &errors.DegenerateSeriesError{Reason: "zero volatility, sharpe ratio undefined"}
	}

	return s.sharpe.Unwrap(), nil
}

// Summary converts the stats into their persisted form.
func (s Stats) Summary() types.PerformanceSummary {
	summary := types.PerformanceSummary{
		Volatility:       s.Volatility,
		MeanDailyReturn:  s.MeanDailyReturn,
		CumulativeReturn: s.CumulativeReturn,
		MaxDrawdown:      s.MaxDrawdown,
		Sessions:         s.Sessions,
	}

	if s.sharpe.IsSome() {
		sharpe := s.sharpe.Unwrap()
		summary.SharpeRatio = &sharpe
	}

	return summary
}

// Normalize divides every value by the first one.
func Normalize(values []float64) ([]float64, error) {
	if len(values) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidSeries, "empty value series")
	}

	if !(values[0] > 0) {
		return nil, errors.Newf(errors.ErrCodeInvalidSeries, "first value must be positive, got %v", values[0])
	}

	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v / values[0]
	}

	return out, nil
}

// DailyReturns returns values[t]/values[t-1]-1 for t >= 1.
func DailyReturns(values []float64) ([]float64, error) {
	if len(values) < 2 {
		return []float64{}, nil
	}

	out := make([]float64, len(values)-1)

	for t := 1; t < len(values); t++ {
		if values[t-1] == 0 {
			return nil, errors.Newf(errors.ErrCodeInvalidSeries, "zero value at session index %d", t-1)
		}

		out[t-1] = values[t]/values[t-1] - 1
	}

	return out, nil
}

// MeanStd returns the arithmetic mean and population standard deviation of xs.
// Both are zero for an empty slice.
func MeanStd(xs []float64) (float64, float64) {
	switch len(xs) {
	case 0:
		return 0, 0
	case 1:
		return xs[0], 0
	}

	n := len(xs)
	mean := talib.Sma(xs, n)[n-1]

	if !slices.ContainsFunc(xs, func(x float64) bool { return x != xs[0] }) {
		return mean, 0
	}

	// population variance in two passes; talib.StdDev truncates variances below 1e-14
	variance := 0.0
	for _, x := range xs {
		variance += (x - mean) * (x - mean)
	}

	return mean, math.Sqrt(variance / float64(n))
}

// MaxDrawdown returns the largest decline from a running peak as a fraction of that peak.
func MaxDrawdown(values []float64) float64 {
	peak := math.Inf(-1)
	worst := 0.0

	for _, v := range values {
		if v > peak {
			peak = v
		}

		if peak > 0 {
			if dd := (peak - v) / peak; dd > worst {
				worst = dd
			}
		}
	}

	return worst
}

// Analyze computes the statistics of a value series.
func Analyze(values []float64) (Stats, error) {
	normalized, err := Normalize(values)
	if err != nil {
		return Stats{}, err
	}

	returns, err := DailyReturns(normalized)
	if err != nil {
		return Stats{}, err
	}

	mean, vol := MeanStd(returns)

	stats := Stats{
		Volatility:       vol,
		MeanDailyReturn:  mean,
		CumulativeReturn: normalized[len(normalized)-1] - 1,
		MaxDrawdown:      MaxDrawdown(normalized),
		Sessions:         len(values),
		sharpe:           optional.None[float64](),
	}

	if vol > 0 {
		stats.sharpe = optional.Some(math.Sqrt(TradingDaysPerYear) * mean / vol)
	}

	return stats, nil
}

// Comparison holds a fund's statistics next to its benchmark's.
type Comparison struct {
	Fund      Stats
	Benchmark Stats
}

// Compare analyzes a fund and a benchmark over the same sessions.
func Compare(fund []float64, benchmark []float64) (Comparison, error) {
	if len(fund) != len(benchmark) {
		return Comparison{}, errors.Newf(errors.ErrCodeCalendarMismatch,
			"fund has %d sessions, benchmark has %d", len(fund), len(benchmark))
	}

	f, err := Analyze(fund)
	if err != nil {
		return Comparison{}, errors.Wrap(errors.ErrCodeInvalidSeries, "fund", err)
	}

	b, err := Analyze(benchmark)
	if err != nil {
		return Comparison{}, errors.Wrap(errors.ErrCodeInvalidSeries, "benchmark", err)
	}

	return Comparison{Fund: f, Benchmark: b}, nil
}

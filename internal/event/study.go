package event

import (
	"github.com/rxtech-lab/argo-marketsim/internal/panel"
	"github.com/rxtech-lab/argo-marketsim/internal/performance"
	"github.com/rxtech-lab/argo-marketsim/internal/types"
	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
)

// StudyOptions configures an event study.
type StudyOptions struct {
	Lookback    int
	Lookforward int
	// MarketNeutral subtracts the benchmark's daily return from every symbol's.
	MarketNeutral bool
	Benchmark     string
	// Field is the price the study follows. Empty means close.
	Field types.PriceField
}

// Study is the average cumulative price path around events, normalized to 1 on the event session.
type Study struct {
	// Offsets run from -Lookback to +Lookforward.
	Offsets []int
	Mean    []float64
	Std     []float64
	// Events counts the events with a complete window. The benchmark's own events are excluded
	// in market neutral studies.
	Events int
}

// RunStudy profiles the events of m over prices from p. Events closer than Lookback
// sessions to the first session or Lookforward sessions to the last are skipped.
func RunStudy(m *Matrix, p *panel.PricePanel, opts StudyOptions) (Study, error) {
	if opts.Lookback < 0 || opts.Lookforward < 0 {
		return Study{}, errors.Newf(errors.ErrCodeInvalidParameter,
			"lookback and lookforward must not be negative, got %d and %d", opts.Lookback, opts.Lookforward)
	}

	if !m.Calendar().Equal(p.Calendar) {
		return Study{}, errors.New(errors.ErrCodeCalendarMismatch, "event matrix and panel use different calendars")
	}

	field := opts.Field
	if field == "" {
		field = types.FieldClose
	}

	prices, err := p.Field(field)
	if err != nil {
		return Study{}, err
	}

	var market []float64

	if opts.MarketNeutral {
		series, ok := prices.Series(opts.Benchmark)
		if opts.Benchmark == "" || !ok {
			return Study{}, errors.Newf(errors.ErrCodeSymbolNotInPanel, "market neutral study needs benchmark %q in panel", opts.Benchmark)
		}

		market = returns(series)
	}

	width := opts.Lookback + opts.Lookforward + 1
	last := p.Calendar.LastIndex()

	var paths [][]float64

	for _, e := range m.Events() {
		if opts.MarketNeutral && e.Symbol == opts.Benchmark {
			continue
		}

		if e.Index < opts.Lookback || e.Index+opts.Lookforward > last {
			continue
		}

		series, ok := prices.Series(e.Symbol)
		if !ok {
			return Study{}, errors.Newf(errors.ErrCodeSymbolNotInPanel, "symbol %s not in panel", e.Symbol)
		}

		rets := returns(series)
		path := make([]float64, width)
		level := 1.0

		for k := 0; k < width; k++ {
			t := e.Index - opts.Lookback + k

			r := rets[t]
			if market != nil {
				r -= market[t]
			}

			level *= 1 + r
			path[k] = level
		}

		anchor := path[opts.Lookback]
		if anchor == 0 {
			return Study{}, &errors.DegenerateSeriesError{Reason: "cumulative path of " + e.Symbol + " is zero on its event session"}
		}

		for k := range path {
			path[k] /= anchor
		}

		paths = append(paths, path)
	}

	study := Study{Offsets: make([]int, width), Events: len(paths)}
	for k := range study.Offsets {
		study.Offsets[k] = k - opts.Lookback
	}

	if len(paths) == 0 {
		return study, nil
	}

	study.Mean = make([]float64, width)
	study.Std = make([]float64, width)
	column := make([]float64, len(paths))

	for k := 0; k < width; k++ {
		for i, path := range paths {
			column[i] = path[k]
		}

		study.Mean[k], study.Std[k] = performance.MeanStd(column)
	}

	return study, nil
}

package event

import (
	"context"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-marketsim/internal/panel"
	"github.com/rxtech-lab/argo-marketsim/internal/types"
	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// ScanOptions are the per-run parameters of a scan.
type ScanOptions struct {
	// Threshold overrides the scanner's default threshold.
	Threshold optional.Option[float64]
	// Benchmark is the market symbol whose return is computed next to each symbol's.
	// Empty skips the benchmark.
	Benchmark string
}

// Scanner detects events in a price panel.
type Scanner interface {
	// Name is the identifier the scanner is registered under.
	Name() string
	// Fields lists the price fields the scanner reads.
	Fields() []types.PriceField
	// Scan flags events for symbols over the panel's calendar.
	Scan(ctx context.Context, p *panel.PricePanel, symbols []string, opts ScanOptions) (*Matrix, error)
}

// Gate decides whether a price crossing counts as an event given the symbol's
// and the benchmark's return on the crossing session.
type Gate func(symbolReturn float64, benchmarkReturn float64) bool

// ThresholdCross flags session i when price[i-1] >= threshold and price[i] < threshold.
type ThresholdCross struct {
	name      string
	field     types.PriceField
	threshold float64
	gate      Gate
}

// NewThresholdCross returns a downward crossing scanner on field.
func NewThresholdCross(name string, field types.PriceField, threshold float64) *ThresholdCross {
	return &ThresholdCross{name: name, field: field, threshold: threshold}
}

// WithGate returns a copy of the scanner that also requires gate to pass.
// The gate is only consulted when a benchmark is given.
func (t *ThresholdCross) WithGate(gate Gate) *ThresholdCross {
	copied := *t
	copied.gate = gate

	return &copied
}

// Name implements Scanner.
func (t *ThresholdCross) Name() string {
	return t.name
}

// Fields implements Scanner.
func (t *ThresholdCross) Fields() []types.PriceField {
	return []types.PriceField{t.field}
}

// Scan implements Scanner.
func (t *ThresholdCross) Scan(ctx context.Context, p *panel.PricePanel, symbols []string, opts ScanOptions) (*Matrix, error) {
	prices, err := p.Field(t.field)
	if err != nil {
		return nil, err
	}

	threshold := t.threshold
	if opts.Threshold.IsSome() {
		threshold = opts.Threshold.Unwrap()
	}

	var benchmark []float64

	if opts.Benchmark != "" {
		series, ok := prices.Series(opts.Benchmark)
		if !ok {
			return nil, errors.Newf(errors.ErrCodeSymbolNotInPanel, "benchmark %s not in panel", opts.Benchmark)
		}

		benchmark = returns(series)
	}

	for _, symbol := range symbols {
		if !prices.Has(symbol) {
			return nil, errors.Newf(errors.ErrCodeSymbolNotInPanel, "symbol %s not in panel", symbol)
		}
	}

	flags := make(map[string][]Flag, len(symbols))
	rows := make([][]Flag, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	for i, symbol := range symbols {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			series, _ := prices.Series(symbol)
			rows[i] = t.scanSeries(series, threshold, benchmark)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeScanFailed, "scan cancelled", err)
	}

	for i, symbol := range symbols {
		flags[symbol] = rows[i]
	}

	return NewMatrix(p.Calendar, symbols, flags)
}

func (t *ThresholdCross) scanSeries(series []float64, threshold float64, benchmark []float64) []Flag {
	flags := make([]Flag, len(series))
	symbolReturns := returns(series)

	for i := range series {
		flags[i] = FlagNoEvent

		if i == 0 || !(series[i-1] >= threshold && series[i] < threshold) {
			continue
		}

		if t.gate != nil && benchmark != nil && !t.gate(symbolReturns[i], benchmark[i]) {
			continue
		}

		flags[i] = FlagEvent
	}

	return flags
}

// returns gives series[i]/series[i-1]-1 with a zero first entry.
func returns(series []float64) []float64 {
	out := make([]float64, len(series))

	for i := 1; i < len(series); i++ {
		if series[i-1] != 0 {
			out[i] = series[i]/series[i-1] - 1
		}
	}

	return out
}

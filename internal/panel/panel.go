// Package panel builds the aligned, gap-filled price panel every downstream
// component of a backtest reads from.
package panel

import (
	"context"
	"slices"

	"github.com/rxtech-lab/argo-marketsim/internal/calendar"
	"github.com/rxtech-lab/argo-marketsim/internal/logger"
	"github.com/rxtech-lab/argo-marketsim/internal/marketdata"
	"github.com/rxtech-lab/argo-marketsim/internal/types"
	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PricePanel is a typed record of aligned tables. Fields that were not requested are nil.
type PricePanel struct {
	Calendar    *calendar.TradingCalendar
	Symbols     []string
	Open        *Table
	High        *Table
	Low         *Table
	Close       *Table
	Volume      *Table
	ActualClose *Table

	// Gaps lists the series that had no observation and were filled with the fallback.
	Gaps []*errors.DataGapError
}

// Field returns the table for f, or an error when the field was not loaded.
func (p *PricePanel) Field(f types.PriceField) (*Table, error) {
	var table *Table

	switch f {
	case types.FieldOpen:
		table = p.Open
	case types.FieldHigh:
		table = p.High
	case types.FieldLow:
		table = p.Low
	case types.FieldClose:
		table = p.Close
	case types.FieldVolume:
		table = p.Volume
	case types.FieldActualClose:
		table = p.ActualClose
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "unknown price field %q", f)
	}

	if table == nil {
		return nil, errors.Newf(errors.ErrCodeFieldNotLoaded, "field %s not loaded in panel", f)
	}

	return table, nil
}

// Has reports whether symbol is part of the panel.
func (p *PricePanel) Has(symbol string) bool {
	return slices.Contains(p.Symbols, symbol)
}

func (p *PricePanel) set(f types.PriceField, table *Table) {
	switch f {
	case types.FieldOpen:
		p.Open = table
	case types.FieldHigh:
		p.High = table
	case types.FieldLow:
		p.Low = table
	case types.FieldClose:
		p.Close = table
	case types.FieldVolume:
		p.Volume = table
	case types.FieldActualClose:
		p.ActualClose = table
	}
}

// Assemble places already complete tables into a panel. All tables must share
// cal and symbols.
func Assemble(cal *calendar.TradingCalendar, symbols []string, tables map[types.PriceField]*Table) (*PricePanel, error) {
	p := &PricePanel{Calendar: cal, Symbols: append([]string(nil), symbols...)}

	for _, f := range types.AllPriceFields {
		table, ok := tables[f]
		if !ok {
			continue
		}

		if !table.Calendar().Equal(cal) {
			return nil, errors.Newf(errors.ErrCodeCalendarMismatch, "table %s is aligned to a different calendar", f)
		}

		if !slices.Equal(table.symbols, p.Symbols) {
			return nil, errors.Newf(errors.ErrCodeSymbolNotInPanel, "table %s has different symbols", f)
		}

		p.set(f, table)
	}

	return p, nil
}

// Builder fetches raw data and fills it into a PricePanel.
type Builder struct {
	provider marketdata.Provider
	logger   *logger.Logger
	fallback float64
}

// NewBuilder returns a builder using DefaultFallback.
func NewBuilder(provider marketdata.Provider, log *logger.Logger) *Builder {
	return &Builder{provider: provider, logger: logger.OrNop(log), fallback: DefaultFallback}
}

// WithFallback returns a copy of the builder that substitutes fallback for fully missing series.
func (b *Builder) WithFallback(fallback float64) *Builder {
	copied := *b
	copied.fallback = fallback

	return &copied
}

// Build retrieves fields for symbols over cal and gap-fills every series.
// Symbols without any observation are kept and reported in PricePanel.Gaps.
func (b *Builder) Build(ctx context.Context, symbols []string, fields []types.PriceField, cal *calendar.TradingCalendar) (*PricePanel, error) {
	symbols = dedupe(symbols)

	raw, err := b.provider.GetData(ctx, cal, symbols, fields)
	if err != nil {
		return nil, err
	}

	p, err := Fill(ctx, raw, fields, b.fallback)
	if err != nil {
		return nil, err
	}

	for _, gap := range p.Gaps {
		b.logger.Warn("No data for symbol, using fallback",
			zap.String("symbol", gap.Symbol),
			zap.String("field", gap.Field),
			zap.Float64("fallback", gap.Fallback),
		)
	}

	return p, nil
}

// Fill gap-fills a raw panel. Series are filled independently and concurrently.
func Fill(ctx context.Context, raw *marketdata.RawPanel, fields []types.PriceField, fallback float64) (*PricePanel, error) {
	cal := raw.Calendar
	symbols := raw.Symbols

	type job struct {
		field  types.PriceField
		symbol string
	}

	var jobs []job

	for _, f := range fields {
		for _, symbol := range symbols {
			jobs = append(jobs, job{field: f, symbol: symbol})
		}
	}

	filled := make([][]float64, len(jobs))
	missing := make([]bool, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	for i, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			series := raw.Fields[j.field][j.symbol]
			if len(series) != cal.Len() {
				return errors.Newf(errors.ErrCodeCalendarMismatch,
					"raw %s series for %s has %d values, calendar has %d sessions", j.field, j.symbol, len(series), cal.Len())
			}

			filled[i], missing[i] = FillGaps(series, fallback)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	p := &PricePanel{Calendar: cal, Symbols: append([]string(nil), symbols...)}

	for fi, f := range fields {
		series := make(map[string][]float64, len(symbols))

		for si, symbol := range symbols {
			i := fi*len(symbols) + si
			series[symbol] = filled[i]

			if missing[i] {
				p.Gaps = append(p.Gaps, &errors.DataGapError{
					Symbol:   symbol,
					Field:    string(f),
					Sessions: cal.Len(),
					Fallback: fallback,
				})
			}
		}

		table, err := NewTable(cal, symbols, series)
		if err != nil {
			return nil, err
		}

		p.set(f, table)
	}

	return p, nil
}

func dedupe(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	out := make([]string, 0, len(symbols))

	for _, s := range symbols {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	return out
}

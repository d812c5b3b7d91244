// Package marketdata is the market data collaborator of a backtest run. It resolves
// symbol lists and hands raw, possibly incomplete, per-field tables to the panel builder.
package marketdata

import (
	"context"
	"math"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-marketsim/internal/calendar"
	"github.com/rxtech-lab/argo-marketsim/internal/types"
)

// RawSeries is one symbol's values aligned to a calendar. None marks a missing observation.
type RawSeries []optional.Option[float64]

// RawTable maps a symbol to its raw series for one field.
type RawTable map[string]RawSeries

// RawPanel is the unfilled result of a data request.
type RawPanel struct {
	Calendar *calendar.TradingCalendar
	Symbols  []string
	Fields   map[types.PriceField]RawTable
}

// NewRawPanel returns a panel where every requested series is fully missing.
func NewRawPanel(cal *calendar.TradingCalendar, symbols []string, fields []types.PriceField) *RawPanel {
	panel := &RawPanel{
		Calendar: cal,
		Symbols:  append([]string(nil), symbols...),
		Fields:   make(map[types.PriceField]RawTable, len(fields)),
	}

	for _, field := range fields {
		table := make(RawTable, len(symbols))
		for _, symbol := range symbols {
			table[symbol] = make(RawSeries, cal.Len())
		}

		panel.Fields[field] = table
	}

	return panel
}

// Set records an observation. NaN and infinite values, and values for unknown sessions,
// symbols or fields are ignored.
func (p *RawPanel) Set(field types.PriceField, symbol string, session types.Session, value float64) bool {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return false
	}

	table, ok := p.Fields[field]
	if !ok {
		return false
	}

	series, ok := table[symbol]
	if !ok {
		return false
	}

	i, ok := p.Calendar.IndexOf(session)
	if !ok {
		return false
	}

	series[i] = optional.Some(value)

	return true
}

// Provider is the source of symbol universes and raw daily prices.
type Provider interface {
	// GetTradingUniverse returns the symbols of a named list.
	GetTradingUniverse(ctx context.Context, list string) ([]string, error)
	// GetData returns the raw values of fields for symbols on every session of cal.
	GetData(ctx context.Context, cal *calendar.TradingCalendar, symbols []string, fields []types.PriceField) (*RawPanel, error)
	// GetAllKnownSymbols returns every symbol the provider has data for, sorted.
	GetAllKnownSymbols(ctx context.Context) ([]string, error)
}

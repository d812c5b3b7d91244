package marketdata

import (
	"context"
	"sort"

	"github.com/rxtech-lab/argo-marketsim/internal/calendar"
	"github.com/rxtech-lab/argo-marketsim/internal/types"
	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
)

// MemoryProvider serves bars held in memory.
type MemoryProvider struct {
	bars  map[string]map[types.Session]types.Bar
	lists map[string][]string
}

// NewMemoryProvider indexes bars by symbol and session. A later bar for the same
// symbol and session replaces an earlier one.
func NewMemoryProvider(bars []types.Bar, lists map[string][]string) *MemoryProvider {
	p := &MemoryProvider{
		bars:  map[string]map[types.Session]types.Bar{},
		lists: map[string][]string{},
	}

	for _, bar := range bars {
		bySession, ok := p.bars[bar.Symbol]
		if !ok {
			bySession = map[types.Session]types.Bar{}
			p.bars[bar.Symbol] = bySession
		}

		bySession[bar.Session] = bar
	}

	for name, symbols := range lists {
		p.lists[name] = append([]string(nil), symbols...)
	}

	return p
}

// GetTradingUniverse implements Provider.
func (p *MemoryProvider) GetTradingUniverse(_ context.Context, list string) ([]string, error) {
	symbols, ok := p.lists[list]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeListNotFound, "symbol list %s not found", list)
	}

	return append([]string(nil), symbols...), nil
}

// GetData implements Provider.
func (p *MemoryProvider) GetData(ctx context.Context, cal *calendar.TradingCalendar, symbols []string, fields []types.PriceField) (*RawPanel, error) {
	panel := NewRawPanel(cal, symbols, fields)

	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for session, bar := range p.bars[symbol] {
			if !cal.Contains(session) {
				continue
			}

			for _, field := range fields {
				if value, ok := bar.Value(field); ok {
					panel.Set(field, symbol, session, value)
				}
			}
		}
	}

	return panel, nil
}

// GetAllKnownSymbols implements Provider.
func (p *MemoryProvider) GetAllKnownSymbols(_ context.Context) ([]string, error) {
	symbols := make([]string, 0, len(p.bars))
	for symbol := range p.bars {
		symbols = append(symbols, symbol)
	}

	sort.Strings(symbols)

	return symbols, nil
}

// Package marketsim replays an order ledger against a price panel and values
// the resulting portfolio session by session.
package marketsim

import (
	"context"

	"github.com/rxtech-lab/argo-marketsim/internal/calendar"
	"github.com/rxtech-lab/argo-marketsim/internal/ledger"
	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Holdings is the cumulative signed share count per symbol per session.
type Holdings struct {
	cal     *calendar.TradingCalendar
	symbols []string
	shares  map[string][]float64
}

// Accumulate converts orders into holdings over cal. Every order must fall on a
// session of cal and trade one of symbols.
func Accumulate(ctx context.Context, l *ledger.Ledger, cal *calendar.TradingCalendar, symbols []string) (*Holdings, error) {
	deltas := make(map[string][]float64, len(symbols))
	for _, symbol := range symbols {
		deltas[symbol] = make([]float64, cal.Len())
	}

	for i := 0; i < l.Len(); i++ {
		order := l.At(i)

		idx, ok := cal.IndexOf(order.Session)
		if !ok {
			return nil, errors.Newf(errors.ErrCodeSessionNotInWindow,
				"order for %s on %s is not on a session of the calendar", order.Symbol, order.Session)
		}

		series, ok := deltas[order.Symbol]
		if !ok {
			return nil, errors.Newf(errors.ErrCodeSymbolNotInPanel, "order symbol %s is not a holdings symbol", order.Symbol)
		}

		series[idx] += order.Quantity
	}

	// Prefix sums are independent per symbol. Each goroutine owns one slice.
	g, gctx := errgroup.WithContext(ctx)
	for _, symbol := range symbols {
		series := deltas[symbol]

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			for i := 1; i < len(series); i++ {
				series[i] += series[i-1]
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Holdings{cal: cal, symbols: append([]string(nil), symbols...), shares: deltas}, nil
}

// Calendar returns the sessions the holdings are aligned to.
func (h *Holdings) Calendar() *calendar.TradingCalendar {
	return h.cal
}

// Symbols returns the held symbols.
func (h *Holdings) Symbols() []string {
	return append([]string(nil), h.symbols...)
}

// At returns the shares of symbol held at the close of session index i.
func (h *Holdings) At(symbol string, i int) float64 {
	series, ok := h.shares[symbol]
	if !ok || i < 0 || i >= len(series) {
		return 0
	}

	return series[i]
}

// Shares returns a copy of symbol's share series.
func (h *Holdings) Shares(symbol string) ([]float64, bool) {
	series, ok := h.shares[symbol]
	if !ok {
		return nil, false
	}

	return append([]float64(nil), series...), true
}

package marketsim

import (
	"github.com/rxtech-lab/argo-marketsim/internal/calendar"
	"github.com/rxtech-lab/argo-marketsim/internal/ledger"
	"github.com/rxtech-lab/argo-marketsim/internal/panel"
	"github.com/rxtech-lab/argo-marketsim/internal/types"
	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
	"github.com/shopspring/decimal"
)

// CashLedger is the cash balance at the close of every session.
type CashLedger struct {
	cal      *calendar.TradingCalendar
	balances []float64
	changes  []float64
}

// AccumulateCash books every order at the close price of its own session.
// Starting cash is available from the first session.
func AccumulateCash(l *ledger.Ledger, p *panel.PricePanel, startingCash float64) (*CashLedger, error) {
	closes, err := p.Field(types.FieldClose)
	if err != nil {
		return nil, err
	}

	cal := p.Calendar
	changes := make([]decimal.Decimal, cal.Len())

	for i := 0; i < l.Len(); i++ {
		order := l.At(i)

		idx, ok := cal.IndexOf(order.Session)
		if !ok {
			return nil, errors.Newf(errors.ErrCodeSessionNotInWindow,
				"order for %s on %s is not on a session of the panel", order.Symbol, order.Session)
		}

		price, ok := closes.At(order.Symbol, idx)
		if !ok {
			return nil, errors.Newf(errors.ErrCodeSymbolNotInPanel, "no close price for %s", order.Symbol)
		}

		if !panel.IsFinite(price) || !panel.IsFinite(order.Quantity) {
			return nil, errors.Newf(errors.ErrCodeInvalidSeries,
				"non-finite trade for %s on %s: %v shares at %v", order.Symbol, order.Session, order.Quantity, price)
		}

		flow := decimal.NewFromFloat(order.Quantity).Mul(decimal.NewFromFloat(price)).Neg()
		changes[idx] = changes[idx].Add(flow)
	}

	c := &CashLedger{
		cal:      cal,
		balances: make([]float64, cal.Len()),
		changes:  make([]float64, cal.Len()),
	}

	balance := decimal.NewFromFloat(startingCash)
	for i, change := range changes {
		balance = balance.Add(change)
		c.balances[i] = balance.InexactFloat64()
		c.changes[i] = change.InexactFloat64()
	}

	return c, nil
}

// Calendar returns the sessions the ledger is aligned to.
func (c *CashLedger) Calendar() *calendar.TradingCalendar {
	return c.cal
}

// Balance returns the cash held at the close of session index i.
func (c *CashLedger) Balance(i int) float64 {
	return c.balances[i]
}

// Balances returns a copy of the balance series.
func (c *CashLedger) Balances() []float64 {
	return append([]float64(nil), c.balances...)
}

// Change returns the net trade cash flow booked on session index i.
func (c *CashLedger) Change(i int) float64 {
	return c.changes[i]
}

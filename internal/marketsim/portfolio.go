package marketsim

import (
	"github.com/rxtech-lab/argo-marketsim/internal/calendar"
	"github.com/rxtech-lab/argo-marketsim/internal/panel"
	"github.com/rxtech-lab/argo-marketsim/internal/types"
	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
)

// Portfolio is the daily valuation of holdings plus cash.
// Values[i] == Equities[i] + Cash[i] for every session.
type Portfolio struct {
	Calendar *calendar.TradingCalendar
	Equities []float64
	Cash     []float64
	Values   []float64
}

// ValuePoint is one line of a value file.
type ValuePoint struct {
	Session types.Session
	Value   float64
}

// Value marks every holding to its close and adds the cash balance.
func Value(h *Holdings, c *CashLedger, p *panel.PricePanel) (*Portfolio, error) {
	cal := p.Calendar
	if !h.Calendar().Equal(cal) || !c.Calendar().Equal(cal) {
		return nil, errors.New(errors.ErrCodeCalendarMismatch, "holdings, cash and prices use different calendars")
	}

	portfolio := &Portfolio{
		Calendar: cal,
		Equities: make([]float64, cal.Len()),
		Cash:     c.Balances(),
		Values:   make([]float64, cal.Len()),
	}

	if cal.IsEmpty() {
		return portfolio, nil
	}

	var closes *panel.Table

	if len(h.symbols) > 0 {
		var err error
		if closes, err = p.Field(types.FieldClose); err != nil {
			return nil, err
		}
	}

	for _, symbol := range h.symbols {
		if !closes.Has(symbol) {
			return nil, errors.Newf(errors.ErrCodeSymbolNotInPanel, "no close prices for held symbol %s", symbol)
		}
	}

	for i := 0; i < cal.Len(); i++ {
		equities := 0.0

		for _, symbol := range h.symbols {
			price, _ := closes.At(symbol, i)
			equities += h.At(symbol, i) * price
		}

		portfolio.Equities[i] = equities
		portfolio.Values[i] = equities + portfolio.Cash[i]
	}

	return portfolio, nil
}

// Len returns the number of sessions.
func (p *Portfolio) Len() int {
	return len(p.Values)
}

// Final returns the last value, or zero for an empty portfolio.
func (p *Portfolio) Final() float64 {
	if len(p.Values) == 0 {
		return 0
	}

	return p.Values[len(p.Values)-1]
}

// Points returns the value series paired with its sessions.
func (p *Portfolio) Points() []ValuePoint {
	points := make([]ValuePoint, len(p.Values))
	for i, v := range p.Values {
		points[i] = ValuePoint{Session: p.Calendar.At(i), Value: v}
	}

	return points
}

package event

import (
	"github.com/rxtech-lab/argo-marketsim/internal/calendar"
	"github.com/rxtech-lab/argo-marketsim/internal/ledger"
	"github.com/rxtech-lab/argo-marketsim/internal/types"
	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
)

// Translate emits a Buy of sharesPerEvent on every event session and a Sell of
// the same size holdingPeriod sessions later, clamped to the last session of cal.
// Overlapping events for a symbol are not netted.
func Translate(m *Matrix, cal *calendar.TradingCalendar, holdingPeriod int, sharesPerEvent float64) (*ledger.Ledger, error) {
	if holdingPeriod < 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidHoldingPeriod, "holding period must not be negative, got %d", holdingPeriod)
	}

	if !(sharesPerEvent > 0) {
		return nil, errors.Newf(errors.ErrCodeInvalidShareCount, "shares per event must be positive, got %v", sharesPerEvent)
	}

	if !m.Calendar().Equal(cal) {
		return nil, errors.New(errors.ErrCodeCalendarMismatch, "event matrix is aligned to a different calendar")
	}

	events := m.Events()
	orders := make([]types.Order, 0, 2*len(events))
	last := cal.LastIndex()

	for _, e := range events {
		exit := min(e.Index+holdingPeriod, last)

		orders = append(orders,
			types.Order{Session: e.Session, Symbol: e.Symbol, Quantity: sharesPerEvent},
			types.Order{Session: cal.At(exit), Symbol: e.Symbol, Quantity: -sharesPerEvent},
		)
	}

	return ledger.New(orders), nil
}

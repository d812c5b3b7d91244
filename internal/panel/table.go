package panel

import (
	"github.com/rxtech-lab/argo-marketsim/internal/calendar"
	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
)

// Table holds one field's complete values indexed by symbol and session.
// A Table is never modified after construction.
type Table struct {
	cal     *calendar.TradingCalendar
	symbols []string
	index   map[string]int
	values  [][]float64
}

// NewTable builds a table from one series per symbol. Every series must have
// one value per session of cal.
func NewTable(cal *calendar.TradingCalendar, symbols []string, series map[string][]float64) (*Table, error) {
	t := &Table{
		cal:     cal,
		symbols: append([]string(nil), symbols...),
		index:   make(map[string]int, len(symbols)),
		values:  make([][]float64, len(symbols)),
	}

	for i, symbol := range symbols {
		if _, dup := t.index[symbol]; dup {
			return nil, errors.Newf(errors.ErrCodeInvalidParameter, "duplicate symbol %s", symbol)
		}

		values, ok := series[symbol]
		if !ok {
			return nil, errors.Newf(errors.ErrCodeSymbolNotInPanel, "no series for symbol %s", symbol)
		}

		if len(values) != cal.Len() {
			return nil, errors.Newf(errors.ErrCodeCalendarMismatch,
				"series for %s has %d values, calendar has %d sessions", symbol, len(values), cal.Len())
		}

		t.index[symbol] = i
		t.values[i] = append([]float64(nil), values...)
	}

	return t, nil
}

// Calendar returns the sessions the table is aligned to.
func (t *Table) Calendar() *calendar.TradingCalendar {
	return t.cal
}

// Symbols returns the table's symbols in insertion order.
func (t *Table) Symbols() []string {
	return append([]string(nil), t.symbols...)
}

// Has reports whether symbol is in the table.
func (t *Table) Has(symbol string) bool {
	_, ok := t.index[symbol]

	return ok
}

// At returns the value of symbol at session index i.
func (t *Table) At(symbol string, i int) (float64, bool) {
	row, ok := t.index[symbol]
	if !ok || i < 0 || i >= t.cal.Len() {
		return 0, false
	}

	return t.values[row][i], true
}

// Series returns a copy of symbol's values.
func (t *Table) Series(symbol string) ([]float64, bool) {
	row, ok := t.index[symbol]
	if !ok {
		return nil, false
	}

	return append([]float64(nil), t.values[row]...), true
}

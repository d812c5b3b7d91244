// Package event detects price events, turns them into synthetic orders and
// measures the average price response around them.
package event

import (
	"github.com/rxtech-lab/argo-marketsim/internal/calendar"
	"github.com/rxtech-lab/argo-marketsim/internal/types"
	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
)

// Flag is the state of one (symbol, session) cell of a Matrix.
type Flag int8

const (
	// FlagUnknown marks a cell that was never evaluated.
	FlagUnknown Flag = iota
	// FlagNoEvent marks an evaluated cell without an event.
	FlagNoEvent
	// FlagEvent marks a detected event.
	FlagEvent
)

// String implements fmt.Stringer.
func (f Flag) String() string {
	switch f {
	case FlagNoEvent:
		return "no_event"
	case FlagEvent:
		return "event"
	default:
		return "unknown"
	}
}

// Occurrence is one flagged cell.
type Occurrence struct {
	Symbol  string
	Index   int
	Session types.Session
}

// Matrix holds one flag per symbol per session. Symbols keep the order they were given in.
type Matrix struct {
	cal     *calendar.TradingCalendar
	symbols []string
	index   map[string]int
	flags   [][]Flag
}

// NewMatrix builds a matrix from one flag series per symbol. Missing symbols are all unknown.
func NewMatrix(cal *calendar.TradingCalendar, symbols []string, flags map[string][]Flag) (*Matrix, error) {
	m := &Matrix{
		cal:     cal,
		symbols: append([]string(nil), symbols...),
		index:   make(map[string]int, len(symbols)),
		flags:   make([][]Flag, len(symbols)),
	}

	for i, symbol := range symbols {
		if _, dup := m.index[symbol]; dup {
			return nil, errors.Newf(errors.ErrCodeInvalidParameter, "duplicate symbol %s", symbol)
		}

		m.index[symbol] = i
		m.flags[i] = make([]Flag, cal.Len())

		series, ok := flags[symbol]
		if !ok {
			continue
		}

		if len(series) != cal.Len() {
			return nil, errors.Newf(errors.ErrCodeCalendarMismatch,
				"flags for %s have %d values, calendar has %d sessions", symbol, len(series), cal.Len())
		}

		copy(m.flags[i], series)
	}

	return m, nil
}

// Calendar returns the sessions the matrix is aligned to.
func (m *Matrix) Calendar() *calendar.TradingCalendar {
	return m.cal
}

// Symbols returns the matrix symbols.
func (m *Matrix) Symbols() []string {
	return append([]string(nil), m.symbols...)
}

// At returns the flag of symbol at session index i.
func (m *Matrix) At(symbol string, i int) Flag {
	row, ok := m.index[symbol]
	if !ok || i < 0 || i >= m.cal.Len() {
		return FlagUnknown
	}

	return m.flags[row][i]
}

// Count returns the number of events.
func (m *Matrix) Count() int {
	n := 0

	for _, row := range m.flags {
		for _, f := range row {
			if f == FlagEvent {
				n++
			}
		}
	}

	return n
}

// Events lists every event ordered by session, then by matrix symbol order.
func (m *Matrix) Events() []Occurrence {
	var out []Occurrence

	for i := 0; i < m.cal.Len(); i++ {
		for row, symbol := range m.symbols {
			if m.flags[row][i] == FlagEvent {
				out = append(out, Occurrence{Symbol: symbol, Index: i, Session: m.cal.At(i)})
			}
		}
	}

	return out
}

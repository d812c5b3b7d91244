// Package calendar produces the ordered trading sessions a backtest is aligned to.
// A TradingCalendar is an immutable value passed explicitly to every component
// that needs session alignment.
package calendar

import (
	"sort"

	"github.com/rxtech-lab/argo-marketsim/internal/types"
	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
)

// Schedule decides whether a date is a trading day on some exchange.
type Schedule interface {
	IsTradingDay(day types.Session) bool
}

// TradingCalendar is a strictly increasing sequence of sessions without duplicates.
type TradingCalendar struct {
	sessions []types.Session
	index    map[types.Session]int
}

// New builds a calendar from sessions that must already be strictly increasing.
func New(sessions []types.Session) (*TradingCalendar, error) {
	index := make(map[types.Session]int, len(sessions))

	for i, s := range sessions {
		if s.IsZero() {
			return nil, errors.Newf(errors.ErrCodeInvalidCalendar, "zero session at index %d", i)
		}

		if i > 0 && !sessions[i-1].Before(s) {
			return nil, errors.Newf(errors.ErrCodeInvalidCalendar,
				"sessions not strictly increasing at index %d: %s after %s", i, s, sessions[i-1])
		}

		index[s] = i
	}

	owned := make([]types.Session, len(sessions))
	copy(owned, sessions)

	return &TradingCalendar{sessions: owned, index: index}, nil
}

// FromDates builds a calendar from unordered dates, sorting them and dropping duplicates.
func FromDates(dates []types.Session) (*TradingCalendar, error) {
	sorted := make([]types.Session, len(dates))
	copy(sorted, dates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	unique := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			unique = append(unique, s)
		}
	}

	return New(unique)
}

// Sessions returns the trading sessions of schedule between start and end, inclusive.
// An end before start yields an empty calendar.
func Sessions(schedule Schedule, start, end types.Session) *TradingCalendar {
	cal := &TradingCalendar{sessions: nil, index: map[types.Session]int{}}
	if end.Before(start) {
		return cal
	}

	for day := start; !day.After(end); day = day.AddDays(1) {
		if schedule.IsTradingDay(day) {
			cal.index[day] = len(cal.sessions)
			cal.sessions = append(cal.sessions, day)
		}
	}

	return cal
}

// Len returns the number of sessions.
func (c *TradingCalendar) Len() int {
	return len(c.sessions)
}

// IsEmpty reports whether the calendar has no sessions.
func (c *TradingCalendar) IsEmpty() bool {
	return len(c.sessions) == 0
}

// At returns the session at index i. It panics when i is out of range.
func (c *TradingCalendar) At(i int) types.Session {
	return c.sessions[i]
}

// First returns the first session, or false for an empty calendar.
func (c *TradingCalendar) First() (types.Session, bool) {
	if len(c.sessions) == 0 {
		return types.Session{}, false
	}

	return c.sessions[0], true
}

// Last returns the last session, or false for an empty calendar.
func (c *TradingCalendar) Last() (types.Session, bool) {
	if len(c.sessions) == 0 {
		return types.Session{}, false
	}

	return c.sessions[len(c.sessions)-1], true
}

// LastIndex returns the index of the last session, -1 when empty.
func (c *TradingCalendar) LastIndex() int {
	return len(c.sessions) - 1
}

// IndexOf returns the index of s, or false when s is not a session of the calendar.
func (c *TradingCalendar) IndexOf(s types.Session) (int, bool) {
	i, ok := c.index[s]

	return i, ok
}

// Contains reports whether s is a session of the calendar.
func (c *TradingCalendar) Contains(s types.Session) bool {
	_, ok := c.index[s]

	return ok
}

// IndexOnOrAfter returns the index of the first session not before s.
func (c *TradingCalendar) IndexOnOrAfter(s types.Session) (int, bool) {
	i := sort.Search(len(c.sessions), func(i int) bool { return !c.sessions[i].Before(s) })
	if i == len(c.sessions) {
		return 0, false
	}

	return i, true
}

// Sessions returns a copy of the sessions.
func (c *TradingCalendar) Sessions() []types.Session {
	out := make([]types.Session, len(c.sessions))
	copy(out, c.sessions)

	return out
}

// Between returns the sub-calendar of sessions within [start, end].
func (c *TradingCalendar) Between(start, end types.Session) *TradingCalendar {
	sub := &TradingCalendar{sessions: nil, index: map[types.Session]int{}}
	if end.Before(start) {
		return sub
	}

	for _, s := range c.sessions {
		if s.Before(start) || s.After(end) {
			continue
		}

		sub.index[s] = len(sub.sessions)
		sub.sessions = append(sub.sessions, s)
	}

	return sub
}

// Equal reports whether both calendars hold the same sessions.
func (c *TradingCalendar) Equal(other *TradingCalendar) bool {
	if c == other {
		return true
	}

	if c == nil || other == nil || len(c.sessions) != len(other.sessions) {
		return false
	}

	for i := range c.sessions {
		if c.sessions[i] != other.sessions[i] {
			return false
		}
	}

	return true
}

// IsTradingDay implements Schedule so a calendar can act as its own schedule.
func (c *TradingCalendar) IsTradingDay(day types.Session) bool {
	return c.Contains(day)
}

package types

import (
	"cmp"
	"fmt"
	"strings"
	"time"

	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
)

// CloseOffset is the end-of-day valuation marker added to a session's date.
const CloseOffset = 16 * time.Hour

// SessionLayout is the canonical text form of a session.
const SessionLayout = "2006-01-02"

// Session is a single trading date valued at end of day.
// Sessions are comparable and can be used as map keys. The zero value is not a valid session.
type Session struct {
	Year  int
	Month time.Month
	Day   int
}

// NewSession returns the session for the given calendar date.
// Out of range values are normalized the way time.Date does.
func NewSession(year int, month time.Month, day int) Session {
	return SessionOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// SessionOf returns the session holding t's calendar date in t's location.
func SessionOf(t time.Time) Session {
	year, month, day := t.Date()

	return Session{Year: year, Month: month, Day: day}
}

// ValidDate reports whether year, month and day name a real calendar date.
func ValidDate(year int, month int, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}

	s := NewSession(year, time.Month(month), day)

	return s.Year == year && int(s.Month) == month && s.Day == day
}

// ParseSession parses a session in YYYY-MM-DD, YYYY/MM/DD or M/D/YYYY form.
func ParseSession(value string) (Session, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{SessionLayout, "2006/01/02", "1/2/2006", "01/02/2006"} {
		t, err := time.Parse(layout, value)
		if err == nil {
			return SessionOf(t), nil
		}
	}

	return Session{}, errors.Newf(errors.ErrCodeInvalidParameter, "invalid session date %q", value)
}

// Time returns midnight UTC of the session's date.
func (s Session) Time() time.Time {
	return time.Date(s.Year, s.Month, s.Day, 0, 0, 0, 0, time.UTC)
}

// Close returns the end-of-day valuation time of the session.
func (s Session) Close() time.Time {
	return s.Time().Add(CloseOffset)
}

// Weekday returns the day of the week of the session.
func (s Session) Weekday() time.Weekday {
	return s.Time().Weekday()
}

// AddDays returns the calendar date n days after s. It does not skip non-trading days.
func (s Session) AddDays(n int) Session {
	return SessionOf(s.Time().AddDate(0, 0, n))
}

// Compare returns -1, 0 or +1 depending on whether s is before, equal to or after o.
func (s Session) Compare(o Session) int {
	switch {
	case s.Year != o.Year:
		return cmp.Compare(s.Year, o.Year)
	case s.Month != o.Month:
		return cmp.Compare(int(s.Month), int(o.Month))
	default:
		return cmp.Compare(s.Day, o.Day)
	}
}

// Before reports whether s is strictly before o.
func (s Session) Before(o Session) bool {
	return s.Compare(o) < 0
}

// After reports whether s is strictly after o.
func (s Session) After(o Session) bool {
	return s.Compare(o) > 0
}

// IsZero reports whether s is the zero session.
func (s Session) IsZero() bool {
	return s == Session{}
}

// String implements fmt.Stringer.
func (s Session) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", s.Year, int(s.Month), s.Day)
}

package calendar

import (
	"time"

	"github.com/rxtech-lab/argo-marketsim/internal/types"
)

// NYSESchedule is the rule based New York Stock Exchange schedule: weekdays minus
// the exchange's full-day holidays and the recorded unscheduled closures.
// Rules follow the post-1990 holiday set.
type NYSESchedule struct{}

// NYSE returns the NYSE trading sessions between start and end, inclusive.
func NYSE(start, end types.Session) *TradingCalendar {
	return Sessions(NYSESchedule{}, start, end)
}

// unscheduled full-day closures.
var nyseClosures = map[types.Session]struct{}{
	types.NewSession(1994, time.April, 27):     {}, // Nixon funeral
	types.NewSession(2001, time.September, 11): {},
	types.NewSession(2001, time.September, 12): {},
	types.NewSession(2001, time.September, 13): {},
	types.NewSession(2001, time.September, 14): {},
	types.NewSession(2004, time.June, 11):      {}, // Reagan funeral
	types.NewSession(2007, time.January, 2):    {}, // Ford funeral
	types.NewSession(2012, time.October, 29):   {}, // Hurricane Sandy
	types.NewSession(2012, time.October, 30):   {},
	types.NewSession(2018, time.December, 5):   {}, // G.H.W. Bush funeral
	types.NewSession(2025, time.January, 9):    {}, // Carter funeral
}

// IsTradingDay implements Schedule.
func (NYSESchedule) IsTradingDay(day types.Session) bool {
	switch day.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}

	if _, closed := nyseClosures[day]; closed {
		return false
	}

	return !isNYSEHoliday(day)
}

func isNYSEHoliday(day types.Session) bool {
	year := day.Year

	// New Year, Washington's Birthday, Good Friday, Memorial Day, Independence Day,
	// Labor Day, Thanksgiving and Christmas.
	holidays := []types.Session{
		observedNewYear(year),
		nthWeekday(year, time.February, time.Monday, 3),
		easter(year).AddDays(-2),
		lastWeekday(year, time.May, time.Monday),
		observed(types.NewSession(year, time.July, 4)),
		nthWeekday(year, time.September, time.Monday, 1),
		nthWeekday(year, time.November, time.Thursday, 4),
		observed(types.NewSession(year, time.December, 25)),
	}

	// Martin Luther King Jr. Day.
	if year >= 1998 {
		holidays = append(holidays, nthWeekday(year, time.January, time.Monday, 3))
	}

	// Juneteenth.
	if year >= 2022 {
		holidays = append(holidays, observed(types.NewSession(year, time.June, 19)))
	}

	for _, h := range holidays {
		if h == day {
			return true
		}
	}

	return false
}

// observedNewYear moves a Sunday New Year to Monday. A Saturday New Year is not
// observed on the preceding Friday.
func observedNewYear(year int) types.Session {
	day := types.NewSession(year, time.January, 1)
	if day.Weekday() == time.Sunday {
		return day.AddDays(1)
	}

	return day
}

// observed moves Saturday holidays to Friday and Sunday holidays to Monday.
func observed(day types.Session) types.Session {
	switch day.Weekday() {
	case time.Saturday:
		return day.AddDays(-1)
	case time.Sunday:
		return day.AddDays(1)
	default:
		return day
	}
}

func nthWeekday(year int, month time.Month, weekday time.Weekday, n int) types.Session {
	first := types.NewSession(year, month, 1)
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7

	return first.AddDays(offset + 7*(n-1))
}

func lastWeekday(year int, month time.Month, weekday time.Weekday) types.Session {
	last := types.NewSession(year, month+1, 0)
	offset := (int(last.Weekday()) - int(weekday) + 7) % 7

	return last.AddDays(-offset)
}

// easter returns Easter Sunday using the anonymous Gregorian algorithm.
func easter(year int) types.Session {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1

	return types.NewSession(year, time.Month(month), day)
}

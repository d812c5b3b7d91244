package calendar

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-marketsim/internal/types"
	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type CalendarTestSuite struct {
	suite.Suite
}

func TestCalendarSuite(t *testing.T) {
	suite.Run(t, new(CalendarTestSuite))
}

func day(year int, month time.Month, d int) types.Session {
	return types.NewSession(year, month, d)
}

func (suite *CalendarTestSuite) TestNewRejectsUnordered() {
	_, err := New([]types.Session{day(2010, 1, 5), day(2010, 1, 4)})
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidCalendar))

	_, err = New([]types.Session{day(2010, 1, 4), day(2010, 1, 4)})
	suite.Error(err)
}

func (suite *CalendarTestSuite) TestFromDatesSortsAndDeduplicates() {
	cal, err := FromDates([]types.Session{day(2010, 1, 6), day(2010, 1, 4), day(2010, 1, 6), day(2010, 1, 5)})
	suite.NoError(err)
	suite.Equal([]types.Session{day(2010, 1, 4), day(2010, 1, 5), day(2010, 1, 6)}, cal.Sessions())
}

func (suite *CalendarTestSuite) TestNYSEFirstWeekOf2010() {
	cal := NYSE(day(2010, 1, 1), day(2010, 1, 10))

	// Jan 1 is a holiday and Jan 2, 3, 9, 10 are weekends.
	suite.Equal([]types.Session{
		day(2010, 1, 4), day(2010, 1, 5), day(2010, 1, 6), day(2010, 1, 7), day(2010, 1, 8),
	}, cal.Sessions())
}

func (suite *CalendarTestSuite) TestNYSEHolidays() {
	schedule := NYSESchedule{}

	closed := []types.Session{
		day(2010, 1, 18),  // MLK
		day(2010, 2, 15),  // Washington's Birthday
		day(2010, 4, 2),   // Good Friday
		day(2010, 5, 31),  // Memorial Day
		day(2010, 7, 5),   // Independence Day observed
		day(2010, 9, 6),   // Labor Day
		day(2010, 11, 25), // Thanksgiving
		day(2010, 12, 24), // Christmas observed
		day(2012, 1, 2),   // New Year observed
		day(2012, 10, 29), // Sandy
		day(2001, 9, 11),
		day(2023, 6, 19), // Juneteenth
	}
	for _, s := range closed {
		suite.False(schedule.IsTradingDay(s), s.String())
	}

	open := []types.Session{
		day(2010, 12, 31), // New Year on Saturday is not observed
		day(2021, 6, 18),  // before Juneteenth was a market holiday
		day(1997, 1, 20),  // MLK before it became a market holiday
		day(2010, 11, 26),
	}
	for _, s := range open {
		suite.True(schedule.IsTradingDay(s), s.String())
	}
}

func (suite *CalendarTestSuite) TestNYSEYearLength() {
	suite.Equal(252, NYSE(day(2011, 1, 1), day(2011, 12, 31)).Len())
	suite.Equal(252, NYSE(day(2010, 1, 1), day(2010, 12, 31)).Len())
}

func (suite *CalendarTestSuite) TestSessionsDeterministic() {
	a := NYSE(day(2008, 1, 1), day(2009, 12, 31))
	b := NYSE(day(2008, 1, 1), day(2009, 12, 31))
	suite.True(a.Equal(b))
}

func (suite *CalendarTestSuite) TestEndBeforeStartIsEmpty() {
	cal := NYSE(day(2010, 2, 1), day(2010, 1, 1))
	suite.True(cal.IsEmpty())
	suite.Equal(-1, cal.LastIndex())

	_, ok := cal.First()
	suite.False(ok)
}

func (suite *CalendarTestSuite) TestInclusiveEndpoints() {
	cal := NYSE(day(2010, 1, 4), day(2010, 1, 8))
	first, _ := cal.First()
	last, _ := cal.Last()
	suite.Equal(day(2010, 1, 4), first)
	suite.Equal(day(2010, 1, 8), last)
}

func (suite *CalendarTestSuite) TestIndexing() {
	cal := NYSE(day(2010, 1, 1), day(2010, 1, 31))

	i, ok := cal.IndexOf(day(2010, 1, 5))
	suite.True(ok)
	suite.Equal(1, i)

	_, ok = cal.IndexOf(day(2010, 1, 9))
	suite.False(ok)

	i, ok = cal.IndexOnOrAfter(day(2010, 1, 9))
	suite.True(ok)
	suite.Equal(day(2010, 1, 11), cal.At(i))

	_, ok = cal.IndexOnOrAfter(day(2010, 2, 1))
	suite.False(ok)
}

func (suite *CalendarTestSuite) TestBetween() {
	cal := NYSE(day(2010, 1, 1), day(2010, 1, 31))
	sub := cal.Between(day(2010, 1, 9), day(2010, 1, 13))
	suite.Equal([]types.Session{day(2010, 1, 11), day(2010, 1, 12), day(2010, 1, 13)}, sub.Sessions())

	i, ok := sub.IndexOf(day(2010, 1, 12))
	suite.True(ok)
	suite.Equal(1, i)
}

func (suite *CalendarTestSuite) TestCalendarAsSchedule() {
	custom, err := New([]types.Session{day(2010, 1, 4), day(2010, 1, 10)})
	suite.NoError(err)

	cal := Sessions(custom, day(2010, 1, 1), day(2010, 1, 31))
	suite.Equal(2, cal.Len())
	suite.Equal(day(2010, 1, 10), cal.At(1))
}

func (suite *CalendarTestSuite) TestReadSessions() {
	input := strings.Join([]string{
		"# NYSE dates",
		"1/5/2010",
		"1/4/2010",
		"",
		"2010-01-06",
	}, "\n")

	cal, err := ReadSessions(strings.NewReader(input))
	suite.NoError(err)
	suite.Equal([]types.Session{day(2010, 1, 4), day(2010, 1, 5), day(2010, 1, 6)}, cal.Sessions())

	_, err = ReadSessions(strings.NewReader("1/4/2010\nnot a date\n"))
	suite.Error(err)
	suite.Contains(err.Error(), "line 2")
}

func (suite *CalendarTestSuite) TestLoadSessions() {
	dir := suite.T().TempDir()
	path := filepath.Join(dir, "NYSE_dates.txt")
	suite.Require().NoError(os.WriteFile(path, []byte("01/04/2010\n01/05/2010\n"), 0644))

	cal, err := LoadSessions(path)
	suite.NoError(err)
	suite.Equal(2, cal.Len())

	_, err = LoadSessions(filepath.Join(dir, "missing.txt"))
	suite.Error(err)
}

package ledger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-marketsim/internal/types"
	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/multierr"
)

type LedgerTestSuite struct {
	suite.Suite
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerTestSuite))
}

func (suite *LedgerTestSuite) TestParseSignsAndSorts() {
	input := strings.Join([]string{
		"2011,1,14,AAPL,Sell,1500,",
		"2011,1,10,AAPL,Buy,1500,",
		"2011,1,13,IBM,buy,4000",
		"2011,1,10,IBM,SELL,200,",
	}, "\n")

	l, err := Parse(strings.NewReader(input))
	suite.Require().NoError(err)
	suite.Equal(4, l.Len())

	jan10 := types.NewSession(2011, time.January, 10)
	suite.Equal([]types.Order{
		{Session: jan10, Symbol: "AAPL", Quantity: 1500},
		{Session: jan10, Symbol: "IBM", Quantity: -200},
		{Session: types.NewSession(2011, time.January, 13), Symbol: "IBM", Quantity: 4000},
		{Session: types.NewSession(2011, time.January, 14), Symbol: "AAPL", Quantity: -1500},
	}, l.Orders())

	first, last, err := l.Span()
	suite.NoError(err)
	suite.Equal(jan10, first)
	suite.Equal(types.NewSession(2011, time.January, 14), last)
	suite.Equal([]string{"AAPL", "IBM"}, l.Symbols())
}

func (suite *LedgerTestSuite) TestParseReportsEveryMalformedRow() {
	input := strings.Join([]string{
		"2011,1,10,AAPL,Buy,1500,",
		"2011,13,10,AAPL,Buy,1500,",
		"2011,1,10,AAPL,Hold,1500,",
		"2011,1,10,AAPL",
		"2011,2,30,AAPL,Buy,10",
		"2011,1,10,AAPL,Buy,lots",
		"2011,1,10,AAPL,Buy,-5",
	}, "\n")

	_, err := Parse(strings.NewReader(input))
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeMalformedOrder))
	suite.True(errors.IsMalformedOrderError(err))

	var wrapped *errors.Error
	suite.Require().True(errors.As(err, &wrapped))

	rows := multierr.Errors(wrapped.Cause)
	suite.Len(rows, 6)

	var lines []int

	for _, rowErr := range rows {
		var malformed *errors.MalformedOrderError
		suite.Require().True(errors.As(rowErr, &malformed))
		lines = append(lines, malformed.Line)
	}

	suite.Equal([]int{2, 3, 4, 5, 6, 7}, lines)
}

func (suite *LedgerTestSuite) TestParseEmpty() {
	l, err := Parse(strings.NewReader(""))
	suite.NoError(err)
	suite.True(l.IsEmpty())

	_, _, err = l.Span()
	suite.True(errors.HasCode(err, errors.ErrCodeEmptyLedger))
}

func (suite *LedgerTestSuite) TestStableSortKeepsFileOrder() {
	day := types.NewSession(2010, time.March, 1)
	l := New([]types.Order{
		{Session: day, Symbol: "B", Quantity: 1},
		{Session: types.NewSession(2010, time.February, 1), Symbol: "Z", Quantity: 1},
		{Session: day, Symbol: "A", Quantity: 2},
	})

	suite.Equal("Z", l.At(0).Symbol)
	suite.Equal("B", l.At(1).Symbol)
	suite.Equal("A", l.At(2).Symbol)
}

func (suite *LedgerTestSuite) TestFilterKnown() {
	day := types.NewSession(2010, time.January, 4)
	l := New([]types.Order{
		{Session: day, Symbol: "AAPL", Quantity: 10},
		{Session: day, Symbol: "ZZZZ", Quantity: 5},
		{Session: day, Symbol: "QQQQ", Quantity: -5},
		{Session: day, Symbol: "ZZZZ", Quantity: -5},
	})

	kept, warning := l.FilterKnown([]string{"AAPL", "MSFT"})
	suite.Equal(1, kept.Len())
	suite.Equal("AAPL", kept.At(0).Symbol)
	suite.Require().NotNil(warning)
	suite.Equal([]string{"QQQQ", "ZZZZ"}, warning.Symbols)
	suite.Equal(3, warning.Orders)
	suite.True(errors.IsUnknownSymbolError(warning))

	// the original ledger is untouched
	suite.Equal(4, l.Len())

	same, warning := kept.FilterKnown([]string{"AAPL"})
	suite.Nil(warning)
	suite.Same(kept, same)
}

func (suite *LedgerTestSuite) TestWriteRoundTrip() {
	l := New([]types.Order{
		{Session: types.NewSession(2010, time.January, 4), Symbol: "XYZ", Quantity: 100},
		{Session: types.NewSession(2010, time.January, 11), Symbol: "XYZ", Quantity: -100},
	})

	var buf bytes.Buffer
	suite.Require().NoError(Write(&buf, l))
	suite.Equal("2010,1,4,XYZ,Buy,100\n2010,1,11,XYZ,Sell,100\n", buf.String())

	parsed, err := Parse(&buf)
	suite.NoError(err)
	suite.Equal(l.Orders(), parsed.Orders())
}

func (suite *LedgerTestSuite) TestFiles() {
	path := filepath.Join(suite.T().TempDir(), "orders.csv")
	l := New([]types.Order{{Session: types.NewSession(2010, time.January, 4), Symbol: "XYZ", Quantity: 1.5}})

	suite.Require().NoError(WriteFile(path, l))

	content, err := os.ReadFile(path)
	suite.NoError(err)
	suite.Equal("2010,1,4,XYZ,Buy,1.5\n", string(content))

	parsed, err := ParseFile(path)
	suite.NoError(err)
	suite.Equal(l.Orders(), parsed.Orders())

	_, err = ParseFile(filepath.Join(suite.T().TempDir(), "missing.csv"))
	suite.Error(err)
}

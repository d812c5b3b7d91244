package event

import (
	"testing"

	"github.com/rxtech-lab/argo-marketsim/internal/types"
	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type TranslateTestSuite struct {
	suite.Suite
}

func TestTranslateSuite(t *testing.T) {
	suite.Run(t, new(TranslateTestSuite))
}

func flags(n int, events ...int) []Flag {
	out := make([]Flag, n)
	for i := range out {
		out[i] = FlagNoEvent
	}

	for _, e := range events {
		out[e] = FlagEvent
	}

	return out
}

func (suite *TranslateTestSuite) TestCardinalityAndPairing() {
	cal := january()
	n := cal.Len()
	holding := 5

	m, err := NewMatrix(cal, []string{"BBB", "AAA"}, map[string][]Flag{
		"BBB": flags(n, 0, 3, 4, n-2),
		"AAA": flags(n, 3, n-1),
	})
	suite.Require().NoError(err)

	l, err := Translate(m, cal, holding, 100)
	suite.Require().NoError(err)
	suite.Equal(2*m.Count(), l.Len())

	last := cal.LastIndex()
	remaining := l.Orders()

	for _, e := range m.Events() {
		exit := cal.At(min(e.Index+holding, last))

		buy := types.Order{Session: e.Session, Symbol: e.Symbol, Quantity: 100}
		sell := types.Order{Session: exit, Symbol: e.Symbol, Quantity: -100}

		remaining = suite.take(remaining, buy)
		remaining = suite.take(remaining, sell)
	}

	suite.Empty(remaining)
}

func (suite *TranslateTestSuite) take(orders []types.Order, want types.Order) []types.Order {
	for i, o := range orders {
		if o == want {
			return append(orders[:i:i], orders[i+1:]...)
		}
	}

	suite.Failf("order not found", "%+v", want)

	return orders
}

func (suite *TranslateTestSuite) TestOrderingAndClamping() {
	cal := week()

	m, err := NewMatrix(cal, []string{"BBB", "AAA"}, map[string][]Flag{
		"BBB": flags(5, 1, 3),
		"AAA": flags(5, 1),
	})
	suite.Require().NoError(err)

	l, err := Translate(m, cal, 2, 10)
	suite.Require().NoError(err)

	suite.Equal([]types.Order{
		{Session: cal.At(1), Symbol: "BBB", Quantity: 10},
		{Session: cal.At(1), Symbol: "AAA", Quantity: 10},
		{Session: cal.At(3), Symbol: "BBB", Quantity: -10},
		{Session: cal.At(3), Symbol: "AAA", Quantity: -10},
		{Session: cal.At(3), Symbol: "BBB", Quantity: 10},
		// clamped from index 5 to the last session
		{Session: cal.At(4), Symbol: "BBB", Quantity: -10},
	}, l.Orders())
}

func (suite *TranslateTestSuite) TestZeroHoldingPeriod() {
	cal := week()
	m, err := NewMatrix(cal, []string{"A"}, map[string][]Flag{"A": flags(5, 2)})
	suite.Require().NoError(err)

	l, err := Translate(m, cal, 0, 1)
	suite.Require().NoError(err)
	suite.Equal(2, l.Len())
	suite.Equal(l.At(0).Session, l.At(1).Session)
}

func (suite *TranslateTestSuite) TestValidation() {
	cal := week()
	m, err := NewMatrix(cal, []string{"A"}, nil)
	suite.Require().NoError(err)

	_, err = Translate(m, cal, -1, 100)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidHoldingPeriod))

	_, err = Translate(m, cal, 5, 0)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidShareCount))

	_, err = Translate(m, january(), 5, 1)
	suite.True(errors.HasCode(err, errors.ErrCodeCalendarMismatch))

	l, err := Translate(m, cal, 5, 1)
	suite.NoError(err)
	suite.True(l.IsEmpty())
}

package marketdata

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-marketsim/internal/calendar"
	"github.com/rxtech-lab/argo-marketsim/internal/types"
	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type MemoryProviderTestSuite struct {
	suite.Suite
}

func TestMemoryProviderSuite(t *testing.T) {
	suite.Run(t, new(MemoryProviderTestSuite))
}

func (suite *MemoryProviderTestSuite) TestGetData() {
	jan4 := types.NewSession(2010, time.January, 4)
	jan5 := types.NewSession(2010, time.January, 5)
	provider := NewMemoryProvider([]types.Bar{
		{Session: jan4, Symbol: "XYZ", Close: 50, ActualClose: 51},
		{Session: jan5, Symbol: "XYZ", Close: 52, ActualClose: 53},
		// outside the calendar
		{Session: types.NewSession(2009, time.December, 31), Symbol: "XYZ", Close: 1},
	}, nil)

	cal := calendar.NYSE(jan4, types.NewSession(2010, time.January, 6))
	panel, err := provider.GetData(context.Background(), cal, []string{"XYZ"}, []types.PriceField{types.FieldClose, types.FieldActualClose})
	suite.Require().NoError(err)

	closes := panel.Fields[types.FieldClose]["XYZ"]
	suite.Len(closes, 3)
	suite.Equal(50.0, closes[0].Unwrap())
	suite.Equal(52.0, closes[1].Unwrap())
	suite.True(closes[2].IsNone())
	suite.Equal(53.0, panel.Fields[types.FieldActualClose]["XYZ"][1].Unwrap())
}

func (suite *MemoryProviderTestSuite) TestGetDataSkipsNonFiniteValues() {
	jan4 := types.NewSession(2010, time.January, 4)
	jan5 := types.NewSession(2010, time.January, 5)
	provider := NewMemoryProvider([]types.Bar{
		{Session: jan4, Symbol: "XYZ", Close: math.NaN(), ActualClose: math.Inf(1)},
		{Session: jan5, Symbol: "XYZ", Close: 52, ActualClose: 53},
	}, nil)

	cal := calendar.NYSE(jan4, jan5)
	panel, err := provider.GetData(context.Background(), cal, []string{"XYZ"}, []types.PriceField{types.FieldClose, types.FieldActualClose})
	suite.Require().NoError(err)

	suite.True(panel.Fields[types.FieldClose]["XYZ"][0].IsNone())
	suite.True(panel.Fields[types.FieldActualClose]["XYZ"][0].IsNone())
	suite.Equal(52.0, panel.Fields[types.FieldClose]["XYZ"][1].Unwrap())
	suite.False(panel.Set(types.FieldClose, "XYZ", jan5, math.NaN()))
	suite.Equal(52.0, panel.Fields[types.FieldClose]["XYZ"][1].Unwrap())
}

func (suite *MemoryProviderTestSuite) TestSymbolsAndLists() {
	provider := NewMemoryProvider([]types.Bar{
		{Session: types.NewSession(2010, time.January, 4), Symbol: "MSFT"},
		{Session: types.NewSession(2010, time.January, 4), Symbol: "AAPL"},
	}, map[string][]string{"tech": {"MSFT", "AAPL"}})

	symbols, err := provider.GetAllKnownSymbols(context.Background())
	suite.NoError(err)
	suite.Equal([]string{"AAPL", "MSFT"}, symbols)

	list, err := provider.GetTradingUniverse(context.Background(), "tech")
	suite.NoError(err)
	suite.Equal([]string{"MSFT", "AAPL"}, list)

	_, err = provider.GetTradingUniverse(context.Background(), "energy")
	suite.True(errors.HasCode(err, errors.ErrCodeListNotFound))
}

func (suite *MemoryProviderTestSuite) TestReadSymbols() {
	symbols, err := ReadSymbols(strings.NewReader("# list\nAAPL\n\n  MSFT \nAAPL\n"))
	suite.NoError(err)
	suite.Equal([]string{"AAPL", "MSFT"}, symbols)
}

func (suite *MemoryProviderTestSuite) TestLoadListRejectsPaths() {
	_, err := LoadList(suite.T().TempDir(), "../etc/passwd")
	suite.True(errors.HasCode(err, errors.ErrCodeListNotFound))
}

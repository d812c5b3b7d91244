package marketdata

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-marketsim/internal/types"
	"github.com/stretchr/testify/suite"
)

type DownloadConfigTestSuite struct {
	suite.Suite
}

func TestDownloadConfigTestSuite(t *testing.T) {
	suite.Run(t, new(DownloadConfigTestSuite))
}

func (suite *DownloadConfigTestSuite) TestParsePolygonConfig() {
	config, err := ParsePolygonConfig(`{"tickers":["SPY","AAPL"],"startDate":"2008-01-02","endDate":"2009-12-31","apiKey":"k"}`)
	suite.Require().NoError(err)
	suite.Equal([]string{"SPY", "AAPL"}, config.Tickers)

	start, end, err := config.Window()
	suite.Require().NoError(err)
	suite.Equal(types.NewSession(2008, time.January, 2), start)
	suite.Equal(types.NewSession(2009, time.December, 31), end)

	client := config.ToClientConfig("/data")
	suite.Equal(ProviderPolygon, client.ProviderType)
	suite.Equal(WriterDuckDB, client.WriterType)
	suite.Equal("k", client.PolygonApiKey)
}

func (suite *DownloadConfigTestSuite) TestValidation() {
	testCases := []struct {
		name     string
		json     string
		contains string
	}{
		{"bad json", `{`, "failed to parse JSON config"},
		{"missing tickers", `{"startDate":"2008-01-02","endDate":"2009-12-31","apiKey":"k"}`, "Tickers"},
		{"empty ticker", `{"tickers":[""],"startDate":"2008-01-02","endDate":"2009-12-31","apiKey":"k"}`, "Tickers"},
		{"missing api key", `{"tickers":["SPY"],"startDate":"2008-01-02","endDate":"2009-12-31"}`, "ApiKey"},
		{"bad start", `{"tickers":["SPY"],"startDate":"yesterday","endDate":"2009-12-31","apiKey":"k"}`, "invalid startDate"},
		{"reversed", `{"tickers":["SPY"],"startDate":"2010-01-04","endDate":"2009-12-31","apiKey":"k"}`, "before startDate"},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			_, err := ParsePolygonConfig(tc.json)
			suite.Error(err)
			suite.Contains(err.Error(), tc.contains)
		})
	}
}

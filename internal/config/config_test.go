package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-marketsim/internal/types"
	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/multierr"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) write(content string) string {
	path := filepath.Join(suite.T().TempDir(), "config.yaml")
	suite.Require().NoError(os.WriteFile(path, []byte(content), 0o644))

	return path
}

func (suite *ConfigTestSuite) TestDefaults() {
	cfg, err := Load("")
	suite.Require().NoError(err)

	suite.Equal(1_000_000.0, cfg.StartingCash)
	suite.Equal("$SPX", cfg.Benchmark)
	suite.Equal("five_dollar_event", cfg.Event.Strategy)
	suite.Equal(5.0, cfg.Event.Threshold)
	suite.Equal(5, cfg.Event.HoldingPeriod)
	suite.Equal(int64(100), cfg.Event.SharesPerEvent)
	suite.Equal(20, cfg.Event.Lookback)
	suite.Equal(20, cfg.Event.Lookforward)
	suite.True(cfg.Event.MarketNeutral)
	suite.Equal("sp5002012", cfg.Event.List)
	suite.Equal(0.1, cfg.Allocation.Step)
	suite.Equal(10*time.Minute, cfg.Download.Timeout)
	suite.True(cfg.StartDate.IsNone())
	suite.True(cfg.EndDate.IsNone())
}

func (suite *ConfigTestSuite) TestFileOverrides() {
	path := suite.write(`
starting_cash: 50000
benchmark: SPY
start_date: "2011-01-03"
end_date: "2011-12-30"
event:
  threshold: 7.5
  holding_period: 3
  market_neutral: false
allocation:
  symbols: [AAPL, GLD, GOOG, XOM]
download:
  timeout: 30s
`)

	cfg, err := Load(path)
	suite.Require().NoError(err)

	suite.Equal(50000.0, cfg.StartingCash)
	suite.Equal("SPY", cfg.Benchmark)
	suite.Equal(types.NewSession(2011, time.January, 3), cfg.StartDate.Unwrap())
	suite.Equal(types.NewSession(2011, time.December, 30), cfg.EndDate.Unwrap())
	suite.Equal(7.5, cfg.Event.Threshold)
	suite.Equal(3, cfg.Event.HoldingPeriod)
	suite.False(cfg.Event.MarketNeutral)
	suite.Equal(int64(100), cfg.Event.SharesPerEvent)
	suite.Equal([]string{"AAPL", "GLD", "GOOG", "XOM"}, cfg.Allocation.Symbols)
	suite.Equal(30*time.Second, cfg.Download.Timeout)
}

func (suite *ConfigTestSuite) TestEnvironmentOverrides() {
	suite.T().Setenv("MARKETSIM_BENCHMARK", "QQQ")
	suite.T().Setenv("MARKETSIM_EVENT_THRESHOLD", "9")
	suite.T().Setenv("MARKETSIM_ALLOCATION_SYMBOLS", "AXP,HPQ,IBM")
	suite.T().Setenv("MARKETSIM_START_DATE", "2008-01-02")

	cfg, err := Load("")
	suite.Require().NoError(err)

	suite.Equal("QQQ", cfg.Benchmark)
	suite.Equal(9.0, cfg.Event.Threshold)
	suite.Equal([]string{"AXP", "HPQ", "IBM"}, cfg.Allocation.Symbols)
	suite.Equal(types.NewSession(2008, time.January, 2), cfg.StartDate.Unwrap())
}

func (suite *ConfigTestSuite) TestValidationReportsEveryViolation() {
	path := suite.write(`
starting_cash: -1
event:
  holding_period: -2
  shares_per_event: 0
start_date: "2012-01-01"
end_date: "2011-01-01"
`)

	_, err := Load(path)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))

	var coded *errors.Error
	suite.Require().True(errors.As(err, &coded))
	suite.Len(multierr.Errors(coded.Cause), 4)
}

func (suite *ConfigTestSuite) TestInvalidInputs() {
	_, err := Load(suite.write(`start_date: "not a date"`))
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))

	_, err = Load(filepath.Join(suite.T().TempDir(), "missing.yaml"))
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestSchema() {
	out, err := GenerateSchemaJSON()
	suite.Require().NoError(err)

	var schema map[string]any
	suite.Require().NoError(json.Unmarshal([]byte(out), &schema))

	properties, ok := schema["properties"].(map[string]any)
	suite.Require().True(ok)

	start, ok := properties["start_date"].(map[string]any)
	suite.Require().True(ok)
	suite.Equal("date", start["format"])
	suite.Contains(properties, "event")
	suite.Contains(properties, "starting_cash")
}

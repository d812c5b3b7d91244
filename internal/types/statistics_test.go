package types

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

type StatisticsTestSuite struct {
	suite.Suite
	tempDir string
}

func TestStatisticsSuite(t *testing.T) {
	suite.Run(t, new(StatisticsTestSuite))
}

func (suite *StatisticsTestSuite) SetupTest() {
	tempDir, err := os.MkdirTemp("", "statistics_test")
	suite.NoError(err)
	suite.tempDir = tempDir
}

func (suite *StatisticsTestSuite) TearDownTest() {
	os.RemoveAll(suite.tempDir)
}

func (suite *StatisticsTestSuite) TestWriteRunStats() {
	sharpe := 1.25
	stats := RunStats{
		ID:           "run-1",
		Timestamp:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		StartSession: "2011-01-10",
		EndSession:   "2011-12-20",
		StartingCash: 1000000,
		FinalValue:   1133860,
		Benchmark:    "$SPX",
		Fund: PerformanceSummary{
			Volatility:       0.0072,
			MeanDailyReturn:  0.0005,
			SharpeRatio:      &sharpe,
			CumulativeReturn: 0.13386,
			MaxDrawdown:      0.05,
			Sessions:         240,
		},
		Ledger: LedgerSummary{
			Orders:         12,
			DroppedOrders:  1,
			UnknownSymbols: []string{"FOO"},
			Symbols:        []string{"AAPL", "IBM"},
		},
	}

	filePath := filepath.Join(suite.tempDir, "stats.yaml")
	err := WriteRunStats(filePath, stats)
	suite.NoError(err)

	data, err := os.ReadFile(filePath)
	suite.NoError(err)

	var readStats RunStats
	err = yaml.Unmarshal(data, &readStats)
	suite.NoError(err)

	suite.Equal("run-1", readStats.ID)
	suite.Equal("2011-01-10", readStats.StartSession)
	suite.Equal(1133860.0, readStats.FinalValue)
	suite.Require().NotNil(readStats.Fund.SharpeRatio)
	suite.Equal(1.25, *readStats.Fund.SharpeRatio)
	suite.Equal(240, readStats.Fund.Sessions)
	suite.Equal([]string{"FOO"}, readStats.Ledger.UnknownSymbols)
	suite.Nil(readStats.BenchmarkStats)
	suite.Nil(readStats.Event)
}

func (suite *StatisticsTestSuite) TestReadRunStatsUndefinedSharpe() {
	stats := RunStats{ID: "flat", Fund: PerformanceSummary{Sessions: 3}}

	filePath := filepath.Join(suite.tempDir, "flat.yaml")
	suite.Require().NoError(WriteRunStats(filePath, stats))

	readStats, err := ReadRunStats(filePath)
	suite.NoError(err)
	suite.Equal("flat", readStats.ID)
	suite.Nil(readStats.Fund.SharpeRatio)
}

func (suite *StatisticsTestSuite) TestWriteRunStatsInvalidPath() {
	filePath := filepath.Join(suite.tempDir, "nonexistent", "dir", "stats.yaml")
	err := WriteRunStats(filePath, RunStats{ID: "x"})
	suite.Error(err)
}

func (suite *StatisticsTestSuite) TestReadRunStatsMissingFile() {
	_, err := ReadRunStats(filepath.Join(suite.tempDir, "missing.yaml"))
	suite.Error(err)
}

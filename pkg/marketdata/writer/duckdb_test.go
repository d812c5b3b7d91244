package writer

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-marketsim/internal/calendar"
	"github.com/rxtech-lab/argo-marketsim/internal/logger"
	"github.com/rxtech-lab/argo-marketsim/internal/marketdata"
	"github.com/rxtech-lab/argo-marketsim/internal/types"
	"github.com/stretchr/testify/suite"
)

type DuckDBWriterTestSuite struct {
	suite.Suite
	tempDir string
}

func TestDuckDBWriterSuite(t *testing.T) {
	suite.Run(t, new(DuckDBWriterTestSuite))
}

func (suite *DuckDBWriterTestSuite) SetupTest() {
	suite.tempDir = suite.T().TempDir()
}

func bar(symbol string, day int, close, actual float64) types.Bar {
	return types.Bar{
		Session:     types.NewSession(2010, time.January, day),
		Symbol:      symbol,
		Open:        close - 1,
		High:        close + 1,
		Low:         close - 2,
		Close:       close,
		Volume:      1000,
		ActualClose: actual,
	}
}

func (suite *DuckDBWriterTestSuite) TestNewDuckDBWriter() {
	outputPath := filepath.Join(suite.tempDir, "test.parquet")
	writer := NewDuckDBWriter(outputPath)

	duckWriter, ok := writer.(*DuckDBWriter)
	suite.Require().True(ok)
	suite.Equal(outputPath, duckWriter.GetOutputPath())
	suite.Nil(duckWriter.db)
	suite.Nil(duckWriter.tx)
	suite.Nil(duckWriter.stmt)
}

func (suite *DuckDBWriterTestSuite) TestWriteWithoutInitialize() {
	writer := NewDuckDBWriter(filepath.Join(suite.tempDir, "no_init.parquet"))

	err := writer.Write(bar("AAA", 4, 10, 20))
	suite.Error(err)
	suite.Contains(err.Error(), "writer not initialized")

	_, err = writer.Finalize()
	suite.Error(err)

	suite.NoError(writer.Close())
}

func (suite *DuckDBWriterTestSuite) TestWriteAfterFinalize() {
	writer := NewDuckDBWriter(filepath.Join(suite.tempDir, "after.parquet"))
	suite.Require().NoError(writer.Initialize())
	defer writer.Close()

	suite.Require().NoError(writer.Write(bar("AAA", 4, 10, 20)))
	_, err := writer.Finalize()
	suite.Require().NoError(err)

	suite.Error(writer.Write(bar("AAA", 5, 11, 22)))

	_, err = writer.Finalize()
	suite.Error(err)
}

func (suite *DuckDBWriterTestSuite) TestDoubleClose() {
	writer := NewDuckDBWriter(filepath.Join(suite.tempDir, "close.parquet"))
	suite.Require().NoError(writer.Initialize())

	suite.NoError(writer.Close())
	suite.NoError(writer.Close())
}

func (suite *DuckDBWriterTestSuite) TestFinalizeExportError() {
	writer := NewDuckDBWriter(filepath.Join(suite.tempDir, "missing", "dir", "out.parquet"))
	suite.Require().NoError(writer.Initialize())
	defer writer.Close()

	suite.Require().NoError(writer.Write(bar("AAA", 4, 10, 20)))

	_, err := writer.Finalize()
	suite.Error(err)
	suite.Contains(err.Error(), "failed to export to Parquet")
}

// The exported file is readable by the DuckDB market data provider.
func (suite *DuckDBWriterTestSuite) TestFullWorkflow() {
	outputPath := filepath.Join(suite.tempDir, "bars.parquet")
	writer := NewDuckDBWriter(outputPath)
	suite.Require().NoError(writer.Initialize())

	for _, b := range []types.Bar{
		bar("AAA", 4, 10, 20),
		bar("AAA", 5, 11, 22),
		bar("BBB", 4, 50, 50),
		bar("BBB", 6, 52, 52),
	} {
		suite.Require().NoError(writer.Write(b))
	}

	path, err := writer.Finalize()
	suite.Require().NoError(err)
	suite.Equal(outputPath, path)
	suite.Require().NoError(writer.Close())

	provider, err := marketdata.NewDuckDBProvider(":memory:", suite.tempDir, logger.NewNopLogger())
	suite.Require().NoError(err)
	defer provider.Close()

	suite.Require().NoError(provider.Initialize(outputPath))

	symbols, err := provider.GetAllKnownSymbols(context.Background())
	suite.Require().NoError(err)
	suite.Equal([]string{"AAA", "BBB"}, symbols)

	cal := calendar.NYSE(types.NewSession(2010, time.January, 4), types.NewSession(2010, time.January, 6))

	raw, err := provider.GetData(context.Background(), cal, symbols, []types.PriceField{types.FieldClose, types.FieldActualClose})
	suite.Require().NoError(err)

	aaa := raw.Fields[types.FieldActualClose]["AAA"]
	suite.Equal(22.0, aaa[1].Unwrap())
	suite.True(aaa[2].IsNone())

	bbb := raw.Fields[types.FieldClose]["BBB"]
	suite.Equal(50.0, bbb[0].Unwrap())
	suite.True(bbb[1].IsNone())
	suite.Equal(52.0, bbb[2].Unwrap())
}

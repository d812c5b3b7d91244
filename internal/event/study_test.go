package event

import (
	"testing"

	"github.com/rxtech-lab/argo-marketsim/internal/types"
	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type StudyTestSuite struct {
	suite.Suite
}

func TestStudySuite(t *testing.T) {
	suite.Run(t, new(StudyTestSuite))
}

func (suite *StudyTestSuite) TestNormalizedPath() {
	cal := week()
	p := buildPanel(suite.T(), cal, types.FieldClose, map[string][]float64{
		"XYZ": {10, 8, 4, 6, 12},
	}, "XYZ")

	m, err := NewMatrix(cal, []string{"XYZ"}, map[string][]Flag{"XYZ": flags(5, 2)})
	suite.Require().NoError(err)

	study, err := RunStudy(m, p, StudyOptions{Lookback: 1, Lookforward: 2})
	suite.Require().NoError(err)

	suite.Equal(1, study.Events)
	suite.Equal([]int{-1, 0, 1, 2}, study.Offsets)

	// prices relative to the event day close
	expected := []float64{2, 1, 1.5, 3}
	for k, v := range expected {
		suite.InDelta(v, study.Mean[k], 1e-9)
		suite.InDelta(0, study.Std[k], 1e-9)
	}
}

func (suite *StudyTestSuite) TestEdgeEventsAreExcluded() {
	cal := week()
	p := buildPanel(suite.T(), cal, types.FieldClose, map[string][]float64{"XYZ": {10, 8, 4, 6, 12}}, "XYZ")

	m, err := NewMatrix(cal, []string{"XYZ"}, map[string][]Flag{"XYZ": flags(5, 0, 4)})
	suite.Require().NoError(err)

	study, err := RunStudy(m, p, StudyOptions{Lookback: 1, Lookforward: 1})
	suite.Require().NoError(err)
	suite.Zero(study.Events)
	suite.Nil(study.Mean)
	suite.Len(study.Offsets, 3)
}

func (suite *StudyTestSuite) TestMarketNeutral() {
	cal := week()
	p := buildPanel(suite.T(), cal, types.FieldClose, map[string][]float64{
		"AAA":  {10, 11, 12.1, 13.31, 14.641},
		"BBB":  {20, 22, 24.2, 26.62, 29.282},
		"$SPX": {100, 110, 121, 133.1, 146.41},
	}, "AAA", "BBB", "$SPX")

	m, err := NewMatrix(cal, []string{"AAA", "BBB", "$SPX"}, map[string][]Flag{
		"AAA":  flags(5, 2),
		"BBB":  flags(5, 3),
		"$SPX": flags(5, 2),
	})
	suite.Require().NoError(err)

	study, err := RunStudy(m, p, StudyOptions{Lookback: 1, Lookforward: 1, MarketNeutral: true, Benchmark: "$SPX"})
	suite.Require().NoError(err)

	// the benchmark's own event is dropped and excess returns are zero
	suite.Equal(2, study.Events)
	for k := range study.Mean {
		suite.InDelta(1, study.Mean[k], 1e-9)
		suite.InDelta(0, study.Std[k], 1e-9)
	}

	_, err = RunStudy(m, p, StudyOptions{Lookback: 1, Lookforward: 1, MarketNeutral: true, Benchmark: "$DJI"})
	suite.True(errors.HasCode(err, errors.ErrCodeSymbolNotInPanel))
}

func (suite *StudyTestSuite) TestMeanAndStdAcrossEvents() {
	cal := week()
	p := buildPanel(suite.T(), cal, types.FieldClose, map[string][]float64{
		"AAA": {10, 10, 10, 12, 12},
		"BBB": {10, 10, 10, 8, 8},
	}, "AAA", "BBB")

	m, err := NewMatrix(cal, []string{"AAA", "BBB"}, map[string][]Flag{
		"AAA": flags(5, 2),
		"BBB": flags(5, 2),
	})
	suite.Require().NoError(err)

	study, err := RunStudy(m, p, StudyOptions{Lookback: 0, Lookforward: 1})
	suite.Require().NoError(err)
	suite.InDelta(1.0, study.Mean[1], 1e-9)
	suite.InDelta(0.2, study.Std[1], 1e-9)
}

func (suite *StudyTestSuite) TestValidation() {
	cal := week()
	p := buildPanel(suite.T(), cal, types.FieldClose, map[string][]float64{"XYZ": {1, 2, 3, 4, 5}}, "XYZ")
	m, err := NewMatrix(cal, []string{"XYZ"}, nil)
	suite.Require().NoError(err)

	_, err = RunStudy(m, p, StudyOptions{Lookback: -1})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))

	_, err = RunStudy(m, p, StudyOptions{Field: types.FieldOpen})
	suite.True(errors.HasCode(err, errors.ErrCodeFieldNotLoaded))
}

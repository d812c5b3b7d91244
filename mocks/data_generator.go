package mocks

import (
	"math"
	"math/rand"

	"github.com/rxtech-lab/argo-marketsim/internal/calendar"
	"github.com/rxtech-lab/argo-marketsim/internal/types"
)

// DataGenerator generates realistic daily bars for testing and benchmarking.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how bars are generated.
type GeneratorConfig struct {
	// Symbol is the ticker (e.g., "AAPL", "$SPX")
	Symbol string
	// Calendar holds the sessions to generate one bar for
	Calendar *calendar.TradingCalendar
	// InitialPrice is the first session's open
	InitialPrice float64
	// Volatility controls price movement (0.01 = 1% typical daily volatility)
	Volatility float64
	// Trend is the total drift over the series (-0.5 to 0.5 for bearish to bullish)
	Trend float64
	// VolumeBase is the average volume per session
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0)
	VolumeVariance float64
	// AdjustmentFactor scales ActualClose into Close, as a split or dividend adjustment would
	AdjustmentFactor float64
}

// DefaultConfig returns a sensible default configuration over the NYSE sessions of 2010.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:           "TEST",
		Calendar:         calendar.NYSE(types.NewSession(2010, 1, 1), types.NewSession(2010, 12, 31)),
		InitialPrice:     100.0,
		Volatility:       0.02,
		Trend:            0.0,
		VolumeBase:       1000000,
		VolumeVariance:   0.3,
		AdjustmentFactor: 1.0,
	}
}

// Generate creates one bar per session of the configured calendar.
// The closes follow a geometric Brownian motion.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.Bar {
	count := config.Calendar.Len()
	bars := make([]types.Bar, count)
	currentPrice := config.InitialPrice

	factor := config.AdjustmentFactor
	if factor <= 0 {
		factor = 1.0
	}

	for i := 0; i < count; i++ {
		open := currentPrice

		// Box-Muller transform for a normal draw
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		priceChange := config.Volatility * z
		drift := config.Trend / float64(count)

		actual := open * (1 + priceChange + drift)
		if actual <= 0 {
			actual = open * 0.99
		}

		highExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)
		lowExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)

		high := math.Max(open, actual) + highExtension
		low := math.Min(open, actual) - lowExtension
		if low <= 0 {
			low = math.Min(open, actual) * 0.99
		}

		volumeVariation := 1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance
		volume := config.VolumeBase * volumeVariation
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		bars[i] = types.Bar{
			Session:     config.Calendar.At(i),
			Symbol:      config.Symbol,
			Open:        roundToDecimals(open, 4),
			High:        roundToDecimals(high, 4),
			Low:         roundToDecimals(low, 4),
			Close:       roundToDecimals(actual*factor, 4),
			Volume:      math.Round(volume),
			ActualClose: roundToDecimals(actual, 4),
		}

		currentPrice = actual
	}

	return bars
}

// GenerateMultiSymbol generates bars for multiple symbols over the same calendar.
func (g *DataGenerator) GenerateMultiSymbol(symbols []string, baseConfig GeneratorConfig) []types.Bar {
	var all []types.Bar

	for _, symbol := range symbols {
		config := baseConfig
		config.Symbol = symbol
		// Vary initial price and volatility slightly per symbol
		config.InitialPrice = baseConfig.InitialPrice * (0.8 + g.rng.Float64()*0.4)
		config.Volatility = baseConfig.Volatility * (0.8 + g.rng.Float64()*0.4)

		all = append(all, g.Generate(config)...)
	}

	return all
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(val*pow) / pow
}

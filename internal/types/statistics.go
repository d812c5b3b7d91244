package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type PerformanceSummary struct {
	// Population standard deviation of daily returns.
	Volatility float64 `yaml:"volatility"`
	// Arithmetic mean of daily returns.
	MeanDailyReturn float64 `yaml:"mean_daily_return"`
	// Annualized Sharpe ratio. Nil when the return series has zero volatility.
	SharpeRatio *float64 `yaml:"sharpe_ratio"`
	// Last normalized value minus one.
	CumulativeReturn float64 `yaml:"cumulative_return"`
	// Largest peak to trough decline as a fraction of the peak.
	MaxDrawdown float64 `yaml:"max_drawdown"`
	// Number of sessions in the series.
	Sessions int `yaml:"sessions"`
}

type LedgerSummary struct {
	// Orders kept after dropping unknown symbols.
	Orders int `yaml:"orders"`
	// Orders dropped because their symbol is unknown.
	DroppedOrders int `yaml:"dropped_orders"`
	// Unknown symbols that caused the drops.
	UnknownSymbols []string `yaml:"unknown_symbols"`
	// Symbols traded by the kept orders.
	Symbols []string `yaml:"symbols"`
}

type EventSummary struct {
	// Registered name of the event strategy.
	Strategy string `yaml:"strategy"`
	// Number of flagged (symbol, session) pairs.
	Events int `yaml:"events"`
	// Sessions between a synthetic buy and its sell.
	HoldingPeriod int `yaml:"holding_period"`
	// Shares bought per event.
	SharesPerEvent float64 `yaml:"shares_per_event"`
}

type RunStats struct {
	// ID is the unique identifier for this run.
	ID string `yaml:"id" json:"id"`
	// Timestamp is when this run was executed.
	Timestamp time.Time `yaml:"timestamp" json:"timestamp"`
	// First session of the run window.
	StartSession string `yaml:"start_session"`
	// Last session of the run window.
	EndSession string `yaml:"end_session"`
	// Starting cash of the simulated portfolio.
	StartingCash float64 `yaml:"starting_cash"`
	// Final portfolio value.
	FinalValue float64 `yaml:"final_value"`
	// Benchmark symbol used for comparison.
	Benchmark string `yaml:"benchmark"`
	// Statistics of the simulated portfolio.
	Fund PerformanceSummary `yaml:"fund"`
	// Statistics of the benchmark over the same sessions.
	BenchmarkStats *PerformanceSummary `yaml:"benchmark_stats,omitempty"`
	// Order ledger summary.
	Ledger LedgerSummary `yaml:"ledger"`
	// Symbols whose price data was entirely missing and filled with the fallback.
	DataGaps []string `yaml:"data_gaps,omitempty"`
	// Event scan summary, for event driven runs.
	Event *EventSummary `yaml:"event,omitempty"`
	// OrdersFilePath is the path to the order file the run consumed or produced.
	OrdersFilePath string `yaml:"orders_file_path" json:"orders_file_path"`
	// PortfolioFilePath is the path to the portfolio parquet file.
	PortfolioFilePath string `yaml:"portfolio_file_path" json:"portfolio_file_path"`
	// EventsFilePath is the path to the events parquet file.
	EventsFilePath string `yaml:"events_file_path,omitempty" json:"events_file_path,omitempty"`
}

func WriteRunStats(path string, stats RunStats) error {
	data, err := yaml.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal run stats to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write run stats to file: %w", err)
	}

	return nil
}

func ReadRunStats(path string) (RunStats, error) {
	var stats RunStats

	data, err := os.ReadFile(path)
	if err != nil {
		return stats, fmt.Errorf("failed to read run stats file: %w", err)
	}

	if err := yaml.Unmarshal(data, &stats); err != nil {
		return stats, fmt.Errorf("failed to unmarshal run stats: %w", err)
	}

	return stats, nil
}

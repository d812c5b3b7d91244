// Package runner wires configuration, market data and the simulation stages into
// the workflows behind the commands.
package runner

import (
	"context"
	"slices"

	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-marketsim/internal/calendar"
	"github.com/rxtech-lab/argo-marketsim/internal/config"
	"github.com/rxtech-lab/argo-marketsim/internal/ledger"
	"github.com/rxtech-lab/argo-marketsim/internal/logger"
	"github.com/rxtech-lab/argo-marketsim/internal/marketdata"
	"github.com/rxtech-lab/argo-marketsim/internal/marketsim"
	"github.com/rxtech-lab/argo-marketsim/internal/panel"
	"github.com/rxtech-lab/argo-marketsim/internal/performance"
	"github.com/rxtech-lab/argo-marketsim/internal/results"
	"github.com/rxtech-lab/argo-marketsim/internal/types"
	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
)

// Runner executes the command workflows against one market data provider.
type Runner struct {
	cfg      *config.Config
	provider marketdata.Provider
	logger   *logger.Logger
	schedule calendar.Schedule
}

// New returns a runner. A configured calendar file replaces the NYSE schedule.
func New(cfg *config.Config, provider marketdata.Provider, log *logger.Logger) (*Runner, error) {
	var schedule calendar.Schedule = calendar.NYSESchedule{}

	if cfg.CalendarPath != "" {
		cal, err := calendar.LoadSessions(cfg.CalendarPath)
		if err != nil {
			return nil, err
		}

		schedule = cal
	}

	return &Runner{cfg: cfg, provider: provider, logger: logger.OrNop(log), schedule: schedule}, nil
}

// OpenDuckDB opens an in-memory DuckDB provider over the configured data files.
func OpenDuckDB(cfg *config.Config, log *logger.Logger) (*marketdata.DuckDBProvider, error) {
	provider, err := marketdata.NewDuckDBProvider(":memory:", cfg.ListsPath, log)
	if err != nil {
		return nil, err
	}

	if err := provider.Initialize(cfg.DataPath); err != nil {
		provider.Close()

		return nil, err
	}

	return provider, nil
}

// SimulationReport is the outcome of simulating an order ledger.
type SimulationReport struct {
	Result *marketsim.Result
	Stats  types.RunStats
	// Run is nil when no results folder is configured.
	Run *results.Run
}

// Simulate runs l, writes the value file and persists the run artifacts. The value file
// is written before the statistics are computed.
func (r *Runner) Simulate(ctx context.Context, l *ledger.Ledger) (*SimulationReport, error) {
	result, stats, err := r.simulate(ctx, l)
	if err != nil {
		return nil, err
	}

	run, err := r.newRun()
	if err != nil {
		return nil, err
	}

	report := &SimulationReport{Result: result, Stats: stats, Run: run}

	if run != nil {
		if err := r.persistSimulation(run, result, &report.Stats); err != nil {
			return nil, err
		}

		if _, err := run.WriteStats(report.Stats); err != nil {
			return nil, err
		}
	}

	return report, nil
}

func (r *Runner) simulate(ctx context.Context, l *ledger.Ledger) (*marketsim.Result, types.RunStats, error) {
	result, err := marketsim.NewSimulator(r.provider, r.logger).Run(ctx, l, marketsim.Options{
		StartingCash: r.cfg.StartingCash,
		Benchmark:    r.cfg.Benchmark,
		Start:        r.cfg.StartDate,
		End:          r.cfg.EndDate,
		Schedule:     r.schedule,
	})
	if err != nil {
		return nil, types.RunStats{}, err
	}

	// the value file is written even when the series cannot be analyzed
	if err := r.writeValues(result.Portfolio); err != nil {
		return nil, types.RunStats{}, err
	}

	stats, err := r.runStats(result)
	if err != nil {
		return nil, types.RunStats{}, err
	}

	return result, stats, nil
}

func (r *Runner) runStats(result *marketsim.Result) (types.RunStats, error) {
	first, _ := result.Calendar.First()
	last, _ := result.Calendar.Last()

	stats := types.RunStats{
		StartSession: first.String(),
		EndSession:   last.String(),
		StartingCash: r.cfg.StartingCash,
		FinalValue:   result.Portfolio.Final(),
		Benchmark:    r.cfg.Benchmark,
		Ledger: types.LedgerSummary{
			Orders:  result.Ledger.Len(),
			Symbols: result.Ledger.Symbols(),
		},
	}

	if result.Unknown != nil {
		stats.Ledger.DroppedOrders = result.Unknown.Orders
		stats.Ledger.UnknownSymbols = result.Unknown.Symbols
	}

	for _, gap := range result.Panel.Gaps {
		if !slices.Contains(stats.DataGaps, gap.Symbol) {
			stats.DataGaps = append(stats.DataGaps, gap.Symbol)
		}
	}

	fund, err := performance.Analyze(result.Portfolio.Values)
	if err != nil {
		return types.RunStats{}, err
	}

	stats.Fund = fund.Summary()

	if r.cfg.Benchmark != "" {
		series, ok := result.Panel.Close.Series(r.cfg.Benchmark)
		if ok {
			comparison, err := performance.Compare(result.Portfolio.Values, series)
			if err != nil {
				return types.RunStats{}, err
			}

			benchmark := comparison.Benchmark.Summary()
			stats.BenchmarkStats = &benchmark
		}
	}

	return stats, nil
}

func (r *Runner) writeValues(p *marketsim.Portfolio) error {
	if r.cfg.ValuesPath == "" {
		return nil
	}

	if err := marketsim.WriteValuesFile(r.cfg.ValuesPath, p.Points()); err != nil {
		return err
	}

	r.logger.Info("Wrote value file", zap.String("path", r.cfg.ValuesPath), zap.Int("sessions", p.Len()))

	return nil
}

func (r *Runner) newRun() (*results.Run, error) {
	if r.cfg.ResultsFolder == "" {
		return nil, nil
	}

	return results.NewRun(r.cfg.ResultsFolder)
}

func (r *Runner) persistSimulation(run *results.Run, result *marketsim.Result, stats *types.RunStats) error {
	stats.PortfolioFilePath = run.Path(results.PortfolioFileName)
	if err := results.WritePortfolio(stats.PortfolioFilePath, result.Portfolio); err != nil {
		return err
	}

	stats.OrdersFilePath = run.Path(results.OrdersFileName)

	return ledger.WriteFile(stats.OrdersFilePath, result.Ledger)
}

// window returns the configured sessions. Both dates are required.
func (r *Runner) window() (*calendar.TradingCalendar, error) {
	if r.cfg.StartDate.IsNone() || r.cfg.EndDate.IsNone() {
		return nil, errors.New(errors.ErrCodeMissingParameter, "start_date and end_date are required")
	}

	start, end := r.cfg.StartDate.Unwrap(), r.cfg.EndDate.Unwrap()

	cal := calendar.Sessions(r.schedule, start, end)
	if cal.IsEmpty() {
		return nil, errors.Newf(errors.ErrCodeSessionNotInWindow, "no sessions between %s and %s", start, end)
	}

	return cal, nil
}

// AnalysisReport compares a value file with the benchmark.
type AnalysisReport struct {
	Points []marketsim.ValuePoint
	Fund   performance.Stats
	// Benchmark is None when no benchmark is configured.
	Benchmark optional.Option[performance.Stats]
}

// Analyze reads the value file at path and measures it against the benchmark's close
// over the same sessions.
func (r *Runner) Analyze(ctx context.Context, path string) (*AnalysisReport, error) {
	points, err := marketsim.ReadValuesFile(path)
	if err != nil {
		return nil, err
	}

	if len(points) == 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidSeries, "value file %s is empty", path)
	}

	sessions := make([]types.Session, len(points))
	values := make([]float64, len(points))

	for i, point := range points {
		sessions[i] = point.Session
		values[i] = point.Value
	}

	report := &AnalysisReport{Points: points, Benchmark: optional.None[performance.Stats]()}

	if r.cfg.Benchmark == "" {
		if report.Fund, err = performance.Analyze(values); err != nil {
			return nil, err
		}

		return report, nil
	}

	cal, err := calendar.New(sessions)
	if err != nil {
		return nil, err
	}

	prices, err := panel.NewBuilder(r.provider, r.logger).Build(ctx, []string{r.cfg.Benchmark}, []types.PriceField{types.FieldClose}, cal)
	if err != nil {
		return nil, err
	}

	benchmark, _ := prices.Close.Series(r.cfg.Benchmark)

	comparison, err := performance.Compare(values, benchmark)
	if err != nil {
		return nil, err
	}

	report.Fund = comparison.Fund
	report.Benchmark = optional.Some(comparison.Benchmark)

	return report, nil
}

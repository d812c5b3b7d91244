package runner

import (
	"context"
	"slices"

	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-marketsim/internal/allocation"
	"github.com/rxtech-lab/argo-marketsim/internal/event"
	"github.com/rxtech-lab/argo-marketsim/internal/ledger"
	"github.com/rxtech-lab/argo-marketsim/internal/panel"
	"github.com/rxtech-lab/argo-marketsim/internal/results"
	"github.com/rxtech-lab/argo-marketsim/internal/types"
	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
)

// ProfileReport is the outcome of an event profiling run.
type ProfileReport struct {
	Matrix *event.Matrix
	Study  event.Study
	Orders *ledger.Ledger
	// Simulation is nil when the scan found no events.
	Simulation *SimulationReport
	Stats      types.RunStats
	Run        *results.Run
}

// Profile scans the configured universe, turns the events into orders, studies the
// event window and simulates the orders.
func (r *Runner) Profile(ctx context.Context, registry event.Registry) (*ProfileReport, error) {
	opts := r.cfg.Event

	scanner, err := registry.Get(opts.Strategy)
	if err != nil {
		return nil, err
	}

	cal, err := r.window()
	if err != nil {
		return nil, err
	}

	universe, err := r.provider.GetTradingUniverse(ctx, opts.List)
	if err != nil {
		return nil, err
	}

	request := universe
	if r.cfg.Benchmark != "" && !slices.Contains(universe, r.cfg.Benchmark) {
		request = append(append([]string(nil), universe...), r.cfg.Benchmark)
	}

	fields := scanner.Fields()
	if !slices.Contains(fields, types.FieldClose) {
		fields = append(append([]types.PriceField(nil), fields...), types.FieldClose)
	}

	prices, err := panel.NewBuilder(r.provider, r.logger).Build(ctx, request, fields, cal)
	if err != nil {
		return nil, err
	}

	matrix, err := scanner.Scan(ctx, prices, universe, event.ScanOptions{
		Threshold: optional.Some(opts.Threshold),
		Benchmark: r.cfg.Benchmark,
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("Scan complete",
		zap.String("strategy", scanner.Name()),
		zap.Int("symbols", len(universe)),
		zap.Int("events", matrix.Count()),
	)

	orders, err := event.Translate(matrix, cal, opts.HoldingPeriod, float64(opts.SharesPerEvent))
	if err != nil {
		return nil, err
	}

	study, err := event.RunStudy(matrix, prices, event.StudyOptions{
		Lookback:      opts.Lookback,
		Lookforward:   opts.Lookforward,
		MarketNeutral: opts.MarketNeutral && r.cfg.Benchmark != "",
		Benchmark:     r.cfg.Benchmark,
	})
	if err != nil {
		return nil, err
	}

	if r.cfg.OrdersPath != "" {
		if err := ledger.WriteFile(r.cfg.OrdersPath, orders); err != nil {
			return nil, err
		}
	}

	report := &ProfileReport{Matrix: matrix, Study: study, Orders: orders}

	if orders.IsEmpty() {
		r.logger.Warn("No events found, skipping simulation", zap.String("strategy", scanner.Name()))
	} else {
		result, stats, err := r.simulate(ctx, orders)
		if err != nil {
			return nil, err
		}

		report.Simulation = &SimulationReport{Result: result, Stats: stats}
		report.Stats = stats
	}

	first, _ := cal.First()
	last, _ := cal.Last()
	report.Stats.StartSession = first.String()
	report.Stats.EndSession = last.String()
	report.Stats.Benchmark = r.cfg.Benchmark
	report.Stats.StartingCash = r.cfg.StartingCash
	report.Stats.Event = &types.EventSummary{
		Strategy:       scanner.Name(),
		Events:         matrix.Count(),
		HoldingPeriod:  opts.HoldingPeriod,
		SharesPerEvent: float64(opts.SharesPerEvent),
	}

	if report.Run, err = r.newRun(); err != nil {
		return nil, err
	}

	if report.Run != nil {
		if err := r.persistProfile(report); err != nil {
			return nil, err
		}
	}

	return report, nil
}

func (r *Runner) persistProfile(report *ProfileReport) error {
	run := report.Run

	report.Stats.EventsFilePath = run.Path(results.EventsFileName)
	if err := results.WriteEvents(report.Stats.EventsFilePath, report.Matrix); err != nil {
		return err
	}

	if err := results.WriteStudy(run.Path(results.StudyFileName), &report.Study); err != nil {
		return err
	}

	if report.Simulation != nil {
		report.Simulation.Run = run
		if err := r.persistSimulation(run, report.Simulation.Result, &report.Stats); err != nil {
			return err
		}
	} else {
		report.Stats.OrdersFilePath = run.Path(results.OrdersFileName)
		if err := ledger.WriteFile(report.Stats.OrdersFilePath, report.Orders); err != nil {
			return err
		}
	}

	_, err := run.WriteStats(report.Stats)

	return err
}

// Allocate searches the weight grid over the configured symbols and window.
func (r *Runner) Allocate(ctx context.Context) (allocation.Result, error) {
	symbols := r.cfg.Allocation.Symbols
	if len(symbols) == 0 {
		return allocation.Result{}, errors.New(errors.ErrCodeMissingParameter, "allocation.symbols is empty")
	}

	cal, err := r.window()
	if err != nil {
		return allocation.Result{}, err
	}

	prices, err := panel.NewBuilder(r.provider, r.logger).Build(ctx, symbols, []types.PriceField{types.FieldClose}, cal)
	if err != nil {
		return allocation.Result{}, err
	}

	best, err := allocation.Search(ctx, prices, symbols, r.cfg.Allocation.Step)
	if err != nil {
		return allocation.Result{}, err
	}

	r.logger.Info("Allocation search complete",
		zap.Strings("symbols", symbols),
		zap.Float64s("weights", best.Weights),
		zap.Float64("sharpe", best.Sharpe),
		zap.Int("evaluated", best.Evaluated),
	)

	return best, nil
}

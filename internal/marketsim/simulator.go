package marketsim

import (
	"context"
	"slices"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-marketsim/internal/calendar"
	"github.com/rxtech-lab/argo-marketsim/internal/ledger"
	"github.com/rxtech-lab/argo-marketsim/internal/logger"
	"github.com/rxtech-lab/argo-marketsim/internal/marketdata"
	"github.com/rxtech-lab/argo-marketsim/internal/panel"
	"github.com/rxtech-lab/argo-marketsim/internal/types"
	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
	"go.uber.org/zap"
)

// maxAlignDays bounds the search for the session an order on a closed day executes on.
const maxAlignDays = 14

// Options configures one simulation.
type Options struct {
	StartingCash float64
	// Benchmark is loaded into the panel alongside the traded symbols. Empty skips it.
	Benchmark string
	// Start and End override the window spanned by the orders.
	Start optional.Option[types.Session]
	End   optional.Option[types.Session]
	// Schedule decides trading days. Nil means NYSE.
	Schedule calendar.Schedule
}

// Result holds every artifact of a simulation.
type Result struct {
	Calendar  *calendar.TradingCalendar
	Panel     *panel.PricePanel
	Ledger    *ledger.Ledger
	Unknown   *errors.UnknownSymbolError
	Holdings  *Holdings
	Cash      *CashLedger
	Portfolio *Portfolio
}

// Simulator runs order ledgers against market data.
type Simulator struct {
	provider marketdata.Provider
	builder  *panel.Builder
	logger   *logger.Logger
}

// NewSimulator returns a simulator reading prices from provider.
func NewSimulator(provider marketdata.Provider, log *logger.Logger) *Simulator {
	log = logger.OrNop(log)

	return &Simulator{
		provider: provider,
		builder:  panel.NewBuilder(provider, log),
		logger:   log,
	}
}

// Run drops orders for unknown symbols, aligns the rest to sessions and values the portfolio.
func (s *Simulator) Run(ctx context.Context, l *ledger.Ledger, opts Options) (*Result, error) {
	schedule := opts.Schedule
	if schedule == nil {
		schedule = calendar.NYSESchedule{}
	}

	known, err := s.provider.GetAllKnownSymbols(ctx)
	if err != nil {
		return nil, err
	}

	kept, unknown := l.FilterKnown(known)
	if unknown != nil {
		s.logger.Warn("Dropping orders with unknown symbols",
			zap.Strings("symbols", unknown.Symbols),
			zap.Int("orders", unknown.Orders),
		)
	}

	first, last, err := kept.Span()
	if err != nil {
		return nil, err
	}

	start := first
	if opts.Start.IsSome() {
		start = opts.Start.Unwrap()
	}

	end := onOrNextTradingDay(schedule, last)
	if opts.End.IsSome() {
		end = opts.End.Unwrap()
	}

	cal := calendar.Sessions(schedule, start, end)
	if cal.IsEmpty() {
		return nil, errors.Newf(errors.ErrCodeSessionNotInWindow, "no sessions between %s and %s", start, end)
	}

	aligned, err := s.align(kept, cal)
	if err != nil {
		return nil, err
	}

	symbols := aligned.Symbols()

	request := symbols
	if opts.Benchmark != "" && !slices.Contains(symbols, opts.Benchmark) {
		request = append(append([]string(nil), symbols...), opts.Benchmark)
	}

	prices, err := s.builder.Build(ctx, request, []types.PriceField{types.FieldClose, types.FieldActualClose}, cal)
	if err != nil {
		return nil, err
	}

	holdings, err := Accumulate(ctx, aligned, cal, symbols)
	if err != nil {
		return nil, err
	}

	cash, err := AccumulateCash(aligned, prices, opts.StartingCash)
	if err != nil {
		return nil, err
	}

	portfolio, err := Value(holdings, cash, prices)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Simulation complete",
		zap.Int("orders", aligned.Len()),
		zap.Int("sessions", cal.Len()),
		zap.Float64("final_value", portfolio.Final()),
	)

	return &Result{
		Calendar:  cal,
		Panel:     prices,
		Ledger:    aligned,
		Unknown:   unknown,
		Holdings:  holdings,
		Cash:      cash,
		Portfolio: portfolio,
	}, nil
}

// align moves orders placed on closed days to the next session of cal.
// Orders outside cal are an error.
func (s *Simulator) align(l *ledger.Ledger, cal *calendar.TradingCalendar) (*ledger.Ledger, error) {
	orders := l.Orders()
	first, _ := cal.First()

	for i, o := range orders {
		if cal.Contains(o.Session) {
			continue
		}

		idx, ok := cal.IndexOnOrAfter(o.Session)
		if !ok || o.Session.Before(first) {
			return nil, errors.Newf(errors.ErrCodeSessionNotInWindow,
				"order for %s on %s is outside the simulation window", o.Symbol, o.Session)
		}

		s.logger.Warn("Order placed on a closed day, executing on the next session",
			zap.String("symbol", o.Symbol),
			zap.String("date", o.Session.String()),
			zap.String("session", cal.At(idx).String()),
		)

		orders[i].Session = cal.At(idx)
	}

	return ledger.New(orders), nil
}

// onOrNextTradingDay returns day when it trades, otherwise the next trading day.
func onOrNextTradingDay(schedule calendar.Schedule, day types.Session) types.Session {
	for i := 0; i < maxAlignDays; i++ {
		if schedule.IsTradingDay(day.AddDays(i)) {
			return day.AddDays(i)
		}
	}

	return day
}

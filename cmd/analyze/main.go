package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/rxtech-lab/argo-marketsim/internal/cmdutil"
	"github.com/rxtech-lab/argo-marketsim/internal/config"
	"github.com/rxtech-lab/argo-marketsim/internal/logger"
	"github.com/rxtech-lab/argo-marketsim/internal/runner"
	"github.com/rxtech-lab/argo-marketsim/internal/types"
)

type valuesOutput struct {
	Sessions       int                       `yaml:"sessions"`
	FirstSession   string                    `yaml:"first_session"`
	LastSession    string                    `yaml:"last_session"`
	FinalValue     float64                   `yaml:"final_value"`
	Fund           types.PerformanceSummary  `yaml:"fund"`
	Benchmark      string                    `yaml:"benchmark,omitempty"`
	BenchmarkStats *types.PerformanceSummary `yaml:"benchmark_stats,omitempty"`
}

type allocationOutput struct {
	Symbols   []string                 `yaml:"symbols"`
	Weights   []float64                `yaml:"weights"`
	Sharpe    float64                  `yaml:"sharpe_ratio"`
	Evaluated int                      `yaml:"evaluated"`
	Stats     types.PerformanceSummary `yaml:"stats"`
}

func openRunner(cmd *cli.Command, cfg *config.Config) (*runner.Runner, *logger.Logger, func(), error) {
	log, err := cmdutil.NewLogger(cmd)
	if err != nil {
		return nil, nil, nil, err
	}

	provider, err := runner.OpenDuckDB(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}

	r, err := runner.New(cfg, provider, log)
	if err != nil {
		provider.Close()

		return nil, nil, nil, err
	}

	cleanup := func() {
		provider.Close()
		_ = log.Sync()
	}

	return r, log, cleanup, nil
}

func valuesAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := cmdutil.LoadConfig(cmd)
	if err != nil {
		return err
	}

	path := cmd.Args().First()
	if path == "" {
		path = cfg.ValuesPath
	}

	r, _, cleanup, err := openRunner(cmd, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := r.Analyze(ctx, path)
	if err != nil {
		return err
	}

	out := valuesOutput{
		Sessions:   len(report.Points),
		FinalValue: report.Points[len(report.Points)-1].Value,
		Fund:       report.Fund.Summary(),
	}

	out.FirstSession = report.Points[0].Session.String()
	out.LastSession = report.Points[len(report.Points)-1].Session.String()

	if report.Benchmark.IsSome() {
		summary := report.Benchmark.Unwrap().Summary()
		out.Benchmark = cfg.Benchmark
		out.BenchmarkStats = &summary
	}

	return cmdutil.PrintYAML(os.Stdout, out)
}

func allocateAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := cmdutil.LoadConfig(cmd)
	if err != nil {
		return err
	}

	if cmd.IsSet("symbols") {
		cfg.Allocation.Symbols = splitSymbols(cmd.String("symbols"))
	}

	if cmd.IsSet("step") {
		cfg.Allocation.Step = cmd.Float("step")
	}

	r, _, cleanup, err := openRunner(cmd, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	best, err := r.Allocate(ctx)
	if err != nil {
		return err
	}

	return cmdutil.PrintYAML(os.Stdout, allocationOutput{
		Symbols:   cfg.Allocation.Symbols,
		Weights:   best.Weights,
		Sharpe:    best.Sharpe,
		Evaluated: best.Evaluated,
		Stats:     best.Stats.Summary(),
	})
}

func splitSymbols(value string) []string {
	var symbols []string

	for _, part := range strings.Split(value, ",") {
		if symbol := strings.TrimSpace(part); symbol != "" {
			symbols = append(symbols, symbol)
		}
	}

	return symbols
}

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "Measure portfolio value series and fixed allocations",
		Flags: cmdutil.CommonFlags(),
		Commands: []*cli.Command{
			{
				Name:      "values",
				Usage:     "Compare a value file with the benchmark",
				ArgsUsage: "[values.csv]",
				Action:    valuesAction,
			},
			{
				Name:  "allocate",
				Usage: "Search the weight grid for the best Sharpe ratio",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "symbols",
						Usage: "Comma separated symbols to allocate across",
					},
					&cli.FloatFlag{
						Name:  "step",
						Usage: "Weight grid step, must divide 1",
					},
				},
				Action: allocateAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

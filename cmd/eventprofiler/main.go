package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/rxtech-lab/argo-marketsim/internal/cmdutil"
	"github.com/rxtech-lab/argo-marketsim/internal/config"
	"github.com/rxtech-lab/argo-marketsim/internal/event"
	"github.com/rxtech-lab/argo-marketsim/internal/runner"
)

type studyRow struct {
	Offset int     `yaml:"offset"`
	Mean   float64 `yaml:"mean"`
	Std    float64 `yaml:"std"`
}

// applyEventFlags copies the set event flags over the loaded config.
func applyEventFlags(cmd *cli.Command, cfg *config.Config) {
	if cmd.IsSet("strategy") {
		cfg.Event.Strategy = cmd.String("strategy")
	}

	if cmd.IsSet("threshold") {
		cfg.Event.Threshold = cmd.Float("threshold")
	}

	if cmd.IsSet("list") {
		cfg.Event.List = cmd.String("list")
	}

	if cmd.IsSet("orders") {
		cfg.OrdersPath = cmd.String("orders")
	}

	if cmd.IsSet("market-neutral") {
		cfg.Event.MarketNeutral = cmd.Bool("market-neutral")
	}
}

func studyRows(study event.Study) []studyRow {
	rows := make([]studyRow, len(study.Offsets))
	for i, offset := range study.Offsets {
		rows[i] = studyRow{Offset: offset, Mean: study.Mean[i], Std: study.Std[i]}
	}

	return rows
}

func profileAction(ctx context.Context, cmd *cli.Command) error {
	registry := event.NewDefaultRegistry()

	if cmd.Bool("list-strategies") {
		for _, name := range registry.List() {
			fmt.Println(name)
		}

		return nil
	}

	cfg, err := cmdutil.LoadConfig(cmd)
	if err != nil {
		return err
	}

	applyEventFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := cmdutil.NewLogger(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	provider, err := runner.OpenDuckDB(cfg, logger)
	if err != nil {
		return err
	}
	defer provider.Close()

	r, err := runner.New(cfg, provider, logger)
	if err != nil {
		return err
	}

	report, err := r.Profile(ctx, registry)
	if err != nil {
		return err
	}

	if err := cmdutil.PrintYAML(os.Stdout, report.Stats); err != nil {
		return err
	}

	if !cmd.Bool("study") {
		return nil
	}

	return cmdutil.PrintYAML(os.Stdout, map[string][]studyRow{"study": studyRows(report.Study)})
}

func main() {
	flags := append(cmdutil.CommonFlags(),
		&cli.StringFlag{
			Name:    "strategy",
			Aliases: []string{"s"},
			Usage:   "Registered event strategy",
		},
		&cli.FloatFlag{
			Name:    "threshold",
			Aliases: []string{"t"},
			Usage:   "Actual close threshold of the event",
		},
		&cli.StringFlag{
			Name:    "list",
			Aliases: []string{"l"},
			Usage:   "Symbol list to scan",
		},
		&cli.StringFlag{
			Name:    "orders",
			Aliases: []string{"o"},
			Usage:   "Output path of the generated order file",
		},
		&cli.BoolFlag{
			Name:  "market-neutral",
			Usage: "Subtract the benchmark return in the event study",
		},
		&cli.BoolFlag{
			Name:  "study",
			Usage: "Print the event study rows",
		},
		&cli.BoolFlag{
			Name:  "list-strategies",
			Usage: "Print the registered strategies and exit",
		},
	)

	cmd := &cli.Command{
		Name:   "eventprofiler",
		Usage:  "Scan a symbol list for events, study them and simulate the derived orders",
		Flags:  flags,
		Action: profileAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

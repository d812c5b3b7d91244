package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-marketsim/internal/cmdutil"
	"github.com/rxtech-lab/argo-marketsim/internal/config"
	"github.com/rxtech-lab/argo-marketsim/internal/ledger"
	"github.com/rxtech-lab/argo-marketsim/internal/runner"
)

// simulateAction replays an order file against the market data and prints the run statistics.
func simulateAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("print-schema") {
		schema, err := config.GenerateSchemaJSON()
		if err != nil {
			return err
		}

		fmt.Println(schema)

		return nil
	}

	cfg, err := cmdutil.LoadConfig(cmd)
	if err != nil {
		return err
	}

	if cmd.IsSet("cash") {
		cfg.StartingCash = cmd.Float("cash")
	}

	if cmd.IsSet("values") {
		cfg.ValuesPath = cmd.String("values")
	}

	if path := cmd.Args().First(); path != "" {
		cfg.OrdersPath = path
	}

	logger, err := cmdutil.NewLogger(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	orders, err := ledger.ParseFile(cfg.OrdersPath)
	if err != nil {
		return err
	}

	provider, err := runner.OpenDuckDB(cfg, logger)
	if err != nil {
		return err
	}
	defer provider.Close()

	r, err := runner.New(cfg, provider, logger)
	if err != nil {
		return err
	}

	report, err := r.Simulate(ctx, orders)
	if err != nil {
		return err
	}

	logger.Info("Simulation complete",
		zap.String("values", cfg.ValuesPath),
		zap.Float64("final_value", report.Stats.FinalValue),
	)

	return cmdutil.PrintYAML(os.Stdout, report.Stats)
}

func main() {
	flags := append(cmdutil.CommonFlags(),
		&cli.FloatFlag{
			Name:  "cash",
			Usage: "Starting cash",
		},
		&cli.StringFlag{
			Name:    "values",
			Aliases: []string{"o"},
			Usage:   "Output path of the value file",
		},
		&cli.BoolFlag{
			Name:  "print-schema",
			Usage: "Print the config JSON schema and exit",
		},
	)

	cmd := &cli.Command{
		Name:      "marketsim",
		Usage:     "Simulate an order file and value the resulting portfolio",
		ArgsUsage: "[orders.csv]",
		Flags:     flags,
		Action:    simulateAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

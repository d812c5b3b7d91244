package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-marketsim/internal/cmdutil"
	"github.com/rxtech-lab/argo-marketsim/internal/config"
	internalmarketdata "github.com/rxtech-lab/argo-marketsim/internal/marketdata"
	"github.com/rxtech-lab/argo-marketsim/internal/types"
	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
	"github.com/rxtech-lab/argo-marketsim/pkg/marketdata"
)

// tickers returns the --ticker symbols, or the --list symbols when no ticker is given.
func tickers(cmd *cli.Command, cfg *config.Config) ([]string, error) {
	var symbols []string

	for _, part := range strings.Split(cmd.String("ticker"), ",") {
		if symbol := strings.TrimSpace(part); symbol != "" {
			symbols = append(symbols, symbol)
		}
	}

	if len(symbols) > 0 {
		return symbols, nil
	}

	if list := cmd.String("list"); list != "" {
		return internalmarketdata.LoadList(cfg.ListsPath, list)
	}

	return nil, errors.New(errors.ErrCodeMissingParameter, "either --ticker or --list is required")
}

// window returns the configured download window. The end defaults to today.
func window(cfg *config.Config, today time.Time) (types.Session, types.Session, error) {
	if cfg.StartDate.IsNone() {
		return types.Session{}, types.Session{}, errors.New(errors.ErrCodeMissingParameter, "--start is required")
	}

	end := types.SessionOf(today)
	if cfg.EndDate.IsSome() {
		end = cfg.EndDate.Unwrap()
	}

	return cfg.StartDate.Unwrap(), end, nil
}

// downloadAction fetches daily bars for every requested ticker into the data folder.
func downloadAction(ctx context.Context, cmd *cli.Command) error {
	_ = godotenv.Load()

	cfg, err := cmdutil.LoadConfig(cmd)
	if err != nil {
		return err
	}

	if cmd.IsSet("out") {
		cfg.Download.Folder = cmd.String("out")
	}

	logger, err := cmdutil.NewLogger(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	symbols, err := tickers(cmd, cfg)
	if err != nil {
		return err
	}

	start, end, err := window(cfg, time.Now())
	if err != nil {
		return err
	}

	client, err := marketdata.NewClient(marketdata.ClientConfig{
		ProviderType:  marketdata.ProviderType(cmd.String("provider")),
		WriterType:    marketdata.WriterDuckDB,
		DataPath:      cfg.Download.Folder,
		PolygonApiKey: os.Getenv("POLYGON_API_KEY"),
	}, nil, logger)
	if err != nil {
		return fmt.Errorf("failed to create market data client: %w", err)
	}

	if cfg.Download.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, cfg.Download.Timeout)
		defer cancel()
	}

	logger.Info("Starting download",
		zap.Strings("symbols", symbols),
		zap.String("start", start.String()),
		zap.String("end", end.String()),
		zap.String("folder", cfg.Download.Folder),
	)

	paths, err := client.DownloadAll(ctx, symbols, start, end)
	for _, path := range paths {
		fmt.Println(path)
	}

	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	logger.Info("Download completed", zap.Int("files", len(paths)))

	return nil
}

func main() {
	flags := append(cmdutil.CommonFlags(),
		&cli.StringFlag{
			Name:    "ticker",
			Aliases: []string{"t"},
			Usage:   "Comma separated ticker symbols",
		},
		&cli.StringFlag{
			Name:    "list",
			Aliases: []string{"l"},
			Usage:   "Symbol list to download when no ticker is given",
		},
		&cli.StringFlag{
			Name:    "provider",
			Aliases: []string{"p"},
			Usage:   fmt.Sprintf("Data provider to use (e.g., %s)", marketdata.ProviderPolygon),
			Value:   string(marketdata.ProviderPolygon),
		},
		&cli.StringFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Usage:   "Output folder of the downloaded parquet files",
		},
	)

	cmd := &cli.Command{
		Name:   "download",
		Usage:  "Download daily market data",
		Flags:  flags,
		Action: downloadAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

package marketdata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-marketsim/internal/logger"
	"github.com/rxtech-lab/argo-marketsim/internal/types"
	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
	"github.com/rxtech-lab/argo-marketsim/pkg/marketdata/provider"
	"github.com/rxtech-lab/argo-marketsim/pkg/marketdata/writer"
)

// ProviderType defines the type of market data provider.
type ProviderType = provider.ProviderType

const (
	ProviderPolygon = provider.ProviderPolygon
)

// WriterType defines the type of market data writer.
type WriterType string

const (
	WriterDuckDB WriterType = "duckdb"
)

// ClientConfig holds the configuration for the market data client.
type ClientConfig struct {
	ProviderType  ProviderType `validate:"required,oneof=polygon"`
	WriterType    WriterType   `validate:"required,oneof=duckdb"`
	DataPath      string       `validate:"required"`
	PolygonApiKey string       `validate:"required_if=ProviderType polygon"`
}

// DownloadParams holds the parameters for a market data download request.
type DownloadParams struct {
	Ticker string `validate:"required"`
	Start  types.Session
	End    types.Session
}

// Validate checks the ticker and the date range.
func (p DownloadParams) Validate(validate *validator.Validate) error {
	if err := validate.Struct(p); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidParameter, "invalid download parameters", err)
	}

	if p.Start.IsZero() || p.End.IsZero() {
		return errors.New(errors.ErrCodeMissingParameter, "start and end are required")
	}

	if p.End.Before(p.Start) {
		return errors.Newf(errors.ErrCodeInvalidParameter, "end %s before start %s", p.End, p.Start)
	}

	return nil
}

// FileName is TICKER_START_END_1d.parquet.
func (p DownloadParams) FileName() string {
	return fmt.Sprintf("%s_%s_%s_1d.parquet", p.Ticker, p.Start, p.End)
}

// Client downloads daily bars from a provider and stores them with a writer.
type Client struct {
	provider   provider.Provider
	config     ClientConfig
	validate   *validator.Validate
	onProgress provider.OnDownloadProgress
	logger     *logger.Logger
}

// NewClient creates a new market data client with the given configuration.
func NewClient(config ClientConfig, onProgress provider.OnDownloadProgress, log *logger.Logger) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid client configuration", err)
	}

	var providerConfig any
	if config.ProviderType == ProviderPolygon {
		providerConfig = config.PolygonApiKey
	}

	marketProvider, err := provider.NewMarketDataProvider(config.ProviderType, providerConfig)
	if err != nil {
		return nil, err
	}

	return &Client{
		provider:   marketProvider,
		config:     config,
		validate:   validate,
		onProgress: onProgress,
		logger:     logger.OrNop(log),
	}, nil
}

// Download fetches one ticker and returns the written parquet path.
// The context can be used to cancel the download operation.
func (c *Client) Download(ctx context.Context, params DownloadParams) (string, error) {
	if err := params.Validate(c.validate); err != nil {
		return "", err
	}

	marketWriter, err := c.setupWriter(params)
	if err != nil {
		return "", err
	}

	c.provider.ConfigWriter(marketWriter)

	path, err := c.provider.Download(ctx, params.Ticker, params.Start, params.End, c.onProgress)
	if err != nil {
		return "", errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "download of %s failed", params.Ticker)
	}

	c.logger.Info("Downloaded market data", zap.String("symbol", params.Ticker), zap.String("path", path))

	return path, nil
}

// DownloadAll fetches every ticker in order. A failed ticker is logged and reported in the
// returned error while the remaining tickers are still fetched. Cancellation stops the loop.
func (c *Client) DownloadAll(ctx context.Context, tickers []string, start, end types.Session) ([]string, error) {
	var (
		paths []string
		errs  error
	)

	for _, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			return paths, multierr.Append(errs, err)
		}

		path, err := c.Download(ctx, DownloadParams{Ticker: ticker, Start: start, End: end})
		if err != nil {
			c.logger.Warn("Download failed", zap.String("symbol", ticker), zap.Error(err))
			errs = multierr.Append(errs, err)

			continue
		}

		paths = append(paths, path)
	}

	return paths, errs
}

// setupWriter initializes the appropriate market data writer based on configuration.
func (c *Client) setupWriter(params DownloadParams) (writer.MarketDataWriter, error) {
	switch c.config.WriterType {
	case WriterDuckDB:
		if err := os.MkdirAll(c.config.DataPath, 0755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to create data path", err)
		}

		return writer.NewDuckDBWriter(filepath.Join(c.config.DataPath, params.FileName())), nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "unsupported writer type: %s", c.config.WriterType)
	}
}

package provider

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/schollz/progressbar/v3"

	"github.com/rxtech-lab/argo-marketsim/internal/types"
	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
	"github.com/rxtech-lab/argo-marketsim/pkg/marketdata/writer"
)

const aggsPageLimit = 50000

// PolygonAggsIterator is the subset of the polygon aggregate iterator used by the client.
type PolygonAggsIterator interface {
	Next() bool
	Item() models.Agg
	Err() error
}

// PolygonAPIClient lists aggregates. It lets tests replace the REST client.
type PolygonAPIClient interface {
	ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator
}

type polygonRESTClient struct {
	client *polygon.Client
}

func (c *polygonRESTClient) ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator {
	return c.client.ListAggs(ctx, params, options...)
}

type PolygonClient struct {
	apiClient PolygonAPIClient
	writer    writer.MarketDataWriter
}

func NewPolygonClient(apiKey string) (Provider, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "apiKey is required")
	}

	return &PolygonClient{
		apiClient: &polygonRESTClient{client: polygon.New(apiKey)},
		writer:    nil,
	}, nil
}

// NewPolygonClientWithAPI creates a client backed by api.
func NewPolygonClientWithAPI(api PolygonAPIClient) *PolygonClient {
	return &PolygonClient{apiClient: api, writer: nil}
}

func (c *PolygonClient) ConfigWriter(w writer.MarketDataWriter) {
	c.writer = w
}

// Download writes one bar per session. Open, high, low and close are split and dividend
// adjusted; ActualClose is the unadjusted close of the same session.
func (c *PolygonClient) Download(ctx context.Context, ticker string, start types.Session, end types.Session, onProgress OnDownloadProgress) (path string, err error) {
	if c.writer == nil {
		return "", errors.New(errors.ErrCodeMarketDataWriteFailed, "no writer configured for PolygonClient. Call ConfigWriter first")
	}

	if end.Before(start) {
		return "", errors.Newf(errors.ErrCodeInvalidParameter, "end %s before start %s", end, start)
	}

	err = c.writer.Initialize()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to initialize writer", err)
	}

	written := 0

	defer func() {
		if cerr := c.writer.Close(); cerr != nil {
			if err == nil {
				err = errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "error closing writer", cerr)
			} else {
				log.Printf("Error closing writer after another error: %v", cerr)
			}
		}

		if err != nil && written == 0 {
			_ = os.Remove(c.writer.GetOutputPath())
		}
	}()

	actual, err := c.closes(ctx, ticker, start, end, false)
	if err != nil {
		return "", err
	}

	totalDays := int(end.Time().Sub(start.Time()).Hours()/24) + 1
	message := fmt.Sprintf("Downloading %s", ticker)
	bar := progressbar.NewOptions(totalDays, progressbar.OptionSetDescription(message), progressbar.OptionShowCount())

	iter := c.apiClient.ListAggs(ctx, aggsParams(ticker, start, end, true))

	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		agg := iter.Item()
		session := types.SessionOf(aggTime(agg))

		actualClose, ok := actual[session]
		if !ok {
			actualClose = agg.Close
		}

		err = c.writer.Write(types.Bar{
			Session:     session,
			Symbol:      ticker,
			Open:        agg.Open,
			High:        agg.High,
			Low:         agg.Low,
			Close:       agg.Close,
			Volume:      agg.Volume,
			ActualClose: actualClose,
		})
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to write data", err)
		}

		written++
		elapsed := int(session.Time().Sub(start.Time()).Hours() / 24)
		_ = bar.Set(elapsed)

		if onProgress != nil {
			onProgress(float64(elapsed), float64(totalDays), message)
		}
	}

	if iter.Err() != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "error iterating polygon aggregates", iter.Err())
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	_ = bar.Finish()
	log.Printf("Finished downloading %d sessions for %s.", written, ticker)

	outputPath, err := c.writer.Finalize()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to finalize writer", err)
	}

	return outputPath, nil
}

// closes collects the close of every session in the range.
func (c *PolygonClient) closes(ctx context.Context, ticker string, start, end types.Session, adjusted bool) (map[types.Session]float64, error) {
	out := make(map[types.Session]float64)
	iter := c.apiClient.ListAggs(ctx, aggsParams(ticker, start, end, adjusted))

	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		agg := iter.Item()
		out[types.SessionOf(aggTime(agg))] = agg.Close
	}

	if iter.Err() != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "error iterating polygon aggregates", iter.Err())
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func aggsParams(ticker string, start, end types.Session, adjusted bool) *models.ListAggsParams {
	//nolint:exhaustruct // third-party struct with many optional fields
	return models.ListAggsParams{
		Ticker:     ticker,
		Multiplier: 1,
		Timespan:   models.Day,
		From:       models.Millis(start.Time()),
		To:         models.Millis(end.Time()),
	}.WithAdjusted(adjusted).WithLimit(aggsPageLimit)
}

// aggTime is the UTC instant of a daily aggregate. Daily bars start at midnight New York
// time, which falls on the same UTC date.
func aggTime(agg models.Agg) time.Time {
	return time.Time(agg.Timestamp).UTC()
}

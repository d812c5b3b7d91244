package marketdata

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-marketsim/internal/types"
	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
)

// PolygonDownloadConfig describes a batch download from Polygon.io.
type PolygonDownloadConfig struct {
	Tickers   []string `json:"tickers" jsonschema:"title=Tickers,description=Symbols to download,required" validate:"required,min=1,dive,required"`
	StartDate string   `json:"startDate" jsonschema:"title=Start Date,description=First session,format=date,required" validate:"required"`
	EndDate   string   `json:"endDate" jsonschema:"title=End Date,description=Last session,format=date,required" validate:"required"`
	ApiKey    string   `json:"apiKey" jsonschema:"title=API Key,description=Polygon.io API key for authentication,required" validate:"required" keychain:"true"`
}

// Validate checks required fields and the date range.
func (c *PolygonDownloadConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	_, _, err := c.Window()

	return err
}

// Window parses the start and end dates.
func (c *PolygonDownloadConfig) Window() (types.Session, types.Session, error) {
	start, err := types.ParseSession(c.StartDate)
	if err != nil {
		return types.Session{}, types.Session{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid startDate", err)
	}

	end, err := types.ParseSession(c.EndDate)
	if err != nil {
		return types.Session{}, types.Session{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid endDate", err)
	}

	if end.Before(start) {
		return types.Session{}, types.Session{}, errors.Newf(errors.ErrCodeInvalidConfiguration,
			"endDate %s before startDate %s", end, start)
	}

	return start, end, nil
}

// ToClientConfig converts a PolygonDownloadConfig to ClientConfig.
func (c *PolygonDownloadConfig) ToClientConfig(dataPath string) ClientConfig {
	return ClientConfig{
		ProviderType:  ProviderPolygon,
		WriterType:    WriterDuckDB,
		DataPath:      dataPath,
		PolygonApiKey: c.ApiKey,
	}
}

// ParsePolygonConfig parses JSON into a PolygonDownloadConfig.
func ParsePolygonConfig(jsonConfig string) (*PolygonDownloadConfig, error) {
	var config PolygonDownloadConfig
	if err := json.Unmarshal([]byte(jsonConfig), &config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse JSON config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

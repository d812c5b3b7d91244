// Package config loads run configuration from an optional YAML file and the environment.
package config

import (
	"encoding/json"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-marketsim/internal/event"
	"github.com/rxtech-lab/argo-marketsim/internal/types"
	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

const envPrefix = "marketsim"

// Config is the full run configuration shared by the commands.
type Config struct {
	StartingCash  float64 `mapstructure:"starting_cash" yaml:"starting_cash" json:"starting_cash" validate:"gt=0" jsonschema:"title=Starting Cash,description=Cash on hand before the first order,minimum=0"`
	Benchmark     string  `mapstructure:"benchmark" yaml:"benchmark" json:"benchmark" validate:"required" jsonschema:"title=Benchmark,description=Symbol the portfolio is compared against"`
	DataPath      string  `mapstructure:"data_path" yaml:"data_path" json:"data_path" jsonschema:"title=Data Path,description=Glob of parquet or csv files holding intraday or daily bars"`
	ListsPath     string  `mapstructure:"lists_path" yaml:"lists_path" json:"lists_path" jsonschema:"title=Lists Path,description=Folder of symbol list files"`
	CalendarPath  string  `mapstructure:"calendar_path" yaml:"calendar_path" json:"calendar_path" jsonschema:"title=Calendar Path,description=Optional session file replacing the NYSE schedule"`
	OrdersPath    string  `mapstructure:"orders_path" yaml:"orders_path" json:"orders_path" jsonschema:"title=Orders Path"`
	ValuesPath    string  `mapstructure:"values_path" yaml:"values_path" json:"values_path" jsonschema:"title=Values Path"`
	ResultsFolder string  `mapstructure:"results_folder" yaml:"results_folder" json:"results_folder" jsonschema:"title=Results Folder"`

	StartDate optional.Option[types.Session] `mapstructure:"-" yaml:"start_date" json:"start_date" jsonschema:"title=Start Date,description=Overrides the first session of the simulation"`
	EndDate   optional.Option[types.Session] `mapstructure:"-" yaml:"end_date" json:"end_date" jsonschema:"title=End Date,description=Overrides the last session of the simulation"`

	Event      EventConfig      `mapstructure:"event" yaml:"event" json:"event"`
	Allocation AllocationConfig `mapstructure:"allocation" yaml:"allocation" json:"allocation"`
	Download   DownloadConfig   `mapstructure:"download" yaml:"download" json:"download"`
}

// EventConfig configures the event profiler.
type EventConfig struct {
	Strategy       string  `mapstructure:"strategy" yaml:"strategy" json:"strategy" validate:"required"`
	Threshold      float64 `mapstructure:"threshold" yaml:"threshold" json:"threshold" validate:"gt=0"`
	HoldingPeriod  int     `mapstructure:"holding_period" yaml:"holding_period" json:"holding_period" validate:"gte=0"`
	SharesPerEvent int64   `mapstructure:"shares_per_event" yaml:"shares_per_event" json:"shares_per_event" validate:"gt=0"`
	Lookback       int     `mapstructure:"lookback" yaml:"lookback" json:"lookback" validate:"gte=0"`
	Lookforward    int     `mapstructure:"lookforward" yaml:"lookforward" json:"lookforward" validate:"gte=0"`
	MarketNeutral  bool    `mapstructure:"market_neutral" yaml:"market_neutral" json:"market_neutral"`
	List           string  `mapstructure:"list" yaml:"list" json:"list" validate:"required"`
}

// AllocationConfig configures the allocation grid search.
type AllocationConfig struct {
	Symbols []string `mapstructure:"symbols" yaml:"symbols" json:"symbols" validate:"omitempty,max=6,dive,required"`
	Step    float64  `mapstructure:"step" yaml:"step" json:"step" validate:"gt=0,lte=1"`
}

// DownloadConfig configures historical downloads.
type DownloadConfig struct {
	Folder  string        `mapstructure:"folder" yaml:"folder" json:"folder"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout" validate:"gte=0"`
}

// Load reads path (skipped when empty) and applies MARKETSIM_* environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %q", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to decode config", err)
	}

	var err error
	if cfg.StartDate, err = parseDate("start_date", v.GetString("start_date")); err != nil {
		return nil, err
	}

	if cfg.EndDate, err = parseDate("end_date", v.GetString("end_date")); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration with no file and no environment.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(err)
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("starting_cash", 1_000_000.0)
	v.SetDefault("benchmark", "$SPX")
	v.SetDefault("data_path", "data/*.parquet")
	v.SetDefault("lists_path", "data/lists")
	v.SetDefault("calendar_path", "")
	v.SetDefault("orders_path", "orders.csv")
	v.SetDefault("values_path", "values.csv")
	v.SetDefault("results_folder", "results")
	v.SetDefault("start_date", "")
	v.SetDefault("end_date", "")

	v.SetDefault("event.strategy", event.FiveDollarEvent)
	v.SetDefault("event.threshold", event.DefaultThreshold)
	v.SetDefault("event.holding_period", 5)
	v.SetDefault("event.shares_per_event", 100)
	v.SetDefault("event.lookback", 20)
	v.SetDefault("event.lookforward", 20)
	v.SetDefault("event.market_neutral", true)
	v.SetDefault("event.list", "sp5002012")

	v.SetDefault("allocation.symbols", []string{})
	v.SetDefault("allocation.step", 0.1)

	v.SetDefault("download.folder", "data")
	v.SetDefault("download.timeout", "10m")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

func parseDate(key, value string) (optional.Option[types.Session], error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return optional.None[types.Session](), nil
	}

	s, err := types.ParseSession(value)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid %s", key)
	}

	return optional.Some(s), nil
}

// Validate checks field constraints and the date window. Every violation is reported.
func (c *Config) Validate() error {
	var errs error

	if err := validator.New().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to validate config", err)
		}

		for _, fe := range fieldErrs {
			errs = multierr.Append(errs, errors.Newf(errors.ErrCodeInvalidConfiguration,
				"%s fails %s %s", fe.Namespace(), fe.Tag(), fe.Param()))
		}
	}

	if c.StartDate.IsSome() && c.EndDate.IsSome() && c.EndDate.Unwrap().Before(c.StartDate.Unwrap()) {
		errs = multierr.Append(errs, errors.Newf(errors.ErrCodeInvalidConfiguration,
			"end_date %s before start_date %s", c.EndDate.Unwrap(), c.StartDate.Unwrap()))
	}

	if errs != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, errs, "%d invalid config values", len(multierr.Errors(errs)))
	}

	return nil
}

// GenerateSchemaJSON returns the JSON schema of Config.
func GenerateSchemaJSON() (string, error) {
	sessionOption := reflect.TypeOf(optional.Option[types.Session]{})

	reflector := jsonschema.Reflector{
		ExpandedStruct:            true,
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == sessionOption {
				return &jsonschema.Schema{Type: "string", Format: "date"}
			}

			if t == reflect.TypeOf(time.Duration(0)) {
				return &jsonschema.Schema{Type: "string", Description: "Go duration such as 30s or 10m"}
			}

			return nil
		},
	}

	schema := reflector.Reflect(&Config{})

	out, err := json.Marshal(schema)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to marshal config schema", err)
	}

	return string(out), nil
}

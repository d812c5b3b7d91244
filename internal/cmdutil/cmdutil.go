// Package cmdutil holds the flags and setup shared by the commands.
package cmdutil

import (
	"io"

	"github.com/moznion/go-optional"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/rxtech-lab/argo-marketsim/internal/config"
	"github.com/rxtech-lab/argo-marketsim/internal/logger"
	"github.com/rxtech-lab/argo-marketsim/internal/types"
	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
)

// CommonFlags are accepted by every command. Set flags override the config file and environment.
func CommonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a YAML config file",
		},
		&cli.StringFlag{
			Name:    "data",
			Aliases: []string{"d"},
			Usage:   "Glob of parquet or csv market data files",
		},
		&cli.StringFlag{
			Name:  "lists",
			Usage: "Folder of symbol list files",
		},
		&cli.StringFlag{
			Name:  "calendar",
			Usage: "Session file replacing the NYSE schedule",
		},
		&cli.StringFlag{
			Name:    "benchmark",
			Aliases: []string{"b"},
			Usage:   "Benchmark symbol",
		},
		&cli.StringFlag{
			Name:  "results",
			Usage: "Results folder, empty to skip run artifacts",
		},
		&cli.TimestampFlag{
			Name:   "start",
			Usage:  "First session in `YYYY-MM-DD` format",
			Config: cli.TimestampConfig{Layouts: []string{types.SessionLayout}},
		},
		&cli.TimestampFlag{
			Name:   "end",
			Usage:  "Last session in `YYYY-MM-DD` format",
			Config: cli.TimestampConfig{Layouts: []string{types.SessionLayout}},
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "debug, info, warn or error",
			Value: "info",
		},
	}
}

// LoadConfig loads the config named by --config and applies the set flags.
func LoadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	overrides := map[string]*string{
		"data":      &cfg.DataPath,
		"lists":     &cfg.ListsPath,
		"calendar":  &cfg.CalendarPath,
		"benchmark": &cfg.Benchmark,
		"results":   &cfg.ResultsFolder,
	}

	for flag, target := range overrides {
		if cmd.IsSet(flag) {
			*target = cmd.String(flag)
		}
	}

	if cmd.IsSet("start") {
		cfg.StartDate = optional.Some(types.SessionOf(cmd.Timestamp("start")))
	}

	if cmd.IsSet("end") {
		cfg.EndDate = optional.Some(types.SessionOf(cmd.Timestamp("end")))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewLogger builds the production logger at --log-level.
func NewLogger(cmd *cli.Command) (*logger.Logger, error) {
	level, err := zapcore.ParseLevel(cmd.String("log-level"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid log level", err)
	}

	return logger.NewLoggerWithLevel(level)
}

// PrintYAML writes v as YAML.
func PrintYAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(v); err != nil {
		return err
	}

	return encoder.Close()
}

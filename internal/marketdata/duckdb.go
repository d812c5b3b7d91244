package marketdata

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-marketsim/internal/calendar"
	"github.com/rxtech-lab/argo-marketsim/internal/logger"
	"github.com/rxtech-lab/argo-marketsim/internal/types"
	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
	"go.uber.org/zap"
)

// requiredColumns must be present in every data file. actual_close is optional
// and falls back to close when absent.
var requiredColumns = []string{"time", "symbol", "open", "high", "low", "close", "volume"}

// DuckDBProvider serves daily bars from parquet or CSV files through DuckDB.
// Intraday rows are aggregated into one bar per symbol and calendar date.
type DuckDBProvider struct {
	db        *sql.DB
	logger    *logger.Logger
	sq        squirrel.StatementBuilderType
	listsPath string
}

// NewDuckDBProvider opens a DuckDB database at path (":memory:" for an in-process database).
// Symbol lists are read from listsPath.
func NewDuckDBProvider(path string, listsPath string, log *logger.Logger) (*DuckDBProvider, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	return &DuckDBProvider{
		db:        db,
		logger:    logger.OrNop(log),
		sq:        squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		listsPath: listsPath,
	}, nil
}

// Initialize points the provider at the data files matched by pattern.
// Files ending in .csv are read with read_csv_auto, everything else as parquet.
func (d *DuckDBProvider) Initialize(pattern string) error {
	d.logger.Debug("Initializing DuckDB market data", zap.String("pattern", pattern))

	reader := "read_parquet"
	if strings.EqualFold(filepath.Ext(pattern), ".csv") {
		reader = "read_csv_auto"
	}

	_, err := d.db.Exec(`DROP VIEW IF EXISTS market_data; DROP VIEW IF EXISTS raw_market_data;`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to drop existing views", err)
	}

	// DuckDB does not bind parameters in CREATE VIEW
	query := fmt.Sprintf(`CREATE VIEW raw_market_data AS SELECT * FROM %s('%s');`,
		reader, strings.ReplaceAll(pattern, "'", "''"))

	if _, err = d.db.Exec(query); err != nil {
		return errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to read market data from %s", pattern)
	}

	columns, err := d.columns()
	if err != nil {
		return err
	}

	for _, column := range requiredColumns {
		if !slices.Contains(columns, column) {
			return errors.Newf(errors.ErrCodeDataSourceUnavailable, "market data is missing column %s", column)
		}
	}

	actualClose := "close"
	if slices.Contains(columns, string(types.FieldActualClose)) {
		actualClose = string(types.FieldActualClose)
	} else {
		d.logger.Warn("Market data has no actual_close column, using close")
	}

	query = fmt.Sprintf(`
		CREATE VIEW market_data AS
		SELECT
			CAST(time AS DATE) AS session,
			symbol,
			CAST(arg_min(open, time) AS DOUBLE) AS open,
			CAST(max(high) AS DOUBLE) AS high,
			CAST(min(low) AS DOUBLE) AS low,
			CAST(arg_max(close, time) AS DOUBLE) AS close,
			CAST(sum(volume) AS DOUBLE) AS volume,
			CAST(arg_max(%s, time) AS DOUBLE) AS actual_close
		FROM raw_market_data
		GROUP BY CAST(time AS DATE), symbol;
	`, actualClose)

	if _, err = d.db.Exec(query); err != nil {
		return errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to create daily view", err)
	}

	return nil
}

func (d *DuckDBProvider) columns() ([]string, error) {
	rows, err := d.db.Query(`SELECT * FROM raw_market_data LIMIT 0`)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to inspect market data", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to read market data columns", err)
	}

	for i, column := range columns {
		columns[i] = strings.ToLower(column)
	}

	return columns, nil
}

// GetTradingUniverse implements Provider.
func (d *DuckDBProvider) GetTradingUniverse(_ context.Context, list string) ([]string, error) {
	return LoadList(d.listsPath, list)
}

// GetData implements Provider.
func (d *DuckDBProvider) GetData(ctx context.Context, cal *calendar.TradingCalendar, symbols []string, fields []types.PriceField) (*RawPanel, error) {
	panel := NewRawPanel(cal, symbols, fields)

	first, ok := cal.First()
	if !ok || len(symbols) == 0 || len(fields) == 0 {
		return panel, nil
	}

	last, _ := cal.Last()

	columns := []string{"session", "symbol"}
	for _, field := range fields {
		columns = append(columns, string(field))
	}

	query, args, err := d.sq.
		Select(columns...).
		From("market_data").
		Where(squirrel.And{
			squirrel.Eq{"symbol": symbols},
			squirrel.Expr("session >= CAST(? AS DATE)", first.String()),
			squirrel.Expr("session <= CAST(? AS DATE)", last.String()),
		}).
		OrderBy("symbol ASC", "session ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build data query", err)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query market data", err)
	}
	defer rows.Close()

	var (
		session time.Time
		symbol  string
	)

	values := make([]sql.NullFloat64, len(fields))
	dest := []any{&session, &symbol}

	for i := range values {
		dest = append(dest, &values[i])
	}

	count := 0

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan row", err)
		}

		day := types.SessionOf(session)
		for i, field := range fields {
			if values[i].Valid {
				panel.Set(field, symbol, day, values[i].Float64)
			}
		}

		count++
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating rows", err)
	}

	d.logger.Debug("Loaded market data",
		zap.Int("rows", count),
		zap.Int("symbols", len(symbols)),
		zap.Int("sessions", cal.Len()),
	)

	return panel, nil
}

// GetAllKnownSymbols implements Provider.
func (d *DuckDBProvider) GetAllKnownSymbols(ctx context.Context) ([]string, error) {
	query, args, err := d.sq.
		Select("DISTINCT symbol").
		From("market_data").
		OrderBy("symbol ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build symbol query", err)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query symbols", err)
	}
	defer rows.Close()

	var symbols []string

	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan symbol", err)
		}

		symbols = append(symbols, symbol)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating symbols", err)
	}

	return symbols, nil
}

// Close releases the database.
func (d *DuckDBProvider) Close() error {
	return d.db.Close()
}

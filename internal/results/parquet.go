package results

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-marketsim/internal/event"
	"github.com/rxtech-lab/argo-marketsim/internal/marketsim"
	"github.com/rxtech-lab/argo-marketsim/internal/types"
	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
)

// tableWriter stages rows in an in-memory DuckDB table and exports it to parquet.
type tableWriter struct {
	db         *sql.DB
	table      string
	columns    []string
	outputPath string
	mu         sync.Mutex
}

func newTableWriter(outputPath, table, schema string, columns []string) (*tableWriter, error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to create output directory", err)
	}

	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to open DuckDB connection", err)
	}

	if _, err := db.Exec(fmt.Sprintf("CREATE TABLE %s (%s)", table, schema)); err != nil {
		db.Close()

		return nil, errors.Wrapf(errors.ErrCodeResultWriteFailed, err, "failed to create %s table", table)
	}

	return &tableWriter{db: db, table: table, columns: columns, outputPath: outputPath}, nil
}

// insert adds rows in a single transaction. values may contain SQL casts per column.
func (w *tableWriter) insert(values string, rows [][]any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	tx, err := w.db.Begin()
	if err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to begin transaction", err)
	}

	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", w.table, strings.Join(w.columns, ", "), values))
	if err != nil {
		_ = tx.Rollback()

		return errors.Wrapf(errors.ErrCodeResultWriteFailed, err, "failed to prepare %s insert", w.table)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.Exec(row...); err != nil {
			_ = tx.Rollback()

			return errors.Wrapf(errors.ErrCodeResultWriteFailed, err, "failed to insert into %s", w.table)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to commit transaction", err)
	}

	return nil
}

func (w *tableWriter) export(orderBy string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	_, err := w.db.Exec(fmt.Sprintf("COPY (SELECT * FROM %s ORDER BY %s) TO '%s' (FORMAT PARQUET)",
		w.table, orderBy, quotePath(w.outputPath)))
	if err != nil {
		return errors.Wrapf(errors.ErrCodeResultWriteFailed, err, "failed to export %s to parquet", w.table)
	}

	return nil
}

func (w *tableWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.db == nil {
		return nil
	}

	err := w.db.Close()
	w.db = nil

	return err
}

func quotePath(path string) string {
	return strings.ReplaceAll(path, "'", "''")
}

// WritePortfolio writes one row per session with cash, equities and total value.
func WritePortfolio(path string, p *marketsim.Portfolio) error {
	w, err := newTableWriter(path, "portfolio",
		"session DATE, cash DOUBLE, equities DOUBLE, value DOUBLE",
		[]string{"session", "cash", "equities", "value"})
	if err != nil {
		return err
	}
	defer w.Close()

	rows := make([][]any, p.Len())
	for i := range rows {
		rows[i] = []any{p.Calendar.At(i).String(), p.Cash[i], p.Equities[i], p.Values[i]}
	}

	if err := w.insert("CAST(? AS DATE), ?, ?, ?", rows); err != nil {
		return err
	}

	return w.export("session")
}

// WriteEvents writes one row per flagged (session, symbol) pair.
func WriteEvents(path string, m *event.Matrix) error {
	w, err := newTableWriter(path, "events",
		"session DATE, symbol TEXT, session_index INTEGER",
		[]string{"session", "symbol", "session_index"})
	if err != nil {
		return err
	}
	defer w.Close()

	events := m.Events()
	rows := make([][]any, len(events))

	for i, e := range events {
		rows[i] = []any{e.Session.String(), e.Symbol, e.Index}
	}

	if err := w.insert("CAST(? AS DATE), ?, ?", rows); err != nil {
		return err
	}

	return w.export("session_index, symbol")
}

// WriteStudy writes the mean and std path of an event study.
func WriteStudy(path string, s *event.Study) error {
	w, err := newTableWriter(path, "study",
		"offset_sessions INTEGER, mean DOUBLE, std DOUBLE",
		[]string{"offset_sessions", "mean", "std"})
	if err != nil {
		return err
	}
	defer w.Close()

	rows := make([][]any, 0, len(s.Mean))
	for i := range s.Mean {
		rows = append(rows, []any{s.Offsets[i], s.Mean[i], s.Std[i]})
	}

	if err := w.insert("?, ?, ?", rows); err != nil {
		return err
	}

	return w.export("offset_sessions")
}

// PortfolioRow is one row of portfolio.parquet.
type PortfolioRow struct {
	Session  types.Session
	Cash     float64
	Equities float64
	Value    float64
}

// ReadPortfolio loads a portfolio parquet file in session order.
func ReadPortfolio(path string) ([]PortfolioRow, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeResultReadFailed, "failed to open DuckDB connection", err)
	}
	defer db.Close()

	rows, err := db.Query(fmt.Sprintf(
		"SELECT CAST(session AS VARCHAR), cash, equities, value FROM read_parquet('%s') ORDER BY session",
		quotePath(path)))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeResultReadFailed, err, "failed to read %s", path)
	}
	defer rows.Close()

	var out []PortfolioRow

	for rows.Next() {
		var (
			row     PortfolioRow
			session string
		)

		if err := rows.Scan(&session, &row.Cash, &row.Equities, &row.Value); err != nil {
			return nil, errors.Wrap(errors.ErrCodeResultReadFailed, "failed to scan portfolio row", err)
		}

		if row.Session, err = types.ParseSession(session); err != nil {
			return nil, errors.Wrap(errors.ErrCodeResultReadFailed, "invalid session in portfolio file", err)
		}

		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeResultReadFailed, "failed to iterate portfolio rows", err)
	}

	return out, nil
}

// Package results persists the artifacts of a run under <results>/<run-id>/.
package results

import (
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-marketsim/internal/types"
	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
)

const (
	StatsFileName     = "stats.yaml"
	PortfolioFileName = "portfolio.parquet"
	EventsFileName    = "events.parquet"
	StudyFileName     = "study.parquet"
	OrdersFileName    = "orders.csv"
)

// Run is one results folder.
type Run struct {
	ID        string
	Folder    string
	Timestamp time.Time
}

// NewRun creates a fresh run folder under resultsFolder.
func NewRun(resultsFolder string) (*Run, error) {
	id := uuid.New().String()
	folder := filepath.Join(resultsFolder, id)

	if err := os.MkdirAll(folder, 0755); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeResultWriteFailed, err, "failed to create run folder %s", folder)
	}

	return &Run{ID: id, Folder: folder, Timestamp: time.Now().UTC()}, nil
}

// Path returns name inside the run folder.
func (r *Run) Path(name string) string {
	return filepath.Join(r.Folder, name)
}

// WriteStats stamps stats with the run id and writes stats.yaml.
func (r *Run) WriteStats(stats types.RunStats) (string, error) {
	stats.ID = r.ID
	stats.Timestamp = r.Timestamp

	path := r.Path(StatsFileName)
	if err := types.WriteRunStats(path, stats); err != nil {
		return "", errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to write run stats", err)
	}

	return path, nil
}

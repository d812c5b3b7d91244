package marketsim

import (
	"bytes"
	"io"
	"os"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rxtech-lab/argo-marketsim/internal/types"
	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
	"github.com/shopspring/decimal"
)

type valueRecord struct {
	Year  int     `csv:"year"`
	Month int     `csv:"month"`
	Day   int     `csv:"day"`
	Value float64 `csv:"value"`
}

// WriteValues writes points as year,month,day,value rows without a header.
// Values are truncated toward zero to integers.
func WriteValues(w io.Writer, points []ValuePoint) error {
	if len(points) == 0 {
		return nil
	}

	records := make([]valueRecord, len(points))
	for i, p := range points {
		records[i] = valueRecord{
			Year:  p.Session.Year,
			Month: int(p.Session.Month),
			Day:   p.Session.Day,
			Value: float64(decimal.NewFromFloat(p.Value).IntPart()),
		}
	}

	if err := gocsv.MarshalWithoutHeaders(records, w); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSeries, "failed to write values", err)
	}

	return nil
}

// WriteValuesFile writes points to path, replacing any existing file.
func WriteValuesFile(path string, points []ValuePoint) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidSeries, err, "failed to create value file %s", path)
	}

	if err := WriteValues(file, points); err != nil {
		file.Close()

		return err
	}

	if err := file.Close(); err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidSeries, err, "failed to close value file %s", path)
	}

	return nil
}

// ReadValues parses a value file. Rows must be in strictly ascending date order.
func ReadValues(r io.Reader) ([]ValuePoint, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSeries, "failed to read values", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var records []valueRecord
	if err := gocsv.UnmarshalWithoutHeaders(bytes.NewReader(data), &records); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSeries, "failed to parse values", err)
	}

	points := make([]ValuePoint, len(records))

	for i, rec := range records {
		if !types.ValidDate(rec.Year, rec.Month, rec.Day) {
			return nil, errors.Newf(errors.ErrCodeInvalidSeries, "invalid date on row %d: %d,%d,%d", i+1, rec.Year, rec.Month, rec.Day)
		}

		session := types.NewSession(rec.Year, time.Month(rec.Month), rec.Day)

		if i > 0 && !points[i-1].Session.Before(session) {
			return nil, errors.Newf(errors.ErrCodeInvalidSeries, "row %d is not after the previous row", i+1)
		}

		points[i] = ValuePoint{Session: session, Value: rec.Value}
	}

	return points, nil
}

// ReadValuesFile parses the value file at path.
func ReadValuesFile(path string) ([]ValuePoint, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidSeries, err, "failed to open value file %s", path)
	}
	defer file.Close()

	return ReadValues(file)
}

package ledger

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rxtech-lab/argo-marketsim/internal/types"
	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
	"go.uber.org/multierr"
)

// Parse reads order rows of the form year,month,day,symbol,direction,amount with
// an optional ignored seventh field and no header. Any malformed row fails the
// whole parse; every malformed row is reported in the returned error.
func Parse(r io.Reader) (*Ledger, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var (
		records []types.RawOrder
		errs    error
	)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				errs = multierr.Append(errs, &errors.MalformedOrderError{Line: parseErr.Line, Reason: parseErr.Err.Error()})

				continue
			}

			return nil, errors.Wrap(errors.ErrCodeMalformedOrder, "failed to read orders", err)
		}

		line, _ := reader.FieldPos(0)

		raw, err := parseRecord(line, record)
		if err != nil {
			errs = multierr.Append(errs, err)

			continue
		}

		records = append(records, raw)
	}

	if errs != nil {
		return nil, errors.Wrapf(errors.ErrCodeMalformedOrder, errs, "%d malformed order rows", len(multierr.Errors(errs)))
	}

	return FromRaw(records), nil
}

// ParseFile parses the order file at path.
func ParseFile(path string) (*Ledger, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMissingParameter, err, "failed to open order file %s", path)
	}
	defer file.Close()

	return Parse(file)
}

func parseRecord(line int, record []string) (types.RawOrder, error) {
	malformed := func(reason string) error {
		return &errors.MalformedOrderError{Line: line, Record: record, Reason: reason}
	}

	if len(record) != 6 && len(record) != 7 {
		return types.RawOrder{}, malformed("expected 6 or 7 fields, got " + strconv.Itoa(len(record)))
	}

	fields := make([]string, len(record))
	for i, f := range record {
		fields[i] = strings.TrimSpace(f)
	}

	var date [3]int

	for i, name := range []string{"year", "month", "day"} {
		v, err := strconv.Atoi(fields[i])
		if err != nil {
			return types.RawOrder{}, malformed("invalid " + name + " " + strconv.Quote(fields[i]))
		}

		date[i] = v
	}

	direction, ok := types.ParseDirection(fields[4])
	if !ok {
		return types.RawOrder{}, malformed("invalid direction " + strconv.Quote(fields[4]))
	}

	amount, err := strconv.ParseFloat(fields[5], 64)
	if err != nil {
		return types.RawOrder{}, malformed("invalid amount " + strconv.Quote(fields[5]))
	}

	raw := types.RawOrder{
		Year:      date[0],
		Month:     date[1],
		Day:       date[2],
		Symbol:    fields[3],
		Direction: direction,
		Amount:    amount,
	}

	if err := raw.Validate(); err != nil {
		return types.RawOrder{}, malformed(err.Error())
	}

	return raw, nil
}

package ledger

import (
	"io"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
)

// Write writes the ledger in the order file format.
func Write(w io.Writer, l *Ledger) error {
	if l.IsEmpty() {
		return nil
	}

	if err := gocsv.MarshalWithoutHeaders(l.Raw(), w); err != nil {
		return errors.Wrap(errors.ErrCodeOrderWriteFail, "failed to write orders", err)
	}

	return nil
}

// WriteFile writes the ledger to path, replacing any existing file.
func WriteFile(path string, l *Ledger) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeOrderWriteFail, err, "failed to create order file %s", path)
	}

	if err := Write(file, l); err != nil {
		file.Close()

		return err
	}

	if err := file.Close(); err != nil {
		return errors.Wrapf(errors.ErrCodeOrderWriteFail, err, "failed to close order file %s", path)
	}

	return nil
}

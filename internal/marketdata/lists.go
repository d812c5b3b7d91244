package marketdata

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
)

// ListExtension is the file extension of a symbol list under the lists folder.
const ListExtension = ".txt"

// ReadSymbols reads one symbol per line, skipping blank lines and '#' comments.
// Duplicates are dropped and the first occurrence keeps its position.
func ReadSymbols(r io.Reader) ([]string, error) {
	var symbols []string

	seen := map[string]bool{}
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		symbol := strings.TrimSpace(scanner.Text())
		if symbol == "" || strings.HasPrefix(symbol, "#") || seen[symbol] {
			continue
		}

		seen[symbol] = true
		symbols = append(symbols, symbol)
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeListNotFound, "failed to read symbol list", err)
	}

	return symbols, nil
}

// LoadList reads the list called name from folder.
func LoadList(folder string, name string) ([]string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, errors.Newf(errors.ErrCodeListNotFound, "invalid list name %q", name)
	}

	path := filepath.Join(folder, name+ListExtension)

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrCodeListNotFound, "symbol list %s not found in %s", name, folder)
		}

		return nil, errors.Wrapf(errors.ErrCodeListNotFound, err, "failed to open symbol list %s", path)
	}
	defer file.Close()

	return ReadSymbols(file)
}

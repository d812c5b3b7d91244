package calendar

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/rxtech-lab/argo-marketsim/internal/types"
	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
)

// ReadSessions reads one session date per line. Blank lines and lines starting
// with '#' are ignored. Dates may be unordered and repeated.
func ReadSessions(r io.Reader) (*TradingCalendar, error) {
	var dates []types.Session

	scanner := bufio.NewScanner(r)
	line := 0

	for scanner.Scan() {
		line++

		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		session, err := types.ParseSession(text)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidSession, err, "line %d", line)
		}

		dates = append(dates, session)
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidCalendar, "failed to read sessions", err)
	}

	return FromDates(dates)
}

// LoadSessions reads a session file from disk. See ReadSessions.
func LoadSessions(path string) (*TradingCalendar, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidCalendar, err, "failed to open session file %s", path)
	}
	defer file.Close()

	return ReadSessions(file)
}

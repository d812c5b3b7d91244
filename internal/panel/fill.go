package panel

import (
	"math"

	"github.com/moznion/go-optional"
)

// DefaultFallback replaces values still missing after forward and backward fill.
const DefaultFallback = 1.0

// FillGaps returns a complete copy of raw. Missing values take the most recent
// earlier observation, then leading gaps take the first observation, then any
// remaining value is fallback. NaN and infinite values count as missing. The
// second result reports that raw held no observation at all.
func FillGaps(raw []optional.Option[float64], fallback float64) ([]float64, bool) {
	out := make([]float64, len(raw))
	known := make([]bool, len(raw))

	// forward fill
	last, seen := 0.0, false
	for i, value := range raw {
		if value.IsSome() && IsFinite(value.Unwrap()) {
			last, seen = value.Unwrap(), true
		}

		if seen {
			out[i], known[i] = last, true
		}
	}

	// backward fill of the leading gap
	next, seen := 0.0, false
	for i := len(raw) - 1; i >= 0; i-- {
		if known[i] {
			next, seen = out[i], true

			continue
		}

		if seen {
			out[i], known[i] = next, true
		}
	}

	missing := len(raw) > 0 && !seen
	if missing {
		for i := range out {
			out[i] = fallback
		}
	}

	return out, missing
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

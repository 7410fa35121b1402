// Package durationx parses the expiry grammar used by the finalize call:
// a concatenation of <integer><unit> tokens, e.g. "1h30m" or "2d12h".
package durationx

import (
	"fmt"
	"time"
	"unicode"
)

// Units accepted by Parse. "M" is a 31-day month.
const (
	day   = 24 * time.Hour
	month = 31 * day
)

var units = map[rune]time.Duration{
	's': time.Second,
	'm': time.Minute,
	'h': time.Hour,
	'd': day,
	'M': month,
}

// Parse sums all <integer><unit> tokens in spec. Unknown unit characters are
// rejected, trailing digits without a unit are rejected.
func Parse(spec string) (time.Duration, error) {
	var total time.Duration
	var curr int64
	var pending bool

	for _, c := range spec {
		if unicode.IsDigit(c) {
			curr = curr*10 + int64(c-'0')
			pending = true
			continue
		}

		unit, ok := units[c]
		if !ok {
			return 0, fmt.Errorf("unknown unit %q in %q", c, spec)
		}
		if !pending {
			return 0, fmt.Errorf("unit %q without value in %q", c, spec)
		}

		total += time.Duration(curr) * unit
		curr = 0
		pending = false
	}

	if pending {
		return 0, fmt.Errorf("trailing value without unit in %q", spec)
	}

	return total, nil
}

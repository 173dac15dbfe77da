// Package timefmt converts playback positions to and from M:SS display strings.
package timefmt

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Format renders seconds as "M:SS" using floor division.
// NaN, infinite and negative inputs render as "0:00". Values beyond the
// int64 range saturate.
func Format(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return "0:00"
	}

	total := int64(math.MaxInt64)
	if seconds < math.MaxInt64 {
		total = int64(math.Floor(seconds))
	}
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// Parse reads catalog duration strings such as "8:52", "1:02:03" or "45".
// Free-form labels like "45 min" are not durations and report false.
func Parse(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, false
	}

	var total int64
	for i, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil || n < 0 {
			return 0, false
		}
		if i > 0 && n >= 60 {
			return 0, false
		}
		total = total*60 + n
	}

	return float64(total), true
}

package playback

import (
	"strconv"

	"github.com/samber/lo"
)

// Rates is the fixed set of playback rates, in cycling order.
var Rates = []float64{1.0, 1.25, 1.5, 1.75, 2.0}

// DefaultRate is the rate of a fresh session.
const DefaultRate = 1.0

// ValidRate reports whether rate belongs to Rates.
func ValidRate(rate float64) bool {
	return lo.Contains(Rates, rate)
}

// NextRate returns the rate following rate in Rates, wrapping around.
// Unknown rates restart the cycle at the first entry.
func NextRate(rate float64) float64 {
	i := lo.IndexOf(Rates, rate)
	return Rates[(i+1)%len(Rates)]
}

// RateLabel renders a rate the way the speed button shows it, e.g. "1.25x".
func RateLabel(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64) + "x"
}

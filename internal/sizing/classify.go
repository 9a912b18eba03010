package sizing

import (
	"math"

	"github.com/shopspring/decimal"
)

// NotFound is returned when no band contains the measurements.
const NotFound = "No size found"

// Classify returns the label of the first band, in declared order, whose height and
// weight ranges both contain the input. Bounds are inclusive. Overlapping bands are
// resolved by declaration order. NaN and infinite inputs never match.
func Classify(heightCm, weightKg float64, bands Bands) string {
	if !finite(heightCm) || !finite(weightKg) {
		return NotFound
	}
	return classify(decimal.NewFromFloat(heightCm), decimal.NewFromFloat(weightKg), bands)
}

// ClassifyInput classifies raw form input. Empty or non-numeric strings match nothing.
func ClassifyInput(height, weight string, bands Bands) string {
	h, err := parseNumber(height)
	if err != nil {
		return NotFound
	}
	w, err := parseNumber(weight)
	if err != nil {
		return NotFound
	}
	return classify(h, w, bands)
}

// Found reports whether label is a real band rather than the NotFound sentinel.
func Found(label string) bool {
	return label != "" && label != NotFound
}

func classify(height, weight decimal.Decimal, bands Bands) string {
	for _, b := range bands {
		if b.contains(height, weight) {
			return b.Label
		}
	}
	return NotFound
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

package sizing

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Range is an inclusive [Min, Max] interval.
type Range struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// Contains reports whether v lies within the range, bounds included.
func (r Range) Contains(v decimal.Decimal) bool {
	return v.GreaterThanOrEqual(r.Min) && v.LessThanOrEqual(r.Max)
}

// String renders the range in the chart's "min-max" notation.
func (r Range) String() string {
	return r.Min.String() + "-" + r.Max.String()
}

// ParseRange parses "134.62-150.2" style ranges. Both ends must be non-negative numbers.
func ParseRange(raw string) (Range, error) {
	text := strings.TrimSpace(raw)
	lo, hi, ok := strings.Cut(text, "-")
	if !ok {
		return Range{}, fmt.Errorf("range %q: expected min-max", raw)
	}
	minV, err := parseNumber(lo)
	if err != nil {
		return Range{}, fmt.Errorf("range %q: min: %w", raw, err)
	}
	maxV, err := parseNumber(hi)
	if err != nil {
		return Range{}, fmt.Errorf("range %q: max: %w", raw, err)
	}
	if minV.GreaterThan(maxV) {
		return Range{}, fmt.Errorf("range %q: min greater than max", raw)
	}
	return Range{Min: minV, Max: maxV}, nil
}

// MustRange is ParseRange for literals known to be valid.
func MustRange(raw string) Range {
	r, err := ParseRange(raw)
	if err != nil {
		panic(err)
	}
	return r
}

// Band is one named row of a size chart.
type Band struct {
	Label  string
	Height Range // centimeters
	Weight Range // kilograms

	// Display-only measurements from the generic chart.
	ChestBust string
	Waist     string
	Hips      string
}

func (b Band) contains(height, weight decimal.Decimal) bool {
	return b.Height.Contains(height) && b.Weight.Contains(weight)
}

// Bands is an ordered band table. Order is significant: see Classify.
type Bands []Band

// BandSpec is the textual form of a band as it appears in config files.
type BandSpec struct {
	Label     string `mapstructure:"label" json:"size"`
	Height    string `mapstructure:"height_cm" json:"height_range_cm"`
	Weight    string `mapstructure:"weight_kg" json:"weight_range_kg"`
	ChestBust string `mapstructure:"chest_bust" json:"chest_bust,omitempty"`
	Waist     string `mapstructure:"waist" json:"waist,omitempty"`
	Hips      string `mapstructure:"hips" json:"hips,omitempty"`
}

// NewBands builds a band table from specs, keeping their order.
func NewBands(specs []BandSpec) (Bands, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("size chart requires at least one band")
	}
	seen := make(map[string]bool, len(specs))
	out := make(Bands, 0, len(specs))
	for i, spec := range specs {
		label := strings.TrimSpace(spec.Label)
		if label == "" {
			return nil, fmt.Errorf("band #%d missing label", i+1)
		}
		if seen[label] {
			return nil, fmt.Errorf("duplicate band label %s", label)
		}
		seen[label] = true
		height, err := ParseRange(spec.Height)
		if err != nil {
			return nil, fmt.Errorf("band %s height: %w", label, err)
		}
		weight, err := ParseRange(spec.Weight)
		if err != nil {
			return nil, fmt.Errorf("band %s weight: %w", label, err)
		}
		out = append(out, Band{
			Label:     label,
			Height:    height,
			Weight:    weight,
			ChestBust: strings.TrimSpace(spec.ChestBust),
			Waist:     strings.TrimSpace(spec.Waist),
			Hips:      strings.TrimSpace(spec.Hips),
		})
	}
	return out, nil
}

// Specs converts the table back to its textual form, e.g. for the chart endpoint.
func (bs Bands) Specs() []BandSpec {
	out := make([]BandSpec, 0, len(bs))
	for _, b := range bs {
		out = append(out, BandSpec{
			Label:     b.Label,
			Height:    b.Height.String(),
			Weight:    b.Weight.String(),
			ChestBust: b.ChestBust,
			Waist:     b.Waist,
			Hips:      b.Hips,
		})
	}
	return out
}

// Labels lists band labels in declared order.
func (bs Bands) Labels() []string {
	out := make([]string, 0, len(bs))
	for _, b := range bs {
		out = append(out, b.Label)
	}
	return out
}

const maxExponent = 30

func parseNumber(raw string) (decimal.Decimal, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return decimal.Decimal{}, fmt.Errorf("empty number")
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Decimal{}, fmt.Errorf("invalid number %q", raw)
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid number %q", raw)
	}
	// Comparisons rescale both operands to a common exponent.
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return decimal.Decimal{}, fmt.Errorf("number %q out of range", raw)
	}
	return d, nil
}

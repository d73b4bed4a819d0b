package assess

import "math"

// Composite combines dimension scores into the 0-100 composite score:
// round-half-to-even of 100 times the weight-weighted sum of raw scores,
// clamped to [0,100]. Because dimension weights sum to 1.0 for any loaded
// rule set, the result is a true weighted percentage. Banker's rounding
// keeps the function stable at exact threshold boundaries.
func Composite(dimensions []DimensionScore) int {
	total := 0.0
	for _, dim := range dimensions {
		total += dim.Weight * clampUnit(dim.RawScore)
	}

	composite := int(math.RoundToEven(100 * total))
	switch {
	case composite < 0:
		return 0
	case composite > 100:
		return 100
	default:
		return composite
	}
}

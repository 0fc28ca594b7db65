package keycalc

import (
	"math"
	"strconv"
)

const (
	// intTolerance is how close a result must be to an integer to be shown
	// as one.
	intTolerance = 1e-12
	// sigDigits is the maximum number of significant digits shown for
	// results that are not integers.
	sigDigits = 12
)

// Format renders a result for display. Values within 1e-12 of an integer are
// written as that integer with no decimal point. Other values are written
// with up to 12 significant digits, using exponent notation only for very
// large or small magnitudes. The output never depends on locale.
func Format(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	r := math.Round(v)
	if math.Abs(v-r) < intTolerance {
		if r == 0 {
			// Avoid -0.
			return "0"
		}
		return strconv.FormatFloat(r, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'g', sigDigits, 64)
}

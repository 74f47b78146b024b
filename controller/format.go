package controller

import (
	"math"
	"strconv"
)

const (
	// integral values below this magnitude print without a fraction or exponent
	maxPlainInteger = 1e15
	minPlainDecimal = 1e-6
)

// Formatter renders evaluation results for the display.
type Formatter struct {
	// Precision is the number of significant digits kept for non-integral values.
	Precision int
}

// Format renders v. Integral values below 1e15 print as integers, other
// values are rounded to Precision significant digits and printed in the
// shortest form, switching to exponent notation outside [1e-6, 1e15).
func (f Formatter) Format(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	case v == 0:
		return "0"
	}

	if v == math.Trunc(v) && math.Abs(v) < maxPlainInteger {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', f.Precision, 64), 64)
	if err != nil {
		rounded = v
	}
	if a := math.Abs(rounded); a >= minPlainDecimal && a < maxPlainInteger {
		return strconv.FormatFloat(rounded, 'f', -1, 64)
	}
	return strconv.FormatFloat(rounded, 'e', -1, 64)
}

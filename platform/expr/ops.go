package expr

import (
	"fmt"
	"math"

	"github.com/robbyt/go-calc/platform"
)

// Apply computes a binary operation. Failures wrap one of the platform sentinels;
// the caller attaches position information.
func Apply(op Op, x, y float64) (float64, error) {
	var v float64
	switch op {
	case OpAdd:
		v = x + y
	case OpSub:
		v = x - y
	case OpMul:
		v = x * y
	case OpDiv:
		if y == 0 {
			return 0, fmt.Errorf("%w: %g / 0", platform.ErrDivisionByZero, x)
		}
		v = x / y
	case OpMod:
		if y == 0 {
			return 0, fmt.Errorf("%w: %g %% 0", platform.ErrDivisionByZero, x)
		}
		v = floorMod(x, y)
	case OpPow:
		var err error
		if v, err = pow(x, y); err != nil {
			return 0, err
		}
	default:
		return 0, fmt.Errorf("%w: unknown operator %q", platform.ErrSyntax, op)
	}
	return Finite(v)
}

// Negate applies a prefix sign.
func Negate(op Op, x float64) (float64, error) {
	switch op {
	case OpNeg:
		return -x, nil
	case OpPos:
		return x, nil
	default:
		return 0, fmt.Errorf("%w: unknown prefix operator %q", platform.ErrSyntax, op)
	}
}

// Finite reports infinities as overflow and NaN as a domain error.
func Finite(v float64) (float64, error) {
	switch {
	case math.IsInf(v, 0):
		return 0, fmt.Errorf("%w: result is too large", platform.ErrOverflow)
	case math.IsNaN(v):
		return 0, fmt.Errorf("%w: result is not a number", platform.ErrDomain)
	default:
		return v, nil
	}
}

// floorMod returns x mod y with the sign of y.
func floorMod(x, y float64) float64 {
	r := math.Mod(x, y)
	if r != 0 && (r < 0) != (y < 0) {
		r += y
	}
	return r
}

func pow(x, y float64) (float64, error) {
	if x == 0 && y < 0 {
		return 0, fmt.Errorf("%w: 0 raised to a negative power", platform.ErrDivisionByZero)
	}
	if x < 0 && y != math.Trunc(y) {
		return 0, fmt.Errorf("%w: negative base with fractional exponent", platform.ErrDomain)
	}
	return math.Pow(x, y), nil
}

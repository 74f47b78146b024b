package symbols

import (
	"fmt"
	"math"

	"github.com/robbyt/go-calc/platform"
)

// Func is a unary numeric transform. Out-of-domain arguments return an error
// wrapping platform.ErrDomain.
type Func func(x float64) (float64, error)

func domainErr(name string, x float64) error {
	return fmt.Errorf("%w: %s(%g) is undefined", platform.ErrDomain, name, x)
}

func sqrt(x float64) (float64, error) {
	if x < 0 {
		return 0, domainErr("sqrt", x)
	}
	return math.Sqrt(x), nil
}

func cbrt(x float64) (float64, error) {
	return math.Cbrt(x), nil
}

func log10(x float64) (float64, error) {
	if x <= 0 {
		return 0, domainErr("log", x)
	}
	return math.Log10(x), nil
}

func ln(x float64) (float64, error) {
	if x <= 0 {
		return 0, domainErr("ln", x)
	}
	return math.Log(x), nil
}

func exp(x float64) (float64, error) {
	return math.Exp(x), nil
}

func abs(x float64) (float64, error) {
	return math.Abs(x), nil
}

// trig builds the angle-aware trigonometric functions for one unit.
type trig struct {
	unit AngleUnit
}

func (t trig) toRadians(x float64) float64 {
	if t.unit == Degrees {
		return x * math.Pi / 180
	}
	return x
}

func (t trig) fromRadians(x float64) float64 {
	if t.unit == Degrees {
		return x * 180 / math.Pi
	}
	return x
}

// sin is exact at whole multiples of 180 degrees.
func (t trig) sin(x float64) (float64, error) {
	if t.unit == Degrees && math.Mod(x, 180) == 0 {
		return 0, nil
	}
	return math.Sin(t.toRadians(x)), nil
}

// cos is exact at odd multiples of 90 degrees.
func (t trig) cos(x float64) (float64, error) {
	if t.unit == Degrees && math.Mod(x-90, 180) == 0 {
		return 0, nil
	}
	return math.Cos(t.toRadians(x)), nil
}

func (t trig) tan(x float64) (float64, error) {
	if t.unit == Degrees {
		if math.Mod(x-90, 180) == 0 {
			return 0, domainErr("tan", x)
		}
		if math.Mod(x, 180) == 0 {
			return 0, nil
		}
	}
	return math.Tan(t.toRadians(x)), nil
}

func (t trig) asin(x float64) (float64, error) {
	if x < -1 || x > 1 {
		return 0, domainErr("asin", x)
	}
	return t.fromRadians(math.Asin(x)), nil
}

func (t trig) acos(x float64) (float64, error) {
	if x < -1 || x > 1 {
		return 0, domainErr("acos", x)
	}
	return t.fromRadians(math.Acos(x)), nil
}

func (t trig) atan(x float64) (float64, error) {
	return t.fromRadians(math.Atan(x)), nil
}

package symbols

import (
	"errors"
	"math"
	"testing"

	"github.com/robbyt/go-calc/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_Constants(t *testing.T) {
	t.Parallel()
	table := Default()

	tests := []struct {
		name  string
		value float64
	}{
		{"pi", math.Pi},
		{"π", math.Pi},
		{"e", math.E},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := table.Constant(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.value, v)
			assert.True(t, table.Has(tt.name))
		})
	}

	_, ok := table.Constant("tau")
	assert.False(t, ok)
	assert.False(t, table.Has("tau"))
}

func TestTable_Functions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		unit     AngleUnit
		fn       string
		arg      float64
		expected float64
	}{
		{name: "sqrt", fn: "sqrt", arg: 9, expected: 3},
		{name: "sqrt symbol", fn: "√", arg: 16, expected: 4},
		{name: "cbrt", fn: "cbrt", arg: 27, expected: 3},
		{name: "cbrt of negative", fn: "∛", arg: -8, expected: -2},
		{name: "log is base 10", fn: "log", arg: 1000, expected: 3},
		{name: "ln", fn: "ln", arg: math.E, expected: 1},
		{name: "exp", fn: "exp", arg: 0, expected: 1},
		{name: "abs", fn: "abs", arg: -2.5, expected: 2.5},
		{name: "sin zero", fn: "sin", arg: 0, expected: 0},
		{name: "sin 30 degrees", unit: Degrees, fn: "sin", arg: 30, expected: 0.5},
		{name: "sin 180 degrees is exact", unit: Degrees, fn: "sin", arg: 180, expected: 0},
		{name: "sin pi/2 radians", unit: Radians, fn: "sin", arg: math.Pi / 2, expected: 1},
		{name: "cos 90 degrees is exact", unit: Degrees, fn: "cos", arg: 90, expected: 0},
		{name: "cos 60 degrees", unit: Degrees, fn: "cos", arg: 60, expected: 0.5},
		{name: "tan 45 degrees", unit: Degrees, fn: "tan", arg: 45, expected: 1},
		{name: "tan 180 degrees is exact", unit: Degrees, fn: "tan", arg: 180, expected: 0},
		{name: "asin 1 in degrees", unit: Degrees, fn: "asin", arg: 1, expected: 90},
		{name: "asin 1 in radians", unit: Radians, fn: "asin", arg: 1, expected: math.Pi / 2},
		{name: "acos 1", unit: Degrees, fn: "acos", arg: 1, expected: 0},
		{name: "atan 1 in degrees", unit: Degrees, fn: "atan", arg: 1, expected: 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, ok := NewTable(tt.unit).Function(tt.fn)
			require.True(t, ok)
			got, err := fn(tt.arg)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-12)
		})
	}
}

func TestTable_FunctionDomainErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   string
		arg  float64
	}{
		{"sqrt of negative", "sqrt", -4},
		{"log of negative", "log", -1},
		{"log of zero", "log", 0},
		{"ln of zero", "ln", 0},
		{"asin above one", "asin", 2},
		{"acos below minus one", "acos", -1.5},
		{"tan 90 degrees", "tan", 90},
		{"tan 270 degrees", "tan", 270},
	}

	table := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, ok := table.Function(tt.fn)
			require.True(t, ok)
			_, err := fn(tt.arg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, platform.ErrDomain))
			assert.Equal(t, platform.KindDomain, platform.KindOf(err))
		})
	}
}

func TestTable_Immutability(t *testing.T) {
	t.Parallel()

	base := Default()

	t.Run("WithConstant copies", func(t *testing.T) {
		extended, err := base.WithConstant("tau", 2*math.Pi)
		require.NoError(t, err)

		_, ok := extended.Constant("tau")
		assert.True(t, ok)
		_, ok = base.Constant("tau")
		assert.False(t, ok, "original table must not change")
	})

	t.Run("WithFunction copies", func(t *testing.T) {
		double := func(x float64) (float64, error) { return 2 * x, nil }
		extended, err := base.WithFunction("double", double)
		require.NoError(t, err)

		_, ok := extended.Function("double")
		assert.True(t, ok)
		_, ok = base.Function("double")
		assert.False(t, ok, "original table must not change")
		assert.Equal(t, base.AngleUnit(), extended.AngleUnit())
	})

	t.Run("invalid additions", func(t *testing.T) {
		_, err := base.WithConstant("", 1)
		assert.True(t, errors.Is(err, ErrInvalidSymbol))
		_, err = base.WithConstant("inf", math.Inf(1))
		assert.True(t, errors.Is(err, ErrInvalidSymbol))
		_, err = base.WithConstant("sqrt", 1)
		assert.True(t, errors.Is(err, ErrInvalidSymbol))
		_, err = base.WithFunction("pi", abs)
		assert.True(t, errors.Is(err, ErrInvalidSymbol))
		_, err = base.WithFunction("nothing", nil)
		assert.True(t, errors.Is(err, ErrInvalidSymbol))
	})

	t.Run("names are sorted", func(t *testing.T) {
		assert.Equal(t, []string{"e", "pi", "π"}, base.ConstantNames())
		assert.Contains(t, base.FunctionNames(), "sqrt")
		assert.IsNonDecreasing(t, base.FunctionNames())
	})
}

func TestParseAngleUnit(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"deg", "Degrees", " degree "} {
		u, err := ParseAngleUnit(s)
		require.NoError(t, err)
		assert.Equal(t, Degrees, u)
	}
	for _, s := range []string{"rad", "RADIANS"} {
		u, err := ParseAngleUnit(s)
		require.NoError(t, err)
		assert.Equal(t, Radians, u)
	}
	_, err := ParseAngleUnit("grad")
	require.Error(t, err)

	assert.Equal(t, "deg", Degrees.String())
	assert.Equal(t, "rad", Radians.String())
}

package symbols

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
)

// ErrInvalidSymbol is returned when extending a table with a bad name or value.
var ErrInvalidSymbol = errors.New("invalid symbol")

// Table holds the named constants and unary functions an expression may reference.
// A Table never changes after construction; the With* methods return a copy.
type Table struct {
	constants map[string]float64
	functions map[string]Func
	unit      AngleUnit
}

// NewTable returns the calculator's constant and function tables, with
// trigonometric functions working in the given angle unit.
func NewTable(unit AngleUnit) *Table {
	t := trig{unit: unit}
	return &Table{
		constants: map[string]float64{
			"pi": math.Pi,
			"π":  math.Pi,
			"e":  math.E,
		},
		functions: map[string]Func{
			"sqrt": sqrt,
			"√":    sqrt,
			"cbrt": cbrt,
			"∛":    cbrt,
			"log":  log10,
			"ln":   ln,
			"exp":  exp,
			"abs":  abs,
			"sin":  t.sin,
			"cos":  t.cos,
			"tan":  t.tan,
			"asin": t.asin,
			"acos": t.acos,
			"atan": t.atan,
		},
		unit: unit,
	}
}

// Default returns NewTable(Degrees).
func Default() *Table {
	return NewTable(Degrees)
}

func (t *Table) String() string {
	return fmt.Sprintf("symbols.Table{Constants: %d, Functions: %d, Angle: %s}",
		len(t.constants), len(t.functions), t.unit)
}

// AngleUnit returns the unit the trigonometric functions use.
func (t *Table) AngleUnit() AngleUnit {
	return t.unit
}

// Constant looks up a named constant.
func (t *Table) Constant(name string) (float64, bool) {
	v, ok := t.constants[name]
	return v, ok
}

// Function looks up a named unary function.
func (t *Table) Function(name string) (Func, bool) {
	fn, ok := t.functions[name]
	return fn, ok
}

// Has reports whether name is a constant or a function.
func (t *Table) Has(name string) bool {
	_, isConst := t.constants[name]
	_, isFunc := t.functions[name]
	return isConst || isFunc
}

// ConstantNames returns the sorted constant names.
func (t *Table) ConstantNames() []string {
	return slices.Sorted(maps.Keys(t.constants))
}

// FunctionNames returns the sorted function names.
func (t *Table) FunctionNames() []string {
	return slices.Sorted(maps.Keys(t.functions))
}

// WithConstant returns a copy of the table with an extra constant.
func (t *Table) WithConstant(name string, value float64) (*Table, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidSymbol)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, fmt.Errorf("%w: constant %q must be finite", ErrInvalidSymbol, name)
	}
	if _, ok := t.functions[name]; ok {
		return nil, fmt.Errorf("%w: %q is already a function", ErrInvalidSymbol, name)
	}
	c := t.clone()
	c.constants[name] = value
	return c, nil
}

// WithFunction returns a copy of the table with an extra function.
func (t *Table) WithFunction(name string, fn Func) (*Table, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidSymbol)
	}
	if fn == nil {
		return nil, fmt.Errorf("%w: function %q is nil", ErrInvalidSymbol, name)
	}
	if _, ok := t.constants[name]; ok {
		return nil, fmt.Errorf("%w: %q is already a constant", ErrInvalidSymbol, name)
	}
	c := t.clone()
	c.functions[name] = fn
	return c, nil
}

func (t *Table) clone() *Table {
	return &Table{
		constants: maps.Clone(t.constants),
		functions: maps.Clone(t.functions),
		unit:      t.unit,
	}
}

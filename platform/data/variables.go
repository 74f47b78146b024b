package data

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
)

var (
	// ErrInvalidVariable is returned when a variable is not a finite number.
	ErrInvalidVariable = errors.New("invalid variable")
	// ErrReservedName is returned when a variable uses a constant or function name.
	ErrReservedName = errors.New("reserved variable name")
)

// Reserved reports the names variables may not use. *symbols.Table implements it.
type Reserved interface {
	Has(name string) bool
}

// LoadVariables reads the provider and converts every value to float64.
// A nil provider yields no variables. Names reserved reports are rejected.
func LoadVariables(ctx context.Context, provider Getter, reserved Reserved) (map[string]float64, error) {
	if provider == nil {
		return map[string]float64{}, nil
	}

	raw, err := provider.GetData(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get input data: %w", err)
	}
	vars, err := ToFloat64Map(raw)
	if err != nil {
		return nil, err
	}
	if err := CheckNames(vars, reserved); err != nil {
		return nil, err
	}
	return vars, nil
}

// CheckNames fails with ErrReservedName for every key of vars that reserved
// claims. A nil reserved allows every name.
func CheckNames[V any](vars map[string]V, reserved Reserved) error {
	if reserved == nil {
		return nil
	}
	var errz []error
	for _, name := range slices.Sorted(maps.Keys(vars)) {
		if reserved.Has(name) {
			errz = append(errz, fmt.Errorf("%w: %q is a constant or function", ErrReservedName, name))
		}
	}
	return errors.Join(errz...)
}

// ToFloat64Map converts numeric values to float64. Non-numeric or non-finite values are errors.
func ToFloat64Map(raw map[string]any) (map[string]float64, error) {
	out := make(map[string]float64, len(raw))
	var errz []error
	for name, v := range raw {
		f, ok := toFloat64(v)
		if !ok {
			errz = append(errz, fmt.Errorf("%w: %q has type %T", ErrInvalidVariable, name, v))
			continue
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			errz = append(errz, fmt.Errorf("%w: %q is not finite", ErrInvalidVariable, name))
			continue
		}
		out[name] = f
	}
	if len(errz) > 0 {
		return nil, errors.Join(errz...)
	}
	return out, nil
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

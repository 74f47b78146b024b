package compile

import (
	"fmt"

	"github.com/robbyt/go-calc/platform"
	"github.com/robbyt/go-calc/platform/expr"
	"github.com/robbyt/go-calc/platform/symbols"
	starlarkLib "go.starlark.net/starlark"
)

// Builtins returns the predeclared functions generated programs call. Errors
// they return are *platform.EvaluationError values for src, so callers can
// recover them from the Starlark error chain.
func Builtins(src string, table *symbols.Table) starlarkLib.StringDict {
	binary := func(name string, op expr.Op) *starlarkLib.Builtin {
		return starlarkLib.NewBuiltin(name, func(
			_ *starlarkLib.Thread,
			b *starlarkLib.Builtin,
			args starlarkLib.Tuple,
			kwargs []starlarkLib.Tuple,
		) (starlarkLib.Value, error) {
			var x, y starlarkLib.Value
			var pos int
			if err := starlarkLib.UnpackPositionalArgs(b.Name(), args, kwargs, 3, &x, &y, &pos); err != nil {
				return nil, err
			}
			xf, err := asFloat(src, x, pos)
			if err != nil {
				return nil, err
			}
			yf, err := asFloat(src, y, pos)
			if err != nil {
				return nil, err
			}
			v, err := expr.Apply(op, xf, yf)
			if err != nil {
				return nil, platform.NewEvaluationError(platform.KindOf(err), src, pos, err)
			}
			return starlarkLib.Float(v), nil
		})
	}

	call := starlarkLib.NewBuiltin(callBuiltin, func(
		_ *starlarkLib.Thread,
		b *starlarkLib.Builtin,
		args starlarkLib.Tuple,
		kwargs []starlarkLib.Tuple,
	) (starlarkLib.Value, error) {
		var name string
		var x starlarkLib.Value
		var pos int
		if err := starlarkLib.UnpackPositionalArgs(b.Name(), args, kwargs, 3, &name, &x, &pos); err != nil {
			return nil, err
		}
		fn, ok := table.Function(name)
		if !ok {
			return nil, platform.NewEvaluationError(
				platform.KindUnknownSymbol, src, pos, fmt.Errorf("%w: function %q", platform.ErrUnknownSymbol, name))
		}
		xf, err := asFloat(src, x, pos)
		if err != nil {
			return nil, err
		}
		v, err := fn(xf)
		if err == nil {
			v, err = expr.Finite(v)
		}
		if err != nil {
			return nil, platform.NewEvaluationError(platform.KindOf(err), src, pos, err)
		}
		return starlarkLib.Float(v), nil
	})

	return starlarkLib.StringDict{
		divBuiltin:  binary(divBuiltin, expr.OpDiv),
		modBuiltin:  binary(modBuiltin, expr.OpMod),
		powBuiltin:  binary(powBuiltin, expr.OpPow),
		callBuiltin: call,
	}
}

// asFloat converts an operand, rejecting values that already overflowed in a
// native Starlark operator.
func asFloat(src string, v starlarkLib.Value, pos int) (float64, error) {
	f, ok := starlarkLib.AsFloat(v)
	if !ok {
		return 0, platform.NewEvaluationError(
			platform.KindSyntax, src, pos, fmt.Errorf("%w: operand %s is not a number", platform.ErrSyntax, v.Type()))
	}
	f, err := expr.Finite(f)
	if err != nil {
		return 0, platform.NewEvaluationError(platform.KindOf(err), src, pos, err)
	}
	return f, nil
}

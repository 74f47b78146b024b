package evaluator

import (
	"fmt"

	"github.com/robbyt/go-calc/platform"
	"github.com/robbyt/go-calc/platform/expr"
	"github.com/robbyt/go-calc/platform/symbols"
)

// scope resolves names for one evaluation. Constant and function names are
// never looked up in vars.
type scope struct {
	src   string
	table *symbols.Table
	vars  map[string]float64
}

func (s *scope) fail(n expr.Node, err error) error {
	return platform.NewEvaluationError(platform.KindOf(err), s.src, n.Pos(), err)
}

func (s *scope) eval(n expr.Node) (float64, error) {
	switch n := n.(type) {
	case *expr.Number:
		return n.Value, nil

	case *expr.Ident:
		if v, ok := s.table.Constant(n.Name); ok {
			return v, nil
		}
		if _, ok := s.table.Function(n.Name); ok {
			return 0, s.fail(n, fmt.Errorf("%w: function %q needs an argument", platform.ErrSyntax, n.Name))
		}
		if v, ok := s.vars[n.Name]; ok {
			return v, nil
		}
		return 0, s.fail(n, fmt.Errorf("%w: %q", platform.ErrUnknownSymbol, n.Name))

	case *expr.Call:
		fn, ok := s.table.Function(n.Func)
		if !ok {
			return 0, s.fail(n, fmt.Errorf("%w: function %q", platform.ErrUnknownSymbol, n.Func))
		}
		arg, err := s.eval(n.Arg)
		if err != nil {
			return 0, err
		}
		v, err := fn(arg)
		if err != nil {
			return 0, s.fail(n, err)
		}
		if v, err = expr.Finite(v); err != nil {
			return 0, s.fail(n, err)
		}
		return v, nil

	case *expr.Unary:
		x, err := s.eval(n.X)
		if err != nil {
			return 0, err
		}
		v, err := expr.Negate(n.Op, x)
		if err != nil {
			return 0, s.fail(n, err)
		}
		return v, nil

	case *expr.Binary:
		x, err := s.eval(n.X)
		if err != nil {
			return 0, err
		}
		y, err := s.eval(n.Y)
		if err != nil {
			return 0, err
		}
		v, err := expr.Apply(n.Op, x, y)
		if err != nil {
			return 0, s.fail(n, err)
		}
		return v, nil

	default:
		return 0, platform.NewEvaluationError(
			platform.KindSyntax, s.src, -1, fmt.Errorf("unsupported node %T", n))
	}
}

package compiler

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	govaluateLib "github.com/Knetic/govaluate"
	"github.com/robbyt/go-calc/platform"
	"github.com/robbyt/go-calc/platform/expr"
	"github.com/robbyt/go-calc/platform/symbols"
)

// Names of the functions registered with every expression. Table functions
// are registered per expression as funcPrefix+N.
const (
	divFunc    = "calcdiv"
	modFunc    = "calcmod"
	powFunc    = "calcpow"
	funcPrefix = "calcfn"
	symPrefix  = "calcsym"
)

// translator renders a parsed expression in govaluate syntax. Identifiers are
// bound to parameters and table functions to registered functions, so no
// calculator name reaches the govaluate lexer.
type translator struct {
	src   string
	table *symbols.Table
	vars  map[string]float64

	buf       strings.Builder
	params    map[string]any
	functions map[string]govaluateLib.ExpressionFunction
	symbols   map[string]string
	calls     map[string]string
}

func newTranslator(src string, table *symbols.Table, vars map[string]float64) *translator {
	t := &translator{
		src:       src,
		table:     table,
		vars:      vars,
		params:    make(map[string]any),
		functions: make(map[string]govaluateLib.ExpressionFunction),
		symbols:   make(map[string]string),
		calls:     make(map[string]string),
	}
	t.functions[divFunc] = t.binary(expr.OpDiv)
	t.functions[modFunc] = t.binary(expr.OpMod)
	t.functions[powFunc] = t.binary(expr.OpPow)
	return t
}

func (t *translator) fail(n expr.Node, err error) error {
	return platform.NewEvaluationError(platform.KindOf(err), t.src, n.Pos(), err)
}

func (t *translator) write(n expr.Node) error {
	switch n := n.(type) {
	case *expr.Number:
		t.buf.WriteString(numberLiteral(n.Value))
		return nil

	case *expr.Ident:
		name, err := t.bind(n)
		if err != nil {
			return err
		}
		t.buf.WriteString(name)
		return nil

	case *expr.Call:
		name, err := t.register(n)
		if err != nil {
			return err
		}
		t.buf.WriteString(name + "(")
		if err := t.write(n.Arg); err != nil {
			return err
		}
		fmt.Fprintf(&t.buf, ", %d)", n.At)
		return nil

	case *expr.Unary:
		t.buf.WriteByte('(')
		if n.Op == expr.OpNeg {
			t.buf.WriteByte('-')
		}
		if err := t.write(n.X); err != nil {
			return err
		}
		t.buf.WriteByte(')')
		return nil

	case *expr.Binary:
		var fn string
		switch n.Op {
		case expr.OpAdd, expr.OpSub, expr.OpMul:
			t.buf.WriteByte('(')
			if err := t.write(n.X); err != nil {
				return err
			}
			t.buf.WriteString(" " + n.Op.String() + " ")
			if err := t.write(n.Y); err != nil {
				return err
			}
			t.buf.WriteByte(')')
			return nil
		case expr.OpDiv:
			fn = divFunc
		case expr.OpMod:
			fn = modFunc
		case expr.OpPow:
			fn = powFunc
		default:
			return t.fail(n, fmt.Errorf("%w: unknown operator %q", platform.ErrSyntax, n.Op))
		}
		t.buf.WriteString(fn + "(")
		if err := t.write(n.X); err != nil {
			return err
		}
		t.buf.WriteString(", ")
		if err := t.write(n.Y); err != nil {
			return err
		}
		fmt.Fprintf(&t.buf, ", %d)", n.At)
		return nil

	default:
		return platform.NewEvaluationError(
			platform.KindSyntax, t.src, -1, fmt.Errorf("unsupported node %T", n))
	}
}

// bind resolves an identifier to a parameter name. Constant and function
// names are never looked up in vars.
func (t *translator) bind(n *expr.Ident) (string, error) {
	if name, ok := t.symbols[n.Name]; ok {
		return name, nil
	}

	v, ok := t.table.Constant(n.Name)
	if !ok {
		if _, isFunc := t.table.Function(n.Name); isFunc {
			return "", t.fail(n, fmt.Errorf("%w: function %q needs an argument", platform.ErrSyntax, n.Name))
		}
		v, ok = t.vars[n.Name]
	}
	if !ok {
		return "", t.fail(n, fmt.Errorf("%w: %q", platform.ErrUnknownSymbol, n.Name))
	}

	name := symPrefix + strconv.Itoa(len(t.symbols))
	t.symbols[n.Name] = name
	t.params[name] = v
	return name, nil
}

// register binds a table function to a govaluate function name.
func (t *translator) register(n *expr.Call) (string, error) {
	if name, ok := t.calls[n.Func]; ok {
		return name, nil
	}

	fn, ok := t.table.Function(n.Func)
	if !ok {
		return "", t.fail(n, fmt.Errorf("%w: function %q", platform.ErrUnknownSymbol, n.Func))
	}

	name := funcPrefix + strconv.Itoa(len(t.calls))
	t.calls[n.Func] = name
	t.functions[name] = func(args ...any) (any, error) {
		x, pos, err := t.unpack(args, 1)
		if err != nil {
			return nil, err
		}
		v, err := fn(x[0])
		if err == nil {
			v, err = expr.Finite(v)
		}
		if err != nil {
			return nil, platform.NewEvaluationError(platform.KindOf(err), t.src, pos, err)
		}
		return v, nil
	}
	return name, nil
}

func (t *translator) binary(op expr.Op) govaluateLib.ExpressionFunction {
	return func(args ...any) (any, error) {
		xy, pos, err := t.unpack(args, 2)
		if err != nil {
			return nil, err
		}
		v, err := expr.Apply(op, xy[0], xy[1])
		if err != nil {
			return nil, platform.NewEvaluationError(platform.KindOf(err), t.src, pos, err)
		}
		return v, nil
	}
}

// unpack reads n finite operands followed by the source position.
func (t *translator) unpack(args []any, n int) ([]float64, int, error) {
	if len(args) != n+1 {
		return nil, -1, platform.NewEvaluationError(
			platform.KindSyntax, t.src, -1, fmt.Errorf("%w: expected %d arguments, got %d", platform.ErrSyntax, n+1, len(args)))
	}
	posValue, _ := args[n].(float64)
	pos := int(posValue)

	out := make([]float64, n)
	for i := range n {
		f, ok := args[i].(float64)
		if !ok {
			return nil, pos, platform.NewEvaluationError(
				platform.KindSyntax, t.src, pos, fmt.Errorf("%w: operand %v is not a number", platform.ErrSyntax, args[i]))
		}
		f, err := expr.Finite(f)
		if err != nil {
			return nil, pos, platform.NewEvaluationError(platform.KindOf(err), t.src, pos, err)
		}
		out[i] = f
	}
	return out, pos, nil
}

// numberLiteral formats a non-negative literal without an exponent, which the
// govaluate lexer does not accept.
func numberLiteral(v float64) string {
	s := strconv.FormatFloat(math.Abs(v), 'f', -1, 64)
	if math.Signbit(v) {
		return "(-" + s + ")"
	}
	return s
}

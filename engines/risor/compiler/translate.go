package compiler

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/deepnoodle-ai/risor/v2/pkg/object"
	"github.com/robbyt/go-calc/platform"
	"github.com/robbyt/go-calc/platform/expr"
	"github.com/robbyt/go-calc/platform/symbols"
)

// Names the generated program uses. Table functions are bound as funcPrefix+N,
// constants and variables as symPrefix+N, intermediate values as regPrefix+N.
const (
	divFunc    = "calcdiv"
	modFunc    = "calcmod"
	powFunc    = "calcpow"
	funcPrefix = "calcfn"
	symPrefix  = "calcsym"
	regPrefix  = "calcreg"
)

// translator renders a parsed expression as a straight-line Risor program.
// Every operator result is assigned to a register, and an operand computed
// into register r leaves r untouched while its sibling uses r+1, so a left
// leaning chain of any length reuses one register and the Risor parser never
// sees nesting deeper than a single call.
type translator struct {
	src   string
	table *symbols.Table
	vars  map[string]float64

	body    strings.Builder
	regs    int
	env     map[string]any
	symbols map[string]string
	calls   map[string]string
}

func newTranslator(src string, table *symbols.Table, vars map[string]float64) *translator {
	t := &translator{
		src:     src,
		table:   table,
		vars:    vars,
		env:     make(map[string]any),
		symbols: make(map[string]string),
		calls:   make(map[string]string),
	}
	t.env[divFunc] = t.binary(divFunc, expr.OpDiv)
	t.env[modFunc] = t.binary(modFunc, expr.OpMod)
	t.env[powFunc] = t.binary(powFunc, expr.OpPow)
	return t
}

// program returns the generated source: register declarations, the body and
// the final value.
func (t *translator) program(result string) string {
	var sb strings.Builder
	for i := range t.regs {
		fmt.Fprintf(&sb, "let %s = 0.0\n", register(i))
	}
	sb.WriteString(t.body.String())
	sb.WriteString(result)
	sb.WriteByte('\n')
	return sb.String()
}

func (t *translator) fail(n expr.Node, err error) error {
	return platform.NewEvaluationError(platform.KindOf(err), t.src, n.Pos(), err)
}

func register(i int) string {
	return regPrefix + strconv.Itoa(i)
}

// operand returns the Risor text for n. Leaves are written inline; anything
// else is computed into register r first.
func (t *translator) operand(n expr.Node, r int) (string, error) {
	switch n := n.(type) {
	case *expr.Number:
		return numberLiteral(n.Value), nil
	case *expr.Ident:
		return t.bind(n)
	default:
		if err := t.assign(n, r); err != nil {
			return "", err
		}
		return register(r), nil
	}
}

// assign writes the statements that leave the value of n in register r.
func (t *translator) assign(n expr.Node, r int) error {
	t.regs = max(t.regs, r+1)
	reg := register(r)

	switch n := n.(type) {
	case *expr.Call:
		name, err := t.builtin(n)
		if err != nil {
			return err
		}
		x, err := t.operand(n.Arg, r)
		if err != nil {
			return err
		}
		fmt.Fprintf(&t.body, "%s = %s(%s, %d)\n", reg, name, x, n.At)
		return nil

	case *expr.Unary:
		x, err := t.operand(n.X, r)
		if err != nil {
			return err
		}
		if n.Op == expr.OpNeg {
			fmt.Fprintf(&t.body, "%s = -(%s)\n", reg, x)
		} else {
			fmt.Fprintf(&t.body, "%s = %s\n", reg, x)
		}
		return nil

	case *expr.Binary:
		x, err := t.operand(n.X, r)
		if err != nil {
			return err
		}
		y, err := t.operand(n.Y, r+1)
		if err != nil {
			return err
		}
		switch n.Op {
		case expr.OpAdd, expr.OpSub, expr.OpMul:
			fmt.Fprintf(&t.body, "%s = %s %s %s\n", reg, x, n.Op, y)
		case expr.OpDiv:
			fmt.Fprintf(&t.body, "%s = %s(%s, %s, %d)\n", reg, divFunc, x, y, n.At)
		case expr.OpMod:
			fmt.Fprintf(&t.body, "%s = %s(%s, %s, %d)\n", reg, modFunc, x, y, n.At)
		case expr.OpPow:
			fmt.Fprintf(&t.body, "%s = %s(%s, %s, %d)\n", reg, powFunc, x, y, n.At)
		default:
			return t.fail(n, fmt.Errorf("%w: unknown operator %q", platform.ErrSyntax, n.Op))
		}
		return nil

	default:
		return platform.NewEvaluationError(
			platform.KindSyntax, t.src, -1, fmt.Errorf("unsupported node %T", n))
	}
}

// bind resolves an identifier to a global name. Constant and function names
// are never looked up in vars.
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
	t.env[name] = v
	return name, nil
}

// builtin binds a table function to a builtin name.
func (t *translator) builtin(n *expr.Call) (string, error) {
	if name, ok := t.calls[n.Func]; ok {
		return name, nil
	}

	fn, ok := t.table.Function(n.Func)
	if !ok {
		return "", t.fail(n, fmt.Errorf("%w: function %q", platform.ErrUnknownSymbol, n.Func))
	}

	name := funcPrefix + strconv.Itoa(len(t.calls))
	t.calls[n.Func] = name
	t.env[name] = object.NewBuiltin(name, func(ctx context.Context, args ...object.Object) (object.Object, error) {
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
		return object.NewFloat(v), nil
	})
	return name, nil
}

func (t *translator) binary(name string, op expr.Op) *object.Builtin {
	return object.NewBuiltin(name, func(ctx context.Context, args ...object.Object) (object.Object, error) {
		xy, pos, err := t.unpack(args, 2)
		if err != nil {
			return nil, err
		}
		v, err := expr.Apply(op, xy[0], xy[1])
		if err != nil {
			return nil, platform.NewEvaluationError(platform.KindOf(err), t.src, pos, err)
		}
		return object.NewFloat(v), nil
	})
}

// unpack reads n finite operands followed by the source position.
func (t *translator) unpack(args []object.Object, n int) ([]float64, int, error) {
	if len(args) != n+1 {
		return nil, -1, platform.NewEvaluationError(
			platform.KindSyntax, t.src, -1, fmt.Errorf("%w: expected %d arguments, got %d", platform.ErrSyntax, n+1, len(args)))
	}
	at, err := object.AsInt(args[n])
	if err != nil {
		return nil, -1, platform.NewEvaluationError(platform.KindSyntax, t.src, -1, err)
	}
	pos := int(at)

	out := make([]float64, n)
	for i := range n {
		f, err := object.AsFloat(args[i])
		if err != nil {
			return nil, pos, platform.NewEvaluationError(platform.KindSyntax, t.src, pos, err)
		}
		f, err = expr.Finite(f)
		if err != nil {
			return nil, pos, platform.NewEvaluationError(platform.KindOf(err), t.src, pos, err)
		}
		out[i] = f
	}
	return out, pos, nil
}

// numberLiteral formats v as a Risor float literal. Risor has no exponent
// notation, so the digits are written out in full.
func numberLiteral(v float64) string {
	s := strconv.FormatFloat(math.Abs(v), 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	if math.Signbit(v) {
		return "(-" + s + ")"
	}
	return s
}

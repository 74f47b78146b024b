// Package compile turns a parsed calculator expression into a Starlark program.
package compile

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/robbyt/go-calc/platform"
	"github.com/robbyt/go-calc/platform/expr"
	"github.com/robbyt/go-calc/platform/symbols"
	starlarkLib "go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// ResultName is the global the generated program assigns its value to.
const ResultName = "_"

// Names of the predeclared builtins used by generated programs.
const (
	divBuiltin  = "_div"
	modBuiltin  = "_mod"
	powBuiltin  = "_pow"
	callBuiltin = "_call"
)

// symbolPrefix prefixes the predeclared globals holding constants and variables.
// Calculator identifiers may collide with Starlark keywords, so they are never emitted verbatim.
const symbolPrefix = "_sym"

// Translation is the generated Starlark source and the globals it must run with.
type Translation struct {
	Source      string
	Predeclared starlarkLib.StringDict
}

type translator struct {
	src   string
	table *symbols.Table
	vars  map[string]float64

	buf     strings.Builder
	symbols map[string]string
	globals starlarkLib.StringDict
}

// Translate renders root as the Starlark statement `_ = <expr>`. Names are
// resolved at translation time: constants first, then vars. A function name
// used without an argument is a KindSyntax error even when vars holds it. Unknown names are
// reported as KindUnknownSymbol errors.
func Translate(
	src string,
	root expr.Node,
	table *symbols.Table,
	vars map[string]float64,
) (*Translation, error) {
	if root == nil {
		return nil, platform.NewEvaluationError(
			platform.KindSyntax, src, -1, fmt.Errorf("%w: empty expression", platform.ErrSyntax))
	}

	t := &translator{
		src:     src,
		table:   table,
		vars:    vars,
		symbols: make(map[string]string),
		globals: Builtins(src, table),
	}
	t.buf.WriteString(ResultName + " = ")
	if err := t.write(root); err != nil {
		return nil, err
	}
	t.buf.WriteByte('\n')

	return &Translation{Source: t.buf.String(), Predeclared: t.globals}, nil
}

func (t *translator) fail(n expr.Node, err error) error {
	return platform.NewEvaluationError(platform.KindOf(err), t.src, n.Pos(), err)
}

func (t *translator) write(n expr.Node) error {
	switch n := n.(type) {
	case *expr.Number:
		t.buf.WriteString(FloatLiteral(n.Value))
		return nil

	case *expr.Ident:
		name, err := t.bind(n)
		if err != nil {
			return err
		}
		t.buf.WriteString(name)
		return nil

	case *expr.Call:
		if _, ok := t.table.Function(n.Func); !ok {
			return t.fail(n, fmt.Errorf("%w: function %q", platform.ErrUnknownSymbol, n.Func))
		}
		fmt.Fprintf(&t.buf, "%s(%s, ", callBuiltin, strconv.Quote(n.Func))
		if err := t.write(n.Arg); err != nil {
			return err
		}
		fmt.Fprintf(&t.buf, ", %d)", n.At)
		return nil

	case *expr.Unary:
		t.buf.WriteString("(" + n.Op.String())
		if err := t.write(n.X); err != nil {
			return err
		}
		t.buf.WriteByte(')')
		return nil

	case *expr.Binary:
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
			return t.writeBuiltin(divBuiltin, n)
		case expr.OpMod:
			return t.writeBuiltin(modBuiltin, n)
		case expr.OpPow:
			return t.writeBuiltin(powBuiltin, n)
		default:
			return t.fail(n, fmt.Errorf("%w: unknown operator %q", platform.ErrSyntax, n.Op))
		}

	default:
		return platform.NewEvaluationError(
			platform.KindSyntax, t.src, -1, fmt.Errorf("unsupported node %T", n))
	}
}

func (t *translator) writeBuiltin(name string, n *expr.Binary) error {
	t.buf.WriteString(name + "(")
	if err := t.write(n.X); err != nil {
		return err
	}
	t.buf.WriteString(", ")
	if err := t.write(n.Y); err != nil {
		return err
	}
	fmt.Fprintf(&t.buf, ", %d)", n.At)
	return nil
}

// bind resolves an identifier to a predeclared global holding its value.
func (t *translator) bind(n *expr.Ident) (string, error) {
	if global, ok := t.symbols[n.Name]; ok {
		return global, nil
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

	global := symbolPrefix + strconv.Itoa(len(t.symbols))
	t.symbols[n.Name] = global
	t.globals[global] = starlarkLib.Float(v)
	return global, nil
}

// FloatLiteral formats v as a Starlark float literal that parses back to v exactly.
func FloatLiteral(v float64) string {
	s := strconv.FormatFloat(math.Abs(v), 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	if math.Signbit(v) {
		return "(-" + s + ")"
	}
	return s
}

// Program parses and resolves the generated source against predeclared.
func Program(source string, predeclared starlarkLib.StringDict) (*starlarkLib.Program, error) {
	opts := &syntax.FileOptions{}
	f, err := opts.Parse("expression", source, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompileFailed, err)
	}

	prog, err := starlarkLib.FileProgram(f, predeclared.Has)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompileFailed, err)
	}
	return prog, nil
}

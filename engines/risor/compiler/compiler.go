package compiler

import (
	"context"
	"fmt"
	"log/slog"

	risorLib "github.com/deepnoodle-ai/risor/v2"
	"github.com/robbyt/go-calc/internal/helpers"
	"github.com/robbyt/go-calc/platform/expr"
	"github.com/robbyt/go-calc/platform/symbols"
)

// Compiler translates calculator expressions into Risor programs.
type Compiler struct {
	table      *symbols.Table
	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates a new risor compiler using functional options
func New(opts ...FunctionalOption) (*Compiler, error) {
	c := &Compiler{table: symbols.Default()}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("error applying compiler option: %w", err)
		}
	}

	c.logHandler, c.logger = helpers.SetupLogger(c.logHandler, "risor", "Compiler")
	return c, nil
}

func (c *Compiler) String() string {
	return "risor.Compiler"
}

// Table returns the symbol table expressions are compiled against.
func (c *Compiler) Table() *symbols.Table {
	return c.table
}

// syntax limits generated programs to plain assignments and calls.
var syntax = risorLib.SyntaxConfig{
	DisallowReturn:      true,
	DisallowFuncDef:     true,
	DisallowTryCatch:    true,
	DisallowIf:          true,
	DisallowDestructure: true,
	DisallowSpread:      true,
	DisallowPipe:        true,
	DisallowTemplates:   true,
}

// Compile parses expression, binds it to the table and vars, and compiles the
// generated program. Expression errors are returned as
// *platform.EvaluationError.
func (c *Compiler) Compile(ctx context.Context, expression string, vars map[string]float64) (*Executable, error) {
	logger := c.logger.WithGroup("Compile")

	root, err := expr.Parse(expression)
	if err != nil {
		logger.DebugContext(ctx, "parse failed", "error", err)
		return nil, err
	}

	t := newTranslator(expression, c.table, vars)
	result, err := t.operand(root, 0)
	if err != nil {
		logger.DebugContext(ctx, "translation failed", "error", err)
		return nil, err
	}
	source := t.program(result)

	code, err := risorLib.Compile(ctx, source,
		risorLib.WithEnv(t.env),
		risorLib.WithSyntax(syntax),
	)
	if err != nil {
		logger.ErrorContext(ctx, "generated program did not compile", "error", err, "source", source)
		return nil, fmt.Errorf("%w: %w", ErrCompileFailed, err)
	}

	exe := newExecutable(expression, source, code, t.env, expr.Size(root))
	if exe == nil {
		return nil, ErrExecCreationFailed
	}
	logger.DebugContext(ctx, "compiled", "source", source)
	return exe, nil
}

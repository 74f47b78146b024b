package compiler

import (
	"fmt"
	"log/slog"

	govaluateLib "github.com/Knetic/govaluate"
	"github.com/robbyt/go-calc/internal/helpers"
	"github.com/robbyt/go-calc/platform/expr"
	"github.com/robbyt/go-calc/platform/symbols"
)

// Compiler translates calculator expressions into govaluate expressions.
type Compiler struct {
	table      *symbols.Table
	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates a new govaluate compiler using functional options
func New(opts ...FunctionalOption) (*Compiler, error) {
	c := &Compiler{table: symbols.Default()}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("error applying compiler option: %w", err)
		}
	}

	c.logHandler, c.logger = helpers.SetupLogger(c.logHandler, "govaluate", "Compiler")
	return c, nil
}

func (c *Compiler) String() string {
	return "govaluate.Compiler"
}

// Table returns the symbol table expressions are compiled against.
func (c *Compiler) Table() *symbols.Table {
	return c.table
}

// Compile parses expression and binds it to the table and vars. Expression
// errors are returned as *platform.EvaluationError.
func (c *Compiler) Compile(expression string, vars map[string]float64) (*Executable, error) {
	logger := c.logger.WithGroup("Compile")

	root, err := expr.Parse(expression)
	if err != nil {
		logger.Debug("parse failed", "error", err)
		return nil, err
	}

	t := newTranslator(expression, c.table, vars)
	if err := t.write(root); err != nil {
		logger.Debug("translation failed", "error", err)
		return nil, err
	}
	source := t.buf.String()

	program, err := govaluateLib.NewEvaluableExpressionWithFunctions(source, t.functions)
	if err != nil {
		logger.Error("translated expression did not compile", "error", err, "source", source)
		return nil, fmt.Errorf("%w: %w", ErrCompileFailed, err)
	}

	exe := newExecutable(expression, source, program, t.params)
	if exe == nil {
		return nil, ErrExecCreationFailed
	}
	logger.Debug("compiled", "source", source)
	return exe, nil
}

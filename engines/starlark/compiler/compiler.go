package compiler

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/robbyt/go-calc/engines/starlark/compiler/internal/compile"
	"github.com/robbyt/go-calc/platform/expr"
	"github.com/robbyt/go-calc/platform/symbols"
)

// Compiler turns calculator expressions into Starlark programs bound to a symbol table.
type Compiler struct {
	table      *symbols.Table
	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates a new Starlark compiler using functional options
func New(opts ...FunctionalOption) (*Compiler, error) {
	c := &Compiler{}
	c.applyDefaults()

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("error applying compiler option: %w", err)
		}
	}

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid compiler configuration: %w", err)
	}

	c.setupLogger()
	return c, nil
}

func (c *Compiler) String() string {
	return "starlark.Compiler"
}

// Table returns the symbol table compiled programs resolve names against.
func (c *Compiler) Table() *symbols.Table {
	return c.table
}

// Compile parses expression and produces an Executable. Variables are bound
// at compile time, so an Executable is only valid for the vars it was built with.
// Expression errors are returned as *platform.EvaluationError.
func (c *Compiler) Compile(expression string, vars map[string]float64) (*Executable, error) {
	logger := c.logger.WithGroup("Compile")

	root, err := expr.Parse(expression)
	if err != nil {
		logger.Debug("parse failed", "error", err)
		return nil, err
	}

	tr, err := compile.Translate(expression, root, c.table, vars)
	if err != nil {
		logger.Debug("translation failed", "error", err)
		return nil, err
	}

	prog, err := compile.Program(tr.Source, tr.Predeclared)
	if err != nil {
		logger.Error("generated source did not compile", "error", err, "source", tr.Source)
		return nil, errors.Join(ErrValidationFailed, err)
	}

	exe := newExecutable(expression, tr.Source, prog, tr.Predeclared)
	if exe == nil {
		return nil, ErrExecCreationFailed
	}
	exe.nodes = expr.Size(root)
	logger.Debug("compiled", "source", tr.Source)
	return exe, nil
}

package compiler

import (
	"fmt"
	"log/slog"

	"github.com/robbyt/go-calc/platform/symbols"
)

// FunctionalOption is a function that configures a Compiler instance
type FunctionalOption func(*Compiler) error

// WithSymbols sets the constant and function table.
func WithSymbols(table *symbols.Table) FunctionalOption {
	return func(c *Compiler) error {
		if table == nil {
			return fmt.Errorf("symbol table cannot be nil")
		}
		c.table = table
		return nil
	}
}

// WithLogHandler creates an option to set the log handler for the govaluate compiler.
func WithLogHandler(handler slog.Handler) FunctionalOption {
	return func(c *Compiler) error {
		if handler == nil {
			return fmt.Errorf("log handler cannot be nil")
		}
		c.logHandler = handler
		return nil
	}
}

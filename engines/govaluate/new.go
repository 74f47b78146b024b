package govaluate

import (
	"fmt"
	"log/slog"

	"github.com/robbyt/go-calc/engines/govaluate/compiler"
	"github.com/robbyt/go-calc/engines/govaluate/evaluator"
	"github.com/robbyt/go-calc/platform/constants"
	"github.com/robbyt/go-calc/platform/data"
	"github.com/robbyt/go-calc/platform/symbols"
)

// FromTable creates a govaluate evaluator reading variables from the context only.
//
// Input parameters:
// - logHandler: logger handler for logging
// - table: constant and function table, nil for symbols.Default()
//
// Returns an evaluator, which implements the platform.Evaluator interface.
func FromTable(logHandler slog.Handler, table *symbols.Table) (*evaluator.Evaluator, error) {
	if table == nil {
		table = symbols.Default()
	}

	opts := []compiler.FunctionalOption{compiler.WithSymbols(table)}
	if logHandler != nil {
		opts = append(opts, compiler.WithLogHandler(logHandler))
	}
	comp, err := compiler.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create govaluate compiler: %w", err)
	}

	return evaluator.New(logHandler, comp, data.NewContextProvider(constants.EvalData)), nil
}

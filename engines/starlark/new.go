package starlark

import (
	"fmt"
	"log/slog"

	"github.com/robbyt/go-calc/engines/starlark/compiler"
	"github.com/robbyt/go-calc/engines/starlark/evaluator"
	"github.com/robbyt/go-calc/platform/constants"
	"github.com/robbyt/go-calc/platform/data"
	"github.com/robbyt/go-calc/platform/symbols"
)

// FromTable creates a Starlark evaluator reading variables from the context only.
//
// Input parameters:
// - logHandler: logger handler for logging
// - table: constant and function table, nil for symbols.Default()
// - maxSteps: Starlark execution step budget, 0 for the default
//
// Returns an evaluator, which implements the platform.Evaluator interface.
func FromTable(
	logHandler slog.Handler,
	table *symbols.Table,
	maxSteps uint64,
) (*evaluator.Evaluator, error) {
	return newEvaluator(logHandler, table, maxSteps, data.NewContextProvider(constants.EvalData))
}

// FromTableWithData creates a Starlark evaluator with fixed variables plus
// variables added at runtime with AddDataToContext. Runtime values win.
func FromTableWithData(
	logHandler slog.Handler,
	table *symbols.Table,
	maxSteps uint64,
	staticData map[string]any,
) (*evaluator.Evaluator, error) {
	staticProvider := data.NewStaticProvider(staticData)
	dynamicProvider := data.NewContextProvider(constants.EvalData)
	compositeProvider := data.NewCompositeProvider(staticProvider, dynamicProvider)

	return newEvaluator(logHandler, table, maxSteps, compositeProvider)
}

func newEvaluator(
	logHandler slog.Handler,
	table *symbols.Table,
	maxSteps uint64,
	provider data.Provider,
) (*evaluator.Evaluator, error) {
	if table == nil {
		table = symbols.Default()
	}

	opts := []compiler.FunctionalOption{compiler.WithSymbols(table)}
	if logHandler != nil {
		opts = append(opts, compiler.WithLogHandler(logHandler))
	}
	comp, err := compiler.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create starlark compiler: %w", err)
	}

	return evaluator.New(logHandler, comp, provider, maxSteps), nil
}

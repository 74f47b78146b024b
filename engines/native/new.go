package native

import (
	"log/slog"

	"github.com/robbyt/go-calc/engines/native/evaluator"
	"github.com/robbyt/go-calc/platform/constants"
	"github.com/robbyt/go-calc/platform/data"
	"github.com/robbyt/go-calc/platform/symbols"
)

// FromTable creates a native evaluator reading variables from the context only.
//
// Input parameters:
// - logHandler: logger handler for logging
// - table: constant and function table, nil for symbols.Default()
//
// Returns an evaluator, which implements the platform.Evaluator interface.
func FromTable(
	logHandler slog.Handler,
	table *symbols.Table,
) *evaluator.Evaluator {
	return evaluator.New(logHandler, table, data.NewContextProvider(constants.EvalData))
}

// FromTableWithData creates a native evaluator with fixed variables plus
// variables added at runtime with AddDataToContext. Runtime values win.
//
// Input parameters:
// - logHandler: logger handler for logging
// - table: constant and function table, nil for symbols.Default()
// - staticData: variables available to every evaluation
//
// Returns an evaluator, which implements the platform.Evaluator interface.
func FromTableWithData(
	logHandler slog.Handler,
	table *symbols.Table,
	staticData map[string]any,
) *evaluator.Evaluator {
	staticProvider := data.NewStaticProvider(staticData)
	dynamicProvider := data.NewContextProvider(constants.EvalData)
	compositeProvider := data.NewCompositeProvider(staticProvider, dynamicProvider)

	return evaluator.New(logHandler, table, compositeProvider)
}

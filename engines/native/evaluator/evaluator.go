package evaluator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robbyt/go-calc/internal/helpers"
	"github.com/robbyt/go-calc/platform"
	"github.com/robbyt/go-calc/platform/data"
	"github.com/robbyt/go-calc/platform/expr"
	"github.com/robbyt/go-calc/platform/symbols"
)

// Evaluator parses expressions and evaluates the AST directly in Go.
// It holds no per-evaluation state and is safe for concurrent use.
type Evaluator struct {
	table    *symbols.Table
	provider data.Provider

	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates a new Evaluator. A nil table means symbols.Default().
// The provider supplies variables; nil disables them.
func New(
	handler slog.Handler,
	table *symbols.Table,
	provider data.Provider,
) *Evaluator {
	handler, logger := helpers.SetupLogger(handler, "native", "Evaluator")
	if table == nil {
		table = symbols.Default()
	}

	return &Evaluator{
		table:      table,
		provider:   provider,
		logHandler: handler,
		logger:     logger,
	}
}

func (e *Evaluator) String() string {
	return "native.Evaluator"
}

// Eval evaluates one expression.
func (e *Evaluator) Eval(ctx context.Context, expression string) (platform.EvaluatorResponse, error) {
	exprID := helpers.ExpressionID(expression)
	logger := e.logger.WithGroup("Eval").With("exprID", exprID)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("evaluation cancelled: %w", err)
	}

	startTime := time.Now()
	root, err := expr.Parse(expression)
	if err != nil {
		logger.DebugContext(ctx, "parse failed", "error", err)
		return nil, err
	}

	var vars map[string]float64
	if e.provider != nil {
		vars, err = data.LoadVariables(ctx, e.provider, e.table)
		if err != nil {
			logger.ErrorContext(ctx, "failed to load variables", "error", err)
			return nil, err
		}
	}

	s := &scope{src: expression, table: e.table, vars: vars}
	value, err := s.eval(root)
	execTime := time.Since(startTime)
	if err != nil {
		logger.DebugContext(ctx, "evaluation failed", "error", err, "execTime", execTime)
		return nil, err
	}

	logger.DebugContext(ctx, "evaluation complete", "value", value, "execTime", execTime)
	return platform.NewResponse(value, execTime, exprID), nil
}

// AddDataToContext implements the data.Setter interface, storing variables for a later Eval.
func (e *Evaluator) AddDataToContext(
	ctx context.Context,
	d ...map[string]any,
) (context.Context, error) {
	logger := e.logger.WithGroup("AddDataToContext")
	return data.AddDataToContextHelper(ctx, logger, e.provider, d...)
}

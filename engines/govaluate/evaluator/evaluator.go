package evaluator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robbyt/go-calc/engines/govaluate/compiler"
	"github.com/robbyt/go-calc/internal/helpers"
	"github.com/robbyt/go-calc/platform"
	"github.com/robbyt/go-calc/platform/data"
	"github.com/robbyt/go-calc/platform/expr"
)

// Evaluator compiles each expression for govaluate and evaluates it with the
// variables read from its data provider.
type Evaluator struct {
	compiler *compiler.Compiler
	provider data.Provider

	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates a new Evaluator.
func New(handler slog.Handler, comp *compiler.Compiler, provider data.Provider) *Evaluator {
	handler, logger := helpers.SetupLogger(handler, "govaluate", "Evaluator")
	return &Evaluator{
		compiler:   comp,
		provider:   provider,
		logHandler: handler,
		logger:     logger,
	}
}

func (be *Evaluator) String() string {
	return "govaluate.Evaluator"
}

func (be *Evaluator) exec(exe *compiler.Executable) (float64, error) {
	result, err := exe.GetGovaluateExpression().Evaluate(exe.GetParameters())
	if err != nil {
		if evalErr, ok := platform.AsEvaluationError(err); ok {
			return 0, evalErr
		}
		return 0, platform.NewEvaluationError(platform.KindSyntax, exe.GetSource(), -1, err)
	}

	value, ok := result.(float64)
	if !ok {
		return 0, platform.NewEvaluationError(
			platform.KindSyntax, exe.GetSource(), -1,
			fmt.Errorf("%w: expression produced %T", platform.ErrSyntax, result))
	}
	value, err = expr.Finite(value)
	if err != nil {
		return 0, platform.NewEvaluationError(platform.KindOf(err), exe.GetSource(), -1, err)
	}
	return value, nil
}

// Eval evaluates one expression.
func (be *Evaluator) Eval(ctx context.Context, expression string) (platform.EvaluatorResponse, error) {
	exprID := helpers.ExpressionID(expression)
	logger := be.logger.WithGroup("Eval").With("exprID", exprID)

	if be.compiler == nil {
		return nil, fmt.Errorf("govaluate evaluator has no compiler")
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("evaluation cancelled: %w", err)
	}

	startTime := time.Now()
	vars, err := data.LoadVariables(ctx, be.provider, be.compiler.Table())
	if err != nil {
		logger.ErrorContext(ctx, "failed to load variables", "error", err)
		return nil, err
	}

	exe, err := be.compiler.Compile(expression, vars)
	if err != nil {
		logger.DebugContext(ctx, "compile failed", "error", err)
		return nil, err
	}

	value, err := be.exec(exe)
	execTime := time.Since(startTime)
	if err != nil {
		logger.DebugContext(ctx, "evaluation failed", "error", err, "execTime", execTime)
		return nil, err
	}

	logger.DebugContext(ctx, "evaluation complete", "value", value, "execTime", execTime)
	return platform.NewResponse(value, execTime, exprID), nil
}

// AddDataToContext implements the data.Setter interface, storing variables for a later Eval.
func (be *Evaluator) AddDataToContext(
	ctx context.Context,
	d ...map[string]any,
) (context.Context, error) {
	logger := be.logger.WithGroup("AddDataToContext")
	return data.AddDataToContextHelper(ctx, logger, be.provider, d...)
}

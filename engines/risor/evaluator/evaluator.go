package evaluator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	risorLib "github.com/deepnoodle-ai/risor/v2"
	"github.com/robbyt/go-calc/engines/risor/compiler"
	"github.com/robbyt/go-calc/internal/helpers"
	"github.com/robbyt/go-calc/platform"
	"github.com/robbyt/go-calc/platform/data"
	"github.com/robbyt/go-calc/platform/expr"
)

const (
	// DefaultMaxSteps is the base Risor instruction budget of one evaluation.
	DefaultMaxSteps uint64 = 10_000
	// DefaultStepsPerNode is added to the budget for every node of the parsed
	// expression.
	DefaultStepsPerNode uint64 = 16
)

// Evaluator compiles each expression into a Risor program and runs it on a
// fresh VM with a step budget of maxSteps plus stepsPerNode for each node.
type Evaluator struct {
	compiler     *compiler.Compiler
	provider     data.Provider
	maxSteps     uint64
	stepsPerNode uint64

	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates a new Evaluator. A maxSteps of 0 means DefaultMaxSteps.
func New(
	handler slog.Handler,
	comp *compiler.Compiler,
	provider data.Provider,
	maxSteps uint64,
) *Evaluator {
	handler, logger := helpers.SetupLogger(handler, "risor", "Evaluator")
	if maxSteps == 0 {
		maxSteps = DefaultMaxSteps
	}

	return &Evaluator{
		compiler:     comp,
		provider:     provider,
		maxSteps:     maxSteps,
		stepsPerNode: DefaultStepsPerNode,
		logHandler:   handler,
		logger:       logger,
	}
}

func (be *Evaluator) String() string {
	return "risor.Evaluator"
}

func (be *Evaluator) exec(ctx context.Context, exe *compiler.Executable) (float64, error) {
	budget := be.maxSteps + be.stepsPerNode*uint64(exe.GetNodeCount())

	result, err := risorLib.Run(ctx, exe.GetRisorByteCode(),
		risorLib.WithEnv(exe.GetEnv()),
		risorLib.WithMaxSteps(int64(budget)),
	)
	if err != nil {
		return 0, be.mapError(ctx, exe.GetSource(), budget, err)
	}

	value, ok := result.(float64)
	if !ok {
		return 0, platform.NewEvaluationError(
			platform.KindSyntax, exe.GetSource(), -1,
			fmt.Errorf("%w: program produced %T", platform.ErrSyntax, result))
	}
	value, err = expr.Finite(value)
	if err != nil {
		return 0, platform.NewEvaluationError(platform.KindOf(err), exe.GetSource(), -1, err)
	}
	return value, nil
}

// mapError recovers the evaluation error a builtin raised, or classifies a
// failure of the VM itself.
func (be *Evaluator) mapError(ctx context.Context, src string, budget uint64, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("evaluation cancelled: %w", ctxErr)
	}
	if evalErr, ok := platform.AsEvaluationError(err); ok {
		return evalErr
	}
	if errors.Is(err, risorLib.ErrStepLimitExceeded) {
		return platform.NewEvaluationError(
			platform.KindOverflow, src, -1,
			fmt.Errorf("%w: exceeded %d execution steps", platform.ErrOverflow, budget))
	}
	return platform.NewEvaluationError(platform.KindSyntax, src, -1, err)
}

// Eval evaluates one expression.
func (be *Evaluator) Eval(ctx context.Context, expression string) (platform.EvaluatorResponse, error) {
	exprID := helpers.ExpressionID(expression)
	logger := be.logger.WithGroup("Eval").With("exprID", exprID)

	if be.compiler == nil {
		return nil, fmt.Errorf("risor evaluator has no compiler")
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

	exe, err := be.compiler.Compile(ctx, expression, vars)
	if err != nil {
		logger.DebugContext(ctx, "compile failed", "error", err)
		return nil, err
	}

	value, err := be.exec(ctx, exe)
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

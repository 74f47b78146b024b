package evaluator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robbyt/go-calc/engines/starlark/compiler"
	"github.com/robbyt/go-calc/internal/helpers"
	"github.com/robbyt/go-calc/platform"
	"github.com/robbyt/go-calc/platform/data"
	"github.com/robbyt/go-calc/platform/expr"
	starlarkLib "go.starlark.net/starlark"
)

const (
	// DefaultMaxSteps is the base Starlark instruction budget of one evaluation.
	DefaultMaxSteps uint64 = 10_000
	// DefaultStepsPerNode is added to the budget for every node of the parsed
	// expression. No generated program needs more than this per node.
	DefaultStepsPerNode uint64 = 8
)

// Evaluator compiles each expression into a Starlark program and runs it in a
// fresh thread with a step budget of maxSteps plus stepsPerNode for each node.
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
	handler, logger := helpers.SetupLogger(handler, "starlark", "Evaluator")
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
	return "starlark.Evaluator"
}

// exec runs the program and returns the value assigned to the result global.
func (be *Evaluator) exec(ctx context.Context, exe *compiler.Executable) (float64, error) {
	logger := be.logger.WithGroup("exec")

	thread := &starlarkLib.Thread{
		Name: "eval",
		Print: func(thread *starlarkLib.Thread, msg string) {
			logger.InfoContext(ctx, msg, "starlark-thread", thread.Name)
		},
	}
	budget := be.stepBudget(exe)
	thread.SetMaxExecutionSteps(budget)

	// Cancel the thread if the context ends first; stop watching once Init returns.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			thread.Cancel(ctx.Err().Error())
		case <-done:
		}
	}()

	globals, err := exe.GetStarlarkByteCode().Init(thread, exe.GetPredeclared())
	if err != nil {
		return 0, be.mapError(ctx, thread, exe.GetSource(), budget, err)
	}

	result, ok := starlarkLib.AsFloat(globals[compiler.ResultName])
	if !ok {
		return 0, platform.NewEvaluationError(
			platform.KindSyntax, exe.GetSource(), -1,
			fmt.Errorf("%w: program produced %v", platform.ErrSyntax, globals[compiler.ResultName]))
	}
	result, err = expr.Finite(result)
	if err != nil {
		return 0, platform.NewEvaluationError(platform.KindOf(err), exe.GetSource(), -1, err)
	}
	return result, nil
}

// stepBudget scales the base budget with the size of the expression, so any
// well-formed expression the parser accepts can finish.
func (be *Evaluator) stepBudget(exe *compiler.Executable) uint64 {
	return be.maxSteps + be.stepsPerNode*uint64(exe.GetNodeCount())
}

// mapError recovers the evaluation error a builtin raised, or classifies a
// failure of the thread itself.
func (be *Evaluator) mapError(
	ctx context.Context,
	thread *starlarkLib.Thread,
	src string,
	budget uint64,
	err error,
) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("evaluation cancelled: %w", ctxErr)
	}
	if evalErr, ok := platform.AsEvaluationError(err); ok {
		return evalErr
	}
	if thread.ExecutionSteps() >= budget {
		return platform.NewEvaluationError(
			platform.KindOverflow, src, -1,
			fmt.Errorf("%w: exceeded %d execution steps", platform.ErrOverflow, budget))
	}

	var starlarkErr *starlarkLib.EvalError
	if errors.As(err, &starlarkErr) {
		be.logger.DebugContext(ctx, "starlark backtrace", "backtrace", starlarkErr.Backtrace())
	}
	return platform.NewEvaluationError(platform.KindSyntax, src, -1, err)
}

// Eval evaluates one expression.
func (be *Evaluator) Eval(ctx context.Context, expression string) (platform.EvaluatorResponse, error) {
	exprID := helpers.ExpressionID(expression)
	logger := be.logger.WithGroup("Eval").With("exprID", exprID)

	if be.compiler == nil {
		return nil, fmt.Errorf("starlark evaluator has no compiler")
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

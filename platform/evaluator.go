package platform

import (
	"context"

	"github.com/robbyt/go-calc/platform/data"
)

// EvalOnly is the interface for an arithmetic expression evaluator.
type EvalOnly interface {
	// Eval parses and evaluates one expression. Named variables are read from the
	// context through the evaluator's data provider.
	//
	// A malformed or undefined expression returns an *EvaluationError. Other
	// errors (cancelled context, broken data provider) are returned wrapped.
	Eval(ctx context.Context, expression string) (EvaluatorResponse, error)
}

// Evaluator combines evaluation with data preparation, so a caller can store
// variables such as the last answer in the context before calling Eval.
type Evaluator interface {
	EvalOnly
	data.Setter
}

package platform

import (
	"fmt"
	"strconv"
	"time"
)

// EvaluatorResponse is the successful outcome of one evaluation.
type EvaluatorResponse interface {
	// Float returns the numeric result.
	Float() float64

	// Inspect returns the shortest string that round-trips the result.
	Inspect() string

	// Interface returns the result as a native Go value (float64).
	Interface() any

	// GetExpressionID returns the ID of the expression that produced the result.
	GetExpressionID() string

	// GetExecTime returns the time it took to evaluate the expression.
	GetExecTime() string
}

// Response is the EvaluatorResponse shared by all engines.
type Response struct {
	value    float64
	execTime time.Duration
	exprID   string
}

// NewResponse creates a Response.
func NewResponse(value float64, execTime time.Duration, exprID string) *Response {
	return &Response{
		value:    value,
		execTime: execTime,
		exprID:   exprID,
	}
}

func (r *Response) String() string {
	return fmt.Sprintf(
		"Response{Value: %s, ExecTime: %s, ExpressionID: %s}",
		r.Inspect(), r.GetExecTime(), r.GetExpressionID())
}

func (r *Response) Float() float64 {
	return r.value
}

func (r *Response) Inspect() string {
	return strconv.FormatFloat(r.value, 'g', -1, 64)
}

func (r *Response) Interface() any {
	return r.value
}

func (r *Response) GetExpressionID() string {
	return r.exprID
}

func (r *Response) GetExecTime() string {
	return r.execTime.String()
}

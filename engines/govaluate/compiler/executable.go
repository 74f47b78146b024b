package compiler

import (
	govaluateLib "github.com/Knetic/govaluate"
	"github.com/robbyt/go-calc/engines/types"
)

// Executable is an expression compiled for govaluate together with the
// parameters its names are bound to.
type Executable struct {
	expression string
	source     string
	program    *govaluateLib.EvaluableExpression
	params     map[string]any
}

func newExecutable(
	expression, source string,
	program *govaluateLib.EvaluableExpression,
	params map[string]any,
) *Executable {
	if source == "" || program == nil {
		return nil
	}
	return &Executable{
		expression: expression,
		source:     source,
		program:    program,
		params:     params,
	}
}

// GetSource returns the original calculator expression.
func (e *Executable) GetSource() string {
	return e.expression
}

// GetGovaluateSource returns the translated govaluate expression.
func (e *Executable) GetGovaluateSource() string {
	return e.source
}

func (e *Executable) GetByteCode() any {
	return e.program
}

func (e *Executable) GetGovaluateExpression() *govaluateLib.EvaluableExpression {
	return e.program
}

// GetParameters returns the values bound to the expression's parameter names.
func (e *Executable) GetParameters() map[string]any {
	return e.params
}

func (e *Executable) GetEngineType() types.Type {
	return types.Govaluate
}

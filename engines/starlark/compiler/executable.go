package compiler

import (
	"github.com/robbyt/go-calc/engines/starlark/compiler/internal/compile"
	"github.com/robbyt/go-calc/engines/types"
	starlarkLib "go.starlark.net/starlark"
)

// ResultName is the global an executable assigns the expression value to.
const ResultName = compile.ResultName

// Executable is an expression compiled into a Starlark program, together with
// the builtins the program was resolved against.
type Executable struct {
	expression  string
	source      string
	program     *starlarkLib.Program
	predeclared starlarkLib.StringDict
	nodes       int
}

func newExecutable(
	expression, source string,
	program *starlarkLib.Program,
	predeclared starlarkLib.StringDict,
) *Executable {
	if source == "" || program == nil {
		return nil
	}
	return &Executable{
		expression:  expression,
		source:      source,
		program:     program,
		predeclared: predeclared,
	}
}

// GetSource returns the original calculator expression.
func (e *Executable) GetSource() string {
	return e.expression
}

// GetStarlarkSource returns the generated Starlark program text.
func (e *Executable) GetStarlarkSource() string {
	return e.source
}

func (e *Executable) GetByteCode() any {
	return e.program
}

func (e *Executable) GetStarlarkByteCode() *starlarkLib.Program {
	return e.program
}

// GetPredeclared returns the builtins the program must be initialised with.
func (e *Executable) GetPredeclared() starlarkLib.StringDict {
	return e.predeclared
}

// GetNodeCount returns the size of the parsed expression tree.
func (e *Executable) GetNodeCount() int {
	return e.nodes
}

func (e *Executable) GetEngineType() types.Type {
	return types.Starlark
}

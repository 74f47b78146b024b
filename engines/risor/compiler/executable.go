package compiler

import (
	"github.com/deepnoodle-ai/risor/v2/pkg/bytecode"
	"github.com/robbyt/go-calc/engines/types"
)

// Executable is an expression compiled to Risor bytecode together with the
// environment its global names are bound to.
type Executable struct {
	expression string
	source     string
	code       *bytecode.Code
	env        map[string]any
	nodes      int
}

func newExecutable(
	expression, source string,
	code *bytecode.Code,
	env map[string]any,
	nodes int,
) *Executable {
	if source == "" || code == nil {
		return nil
	}
	return &Executable{
		expression: expression,
		source:     source,
		code:       code,
		env:        env,
		nodes:      nodes,
	}
}

// GetSource returns the original calculator expression.
func (e *Executable) GetSource() string {
	return e.expression
}

// GetRisorSource returns the generated Risor program.
func (e *Executable) GetRisorSource() string {
	return e.source
}

func (e *Executable) GetByteCode() any {
	return e.code
}

func (e *Executable) GetRisorByteCode() *bytecode.Code {
	return e.code
}

// GetEnv returns the globals the program was compiled against. Run needs the
// same keys.
func (e *Executable) GetEnv() map[string]any {
	return e.env
}

// GetNodeCount returns the number of nodes in the parsed expression.
func (e *Executable) GetNodeCount() int {
	return e.nodes
}

func (e *Executable) GetEngineType() types.Type {
	return types.Risor
}

// Description: This file contains constants used for accessing values from context objects.
package constants

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// EvalData is the key used to store the variable map in the context
	EvalData ContextKey = "eval_data"

	// Ans is the variable name holding the previous result
	Ans = "ans"
)

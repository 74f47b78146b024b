package compiler

import "errors"

var (
	ErrCompileFailed      = errors.New("failed to compile risor program")
	ErrExecCreationFailed = errors.New("unable to create risor executable")
)

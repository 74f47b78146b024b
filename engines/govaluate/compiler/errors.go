package compiler

import "errors"

var (
	ErrCompileFailed      = errors.New("failed to compile govaluate expression")
	ErrExecCreationFailed = errors.New("unable to create govaluate executable")
)

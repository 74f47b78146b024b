package compile

import "errors"

// ErrCompileFailed wraps Starlark parse and resolve failures of generated source.
var ErrCompileFailed = errors.New("failed to compile starlark program")

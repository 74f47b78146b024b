package platform

import (
	"errors"
	"fmt"
)

// ErrEvaluation matches every *EvaluationError through errors.Is.
var ErrEvaluation = errors.New("evaluation error")

// Sentinels for each ErrorKind. An *EvaluationError matches the sentinel of its kind.
var (
	ErrSyntax         = errors.New("syntax error")
	ErrDivisionByZero = errors.New("division by zero")
	ErrDomain         = errors.New("math domain error")
	ErrUnknownSymbol  = errors.New("unknown symbol")
	ErrOverflow       = errors.New("numeric overflow")
)

// ErrorKind partitions evaluation failures.
type ErrorKind int

const (
	KindSyntax ErrorKind = iota + 1
	KindDivisionByZero
	KindDomain
	KindUnknownSymbol
	KindOverflow
)

func (k ErrorKind) String() string {
	switch k {
	case KindSyntax:
		return "syntax"
	case KindDivisionByZero:
		return "division_by_zero"
	case KindDomain:
		return "domain"
	case KindUnknownSymbol:
		return "unknown_symbol"
	case KindOverflow:
		return "overflow"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Sentinel returns the sentinel error for the kind.
func (k ErrorKind) Sentinel() error {
	switch k {
	case KindDivisionByZero:
		return ErrDivisionByZero
	case KindDomain:
		return ErrDomain
	case KindUnknownSymbol:
		return ErrUnknownSymbol
	case KindOverflow:
		return ErrOverflow
	default:
		return ErrSyntax
	}
}

// KindOf classifies err by the sentinel it wraps. Unclassified errors are KindSyntax.
func KindOf(err error) ErrorKind {
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return evalErr.Kind
	}
	switch {
	case errors.Is(err, ErrDivisionByZero):
		return KindDivisionByZero
	case errors.Is(err, ErrDomain):
		return KindDomain
	case errors.Is(err, ErrUnknownSymbol):
		return KindUnknownSymbol
	case errors.Is(err, ErrOverflow):
		return KindOverflow
	default:
		return KindSyntax
	}
}

// EvaluationError is the single error type returned for a malformed or undefined expression.
type EvaluationError struct {
	Kind       ErrorKind
	Expression string
	// Pos is the byte offset in Expression where the problem was found, or -1.
	Pos int
	// Err holds the detail, may be nil.
	Err error
}

// NewEvaluationError builds an EvaluationError. A nil err leaves only the kind sentinel as cause.
func NewEvaluationError(kind ErrorKind, expression string, pos int, err error) *EvaluationError {
	return &EvaluationError{
		Kind:       kind,
		Expression: expression,
		Pos:        pos,
		Err:        err,
	}
}

func (e *EvaluationError) Error() string {
	msg := e.Kind.Sentinel().Error()
	switch {
	case e.Err == nil:
	case errors.Is(e.Err, e.Kind.Sentinel()):
		msg = e.Err.Error()
	default:
		msg = fmt.Sprintf("%s: %s", msg, e.Err)
	}
	if e.Pos >= 0 {
		msg = fmt.Sprintf("%s (at position %d)", msg, e.Pos)
	}
	return msg
}

// Is reports true for ErrEvaluation so callers can match every kind at once.
func (e *EvaluationError) Is(target error) bool {
	return target == ErrEvaluation
}

func (e *EvaluationError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.Sentinel()}
	}
	return []error{e.Kind.Sentinel(), e.Err}
}

// AsEvaluationError unwraps err into an *EvaluationError when possible.
func AsEvaluationError(err error) (*EvaluationError, bool) {
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return evalErr, true
	}
	return nil, false
}

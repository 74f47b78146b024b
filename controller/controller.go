// Package controller turns keypad presses into an expression buffer, evaluates
// it and produces the text a calculator display shows.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/robbyt/go-calc/internal/helpers"
	"github.com/robbyt/go-calc/options"
	"github.com/robbyt/go-calc/platform"
	"github.com/robbyt/go-calc/platform/constants"
)

// entry is one key's contribution to the buffer. DEL removes whole entries.
type entry struct {
	display string
	expr    string
}

var entries = map[Key]entry{
	KeyDot:      {".", "."},
	KeyAdd:      {"+", "+"},
	KeySub:      {"-", "-"},
	KeyMul:      {"*", "*"},
	KeyDiv:      {"/", "/"},
	KeyOpen:     {"(", "("},
	KeyClose:    {")", ")"},
	KeyMod:      {" MOD ", "%"},
	KeyPower:    {"^(", "^("},
	KeyExpPower: {"e^(", "e^("},
	KeySci:      {"*10^(", "*10^("},
	KeySqrt:     {"√(", "sqrt("},
	KeyCbrt:     {"∛(", "cbrt("},
	KeyLog:      {"log(", "log("},
	KeyLn:       {"ln(", "ln("},
	KeySin:      {"sin(", "sin("},
	KeyAsin:     {"sin⁻¹(", "asin("},
	KeyPi:       {"π", "pi"},
	KeyE:        {"e", "e"},
	KeyAns:      {"ANS", constants.Ans},
}

type state int

const (
	stateEditing state = iota
	stateResult
	stateError
)

// Controller holds the calculator display state. It is not safe for concurrent use.
type Controller struct {
	evaluator platform.Evaluator
	formatter Formatter
	errorText string

	buffer  []entry
	shift   bool
	state   state
	display string

	ans    float64
	hasAns bool

	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates a Controller that evaluates with evaluator.
func New(evaluator platform.Evaluator, opts ...FunctionalOption) (*Controller, error) {
	if evaluator == nil {
		return nil, fmt.Errorf("evaluator cannot be nil")
	}

	c := &Controller{
		evaluator: evaluator,
		formatter: Formatter{Precision: options.DefaultPrecision},
		errorText: options.DefaultErrorText,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("error applying controller option: %w", err)
		}
	}
	c.logHandler, c.logger = helpers.SetupLogger(c.logHandler, "controller", "Controller")
	return c, nil
}

func (c *Controller) String() string {
	return fmt.Sprintf("Controller{Display: %q, Shift: %t}", c.display, c.shift)
}

// Display returns the text currently shown.
func (c *Controller) Display() string {
	return c.display
}

// Expression returns the buffer as the evaluator sees it.
func (c *Controller) Expression() string {
	var b strings.Builder
	for _, e := range c.buffer {
		b.WriteString(e.expr)
	}
	return b.String()
}

// Shift reports whether the shifted key functions are active.
func (c *Controller) Shift() bool {
	return c.shift
}

// Answer returns the last successful result.
func (c *Controller) Answer() (float64, bool) {
	return c.ans, c.hasAns
}

// ErrorText returns the token shown after a failed evaluation.
func (c *Controller) ErrorText() string {
	return c.errorText
}

// Press applies one key and returns the new display text.
func (c *Controller) Press(ctx context.Context, key Key) string {
	switch key {
	case KeyShift:
		c.shift = !c.shift
		return c.display
	case KeyEquals:
		display, _ := c.Evaluate(ctx)
		return display
	}

	if c.shift {
		key = key.Shifted()
	}
	if c.state != stateEditing {
		c.state = stateEditing
		c.buffer = c.buffer[:0]
	}

	switch key {
	case KeyAC:
		c.buffer = c.buffer[:0]
	case KeyDel:
		if len(c.buffer) > 0 {
			c.buffer = c.buffer[:len(c.buffer)-1]
		}
	default:
		if len(c.buffer) == 0 && c.hasAns && key.binaryOperator() {
			c.buffer = append(c.buffer, entries[KeyAns])
		}
		c.buffer = append(c.buffer, entryFor(key))
	}

	c.render()
	return c.display
}

func entryFor(key Key) entry {
	if e, ok := entries[key]; ok {
		return e
	}
	return entry{display: string(key), expr: string(key)}
}

func (c *Controller) render() {
	var b strings.Builder
	for _, e := range c.buffer {
		b.WriteString(e.display)
	}
	c.display = b.String()
}

// Clear empties the buffer and the display. The last answer is kept.
func (c *Controller) Clear() {
	c.buffer = c.buffer[:0]
	c.state = stateEditing
	c.display = ""
}

// Evaluate evaluates the buffer and resets it. On success the display shows
// the formatted result, which becomes the answer. On failure the display
// shows the error token, the answer is forgotten and the error is returned.
func (c *Controller) Evaluate(ctx context.Context) (string, error) {
	expression := c.Expression()
	logger := c.logger.WithGroup("Evaluate")
	c.buffer = c.buffer[:0]

	evalCtx := ctx
	if c.hasAns {
		var err error
		evalCtx, err = c.evaluator.AddDataToContext(ctx, map[string]any{constants.Ans: c.ans})
		if err != nil {
			logger.WarnContext(ctx, "failed to store answer", "error", err)
			evalCtx = ctx
		}
	}

	resp, err := c.evaluator.Eval(evalCtx, expression)
	if err != nil {
		if errors.Is(err, platform.ErrEvaluation) {
			logger.DebugContext(ctx, "evaluation error", "expression", expression, "error", err)
		} else {
			logger.WarnContext(ctx, "evaluation failed", "expression", expression, "error", err)
		}
		c.state = stateError
		c.display = c.errorText
		c.ans, c.hasAns = 0, false
		return c.display, err
	}

	c.ans, c.hasAns = resp.Float(), true
	c.state = stateResult
	c.display = c.formatter.Format(c.ans)
	logger.DebugContext(ctx, "evaluated", "expression", expression, "display", c.display)
	return c.display, nil
}

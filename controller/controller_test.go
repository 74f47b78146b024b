package controller

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/robbyt/go-calc/engines/mocks"
	"github.com/robbyt/go-calc/engines/native"
	"github.com/robbyt/go-calc/platform"
	"github.com/robbyt/go-calc/platform/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestController(t *testing.T, opts ...FunctionalOption) *Controller {
	t.Helper()
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn})
	opts = append([]FunctionalOption{WithLogHandler(handler)}, opts...)

	c, err := New(native.FromTable(handler, nil), opts...)
	require.NoError(t, err)
	return c
}

// press applies keys in order and returns the display after the last one.
func press(t *testing.T, c *Controller, keys ...Key) string {
	t.Helper()
	var display string
	for _, k := range keys {
		display = c.Press(t.Context(), k)
	}
	return display
}

func TestController_KeySequences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		keys     []Key
		before   string
		expected string
	}{
		{
			name:     "addition",
			keys:     []Key{Key2, KeyAdd, Key2},
			before:   "2+2",
			expected: "4",
		},
		{
			name:     "precedence",
			keys:     []Key{Key2, KeyAdd, Key3, KeyMul, Key4},
			before:   "2+3*4",
			expected: "14",
		},
		{
			name:     "decimal division",
			keys:     []Key{Key1, KeyDiv, Key3},
			before:   "1/3",
			expected: "0.333333333333",
		},
		{
			name:     "modulo",
			keys:     []Key{Key7, KeyMod, Key3},
			before:   "7 MOD 3",
			expected: "1",
		},
		{
			name:     "power",
			keys:     []Key{Key2, KeyPower, Key1, Key0, KeyClose},
			before:   "2^(10)",
			expected: "1024",
		},
		{
			name:     "scientific",
			keys:     []Key{Key3, KeySci, Key2, KeyClose},
			before:   "3*10^(2)",
			expected: "300",
		},
		{
			name:     "square root",
			keys:     []Key{KeySqrt, Key9, KeyClose},
			before:   "√(9)",
			expected: "3",
		},
		{
			name:     "log",
			keys:     []Key{KeyLog, Key1, Key0, Key0, Key0, KeyClose},
			before:   "log(1000)",
			expected: "3",
		},
		{
			name:     "sine in degrees",
			keys:     []Key{KeySin, Key3, Key0, KeyClose},
			before:   "sin(30)",
			expected: "0.5",
		},
		{
			name:     "pi",
			keys:     []Key{KeyPi},
			before:   "π",
			expected: "3.14159265359",
		},
		{
			name:     "e",
			keys:     []Key{KeyE, KeyMul, Key2},
			before:   "e*2",
			expected: "5.43656365692",
		},
		{
			name:     "parentheses",
			keys:     []Key{KeyOpen, Key1, KeyAdd, Key2, KeyClose, KeyMul, Key3},
			before:   "(1+2)*3",
			expected: "9",
		},
		{
			name:     "decimal point",
			keys:     []Key{Key0, KeyDot, Key5, KeyMul, Key4},
			before:   "0.5*4",
			expected: "2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestController(t)
			assert.Equal(t, tt.before, press(t, c, tt.keys...))
			assert.Equal(t, tt.expected, press(t, c, KeyEquals))
			assert.Empty(t, c.Expression())
		})
	}
}

func TestController_Shift(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		key      Key
		arg      []Key
		before   string
		expected string
	}{
		{"cube root", KeySqrt, []Key{Key2, Key7}, "∛(27)", "3"},
		{"e power", KeyPower, []Key{Key0}, "e^(0)", "1"},
		{"natural log", KeyLog, []Key{Key1}, "ln(1)", "0"},
		{"arcsine", KeySin, []Key{Key1}, "sin⁻¹(1)", "90"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestController(t)
			press(t, c, KeyShift)
			require.True(t, c.Shift())
			press(t, c, tt.key)
			press(t, c, tt.arg...)
			assert.Equal(t, tt.before, press(t, c, KeyClose))
			assert.Equal(t, tt.expected, press(t, c, KeyEquals))

			press(t, c, KeyShift)
			assert.False(t, c.Shift())
		})
	}
}

func TestController_ErrorThenClear(t *testing.T) {
	t.Parallel()
	c := newTestController(t)

	press(t, c, Key1, Key0, KeyDiv, Key0)
	display, err := c.Evaluate(t.Context())
	require.Error(t, err)
	assert.True(t, errors.Is(err, platform.ErrDivisionByZero))
	assert.Equal(t, "ERROR", display)
	assert.Equal(t, "ERROR", c.Display())
	assert.Empty(t, c.Expression())

	assert.Equal(t, "", press(t, c, KeyAC))
	assert.Empty(t, c.Expression())
}

func TestController_ErrorCases(t *testing.T) {
	t.Parallel()

	tests := map[string][]Key{
		"log of negative":   {KeyLog, KeySub, Key1, KeyClose},
		"unbalanced":        {KeyOpen, Key1, KeyAdd, Key2},
		"empty":             {},
		"dangling operator": {Key2, KeyMul},
		"answer before any": {KeyAns, KeyAdd, Key1},
		"square root range": {KeySqrt, KeySub, Key4, KeyClose},
	}
	for name, keys := range tests {
		t.Run(name, func(t *testing.T) {
			c := newTestController(t)
			press(t, c, keys...)
			assert.Equal(t, "ERROR", press(t, c, KeyEquals))
			_, ok := c.Answer()
			assert.False(t, ok)
		})
	}
}

func TestController_TypingAfterResult(t *testing.T) {
	t.Parallel()

	t.Run("digit starts fresh", func(t *testing.T) {
		c := newTestController(t)
		press(t, c, Key2, KeyMul, Key3, KeyEquals)
		assert.Equal(t, "5", press(t, c, Key5))
		assert.Equal(t, "5", press(t, c, KeyEquals))
	})

	t.Run("operator continues from answer", func(t *testing.T) {
		c := newTestController(t)
		press(t, c, Key2, KeyMul, Key3, KeyEquals)
		assert.Equal(t, "ANS+", press(t, c, KeyAdd))
		assert.Equal(t, "ans+", c.Expression())
		assert.Equal(t, "10", press(t, c, Key4, KeyEquals))

		assert.Equal(t, "ANS MOD ", press(t, c, KeyMod))
		assert.Equal(t, "1", press(t, c, Key3, KeyEquals))
	})

	t.Run("scientific continues from answer", func(t *testing.T) {
		c := newTestController(t)
		press(t, c, Key2, KeyEquals)
		assert.Equal(t, "ANS*10^(", press(t, c, KeySci))
		assert.Equal(t, "200", press(t, c, Key2, KeyClose, KeyEquals))
	})

	t.Run("answer key", func(t *testing.T) {
		c := newTestController(t)
		press(t, c, Key5, KeyEquals)
		assert.Equal(t, "ANS*ANS", press(t, c, KeyAns, KeyMul, KeyAns))
		assert.Equal(t, "25", press(t, c, KeyEquals))

		v, ok := c.Answer()
		require.True(t, ok)
		assert.Equal(t, 25.0, v)
	})

	t.Run("error forgets answer", func(t *testing.T) {
		c := newTestController(t)
		press(t, c, Key5, KeyEquals)
		press(t, c, Key1, KeyDiv, Key0, KeyEquals)
		assert.Equal(t, "+", press(t, c, KeyAdd))
	})

	t.Run("digit after error starts fresh", func(t *testing.T) {
		c := newTestController(t)
		press(t, c, KeyDiv, KeyEquals)
		assert.Equal(t, "7", press(t, c, Key7))
	})
}

func TestController_Delete(t *testing.T) {
	t.Parallel()
	c := newTestController(t)

	assert.Equal(t, "2+sin(", press(t, c, Key2, KeyAdd, KeySin))
	assert.Equal(t, "2+", press(t, c, KeyDel))
	assert.Equal(t, "2+ANS", press(t, c, KeyAns))
	assert.Equal(t, "2+", press(t, c, KeyDel))
	assert.Equal(t, "2+ MOD ", press(t, c, KeyMod))
	assert.Equal(t, "2+", press(t, c, KeyDel))
	assert.Equal(t, "", press(t, c, KeyDel, KeyDel))
	assert.Equal(t, "", press(t, c, KeyDel))
}

func TestController_Idempotent(t *testing.T) {
	t.Parallel()
	c := newTestController(t)

	first := press(t, c, KeySqrt, Key2, KeyClose, KeyMul, KeyPi, KeyEquals)
	second := press(t, c, KeySqrt, Key2, KeyClose, KeyMul, KeyPi, KeyEquals)
	assert.Equal(t, first, second)
}

func TestController_Options(t *testing.T) {
	t.Parallel()

	c := newTestController(t, WithErrorText("Error"), WithPrecision(4))
	assert.Equal(t, "Error", c.ErrorText())
	assert.Equal(t, "Error", press(t, c, KeyDiv, KeyEquals))
	assert.Equal(t, "3.142", press(t, c, KeyPi, KeyEquals))

	_, err := New(nil)
	require.Error(t, err)

	handler := slog.NewTextHandler(os.Stdout, nil)
	for _, opt := range []FunctionalOption{WithErrorText(""), WithPrecision(0), WithLogHandler(nil)} {
		_, err := New(native.FromTable(handler, nil), opt)
		require.Error(t, err)
	}
}

func TestController_UsesEvaluator(t *testing.T) {
	t.Parallel()

	resp := &mocks.EvaluatorResponse{}
	resp.On("Float").Return(6.0)

	ansCtx := context.WithValue(t.Context(), constants.EvalData, map[string]any{constants.Ans: 6.0})
	m := &mocks.Evaluator{}
	m.On("Eval", mock.Anything, "2*3").Return(resp, nil).Once()
	m.On("AddDataToContext", mock.Anything, []map[string]any{{constants.Ans: 6.0}}).Return(ansCtx, nil).Once()
	m.On("Eval", ansCtx, "ans+1").Return(nil, context.Canceled).Once()

	var logs bytes.Buffer
	c, err := New(m, WithLogHandler(slog.NewTextHandler(&logs, nil)))
	require.NoError(t, err)

	assert.Equal(t, "6", press(t, c, Key2, KeyMul, Key3, KeyEquals))

	press(t, c, KeyAdd, Key1)
	display, err := c.Evaluate(t.Context())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, "ERROR", display)
	assert.Contains(t, logs.String(), "evaluation failed")

	m.AssertExpectations(t)
	resp.AssertExpectations(t)
}

func TestController_StoreAnswerFailure(t *testing.T) {
	t.Parallel()

	first := &mocks.EvaluatorResponse{}
	first.On("Float").Return(1.0)
	second := &mocks.EvaluatorResponse{}
	second.On("Float").Return(2.0)

	m := &mocks.Evaluator{}
	m.On("Eval", mock.Anything, "1").Return(first, nil).Once()
	m.On("AddDataToContext", mock.Anything, mock.Anything).Return(t.Context(), errors.New("no provider")).Once()
	m.On("Eval", mock.Anything, "2").Return(second, nil).Once()

	c, err := New(m, WithLogHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
	require.NoError(t, err)

	assert.Equal(t, "1", press(t, c, Key1, KeyEquals))
	assert.Equal(t, "2", press(t, c, Key2, KeyEquals))
	m.AssertExpectations(t)
}

package evaluator

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"os"
	"testing"

	"github.com/robbyt/go-calc/engines/govaluate/compiler"
	"github.com/robbyt/go-calc/platform"
	"github.com/robbyt/go-calc/platform/constants"
	"github.com/robbyt/go-calc/platform/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalBuilder(t *testing.T) *Evaluator {
	t.Helper()
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn})
	comp, err := compiler.New(compiler.WithLogHandler(handler))
	require.NoError(t, err)
	return New(handler, comp, data.NewContextProvider(constants.EvalData))
}

func TestEvaluator_Eval(t *testing.T) {
	t.Parallel()
	e := evalBuilder(t)

	tests := []struct {
		input    string
		expected float64
	}{
		{"2+2", 4},
		{"2+3*4", 14},
		{"100/10/5", 2},
		{"-7%3", 2},
		{"2^3^2", 512},
		{"2^-1", 0.5},
		{"sqrt(9)", 3},
		{"pi", math.Pi},
		{"sin(0)", 0},
		{"√(16)+∛(-8)", 2},
		{"sqrt(sqrt(81))+sqrt(4)", 5},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			resp, err := e.Eval(t.Context(), tt.input)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, resp.Float(), 1e-12)
		})
	}
}

func TestEvaluator_Errors(t *testing.T) {
	t.Parallel()
	e := evalBuilder(t)

	tests := []struct {
		input string
		kind  platform.ErrorKind
		pos   int
	}{
		{"10/0", platform.KindDivisionByZero, 2},
		{"log(-1)", platform.KindDomain, 0},
		{"tau", platform.KindUnknownSymbol, 0},
		{"2+*3", platform.KindSyntax, 2},
		{"10^400", platform.KindOverflow, 2},
		{"1e300*1e300", platform.KindOverflow, -1},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := e.Eval(t.Context(), tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, platform.ErrEvaluation))
			evalErr, ok := platform.AsEvaluationError(err)
			require.True(t, ok)
			assert.Equal(t, tt.kind, evalErr.Kind, "got %v", err)
			assert.Equal(t, tt.pos, evalErr.Pos)
		})
	}
}

func TestEvaluator_Variables(t *testing.T) {
	t.Parallel()
	e := evalBuilder(t)

	ctx, err := e.AddDataToContext(t.Context(), map[string]any{constants.Ans: 4, "in": 2.0})
	require.NoError(t, err)
	resp, err := e.Eval(ctx, "ans*in")
	require.NoError(t, err)
	assert.Equal(t, 8.0, resp.Float())

	ctx, err = e.AddDataToContext(t.Context(), map[string]any{"sqrt": 5.0})
	require.NoError(t, err)
	_, err = e.Eval(ctx, "sqrt+1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, data.ErrReservedName), "got %v", err)
}

func TestEvaluator_CancelledContext(t *testing.T) {
	t.Parallel()
	e := evalBuilder(t)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err := e.Eval(ctx, "1")
	require.ErrorIs(t, err, context.Canceled)

	_, err = New(nil, nil, nil).Eval(t.Context(), "1")
	require.Error(t, err)
}

func TestEvaluator_Logging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	comp, err := compiler.New(compiler.WithLogHandler(handler))
	require.NoError(t, err)
	e := New(handler, comp, nil)

	_, err = e.Eval(t.Context(), "2+2")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "evaluation complete")
	assert.Equal(t, "govaluate.Evaluator", e.String())
}

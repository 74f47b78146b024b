package starlark

import (
	"log/slog"
	"os"
	"testing"

	"github.com/robbyt/go-calc/engines/native"
	"github.com/robbyt/go-calc/platform"
	"github.com/robbyt/go-calc/platform/constants"
	"github.com/robbyt/go-calc/platform/symbols"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromTable(t *testing.T) {
	t.Parallel()
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn})

	e, err := FromTable(handler, nil, 0)
	require.NoError(t, err)
	require.NotNil(t, e)

	ctx, err := e.AddDataToContext(t.Context(), map[string]any{constants.Ans: 5})
	require.NoError(t, err)
	resp, err := e.Eval(ctx, "ans+1")
	require.NoError(t, err)
	assert.Equal(t, 6.0, resp.Float())
}

func TestFromTableWithData(t *testing.T) {
	t.Parallel()
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn})

	e, err := FromTableWithData(handler, symbols.NewTable(symbols.Radians), 0, map[string]any{"x": 2.0, "y": 3.0})
	require.NoError(t, err)

	resp, err := e.Eval(t.Context(), "x*y")
	require.NoError(t, err)
	assert.Equal(t, 6.0, resp.Float())

	ctx, err := e.AddDataToContext(t.Context(), map[string]any{"y": 10})
	require.NoError(t, err)
	resp, err = e.Eval(ctx, "x*y")
	require.NoError(t, err)
	assert.Equal(t, 20.0, resp.Float())
}

// Both engines must agree on values and on error kinds and positions.
func TestEnginesAgree(t *testing.T) {
	t.Parallel()
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn})

	nativeEval := native.FromTable(handler, nil)
	starlarkEval, err := FromTable(handler, nil, 0)
	require.NoError(t, err)

	inputs := []string{
		"2+2", "2+3*4", "(2+3)*4", "7/2", "-7%3", "7%-3", "2^3^2", "-2^2", "2**-1",
		"sqrt(9)", "√(16)+∛(-8)", "log(1000)", "ln(e)", "pi", "π*2", "sin(0)", "sin(30)",
		"asin(1)", "cos(60)", "tan(45)", "abs(-3.5)", "exp(1)", "1e-400", "0.1+0.2",
		"3×4÷2", "3−1", "1.5e3*2", "--3", "+-+3",
		"10/0", "10%0", "0^-1", "log(-1)", "sqrt(-4)", "asin(2)", "(-8)^(1/3)", "tan(90)",
		"tau", "foo(1)", "sqrt", "sqrt+1", "2+*3", "", "(1+2", "1+2)", "sqrt 4", "1e400",
		"10^400", "exp(1000)", "sqrt(1/0)", "1..2",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			wantResp, wantErr := nativeEval.Eval(t.Context(), input)
			gotResp, gotErr := starlarkEval.Eval(t.Context(), input)

			if wantErr != nil {
				require.Error(t, gotErr)
				want, ok := platform.AsEvaluationError(wantErr)
				require.True(t, ok)
				got, ok := platform.AsEvaluationError(gotErr)
				require.True(t, ok, "got %v", gotErr)
				assert.Equal(t, want.Kind, got.Kind, "native: %v, starlark: %v", wantErr, gotErr)
				assert.Equal(t, want.Pos, got.Pos)
				return
			}
			require.NoError(t, gotErr)
			assert.Equal(t, wantResp.Float(), gotResp.Float())
			assert.Equal(t, wantResp.GetExpressionID(), gotResp.GetExpressionID())
		})
	}
}

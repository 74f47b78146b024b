package data

import (
	"context"
	"errors"
	"testing"

	"github.com/robbyt/go-calc/platform/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) GetData(ctx context.Context) (map[string]any, error) {
	args := m.Called(ctx)
	if d, ok := args.Get(0).(map[string]any); ok {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProvider) AddDataToContext(ctx context.Context, d ...map[string]any) (context.Context, error) {
	args := m.Called(ctx, d)
	return args.Get(0).(context.Context), args.Error(1)
}

func TestCompositeProvider_GetData(t *testing.T) {
	t.Parallel()

	t.Run("later providers override earlier ones", func(t *testing.T) {
		static := NewStaticProvider(map[string]any{"rate": 0.2, "ans": 1.0})
		dynamic := NewContextProvider(constants.EvalData)
		composite := NewCompositeProvider(static, nil, dynamic)

		ctx, err := composite.AddDataToContext(t.Context(), map[string]any{"ans": 7.0})
		require.NoError(t, err)

		got, err := composite.GetData(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"rate": 0.2, "ans": 7.0}, got)
	})

	t.Run("provider failure stops the merge", func(t *testing.T) {
		failing := &mockProvider{}
		failing.On("GetData", mock.Anything).Return(nil, errors.New("boom"))
		composite := NewCompositeProvider(NewStaticProvider(nil), failing)

		got, err := composite.GetData(t.Context())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error from provider 1")
		assert.Nil(t, got)
		failing.AssertExpectations(t)
	})
}

func TestCompositeProvider_AddDataToContext(t *testing.T) {
	t.Parallel()

	t.Run("only static providers", func(t *testing.T) {
		composite := NewCompositeProvider(NewStaticProvider(nil), NewStaticProvider(nil))
		ctx := t.Context()
		newCtx, err := composite.AddDataToContext(ctx, map[string]any{"a": 1})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrStaticProviderNoRuntimeUpdates))
		assert.Equal(t, ctx, newCtx)
	})

	t.Run("static refusals are ignored next to a dynamic provider", func(t *testing.T) {
		composite := NewCompositeProvider(
			NewStaticProvider(nil),
			NewContextProvider(constants.EvalData),
		)
		_, err := composite.AddDataToContext(t.Context(), map[string]any{"a": 1})
		require.NoError(t, err)
	})

	t.Run("dynamic provider error is reported", func(t *testing.T) {
		failing := &mockProvider{}
		failing.On("AddDataToContext", mock.Anything, mock.Anything).
			Return(t.Context(), errors.New("store failed"))

		composite := NewCompositeProvider(failing)
		_, err := composite.AddDataToContext(t.Context(), map[string]any{"a": 1})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "store failed")
		failing.AssertExpectations(t)
	})

	t.Run("no providers", func(t *testing.T) {
		composite := NewCompositeProvider()
		ctx := t.Context()
		newCtx, err := composite.AddDataToContext(ctx)
		require.NoError(t, err)
		assert.Equal(t, ctx, newCtx)
	})
}

package data

import (
	"context"
	"maps"
)

// StaticProvider returns a fixed set of variables regardless of the context.
// Useful for user-defined values that hold for the life of an evaluator.
type StaticProvider struct {
	data map[string]any
}

// NewStaticProvider creates a new StaticProvider. The map is copied.
func NewStaticProvider(data map[string]any) *StaticProvider {
	if data == nil {
		data = make(map[string]any)
	}
	return &StaticProvider{
		data: maps.Clone(data),
	}
}

// GetData returns a copy of the static variables.
func (p *StaticProvider) GetData(ctx context.Context) (map[string]any, error) {
	return maps.Clone(p.data), nil
}

// AddDataToContext always fails: static variables cannot change at runtime.
func (p *StaticProvider) AddDataToContext(
	ctx context.Context,
	data ...map[string]any,
) (context.Context, error) {
	return ctx, ErrStaticProviderNoRuntimeUpdates
}

package data

import (
	"context"
	"errors"
	"fmt"
	"maps"
)

// CompositeProvider combines multiple providers, with later providers
// overriding values from earlier ones in the chain.
type CompositeProvider struct {
	providers []Provider
}

// NewCompositeProvider creates a provider that queries given providers in order.
func NewCompositeProvider(providers ...Provider) *CompositeProvider {
	return &CompositeProvider{
		providers: providers,
	}
}

// GetData merges the variables of every provider. Returns error on first provider failure.
func (p *CompositeProvider) GetData(ctx context.Context) (map[string]any, error) {
	result := make(map[string]any)

	for i, provider := range p.providers {
		if provider == nil {
			continue
		}

		d, err := provider.GetData(ctx)
		if err != nil {
			return nil, fmt.Errorf("error from provider %d: %w", i, err)
		}
		maps.Copy(result, d)
	}

	return result, nil
}

// AddDataToContext hands the data to every provider that accepts runtime updates.
// StaticProvider refusals are ignored unless no other provider exists.
//
// Example:
//
//	static := NewStaticProvider(map[string]any{"rate": 0.2})
//	dynamic := NewContextProvider(constants.EvalData)
//	composite := NewCompositeProvider(static, dynamic)
//	ctx, err := composite.AddDataToContext(ctx, map[string]any{"ans": 42.0})
func (p *CompositeProvider) AddDataToContext(
	ctx context.Context,
	data ...map[string]any,
) (context.Context, error) {
	finalCtx := ctx
	var staticErrs, errs []error
	accepted := 0

	for i, provider := range p.providers {
		if provider == nil {
			continue
		}

		nextCtx, err := provider.AddDataToContext(finalCtx, data...)
		if errors.Is(err, ErrStaticProviderNoRuntimeUpdates) {
			staticErrs = append(staticErrs, fmt.Errorf("error from provider %d: %w", i, err))
			continue
		}
		accepted++
		if err != nil {
			errs = append(errs, fmt.Errorf("error from provider %d: %w", i, err))
		}
		finalCtx = nextCtx
	}

	if accepted == 0 {
		return ctx, errors.Join(staticErrs...)
	}
	return finalCtx, errors.Join(errs...)
}

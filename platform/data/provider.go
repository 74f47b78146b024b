package data

import (
	"context"
	"errors"
)

// ErrStaticProviderNoRuntimeUpdates is returned when runtime data is added to a StaticProvider.
var ErrStaticProviderNoRuntimeUpdates = errors.New("StaticProvider doesn't support adding data at runtime")

// Getter defines the interface for retrieving variables from a context.
type Getter interface {
	GetData(ctx context.Context) (map[string]any, error)
}

// Setter prepares variables for expression evaluation by enriching a context.
type Setter interface {
	// AddDataToContext enriches a context with named values for evaluation.
	// Later maps override earlier ones for duplicate names.
	//
	// Example:
	//  ctx, err := evaluator.AddDataToContext(ctx, map[string]any{"ans": 42.0})
	//  if err != nil {
	//      return err
	//  }
	//  result, err := evaluator.Eval(ctx, "ans/2")
	AddDataToContext(ctx context.Context, data ...map[string]any) (context.Context, error)
}

// Provider defines the interface for accessing variables during evaluation.
type Provider interface {
	Getter
	Setter
}

// Package calc is the entry point of the calculator core: it builds
// expression evaluators and display controllers from functional options.
package calc

import (
	"context"
	"fmt"
	"slices"

	"github.com/robbyt/go-calc/controller"
	govaluateCompiler "github.com/robbyt/go-calc/engines/govaluate/compiler"
	govaluateEvaluator "github.com/robbyt/go-calc/engines/govaluate/evaluator"
	nativeEvaluator "github.com/robbyt/go-calc/engines/native/evaluator"
	risorCompiler "github.com/robbyt/go-calc/engines/risor/compiler"
	risorEvaluator "github.com/robbyt/go-calc/engines/risor/evaluator"
	"github.com/robbyt/go-calc/engines/starlark/compiler"
	starlarkEvaluator "github.com/robbyt/go-calc/engines/starlark/evaluator"
	"github.com/robbyt/go-calc/engines/types"
	"github.com/robbyt/go-calc/options"
	"github.com/robbyt/go-calc/platform"
)

// NewEvaluator creates an evaluator for the engine chosen with options.WithEngine,
// the native engine by default.
func NewEvaluator(opts ...options.Option) (platform.Evaluator, error) {
	cfg, err := buildConfig(types.Native, opts...)
	if err != nil {
		return nil, err
	}
	return createEvaluator(cfg)
}

// NewNativeEvaluator creates an evaluator that walks the parsed expression in Go
func NewNativeEvaluator(opts ...options.Option) (platform.Evaluator, error) {
	return newEngineEvaluator(types.Native, opts...)
}

// NewStarlarkEvaluator creates an evaluator that runs expressions as Starlark programs
func NewStarlarkEvaluator(opts ...options.Option) (platform.Evaluator, error) {
	return newEngineEvaluator(types.Starlark, opts...)
}

// NewGovaluateEvaluator creates an evaluator that runs expressions through govaluate
func NewGovaluateEvaluator(opts ...options.Option) (platform.Evaluator, error) {
	return newEngineEvaluator(types.Govaluate, opts...)
}

// NewRisorEvaluator creates an evaluator that runs expressions as Risor programs
func NewRisorEvaluator(opts ...options.Option) (platform.Evaluator, error) {
	return newEngineEvaluator(types.Risor, opts...)
}

// newEngineEvaluator builds an evaluator for engineType. The type is applied
// after opts, so options.WithEngine cannot switch it.
func newEngineEvaluator(engineType types.Type, opts ...options.Option) (platform.Evaluator, error) {
	pinned := append(slices.Clip(opts), options.WithEngine(engineType))
	cfg, err := buildConfig(engineType, pinned...)
	if err != nil {
		return nil, err
	}
	return createEvaluator(cfg)
}

// NewController creates a display controller backed by the configured evaluator
func NewController(opts ...options.Option) (*controller.Controller, error) {
	cfg, err := buildConfig(types.Native, opts...)
	if err != nil {
		return nil, err
	}

	evaluator, err := createEvaluator(cfg)
	if err != nil {
		return nil, err
	}

	return controller.New(
		evaluator,
		controller.WithLogHandler(cfg.GetHandler()),
		controller.WithErrorText(cfg.GetErrorText()),
		controller.WithPrecision(cfg.GetPrecision()),
	)
}

// Eval evaluates one expression with the native engine and default settings.
// Failures to evaluate the expression are *platform.EvaluationError values.
func Eval(ctx context.Context, expression string) (float64, error) {
	evaluator, err := NewNativeEvaluator()
	if err != nil {
		return 0, err
	}

	resp, err := evaluator.Eval(ctx, expression)
	if err != nil {
		return 0, err
	}
	return resp.Float(), nil
}

// buildConfig starts from the engine defaults, applies opts, fills in
// anything still unset and validates the result.
func buildConfig(engineType types.Type, opts ...options.Option) (*options.Config, error) {
	cfg := options.DefaultConfig(engineType)

	if err := cfg.Apply(opts...); err != nil {
		return nil, fmt.Errorf("error applying option: %w", err)
	}

	if err := options.WithDefaults()(cfg); err != nil {
		return nil, fmt.Errorf("error applying defaults: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// createEvaluator builds the evaluator for the configured engine type
func createEvaluator(cfg *options.Config) (platform.Evaluator, error) {
	switch cfg.GetEngineType() {
	case types.Native:
		return nativeEvaluator.New(cfg.GetHandler(), cfg.GetSymbols(), cfg.GetDataProvider()), nil
	case types.Starlark:
		comp, err := compiler.New(
			compiler.WithLogHandler(cfg.GetHandler()),
			compiler.WithSymbols(cfg.GetSymbols()),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create starlark compiler: %w", err)
		}
		return starlarkEvaluator.New(
			cfg.GetHandler(), comp, cfg.GetDataProvider(), cfg.GetMaxSteps()), nil
	case types.Govaluate:
		comp, err := govaluateCompiler.New(
			govaluateCompiler.WithLogHandler(cfg.GetHandler()),
			govaluateCompiler.WithSymbols(cfg.GetSymbols()),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create govaluate compiler: %w", err)
		}
		return govaluateEvaluator.New(cfg.GetHandler(), comp, cfg.GetDataProvider()), nil
	case types.Risor:
		comp, err := risorCompiler.New(
			risorCompiler.WithLogHandler(cfg.GetHandler()),
			risorCompiler.WithSymbols(cfg.GetSymbols()),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create risor compiler: %w", err)
		}
		return risorEvaluator.New(
			cfg.GetHandler(), comp, cfg.GetDataProvider(), cfg.GetMaxSteps()), nil
	default:
		return nil, fmt.Errorf("unsupported engine type: %s", cfg.GetEngineType())
	}
}

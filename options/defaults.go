package options

import (
	"log/slog"
	"os"

	"github.com/robbyt/go-calc/engines/types"
	"github.com/robbyt/go-calc/platform/constants"
	"github.com/robbyt/go-calc/platform/data"
	"github.com/robbyt/go-calc/platform/symbols"
)

// Defaults shared by the evaluator constructors and the display controller.
const (
	DefaultErrorText        = "ERROR"
	DefaultPrecision        = 12
	DefaultMaxSteps  uint64 = 10_000

	MinPrecision = 1
	MaxPrecision = 17
)

// DefaultConfig initializes a Config with sensible defaults
func DefaultConfig(engineType types.Type) *Config {
	return &Config{
		engineType:   engineType,
		handler:      DefaultHandler(),
		angleUnit:    symbols.Degrees,
		dataProvider: DefaultDataProvider(),
		maxSteps:     DefaultMaxSteps,
		errorText:    DefaultErrorText,
		precision:    DefaultPrecision,
	}
}

// DefaultHandler returns the default logging handler
func DefaultHandler() slog.Handler {
	return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})
}

// DefaultDataProvider returns the default data provider, which reads
// variables stored in the context by AddDataToContext
func DefaultDataProvider() data.Provider {
	return data.NewContextProvider(constants.EvalData)
}

// WithDefaults applies default values to any config properties that are unset
func WithDefaults() Option {
	return func(c *Config) error {
		if c.engineType == "" {
			c.engineType = types.Native
		}
		if c.handler == nil {
			c.handler = DefaultHandler()
		}
		if c.dataProvider == nil {
			c.dataProvider = DefaultDataProvider()
		}
		if c.maxSteps == 0 {
			c.maxSteps = DefaultMaxSteps
		}
		if c.errorText == "" {
			c.errorText = DefaultErrorText
		}
		if c.precision == 0 {
			c.precision = DefaultPrecision
		}
		return nil
	}
}

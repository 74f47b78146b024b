package options

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/robbyt/go-calc/engines/types"
	"github.com/robbyt/go-calc/platform/constants"
	"github.com/robbyt/go-calc/platform/data"
	"github.com/robbyt/go-calc/platform/symbols"
)

// ErrInvalidOption is returned when an option value is out of range.
var ErrInvalidOption = errors.New("invalid option")

// Config holds all configuration for creating an evaluator or a controller
type Config struct {
	// Logger for the engine
	handler slog.Handler
	// Type of engine to use (native, starlark, govaluate, risor)
	engineType types.Type
	// Constant and function table; when nil one is built for angleUnit
	table     *symbols.Table
	angleUnit symbols.AngleUnit
	// Data provider for passing variables to the evaluator
	dataProvider data.Provider
	// Names set with WithStaticVariables, checked against the table in Validate
	staticVars map[string]any
	// Base execution step budget for the starlark and risor engines
	maxSteps uint64
	// Display settings used by the controller
	errorText string
	precision int
}

// Option is a function that modifies Config
type Option func(*Config) error

// Apply runs opts against c and returns every failure joined.
func (c *Config) Apply(opts ...Option) error {
	var errz []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errz = append(errz, err)
		}
	}
	return errors.Join(errz...)
}

// WithLogHandler sets the log handler for the evaluator and the controller
func WithLogHandler(handler slog.Handler) Option {
	return func(c *Config) error {
		if handler != nil {
			c.handler = handler
		}
		return nil
	}
}

// WithEngine selects the evaluation engine
func WithEngine(engineType types.Type) Option {
	return func(c *Config) error {
		if _, err := types.Parse(string(engineType)); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidOption, err)
		}
		c.engineType = engineType
		return nil
	}
}

// WithSymbols sets the constant and function table. It takes precedence over WithAngleUnit.
func WithSymbols(table *symbols.Table) Option {
	return func(c *Config) error {
		if table == nil {
			return fmt.Errorf("%w: symbol table cannot be nil", ErrInvalidOption)
		}
		c.table = table
		return nil
	}
}

// WithAngleUnit sets the unit trigonometric functions use
func WithAngleUnit(unit symbols.AngleUnit) Option {
	return func(c *Config) error {
		if unit != symbols.Degrees && unit != symbols.Radians {
			return fmt.Errorf("%w: angle unit %d", ErrInvalidOption, unit)
		}
		c.angleUnit = unit
		return nil
	}
}

// WithDataProvider sets the data provider for variables
func WithDataProvider(provider data.Provider) Option {
	return func(c *Config) error {
		if provider != nil {
			c.dataProvider = provider
		}
		return nil
	}
}

// WithStaticVariables makes vars available to every evaluation, while still
// accepting runtime variables through AddDataToContext.
func WithStaticVariables(vars map[string]any) Option {
	return func(c *Config) error {
		if _, err := data.ToFloat64Map(vars); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidOption, err)
		}
		c.staticVars = vars
		c.dataProvider = data.NewCompositeProvider(
			data.NewStaticProvider(vars),
			data.NewContextProvider(constants.EvalData),
		)
		return nil
	}
}

// WithMaxSteps sets the base execution step budget of the starlark and risor engines
func WithMaxSteps(steps uint64) Option {
	return func(c *Config) error {
		if steps == 0 {
			return fmt.Errorf("%w: max steps must be positive", ErrInvalidOption)
		}
		c.maxSteps = steps
		return nil
	}
}

// WithErrorText sets the token the controller displays after a failed evaluation
func WithErrorText(text string) Option {
	return func(c *Config) error {
		if text == "" {
			return fmt.Errorf("%w: error text cannot be empty", ErrInvalidOption)
		}
		c.errorText = text
		return nil
	}
}

// WithPrecision sets the significant digits used to display results
func WithPrecision(digits int) Option {
	return func(c *Config) error {
		if digits < MinPrecision || digits > MaxPrecision {
			return fmt.Errorf("%w: precision %d outside [%d, %d]",
				ErrInvalidOption, digits, MinPrecision, MaxPrecision)
		}
		c.precision = digits
		return nil
	}
}

// Validate performs basic validation on the configuration
func (c *Config) Validate() error {
	if c.engineType == "" {
		return fmt.Errorf("no engine type specified")
	}
	if _, err := types.Parse(string(c.engineType)); err != nil {
		return err
	}
	if c.handler == nil {
		return fmt.Errorf("no log handler specified")
	}
	if c.errorText == "" {
		return fmt.Errorf("no error text specified")
	}
	if c.precision < MinPrecision || c.precision > MaxPrecision {
		return fmt.Errorf("precision %d outside [%d, %d]", c.precision, MinPrecision, MaxPrecision)
	}
	if err := data.CheckNames(c.staticVars, c.GetSymbols()); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOption, err)
	}
	return nil
}

// GetHandler returns the configured logger
func (c *Config) GetHandler() slog.Handler {
	return c.handler
}

// GetEngineType returns the configured engine type
func (c *Config) GetEngineType() types.Type {
	return c.engineType
}

// GetSymbols returns the configured table, or a default table for the angle unit
func (c *Config) GetSymbols() *symbols.Table {
	if c.table != nil {
		return c.table
	}
	return symbols.NewTable(c.angleUnit)
}

// GetDataProvider returns the configured data provider
func (c *Config) GetDataProvider() data.Provider {
	return c.dataProvider
}

func (c *Config) GetMaxSteps() uint64 {
	return c.maxSteps
}

func (c *Config) GetErrorText() string {
	return c.errorText
}

func (c *Config) GetPrecision() int {
	return c.precision
}

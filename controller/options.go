package controller

import (
	"fmt"
	"log/slog"

	"github.com/robbyt/go-calc/options"
)

// FunctionalOption configures a Controller.
type FunctionalOption func(*Controller) error

// WithErrorText sets the token shown after a failed evaluation.
func WithErrorText(text string) FunctionalOption {
	return func(c *Controller) error {
		if text == "" {
			return fmt.Errorf("error text cannot be empty")
		}
		c.errorText = text
		return nil
	}
}

// WithPrecision sets the significant digits kept when displaying results.
func WithPrecision(digits int) FunctionalOption {
	return func(c *Controller) error {
		if digits < options.MinPrecision || digits > options.MaxPrecision {
			return fmt.Errorf("precision %d outside [%d, %d]", digits, options.MinPrecision, options.MaxPrecision)
		}
		c.formatter.Precision = digits
		return nil
	}
}

// WithLogHandler sets the log handler for the controller.
func WithLogHandler(handler slog.Handler) FunctionalOption {
	return func(c *Controller) error {
		if handler == nil {
			return fmt.Errorf("log handler cannot be nil")
		}
		c.logHandler = handler
		return nil
	}
}

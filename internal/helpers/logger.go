package helpers

import (
	"log/slog"
	"os"
)

// SetupLogger creates a configured logger for an engine or component.
// If the provided handler is nil, it creates a default stderr text handler grouped under componentName.
//
// Parameters:
//   - handler: The slog.Handler to use, or nil for defaults
//   - componentName: The name of the engine or component (e.g., "native", "starlark", "controller")
//   - groupName: Optional additional group name within the component
//
// Returns:
//   - The configured handler
//   - A logger created from the handler
func SetupLogger(
	handler slog.Handler,
	componentName string,
	groupName string,
) (slog.Handler, *slog.Logger) {
	if handler == nil {
		defaultHandler := slog.NewTextHandler(os.Stderr, nil)
		handler = defaultHandler.WithGroup(componentName)
		defaultLogger := slog.New(handler)
		defaultLogger.Warn("Handler is nil, using the default logger configuration.")
	}

	var logger *slog.Logger
	if groupName != "" {
		logger = slog.New(handler.WithGroup(groupName))
	} else {
		logger = slog.New(handler)
	}

	return handler, logger
}

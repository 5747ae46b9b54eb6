package helpers

import (
	"log/slog"
	"os"
)

// SetupLogger returns a handler and a grouped logger for one component.
// A nil handler is replaced by a text handler on stderr, grouped under the
// component name, and a warning is logged so a missing handler is visible.
//
// Parameters:
//   - handler: The slog.Handler to use, or nil for defaults
//   - component: The component name (e.g., "coordinator", "starlark")
//   - groupName: Optional additional group name within the component
func SetupLogger(handler slog.Handler, component string, groupName string) (slog.Handler, *slog.Logger) {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, nil).WithGroup(component)
		slog.New(handler).Warn("Handler is nil, using the default logger configuration.")
	}

	if groupName == "" {
		return handler, slog.New(handler)
	}
	return handler, slog.New(handler.WithGroup(groupName))
}

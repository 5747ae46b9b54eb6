package risor

import (
	"fmt"
	"log/slog"

	"github.com/robbyt/go-compilepad/internal/helpers"
)

// FunctionalOption configures an Engine.
type FunctionalOption func(*Engine) error

// WithGlobal makes an extra Go value visible to every program.
func WithGlobal(name string, value any) FunctionalOption {
	return func(e *Engine) error {
		if name == "" {
			return fmt.Errorf("global name cannot be empty")
		}
		if name == "print" {
			return fmt.Errorf("global %q is reserved", name)
		}
		if value == nil {
			return fmt.Errorf("global %q has a nil value", name)
		}
		e.globals[name] = value
		return nil
	}
}

// WithoutModule removes one of the standard modules (json, math, strings).
func WithoutModule(name string) FunctionalOption {
	return func(e *Engine) error {
		if _, ok := e.globals[name]; !ok {
			return fmt.Errorf("unknown module %q", name)
		}
		delete(e.globals, name)
		return nil
	}
}

// WithLogHandler sets the log handler.
func WithLogHandler(handler slog.Handler) FunctionalOption {
	return func(e *Engine) error {
		if handler == nil {
			return fmt.Errorf("log handler cannot be nil")
		}
		e.logHandler = handler
		return nil
	}
}

func (e *Engine) applyDefaults() {
	e.logHandler, e.logger = helpers.SetupLogger(e.logHandler, "risor", "Engine")
}

package starlark

import (
	"fmt"
	"log/slog"

	"github.com/robbyt/go-compilepad/internal/helpers"
	starlarkLib "go.starlark.net/starlark"
)

// DefaultMaxSteps bounds the number of computation steps per run.
const DefaultMaxSteps uint64 = 100_000_000

// FunctionalOption configures an Engine.
type FunctionalOption func(*Engine) error

// WithMaxSteps bounds computation steps per run. Zero removes the bound.
func WithMaxSteps(steps uint64) FunctionalOption {
	return func(e *Engine) error {
		e.maxSteps = steps
		return nil
	}
}

// WithGlobal predeclares an extra value for every program.
func WithGlobal(name string, value starlarkLib.Value) FunctionalOption {
	return func(e *Engine) error {
		if name == "" {
			return fmt.Errorf("global name cannot be empty")
		}
		if value == nil {
			return fmt.Errorf("global %q has a nil value", name)
		}
		value.Freeze()
		e.predeclared[name] = value
		return nil
	}
}

// WithoutModule removes one of the standard modules (json, math, time).
func WithoutModule(name string) FunctionalOption {
	return func(e *Engine) error {
		if _, ok := e.predeclared[name]; !ok {
			return fmt.Errorf("unknown module %q", name)
		}
		delete(e.predeclared, name)
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
	e.logHandler, e.logger = helpers.SetupLogger(e.logHandler, "starlark", "Engine")
}

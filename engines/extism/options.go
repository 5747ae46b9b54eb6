package extism

import (
	"fmt"
	"log/slog"

	"github.com/robbyt/go-compilepad/internal/helpers"
	"github.com/tetratelabs/wazero"
)

// DefaultEntrypoint is the exported function called for each run.
const DefaultEntrypoint = "run"

// FunctionalOption configures an Engine.
type FunctionalOption func(*Engine) error

// WithEntrypoint sets the exported function called for each run.
func WithEntrypoint(name string) FunctionalOption {
	return func(e *Engine) error {
		if name == "" {
			return fmt.Errorf("entrypoint cannot be empty")
		}
		e.entrypoint = name
		return nil
	}
}

// WithWASI exposes WASI imports to the plugin.
func WithWASI(enabled bool) FunctionalOption {
	return func(e *Engine) error {
		e.settings.EnableWASI = enabled
		return nil
	}
}

// WithRuntimeConfig replaces the wazero runtime configuration.
func WithRuntimeConfig(cfg wazero.RuntimeConfig) FunctionalOption {
	return func(e *Engine) error {
		if cfg == nil {
			return fmt.Errorf("runtime config cannot be nil")
		}
		e.settings.RuntimeConfig = cfg
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
	if e.entrypoint == "" {
		e.entrypoint = DefaultEntrypoint
	}
	e.logHandler, e.logger = helpers.SetupLogger(e.logHandler, "extism", "Engine")
}

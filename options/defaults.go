package options

import (
	"log/slog"
	"os"

	"github.com/robbyt/go-compilepad/engines/extism"
	"github.com/robbyt/go-compilepad/engines/starlark"
	"github.com/robbyt/go-compilepad/engines/types"
	"github.com/robbyt/go-compilepad/platform/compiler"
	"github.com/robbyt/go-compilepad/platform/httpauth"
	"github.com/robbyt/go-compilepad/platform/sandbox"
)

// DefaultEndpoint is the compile route of a locally running playground.
const DefaultEndpoint = "http://localhost:3000/api/compile"

// EnvEndpoint overrides the endpoint from the environment.
const EnvEndpoint = "COMPILEPAD_ENDPOINT"

// DefaultConfig initializes a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		handler:          DefaultHandler(),
		endpoint:         DefaultEndpoint,
		compileTimeout:   compiler.DefaultTimeout,
		authenticator:    httpauth.NewNoAuth(),
		engineType:       types.Default,
		execTimeout:      sandbox.DefaultTimeout,
		maxLines:         sandbox.DefaultMaxLines,
		maxSteps:         starlark.DefaultMaxSteps,
		autoRun:          true,
		extismEntrypoint: extism.DefaultEntrypoint,
	}
}

// DefaultHandler returns the default logging handler
func DefaultHandler() slog.Handler {
	return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})
}

// WithDefaults applies default values to any config properties that are unset
func WithDefaults() Option {
	return func(c *Config) error {
		if c.handler == nil {
			c.handler = DefaultHandler()
		}
		if c.endpoint == "" {
			c.endpoint = DefaultEndpoint
		}
		if c.authenticator == nil {
			c.authenticator = httpauth.NewNoAuth()
		}
		if c.engineType == "" {
			c.engineType = types.Default
		}
		if c.extismEntrypoint == "" {
			c.extismEntrypoint = extism.DefaultEntrypoint
		}
		return nil
	}
}

// FromEnv applies environment overrides.
func FromEnv() Option {
	return func(c *Config) error {
		if endpoint := os.Getenv(EnvEndpoint); endpoint != "" {
			c.endpoint = endpoint
		}
		return nil
	}
}

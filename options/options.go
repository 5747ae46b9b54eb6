// Package options configures a compilepad Session.
package options

import (
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/robbyt/go-compilepad/engines/types"
	"github.com/robbyt/go-compilepad/platform/compiler"
	"github.com/robbyt/go-compilepad/platform/httpauth"
	"github.com/robbyt/go-compilepad/platform/sandbox"
	"github.com/robbyt/go-compilepad/platform/script/loader"
)

// Config holds everything needed to build a Session.
type Config struct {
	// Logger for every component
	handler slog.Handler
	// Compile endpoint, used unless a compiler is set
	endpoint string
	// Per-request timeout of the HTTP compiler client
	compileTimeout time.Duration
	// Credentials sent to the compile endpoint
	authenticator httpauth.Authenticator
	// Compiler used instead of the HTTP client
	compiler compiler.Compiler
	// Interpreter for generated code
	engineType types.Type
	// Engine used instead of one built from engineType
	engine sandbox.Engine
	// Per-execution timeout and output bound
	execTimeout time.Duration
	maxLines    int
	// Starlark step bound
	maxSteps uint64
	// Execute after every successful compile
	autoRun bool
	// Initial editor content
	loader loader.Loader
	// Extism plugin settings
	extismPlugin     loader.Loader
	extismEntrypoint string
	extismWASI       bool
}

// Option is a function that modifies Config
type Option func(*Config) error

// WithLogger sets the log handler
func WithLogger(handler slog.Handler) Option {
	return func(c *Config) error {
		if handler != nil {
			c.handler = handler
		}
		return nil
	}
}

// WithEndpoint sets the compile endpoint URL
func WithEndpoint(endpoint string) Option {
	return func(c *Config) error {
		if endpoint == "" {
			return fmt.Errorf("endpoint cannot be empty")
		}
		c.endpoint = endpoint
		return nil
	}
}

// WithCompileTimeout bounds each compile request. Zero disables the limit.
func WithCompileTimeout(d time.Duration) Option {
	return func(c *Config) error {
		if d < 0 {
			return fmt.Errorf("compile timeout cannot be negative: %s", d)
		}
		c.compileTimeout = d
		return nil
	}
}

// WithAuthenticator sets the credentials for the compile endpoint
func WithAuthenticator(auth httpauth.Authenticator) Option {
	return func(c *Config) error {
		if auth != nil {
			c.authenticator = auth
		}
		return nil
	}
}

// WithCompiler replaces the HTTP compiler client
func WithCompiler(comp compiler.Compiler) Option {
	return func(c *Config) error {
		if comp == nil {
			return fmt.Errorf("compiler cannot be nil")
		}
		c.compiler = comp
		return nil
	}
}

// WithEngine selects the interpreter for generated code
func WithEngine(t types.Type) Option {
	return func(c *Config) error {
		parsed, err := types.Parse(string(t))
		if err != nil {
			return err
		}
		c.engineType = parsed
		return nil
	}
}

// WithSandboxEngine supplies a ready engine, bypassing WithEngine
func WithSandboxEngine(e sandbox.Engine) Option {
	return func(c *Config) error {
		if e == nil {
			return fmt.Errorf("engine cannot be nil")
		}
		c.engine = e
		return nil
	}
}

// WithExecTimeout bounds each execution. Zero disables the limit.
func WithExecTimeout(d time.Duration) Option {
	return func(c *Config) error {
		if d < 0 {
			return fmt.Errorf("exec timeout cannot be negative: %s", d)
		}
		c.execTimeout = d
		return nil
	}
}

// WithMaxLines bounds the number of captured output lines
func WithMaxLines(n int) Option {
	return func(c *Config) error {
		if n < 0 {
			return fmt.Errorf("max lines cannot be negative: %d", n)
		}
		c.maxLines = n
		return nil
	}
}

// WithMaxSteps bounds Starlark computation steps. Zero disables the limit.
func WithMaxSteps(steps uint64) Option {
	return func(c *Config) error {
		c.maxSteps = steps
		return nil
	}
}

// WithAutoRun controls whether Run executes after a successful compile
func WithAutoRun(enabled bool) Option {
	return func(c *Config) error {
		c.autoRun = enabled
		return nil
	}
}

// WithLoader sets the loader for the initial editor content
func WithLoader(l loader.Loader) Option {
	return func(c *Config) error {
		if l != nil {
			c.loader = l
		}
		return nil
	}
}

// WithExtismPlugin sets the loader for the WASM interpreter plugin
func WithExtismPlugin(l loader.Loader) Option {
	return func(c *Config) error {
		if l == nil {
			return fmt.Errorf("plugin loader cannot be nil")
		}
		c.extismPlugin = l
		return nil
	}
}

// WithExtismEntrypoint sets the plugin function called for each run
func WithExtismEntrypoint(name string) Option {
	return func(c *Config) error {
		if name == "" {
			return fmt.Errorf("entrypoint cannot be empty")
		}
		c.extismEntrypoint = name
		return nil
	}
}

// WithExtismWASI exposes WASI imports to the plugin
func WithExtismWASI(enabled bool) Option {
	return func(c *Config) error {
		c.extismWASI = enabled
		return nil
	}
}

// Validate performs basic validation on the configuration
func (c *Config) Validate() error {
	if c.compiler == nil {
		if c.endpoint == "" {
			return fmt.Errorf("no endpoint specified")
		}
		if _, err := url.Parse(c.endpoint); err != nil {
			return fmt.Errorf("invalid endpoint: %w", err)
		}
	}
	if c.engine == nil {
		if _, err := types.Parse(string(c.engineType)); err != nil {
			return err
		}
		if c.engineType == types.Extism && c.extismPlugin == nil {
			return fmt.Errorf("extism engine requires a plugin")
		}
	}
	return nil
}

// GetHandler returns the configured log handler
func (c *Config) GetHandler() slog.Handler {
	return c.handler
}

// GetEndpoint returns the compile endpoint URL
func (c *Config) GetEndpoint() string {
	return c.endpoint
}

// GetCompileTimeout returns the compile request timeout
func (c *Config) GetCompileTimeout() time.Duration {
	return c.compileTimeout
}

// GetAuthenticator returns the endpoint credentials
func (c *Config) GetAuthenticator() httpauth.Authenticator {
	return c.authenticator
}

// GetCompiler returns the compiler override, if any
func (c *Config) GetCompiler() compiler.Compiler {
	return c.compiler
}

// GetEngineType returns the interpreter type
func (c *Config) GetEngineType() types.Type {
	return c.engineType
}

// GetEngine returns the engine override, if any
func (c *Config) GetEngine() sandbox.Engine {
	return c.engine
}

// GetExecTimeout returns the execution timeout
func (c *Config) GetExecTimeout() time.Duration {
	return c.execTimeout
}

// GetMaxLines returns the captured line bound
func (c *Config) GetMaxLines() int {
	return c.maxLines
}

// GetMaxSteps returns the Starlark step bound
func (c *Config) GetMaxSteps() uint64 {
	return c.maxSteps
}

// GetAutoRun reports whether Run executes after compiling
func (c *Config) GetAutoRun() bool {
	return c.autoRun
}

// GetLoader returns the loader for the initial editor content
func (c *Config) GetLoader() loader.Loader {
	return c.loader
}

// GetExtismPlugin returns the plugin loader
func (c *Config) GetExtismPlugin() loader.Loader {
	return c.extismPlugin
}

// GetExtismEntrypoint returns the plugin entrypoint
func (c *Config) GetExtismEntrypoint() string {
	return c.extismEntrypoint
}

// GetExtismWASI reports whether WASI is enabled for the plugin
func (c *Config) GetExtismWASI() bool {
	return c.extismWASI
}

// Package compilepad is the client of a source-to-source compiler
// playground: it holds the text being edited, sends it to a remote
// compiler, and runs the generated code in a local sandbox.
package compilepad

import (
	"context"
	"fmt"

	"github.com/robbyt/go-compilepad/engines/extism"
	"github.com/robbyt/go-compilepad/engines/risor"
	"github.com/robbyt/go-compilepad/engines/starlark"
	"github.com/robbyt/go-compilepad/engines/types"
	"github.com/robbyt/go-compilepad/options"
	"github.com/robbyt/go-compilepad/platform/compiler"
	"github.com/robbyt/go-compilepad/platform/coordinator"
	"github.com/robbyt/go-compilepad/platform/editor"
	"github.com/robbyt/go-compilepad/platform/sandbox"
	"github.com/robbyt/go-compilepad/platform/script/loader"
)

// New creates a Session from options applied over options.DefaultConfig.
func New(opts ...options.Option) (*Session, error) {
	cfg := options.DefaultConfig()

	// Apply all options
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("error applying option: %w", err)
		}
	}

	// Apply defaults option as final step to fill in any missing values
	if err := options.WithDefaults()(cfg); err != nil {
		return nil, fmt.Errorf("error applying defaults: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return createSession(context.Background(), cfg)
}

// FromString creates a Session whose editor starts with source.
func FromString(source string, opts ...options.Option) (*Session, error) {
	l, err := loader.NewFromString(source)
	if err != nil {
		return nil, err
	}
	return New(append([]options.Option{options.WithLoader(l)}, opts...)...)
}

// FromFile creates a Session whose editor starts with the file's content.
func FromFile(path string, opts ...options.Option) (*Session, error) {
	l, err := loader.NewFromDisk(path)
	if err != nil {
		return nil, err
	}
	return New(append([]options.Option{options.WithLoader(l)}, opts...)...)
}

// FromConfigFile creates a Session from a TOML config file. opts are
// applied after the file, so they win.
func FromConfigFile(path string, opts ...options.Option) (*Session, error) {
	f, err := options.LoadFile(path)
	if err != nil {
		return nil, err
	}
	fileOpts, err := f.Options()
	if err != nil {
		return nil, err
	}
	return New(append(fileOpts, opts...)...)
}

func createSession(ctx context.Context, cfg *options.Config) (*Session, error) {
	handler := cfg.GetHandler()

	ed := editor.New(handler)
	if l := cfg.GetLoader(); l != nil {
		if err := ed.Load(l); err != nil {
			return nil, fmt.Errorf("failed to load initial source: %w", err)
		}
	}

	comp, err := newCompiler(cfg)
	if err != nil {
		return nil, err
	}
	coord, err := coordinator.New(handler, comp)
	if err != nil {
		return nil, err
	}

	engine, closer, err := newEngine(ctx, cfg)
	if err != nil {
		return nil, err
	}
	sb, err := sandbox.New(handler, engine,
		sandbox.WithTimeout(cfg.GetExecTimeout()),
		sandbox.WithMaxLines(cfg.GetMaxLines()),
	)
	if err != nil {
		return nil, err
	}

	return newSession(handler, ed, coord, sb, cfg.GetAutoRun(), closer), nil
}

func newCompiler(cfg *options.Config) (compiler.Compiler, error) {
	if c := cfg.GetCompiler(); c != nil {
		return c, nil
	}
	return compiler.NewHTTPClient(cfg.GetEndpoint(),
		compiler.WithTimeout(cfg.GetCompileTimeout()),
		compiler.WithAuthenticator(cfg.GetAuthenticator()),
		compiler.WithLogHandler(cfg.GetHandler()),
	)
}

// newEngine builds the configured engine. The returned closer releases
// engine resources and may be nil.
func newEngine(ctx context.Context, cfg *options.Config) (sandbox.Engine, func(context.Context) error, error) {
	if e := cfg.GetEngine(); e != nil {
		return e, nil, nil
	}

	handler := cfg.GetHandler()
	switch cfg.GetEngineType() {
	case types.Starlark:
		e, err := starlark.New(
			starlark.WithMaxSteps(cfg.GetMaxSteps()),
			starlark.WithLogHandler(handler),
		)
		return e, nil, err
	case types.Risor:
		e, err := risor.New(risor.WithLogHandler(handler))
		return e, nil, err
	case types.Extism:
		e, err := extism.FromLoader(ctx, cfg.GetExtismPlugin(),
			extism.WithEntrypoint(cfg.GetExtismEntrypoint()),
			extism.WithWASI(cfg.GetExtismWASI()),
			extism.WithLogHandler(handler),
		)
		if err != nil {
			return nil, nil, err
		}
		return e, e.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported engine type: %s", cfg.GetEngineType())
	}
}

// Package extism runs generated code inside a WASM interpreter plugin.
//
// The plugin exports one function (default "run") taking {"code": "..."}
// and returning {"lines": [...], "value": "..." | null, "error": "..."}.
// Each run gets a fresh plugin instance.
package extism

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robbyt/go-compilepad/engines/extism/adapters"
	"github.com/robbyt/go-compilepad/engines/extism/internal/compile"
	"github.com/robbyt/go-compilepad/engines/types"
	"github.com/robbyt/go-compilepad/internal/helpers"
	"github.com/robbyt/go-compilepad/platform/sandbox"
	"github.com/robbyt/go-compilepad/platform/script/loader"
)

// Engine implements sandbox.Engine on top of a compiled Extism plugin.
type Engine struct {
	plugin     adapters.CompiledPlugin
	entrypoint string
	settings   *compile.Settings

	logHandler slog.Handler
	logger     *slog.Logger
}

// New compiles wasm (raw or base64) into an Engine.
func New(ctx context.Context, wasm []byte, opts ...FunctionalOption) (*Engine, error) {
	e, err := configure(opts...)
	if err != nil {
		return nil, err
	}
	plugin, err := compile.Bytes(ctx, wasm, e.settings)
	if err != nil {
		return nil, err
	}
	e.plugin = plugin
	e.logger.DebugContext(ctx, "plugin compiled",
		"bytes", len(wasm),
		"sha256", helpers.SHA256Bytes(wasm),
		"entrypoint", e.entrypoint,
	)
	return e, nil
}

// FromLoader reads the plugin from ldr and compiles it.
func FromLoader(ctx context.Context, ldr loader.Loader, opts ...FunctionalOption) (*Engine, error) {
	wasm, err := loader.ReadAll(ldr)
	if err != nil {
		return nil, fmt.Errorf("failed to load plugin: %w", err)
	}
	return New(ctx, wasm, opts...)
}

func newWithPlugin(plugin adapters.CompiledPlugin, opts ...FunctionalOption) (*Engine, error) {
	if plugin == nil {
		return nil, fmt.Errorf("plugin is nil")
	}
	e, err := configure(opts...)
	if err != nil {
		return nil, err
	}
	e.plugin = plugin
	return e, nil
}

func configure(opts ...FunctionalOption) (*Engine, error) {
	e := &Engine{settings: compile.DefaultSettings()}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("error applying option: %w", err)
		}
	}
	e.applyDefaults()
	return e, nil
}

// Name returns "extism".
func (e *Engine) Name() string {
	return types.Extism.String()
}

func (e *Engine) String() string {
	return fmt.Sprintf("extism.Engine{Entrypoint: %s}", e.entrypoint)
}

// Close releases the compiled plugin.
func (e *Engine) Close(ctx context.Context) error {
	return e.plugin.Close(ctx)
}

// Run executes code in a new plugin instance.
func (e *Engine) Run(ctx context.Context, code string, out *sandbox.Capture) (sandbox.FinalValue, error) {
	logger := e.logger.WithGroup("Run")

	input, err := encodeRequest(code)
	if err != nil {
		return sandbox.Undefined, fmt.Errorf("failed to encode input: %w", err)
	}

	instance, err := e.plugin.Instance(ctx, adapters.NewPluginInstanceConfig())
	if err != nil {
		return sandbox.Undefined, fmt.Errorf("failed to create plugin instance: %w", err)
	}
	defer func() {
		if err := instance.Close(ctx); err != nil {
			logger.WarnContext(ctx, "failed to close plugin instance", "error", err)
		}
	}()

	if !instance.FunctionExists(e.entrypoint) {
		return sandbox.Undefined, fmt.Errorf("%w: %s", ErrEntrypointMissing, e.entrypoint)
	}

	startTime := time.Now()
	exit, output, err := instance.CallWithContext(ctx, e.entrypoint, input)
	execTime := time.Since(startTime)
	if err != nil {
		if ctx.Err() != nil {
			return sandbox.Undefined, fmt.Errorf("execution cancelled: %w", ctx.Err())
		}
		return sandbox.Undefined, fmt.Errorf("execution failed: %w", err)
	}
	if exit != 0 {
		return sandbox.Undefined, fmt.Errorf("%w: %d", ErrNonZeroExit, exit)
	}

	resp, err := decodeResponse(output)
	if err != nil {
		return sandbox.Undefined, err
	}
	logger.DebugContext(ctx, "plugin call complete",
		"lines", len(resp.Lines),
		"execTime", execTime,
	)

	// Lines printed before a failure are still recorded.
	for _, line := range resp.Lines {
		out.Append(line)
	}
	if resp.Error != "" {
		return sandbox.Undefined, fmt.Errorf("%w: %s", ErrProgramFailed, resp.Error)
	}
	if resp.Value == nil {
		return sandbox.Undefined, nil
	}
	return sandbox.Defined(*resp.Value), nil
}

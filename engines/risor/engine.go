// Package risor runs generated code on the Risor interpreter.
//
// Programs see Risor's pure builtins and the json, math and strings
// modules. print() goes to the run's capture and the value of the last
// expression becomes the run's final value.
package risor

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	risorLib "github.com/risor-io/risor"
	"github.com/risor-io/risor/object"

	"github.com/robbyt/go-compilepad/engines/risor/internal/compile"
	"github.com/robbyt/go-compilepad/engines/types"
	"github.com/robbyt/go-compilepad/platform/sandbox"
)

// Engine implements sandbox.Engine for Risor.
type Engine struct {
	globals map[string]any

	logHandler slog.Handler
	logger     *slog.Logger
}

type evalResult struct {
	obj object.Object
	err error
}

// New creates a Risor engine.
func New(opts ...FunctionalOption) (*Engine, error) {
	e := &Engine{globals: standardModules()}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("error applying option: %w", err)
		}
	}
	e.applyDefaults()
	return e, nil
}

// Name returns "risor".
func (e *Engine) Name() string {
	return types.Risor.String()
}

func (e *Engine) String() string {
	return "risor.Engine"
}

// Run compiles and evaluates code. The VM runs on its own goroutine so a
// cancelled ctx returns promptly even while the program is still looping.
func (e *Engine) Run(ctx context.Context, code string, out *sandbox.Capture) (sandbox.FinalValue, error) {
	logger := e.logger.WithGroup("Run")

	globals := runGlobals(e.globals, out)
	bc, err := compile.Compile(ctx, code, slices.Sorted(maps.Keys(globals)))
	if err != nil {
		return sandbox.Undefined, err
	}

	done := make(chan evalResult, 1)
	startTime := time.Now()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- evalResult{err: fmt.Errorf("%w: %v", sandbox.ErrEnginePanic, r)}
			}
		}()
		obj, err := risorLib.EvalCode(ctx, bc,
			risorLib.WithoutDefaultGlobals(),
			risorLib.WithGlobals(globals),
		)
		done <- evalResult{obj: obj, err: err}
	}()

	var res evalResult
	select {
	case res = <-done:
	case <-ctx.Done():
		logger.WarnContext(ctx, "abandoning running program", "error", ctx.Err())
		return sandbox.Undefined, fmt.Errorf("risor execution cancelled: %w", context.Cause(ctx))
	}
	logger.DebugContext(ctx, "program finished", "execTime", time.Since(startTime))

	if res.err != nil {
		return sandbox.Undefined, fmt.Errorf("risor execution error: %w", res.err)
	}
	return finalValue(res.obj)
}

// finalValue converts the program's result object. An error object counts
// as a failure.
func finalValue(obj object.Object) (sandbox.FinalValue, error) {
	switch v := obj.(type) {
	case nil, *object.NilType:
		return sandbox.Undefined, nil
	case *object.Error:
		return sandbox.Undefined, fmt.Errorf("error returned from script: %s", v.Inspect())
	default:
		return sandbox.Defined(display(v)), nil
	}
}

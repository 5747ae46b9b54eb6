// Package starlark runs generated code on the Starlark interpreter.
//
// Programs see the Starlark universe plus the json, math and time modules;
// load() is not available. print() goes to the run's capture, and a
// trailing expression statement becomes the run's final value.
package starlark

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robbyt/go-compilepad/engines/types"
	"github.com/robbyt/go-compilepad/platform/sandbox"
	starlarkLib "go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// resultName is the global a trailing expression is assigned to.
const resultName = "__final__"

// filename appears in error positions.
const filename = "generated.star"

// Engine implements sandbox.Engine for Starlark.
type Engine struct {
	maxSteps    uint64
	predeclared starlarkLib.StringDict
	fileOptions *syntax.FileOptions

	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates a Starlark engine.
func New(opts ...FunctionalOption) (*Engine, error) {
	e := &Engine{
		maxSteps:    DefaultMaxSteps,
		predeclared: standardModules(),
		fileOptions: &syntax.FileOptions{
			Set:             true,
			While:           true,
			TopLevelControl: true,
			GlobalReassign:  true,
			Recursion:       true,
		},
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("error applying option: %w", err)
		}
	}
	e.applyDefaults()
	return e, nil
}

// Name returns "starlark".
func (e *Engine) Name() string {
	return types.Starlark.String()
}

func (e *Engine) String() string {
	return "starlark.Engine"
}

// compile parses code and turns a trailing expression statement into an
// assignment to resultName.
func (e *Engine) compile(code string) (*starlarkLib.Program, error) {
	f, err := e.fileOptions.Parse(filename, code, 0)
	if err != nil {
		return nil, err
	}

	if n := len(f.Stmts); n > 0 {
		if last, ok := f.Stmts[n-1].(*syntax.ExprStmt); ok {
			start, _ := last.X.Span()
			f.Stmts[n-1] = &syntax.AssignStmt{
				OpPos: start,
				Op:    syntax.EQ,
				LHS:   &syntax.Ident{NamePos: start, Name: resultName},
				RHS:   last.X,
			}
		}
	}

	return starlarkLib.FileProgram(f, e.predeclared.Has)
}

// Run compiles and executes code on a fresh thread.
func (e *Engine) Run(ctx context.Context, code string, out *sandbox.Capture) (sandbox.FinalValue, error) {
	logger := e.logger.WithGroup("Run")

	prog, err := e.compile(code)
	if err != nil {
		return sandbox.Undefined, err
	}

	thread := &starlarkLib.Thread{
		Name: "exec",
		Print: func(_ *starlarkLib.Thread, msg string) {
			out.Append(msg)
		},
	}
	if e.maxSteps > 0 {
		thread.SetMaxExecutionSteps(e.maxSteps)
	}

	stop := context.AfterFunc(ctx, func() {
		thread.Cancel(context.Cause(ctx).Error())
	})
	defer stop()

	startTime := time.Now()
	globals, err := prog.Init(thread, e.predeclared)
	logger.DebugContext(ctx, "program finished",
		"execTime", time.Since(startTime),
		"steps", thread.ExecutionSteps(),
	)
	if err != nil {
		return sandbox.Undefined, err
	}

	v, ok := globals[resultName]
	if !ok || v == nil || v == starlarkLib.None {
		return sandbox.Undefined, nil
	}
	return sandbox.Defined(valueString(v)), nil
}

// valueString renders a final value: strings without quotes, everything
// else in its Starlark form.
func valueString(v starlarkLib.Value) string {
	if s, ok := v.(starlarkLib.String); ok {
		return s.GoString()
	}
	return v.String()
}

// Package mocks provides testify mocks of the engine and compiler interfaces.
package mocks

import (
	"context"

	"github.com/robbyt/go-compilepad/platform/compiler"
	"github.com/robbyt/go-compilepad/platform/sandbox"
	"github.com/stretchr/testify/mock"
)

// Engine is a mock implementation of sandbox.Engine.
type Engine struct {
	mock.Mock
}

// Name is a mock implementation of the Name method.
func (m *Engine) Name() string {
	args := m.Called()
	return args.String(0)
}

// Run is a mock implementation of the Run method. A func(*sandbox.Capture)
// passed as the third return value is invoked with out, letting tests
// simulate print calls.
func (m *Engine) Run(ctx context.Context, code string, out *sandbox.Capture) (sandbox.FinalValue, error) {
	args := m.Called(ctx, code, out)
	if len(args) > 2 {
		if printer, ok := args.Get(2).(func(*sandbox.Capture)); ok && printer != nil {
			printer(out)
		}
	}
	return args.Get(0).(sandbox.FinalValue), args.Error(1)
}

// Compiler is a mock implementation of compiler.Compiler.
type Compiler struct {
	mock.Mock
}

// Compile is a mock implementation of the Compile method.
func (m *Compiler) Compile(ctx context.Context, source string) (*compiler.Result, error) {
	args := m.Called(ctx, source)
	if res, ok := args.Get(0).(*compiler.Result); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

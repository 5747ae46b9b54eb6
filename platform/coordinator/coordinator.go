// Package coordinator runs compile requests against a remote compiler and
// keeps the resulting tokens, syntax tree, generated code and error message
// in named slots.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/robbyt/go-compilepad/internal/helpers"
	"github.com/robbyt/go-compilepad/platform/compiler"
)

// Coordinator serializes compile results into slots. Every call takes a
// sequence number; only the latest trigger may write the slots.
type Coordinator struct {
	compiler compiler.Compiler

	mu        sync.Mutex
	state     Snapshot
	inFlight  int
	listeners []func(Snapshot)

	logger *slog.Logger
}

// New creates a Coordinator using c for every request.
func New(handler slog.Handler, c compiler.Compiler) (*Coordinator, error) {
	if c == nil {
		return nil, fmt.Errorf("compiler is nil")
	}
	_, logger := helpers.SetupLogger(handler, "coordinator", "Coordinator")
	return &Coordinator{
		compiler: c,
		logger:   logger,
	}, nil
}

func (c *Coordinator) String() string {
	s := c.Snapshot()
	return fmt.Sprintf("coordinator.Coordinator{Seq: %d, Compiling: %t}", s.Seq, s.IsCompiling)
}

// Snapshot returns a copy of the current slots.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// IsCompiling reports whether a request is in flight. Front ends use it to
// disable their compile control.
func (c *Coordinator) IsCompiling() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.IsCompiling
}

// OnChange registers fn to receive a snapshot after every slot change.
func (c *Coordinator) OnChange(fn func(Snapshot)) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// TriggerCompile sends source to the compiler and stores the outcome.
//
// On success the three result slots are replaced and the message cleared.
// On any failure the message is set and the result slots are cleared in the
// same step. The in-flight flag is released on every path, including a
// panicking compiler. If a newer trigger was issued before this one
// resolved, the slots are left alone and ErrSuperseded is returned.
func (c *Coordinator) TriggerCompile(ctx context.Context, source string) (res *compiler.Result, err error) {
	seq := c.begin()
	logger := c.logger.WithGroup("TriggerCompile").With("seq", seq)
	logger.DebugContext(ctx, "compile triggered", "chars", len(source))

	defer func() {
		if r := recover(); r != nil {
			logger.ErrorContext(ctx, "compiler panicked", "panic", r)
			res = nil
			err = &compiler.TransportError{Err: fmt.Errorf("%w: %v", ErrCompilerPanic, r)}
		}
		if !c.finish(seq, res, err) {
			logger.InfoContext(ctx, "discarding superseded response")
			res, err = nil, fmt.Errorf("%w (seq %d)", ErrSuperseded, seq)
		}
	}()

	res, err = c.compiler.Compile(ctx, source)
	if err == nil && res == nil {
		err = &compiler.TransportError{Err: errors.New("compiler returned no result")}
	}
	if err != nil {
		logger.WarnContext(ctx, "compile failed", "error", err)
		return nil, err
	}
	res = res.Clone()
	return res, nil
}

// begin marks a request in flight and returns its sequence number.
func (c *Coordinator) begin() uint64 {
	c.mu.Lock()
	c.inFlight++
	c.state.Seq++
	c.state.IsCompiling = true
	seq := c.state.Seq
	snap, listeners := c.state.clone(), c.listeners
	c.mu.Unlock()

	notify(listeners, snap)
	return seq
}

// finish releases the in-flight flag and, when seq is still the latest
// trigger, writes the result slots. It reports whether seq was current.
func (c *Coordinator) finish(seq uint64, res *compiler.Result, err error) bool {
	c.mu.Lock()
	c.inFlight--
	c.state.IsCompiling = c.inFlight > 0

	current := seq == c.state.Seq
	if current {
		if err != nil {
			c.state.Tokens = nil
			c.state.SyntaxTree = ""
			c.state.GeneratedCode = ""
			c.state.Message = compiler.Message(err)
		} else {
			c.state.Tokens = slices.Clone(res.Tokens)
			c.state.SyntaxTree = res.SyntaxTree
			c.state.GeneratedCode = res.GeneratedCode
			c.state.Message = ""
		}
	}
	snap, listeners := c.state.clone(), c.listeners
	c.mu.Unlock()

	notify(listeners, snap)
	return current
}

func notify(listeners []func(Snapshot), snap Snapshot) {
	for _, fn := range listeners {
		fn(snap.clone())
	}
}

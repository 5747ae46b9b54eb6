// Package sandbox executes generated code and reduces what happened to a
// single Outcome: captured print lines, a final value, nothing, or a failure.
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/robbyt/go-compilepad/internal/helpers"
)

// DefaultTimeout bounds a single execution.
const DefaultTimeout = 5 * time.Second

// DefaultMaxLines bounds the number of captured lines.
const DefaultMaxLines = 10000

// Sandbox runs code on one Engine. It is safe for concurrent use: each
// execution gets its own Capture.
type Sandbox struct {
	engine   Engine
	timeout  time.Duration
	maxLines int

	logger *slog.Logger
}

// Option configures a Sandbox.
type Option func(*Sandbox) error

// WithTimeout bounds each execution. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(s *Sandbox) error {
		if d < 0 {
			return fmt.Errorf("timeout cannot be negative: %s", d)
		}
		s.timeout = d
		return nil
	}
}

// WithMaxLines bounds the number of captured lines. Zero keeps everything.
func WithMaxLines(n int) Option {
	return func(s *Sandbox) error {
		if n < 0 {
			return fmt.Errorf("max lines cannot be negative: %d", n)
		}
		s.maxLines = n
		return nil
	}
}

// New creates a Sandbox around engine.
func New(handler slog.Handler, engine Engine, opts ...Option) (*Sandbox, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine is nil")
	}
	_, logger := helpers.SetupLogger(handler, "sandbox", "Sandbox")

	s := &Sandbox{
		engine:   engine,
		timeout:  DefaultTimeout,
		maxLines: DefaultMaxLines,
		logger:   logger,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("error applying option: %w", err)
		}
	}
	return s, nil
}

func (s *Sandbox) String() string {
	return fmt.Sprintf("sandbox.Sandbox{Engine: %s, Timeout: %s}", s.engine.Name(), s.timeout)
}

// EngineName returns the name of the underlying engine.
func (s *Sandbox) EngineName() string {
	return s.engine.Name()
}

// Execute runs code and always returns an Outcome; errors and panics raised
// by the program or the engine become Failure outcomes.
func (s *Sandbox) Execute(ctx context.Context, code string) Outcome {
	logger := s.logger.WithGroup("Execute").With("engine", s.engine.Name())

	if strings.TrimSpace(code) == "" {
		logger.DebugContext(ctx, "blank code, nothing to run")
		return EmptyOutcome()
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	out := NewCapture(s.maxLines)
	startTime := time.Now()
	value, err := s.run(ctx, code, out)
	execTime := time.Since(startTime)

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w after %s: %w", ErrTimeout, s.timeout, err)
		}
		logger.DebugContext(ctx, "execution failed", "error", err, "execTime", execTime)
		return FailureOutcome(describe(err))
	}
	if dropped := out.Dropped(); dropped > 0 {
		logger.WarnContext(ctx, "output truncated", "dropped", dropped)
	}
	logger.DebugContext(ctx, "execution complete",
		"lines", out.Len(),
		"defined", value.Defined,
		"execTime", execTime,
	)

	return selectOutcome(out, value)
}

// run calls the engine, turning a panic into an error.
func (s *Sandbox) run(ctx context.Context, code string, out *Capture) (value FinalValue, err error) {
	defer func() {
		if r := recover(); r != nil {
			value, err = Undefined, fmt.Errorf("%w: %v", ErrEnginePanic, r)
		}
	}()
	return s.engine.Run(ctx, code, out)
}

// selectOutcome applies the priority: printed lines, then a defined final
// value, then Empty.
func selectOutcome(out *Capture, value FinalValue) Outcome {
	if out.Len() > 0 {
		return LinesOutcome(out.Lines())
	}
	if value.Defined {
		return ValueOutcome(value.Text)
	}
	return EmptyOutcome()
}

// describe returns the description carried by a Failure outcome.
func describe(err error) string {
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return "unknown error"
	}
	return msg
}

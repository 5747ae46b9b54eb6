package compilepad

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robbyt/go-compilepad/internal/helpers"
	"github.com/robbyt/go-compilepad/platform/compiler"
	"github.com/robbyt/go-compilepad/platform/coordinator"
	"github.com/robbyt/go-compilepad/platform/editor"
	"github.com/robbyt/go-compilepad/platform/sandbox"
)

// Session ties the editor, the compile coordinator and the sandbox
// together. Compilation and execution are separate steps joined only by
// Run.
type Session struct {
	editor      *editor.State
	coordinator *coordinator.Coordinator
	sandbox     *sandbox.Sandbox
	autoRun     bool
	closer      func(context.Context) error

	mu          sync.Mutex
	lastOutcome *sandbox.Outcome

	logger *slog.Logger
}

func newSession(
	handler slog.Handler,
	ed *editor.State,
	coord *coordinator.Coordinator,
	sb *sandbox.Sandbox,
	autoRun bool,
	closer func(context.Context) error,
) *Session {
	_, logger := helpers.SetupLogger(handler, "compilepad", "Session")
	return &Session{
		editor:      ed,
		coordinator: coord,
		sandbox:     sb,
		autoRun:     autoRun,
		closer:      closer,
		logger:      logger,
	}
}

func (s *Session) String() string {
	return fmt.Sprintf("compilepad.Session{Engine: %s, AutoRun: %t}", s.sandbox.EngineName(), s.autoRun)
}

// Editor returns the editor state.
func (s *Session) Editor() *editor.State {
	return s.editor
}

// Coordinator returns the compile coordinator.
func (s *Session) Coordinator() *coordinator.Coordinator {
	return s.coordinator
}

// Source returns the editor's current text.
func (s *Session) Source() string {
	return s.editor.GetValue()
}

// SetSource replaces the editor's text. It does not compile.
func (s *Session) SetSource(text string) {
	s.editor.SetValue(text)
}

// Compile sends the editor's current text to the compiler.
func (s *Session) Compile(ctx context.Context) (Report, error) {
	_, rep, err := s.compile(ctx)
	return rep, err
}

func (s *Session) compile(ctx context.Context) (*compiler.Result, Report, error) {
	res, err := s.coordinator.TriggerCompile(ctx, s.editor.GetValue())
	rep := Report{
		Snapshot:   s.coordinator.Snapshot(),
		Superseded: errors.Is(err, coordinator.ErrSuperseded),
	}
	return res, rep, err
}

// Execute runs code in the sandbox and records the outcome.
func (s *Session) Execute(ctx context.Context, code string) sandbox.Outcome {
	outcome := s.sandbox.Execute(ctx, code)

	s.mu.Lock()
	s.lastOutcome = &outcome
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "executed", "kind", outcome.Kind.String())
	return outcome
}

// Run compiles the editor's text and, when auto-run is on and the compile
// produced runnable code, executes it. A superseded compile never executes.
func (s *Session) Run(ctx context.Context) (Report, error) {
	logger := s.logger.WithGroup("Run")

	res, rep, err := s.compile(ctx)
	if err != nil {
		logger.DebugContext(ctx, "compile did not produce code", "error", err, "seq", rep.Snapshot.Seq)
		return rep, err
	}
	if !s.autoRun {
		return rep, nil
	}
	if !res.Runnable() {
		logger.DebugContext(ctx, "generated code is not runnable", "seq", rep.Snapshot.Seq)
		return rep, nil
	}

	outcome := s.Execute(ctx, res.GeneratedCode)
	rep.Outcome = &outcome
	return rep, nil
}

// LastOutcome returns the most recent execution outcome, if any.
func (s *Session) LastOutcome() (sandbox.Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastOutcome == nil {
		return sandbox.Outcome{}, false
	}
	return *s.lastOutcome, true
}

// Close releases engine resources.
func (s *Session) Close(ctx context.Context) error {
	if s.closer == nil {
		return nil
	}
	return s.closer(ctx)
}

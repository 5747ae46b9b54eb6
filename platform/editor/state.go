// Package editor holds the source text being edited.
package editor

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/robbyt/go-compilepad/internal/helpers"
	"github.com/robbyt/go-compilepad/platform/script/loader"
)

// Placeholder is the text a fresh editor starts with.
const Placeholder = "# Write your code here..."

// State owns the current source text. SetValue is the only mutation path;
// listeners registered with OnChange are told about every change but
// compilation is never started from here.
type State struct {
	mu        sync.RWMutex
	value     string
	listeners []func(string)

	logger *slog.Logger
}

// New creates a State holding Placeholder.
func New(handler slog.Handler) *State {
	return NewWithValue(handler, Placeholder)
}

// NewWithValue creates a State holding initial.
func NewWithValue(handler slog.Handler, initial string) *State {
	_, logger := helpers.SetupLogger(handler, "editor", "State")
	return &State{
		value:  initial,
		logger: logger,
	}
}

func (s *State) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fmt.Sprintf("editor.State{Chars: %d, Listeners: %d}", len(s.value), len(s.listeners))
}

// GetValue returns the current source text.
func (s *State) GetValue() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// SetValue replaces the source text. Any text is accepted, including "".
// Listeners run after the lock is released, in registration order.
func (s *State) SetValue(newText string) {
	s.mu.Lock()
	s.value = newText
	listeners := make([]func(string), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	s.logger.Debug("value changed", "chars", len(newText), "listeners", len(listeners))
	for _, fn := range listeners {
		fn(newText)
	}
}

// OnChange registers fn to be called with the new value after every SetValue.
func (s *State) OnChange(fn func(string)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Load replaces the source text with the content of ldr.
func (s *State) Load(ldr loader.Loader) error {
	content, err := loader.ReadAll(ldr)
	if err != nil {
		s.logger.Error("failed to load source", "error", err)
		return err
	}
	s.SetValue(string(content))
	return nil
}

package coordinator

import "errors"

// ErrSuperseded is returned when a newer trigger started before this one
// resolved; its response was discarded.
var ErrSuperseded = errors.New("compile request superseded by a newer request")

// ErrCompilerPanic wraps a panic raised by the compiler implementation.
var ErrCompilerPanic = errors.New("compiler panicked")

package sandbox

import "errors"

var (
	// ErrEnginePanic wraps a panic raised inside an engine.
	ErrEnginePanic = errors.New("engine panicked")

	// ErrTimeout is reported when an execution exceeds its time limit.
	ErrTimeout = errors.New("execution timed out")
)

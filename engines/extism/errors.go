package extism

import "errors"

var (
	ErrEntrypointMissing = errors.New("plugin does not export the entrypoint")
	ErrEmptyResponse     = errors.New("plugin returned no output")
	ErrMalformedResponse = errors.New("plugin returned malformed output")
	ErrNonZeroExit       = errors.New("plugin returned non-zero exit code")
	ErrProgramFailed     = errors.New("program failed")
)

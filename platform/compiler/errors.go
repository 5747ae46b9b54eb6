package compiler

import (
	"errors"
	"fmt"
)

// User-visible messages for each failure class.
const (
	MsgInputMissing   = "No code provided"
	MsgServiceGeneric = "An error occurred during compilation"
	MsgTransport      = "Error: Could not compile code"
)

var (
	// ErrInputMissing is returned for an empty compile request.
	ErrInputMissing = errors.New("no source text supplied")

	// ErrTransport marks every failure to complete the remote call.
	ErrTransport = errors.New("compiler service unreachable")

	// ErrEndpointInvalid is returned when the configured endpoint is unusable.
	ErrEndpointInvalid = errors.New("invalid compiler endpoint")
)

// ServiceError is a rejection by the compiler service, e.g. a syntax error.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("compiler service returned HTTP %d: %s", e.StatusCode, e.Message)
}

// TransportError wraps a network or decoding failure.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", ErrTransport, e.Err)
}

func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

func newTransportError(format string, args ...any) error {
	return &TransportError{Err: fmt.Errorf(format, args...)}
}

// Message maps err to the text shown to the user. Service messages are
// passed through verbatim.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var svcErr *ServiceError
	switch {
	case errors.Is(err, ErrInputMissing):
		return MsgInputMissing
	case errors.As(err, &svcErr):
		if svcErr.Message == "" {
			return MsgServiceGeneric
		}
		return svcErr.Message
	default:
		return MsgTransport
	}
}

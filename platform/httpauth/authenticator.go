// Package httpauth provides authentication strategies for outbound HTTP
// requests: calls to the remote compiler service and plugin downloads.
package httpauth

import (
	"context"
	"net/http"
)

// Authenticator applies credentials to an outbound request.
type Authenticator interface {
	// Authenticate modifies the request in place.
	Authenticate(req *http.Request) error

	// AuthenticateWithContext is Authenticate, but refuses to touch the
	// request once ctx is done.
	AuthenticateWithContext(ctx context.Context, req *http.Request) error

	// Name returns a descriptive name of the authentication method.
	Name() string
}

// applyAuthWithContext checks ctx before delegating to authFn.
func applyAuthWithContext(
	ctx context.Context,
	req *http.Request,
	authFn func(*http.Request) error,
) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	return authFn(req)
}

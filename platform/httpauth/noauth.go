package httpauth

import (
	"context"
	"net/http"
)

// NoAuth leaves requests untouched. It is the default for a compiler
// service running on localhost.
type NoAuth struct{}

// NewNoAuth creates a new NoAuth authenticator instance.
func NewNoAuth() *NoAuth {
	return &NoAuth{}
}

// Authenticate does nothing.
func (n *NoAuth) Authenticate(req *http.Request) error {
	return nil
}

// AuthenticateWithContext does nothing, but respects context cancellation.
func (n *NoAuth) AuthenticateWithContext(ctx context.Context, req *http.Request) error {
	return applyAuthWithContext(ctx, req, n.Authenticate)
}

// Name returns the name of the authentication method.
func (n *NoAuth) Name() string {
	return "None"
}

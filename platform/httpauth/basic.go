package httpauth

import (
	"context"
	"net/http"
)

// BasicAuth implements HTTP Basic Authentication (RFC 7617).
type BasicAuth struct {
	Username string
	Password string
}

// NewBasicAuth creates a BasicAuth authenticator. An empty username turns
// it into a no-op.
func NewBasicAuth(username, password string) *BasicAuth {
	return &BasicAuth{
		Username: username,
		Password: password,
	}
}

// Authenticate sets the Authorization header when a username is present.
func (b *BasicAuth) Authenticate(req *http.Request) error {
	if b.Username != "" {
		req.SetBasicAuth(b.Username, b.Password)
	}
	return nil
}

// AuthenticateWithContext applies basic authentication with context support.
func (b *BasicAuth) AuthenticateWithContext(ctx context.Context, req *http.Request) error {
	return applyAuthWithContext(ctx, req, b.Authenticate)
}

// Name returns the name of the authentication method.
func (b *BasicAuth) Name() string {
	return "Basic"
}

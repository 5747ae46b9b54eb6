package httpauth

import (
	"context"
	"maps"
	"net/http"
)

// HeaderAuth sets arbitrary headers, covering API keys and bearer tokens.
type HeaderAuth struct {
	Headers map[string]string
}

// NewHeaderAuth creates a HeaderAuth from a copy of headers.
func NewHeaderAuth(headers map[string]string) *HeaderAuth {
	return &HeaderAuth{
		Headers: maps.Clone(headers),
	}
}

// NewBearerAuth creates a HeaderAuth that sends "Authorization: Bearer <token>".
func NewBearerAuth(token string) *HeaderAuth {
	return &HeaderAuth{
		Headers: map[string]string{
			"Authorization": "Bearer " + token,
		},
	}
}

// Authenticate sets every configured header on the request.
func (h *HeaderAuth) Authenticate(req *http.Request) error {
	for key, value := range h.Headers {
		req.Header.Set(key, value)
	}
	return nil
}

// AuthenticateWithContext applies header-based authentication with context support.
func (h *HeaderAuth) AuthenticateWithContext(ctx context.Context, req *http.Request) error {
	return applyAuthWithContext(ctx, req, h.Authenticate)
}

// Name returns the name of the authentication method.
func (h *HeaderAuth) Name() string {
	return "Header"
}

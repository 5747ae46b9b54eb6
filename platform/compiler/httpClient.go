package compiler

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/robbyt/go-compilepad/platform/httpauth"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 16 << 20

// HTTPClient calls the compiler service with one JSON POST per compile.
type HTTPClient struct {
	endpoint  string
	timeout   time.Duration
	tlsConfig *tls.Config
	auth      httpauth.Authenticator
	headers   map[string]string
	client    *http.Client

	logHandler slog.Handler
	logger     *slog.Logger
}

// NewHTTPClient creates a client for the compile endpoint, e.g.
// "http://localhost:8000/compile".
func NewHTTPClient(endpoint string, opts ...FunctionalOption) (*HTTPClient, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEndpointInvalid, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrEndpointInvalid, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrEndpointInvalid)
	}

	c := &HTTPClient{
		endpoint: u.String(),
		timeout:  DefaultTimeout,
		headers:  make(map[string]string),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("error applying option: %w", err)
		}
	}
	c.applyDefaults()

	return c, nil
}

func (c *HTTPClient) String() string {
	return fmt.Sprintf("compiler.HTTPClient{Endpoint: %s, Auth: %s}", c.endpoint, c.auth.Name())
}

// Endpoint returns the URL requests are sent to.
func (c *HTTPClient) Endpoint() string {
	return c.endpoint
}

// Compile sends source to the service. Errors are ErrInputMissing,
// *ServiceError or *TransportError.
func (c *HTTPClient) Compile(ctx context.Context, source string) (*Result, error) {
	if source == "" {
		return nil, ErrInputMissing
	}

	requestID := uuid.NewString()
	logger := c.logger.WithGroup("Compile").With("requestID", requestID)

	body, err := json.Marshal(wireRequest{Code: source})
	if err != nil {
		return nil, newTransportError("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, newTransportError("failed to create request: %w", err)
	}
	if err := c.auth.AuthenticateWithContext(ctx, req); err != nil {
		return nil, newTransportError("authentication failed: %w", err)
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", "go-compilepad/http-client")
	}

	startTime := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		logger.WarnContext(ctx, "compile request failed", "error", err)
		return nil, newTransportError("failed to execute HTTP request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, newTransportError("failed to read response: %w", err)
	}
	logger.DebugContext(ctx, "compile response received",
		"status", resp.StatusCode,
		"bytes", len(payload),
		"duration", time.Since(startTime),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := detailMessage(payload)
		if msg == "" {
			msg = MsgServiceGeneric
		}
		return nil, &ServiceError{StatusCode: resp.StatusCode, Message: msg}
	}

	var wire wireResponse
	if err := json.Unmarshal(payload, &wire); err != nil {
		logger.WarnContext(ctx, "malformed compile response", "error", err)
		return nil, newTransportError("malformed response: %w", err)
	}

	return wire.toResult(), nil
}

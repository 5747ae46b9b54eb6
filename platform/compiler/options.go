package compiler

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/robbyt/go-compilepad/internal/helpers"
	"github.com/robbyt/go-compilepad/platform/httpauth"
)

// DefaultTimeout bounds one compile request.
const DefaultTimeout = 30 * time.Second

// FunctionalOption configures an HTTPClient.
type FunctionalOption func(*HTTPClient) error

// WithTimeout bounds each compile request. Zero disables the client-side
// timeout, leaving the call to the transport and the caller's context.
func WithTimeout(timeout time.Duration) FunctionalOption {
	return func(c *HTTPClient) error {
		if timeout < 0 {
			return fmt.Errorf("timeout cannot be negative: %s", timeout)
		}
		c.timeout = timeout
		return nil
	}
}

// WithAuthenticator sets how requests are authenticated.
func WithAuthenticator(auth httpauth.Authenticator) FunctionalOption {
	return func(c *HTTPClient) error {
		if auth == nil {
			return fmt.Errorf("authenticator cannot be nil")
		}
		c.auth = auth
		return nil
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) FunctionalOption {
	return func(c *HTTPClient) error {
		if key == "" {
			return fmt.Errorf("header name cannot be empty")
		}
		c.headers[key] = value
		return nil
	}
}

// WithTLSConfig sets the TLS configuration of the default transport.
func WithTLSConfig(cfg *tls.Config) FunctionalOption {
	return func(c *HTTPClient) error {
		c.tlsConfig = cfg
		return nil
	}
}

// WithHTTPClient replaces the underlying *http.Client; WithTimeout and
// WithTLSConfig are ignored when this is set.
func WithHTTPClient(client *http.Client) FunctionalOption {
	return func(c *HTTPClient) error {
		if client == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		c.client = client
		return nil
	}
}

// WithLogHandler sets the log handler.
func WithLogHandler(handler slog.Handler) FunctionalOption {
	return func(c *HTTPClient) error {
		if handler == nil {
			return fmt.Errorf("log handler cannot be nil")
		}
		c.logHandler = handler
		return nil
	}
}

// applyDefaults fills in anything the options left unset.
func (c *HTTPClient) applyDefaults() {
	if c.auth == nil {
		c.auth = httpauth.NewNoAuth()
	}
	c.logHandler, c.logger = helpers.SetupLogger(c.logHandler, "compiler", "HTTPClient")

	if c.client != nil {
		return
	}
	c.client = &http.Client{Timeout: c.timeout}
	if c.tlsConfig != nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = c.tlsConfig
		c.client.Transport = transport
	}
}

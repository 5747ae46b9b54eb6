package loader

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/robbyt/go-compilepad/platform/httpauth"
)

// HTTPOptions configures FromHTTP. Start from DefaultHTTPOptions and chain
// the With* helpers:
//
//	opts := loader.DefaultHTTPOptions().WithTimeout(5 * time.Second).WithBearerAuth("t0k3n")
type HTTPOptions struct {
	// Timeout bounds the whole request. Zero means no timeout.
	Timeout time.Duration

	// TLSConfig overrides the transport TLS settings when set.
	TLSConfig *tls.Config

	// InsecureSkipVerify disables certificate checks. Test servers only.
	InsecureSkipVerify bool

	// Authenticator applies credentials to each request.
	Authenticator httpauth.Authenticator

	// Headers are added to every request after authentication.
	Headers map[string]string
}

// DefaultHTTPOptions returns a 30 second timeout, verified TLS and no auth.
func DefaultHTTPOptions() *HTTPOptions {
	return &HTTPOptions{
		Timeout:       30 * time.Second,
		Authenticator: httpauth.NewNoAuth(),
		Headers:       make(map[string]string),
	}
}

// WithTimeout sets the request timeout.
func (o *HTTPOptions) WithTimeout(timeout time.Duration) *HTTPOptions {
	o.Timeout = timeout
	return o
}

// WithBasicAuth switches to HTTP basic authentication.
func (o *HTTPOptions) WithBasicAuth(username, password string) *HTTPOptions {
	o.Authenticator = httpauth.NewBasicAuth(username, password)
	return o
}

// WithBearerAuth switches to bearer token authentication.
func (o *HTTPOptions) WithBearerAuth(token string) *HTTPOptions {
	o.Authenticator = httpauth.NewBearerAuth(token)
	return o
}

// WithHeaderAuth switches to custom header authentication.
func (o *HTTPOptions) WithHeaderAuth(headers map[string]string) *HTTPOptions {
	o.Authenticator = httpauth.NewHeaderAuth(headers)
	return o
}

// WithInsecureTLS skips certificate verification.
func (o *HTTPOptions) WithInsecureTLS() *HTTPOptions {
	o.InsecureSkipVerify = true
	return o
}

// NewClient builds an *http.Client honoring the timeout and TLS settings.
func (o *HTTPOptions) NewClient() *http.Client {
	client := &http.Client{Timeout: o.Timeout}

	if o.InsecureSkipVerify || o.TLSConfig != nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if o.TLSConfig != nil {
			transport.TLSClientConfig = o.TLSConfig
		} else {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		}
		client.Transport = transport
	}
	return client
}

// FromHTTP downloads content with a GET request, e.g. a WASM interpreter
// plugin hosted next to the compiler service.
type FromHTTP struct {
	url       string
	sourceURL *url.URL
	options   *HTTPOptions
	client    *http.Client
}

// NewFromHTTP creates an HTTP loader with DefaultHTTPOptions.
func NewFromHTTP(rawURL string) (*FromHTTP, error) {
	return NewFromHTTPWithOptions(rawURL, DefaultHTTPOptions())
}

// NewFromHTTPWithOptions creates an HTTP loader with custom options.
func NewFromHTTPWithOptions(rawURL string, options *HTTPOptions) (*FromHTTP, error) {
	sourceURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse URL: %w", err)
	}

	if sourceURL.Scheme != "http" && sourceURL.Scheme != "https" {
		return nil, fmt.Errorf("%w: %s", ErrSchemeUnsupported, rawURL)
	}

	if options == nil {
		options = DefaultHTTPOptions()
	}
	if options.Authenticator == nil {
		options.Authenticator = httpauth.NewNoAuth()
	}

	return &FromHTTP{
		url:       rawURL,
		sourceURL: sourceURL,
		options:   options,
		client:    options.NewClient(),
	}, nil
}

// GetReader fetches the content. The caller closes the returned reader.
func (l *FromHTTP) GetReader() (io.ReadCloser, error) {
	return l.GetReaderWithContext(context.Background())
}

// GetReaderWithContext fetches the content, aborting when ctx is done.
func (l *FromHTTP) GetReaderWithContext(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if err := l.options.Authenticator.AuthenticateWithContext(ctx, req); err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	for key, value := range l.options.Headers {
		req.Header.Set(key, value)
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", "go-compilepad/http-loader")
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute HTTP request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: HTTP %d - %s", ErrSourceNotAvailable, resp.StatusCode, resp.Status)
	}

	return resp.Body, nil
}

// GetSourceURL returns the URL the loader fetches.
func (l *FromHTTP) GetSourceURL() *url.URL {
	return l.sourceURL
}

func (l *FromHTTP) String() string {
	return fmt.Sprintf("loader.FromHTTP{URL: %s, Auth: %s}", l.url, l.options.Authenticator.Name())
}

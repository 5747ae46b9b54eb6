package options

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/robbyt/go-compilepad/engines/types"
	"github.com/robbyt/go-compilepad/platform/httpauth"
	"github.com/robbyt/go-compilepad/platform/script/loader"
)

// ErrConfigFile wraps problems reading or decoding a config file.
var ErrConfigFile = errors.New("invalid config file")

// File is the TOML form of a Config.
//
//	endpoint = "https://playground.example.com/api/compile"
//	timeout = "10s"
//	engine = "starlark"
//
//	[auth]
//	type = "bearer"
//	token = "..."
type File struct {
	Endpoint    string     `toml:"endpoint"`
	Timeout     string     `toml:"timeout"`
	Engine      string     `toml:"engine"`
	ExecTimeout string     `toml:"exec_timeout"`
	AutoRun     *bool      `toml:"auto_run"`
	MaxSteps    *uint64    `toml:"max_steps"`
	MaxLines    *int       `toml:"max_lines"`
	Auth        AuthFile   `toml:"auth"`
	Extism      ExtismFile `toml:"extism"`
}

// AuthFile selects an authenticator: "none", "basic", "bearer" or "header".
type AuthFile struct {
	Type     string            `toml:"type"`
	Username string            `toml:"username"`
	Password string            `toml:"password"`
	Token    string            `toml:"token"`
	Headers  map[string]string `toml:"headers"`
}

// ExtismFile configures the WASM plugin engine. Plugin is a path or an
// http(s) URL.
type ExtismFile struct {
	Plugin     string `toml:"plugin"`
	Entrypoint string `toml:"entrypoint"`
	WASI       bool   `toml:"wasi"`
}

// ParseFile decodes TOML config data. Unknown keys are rejected.
func ParseFile(data []byte) (*File, error) {
	var f File
	d := toml.NewDecoder(bytes.NewReader(data))
	d.DisallowUnknownFields()
	if err := d.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigFile, err)
	}
	return &f, nil
}

// LoadFile reads and decodes a TOML config file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigFile, err)
	}
	return ParseFile(data)
}

// Options converts the file into options. Unset keys produce no option.
func (f *File) Options() ([]Option, error) {
	var opts []Option

	if f.Endpoint != "" {
		opts = append(opts, WithEndpoint(f.Endpoint))
	}
	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return nil, fmt.Errorf("%w: timeout: %w", ErrConfigFile, err)
		}
		opts = append(opts, WithCompileTimeout(d))
	}
	if f.Engine != "" {
		t, err := types.Parse(f.Engine)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfigFile, err)
		}
		opts = append(opts, WithEngine(t))
	}
	if f.ExecTimeout != "" {
		d, err := time.ParseDuration(f.ExecTimeout)
		if err != nil {
			return nil, fmt.Errorf("%w: exec_timeout: %w", ErrConfigFile, err)
		}
		opts = append(opts, WithExecTimeout(d))
	}
	if f.AutoRun != nil {
		opts = append(opts, WithAutoRun(*f.AutoRun))
	}
	if f.MaxSteps != nil {
		opts = append(opts, WithMaxSteps(*f.MaxSteps))
	}
	if f.MaxLines != nil {
		opts = append(opts, WithMaxLines(*f.MaxLines))
	}

	auth, err := f.Auth.authenticator()
	if err != nil {
		return nil, err
	}
	if auth != nil {
		opts = append(opts, WithAuthenticator(auth))
	}

	if f.Extism.Plugin != "" {
		ldr, err := pluginLoader(f.Extism.Plugin)
		if err != nil {
			return nil, fmt.Errorf("%w: extism.plugin: %w", ErrConfigFile, err)
		}
		opts = append(opts, WithExtismPlugin(ldr))
	}
	if f.Extism.Entrypoint != "" {
		opts = append(opts, WithExtismEntrypoint(f.Extism.Entrypoint))
	}
	if f.Extism.WASI {
		opts = append(opts, WithExtismWASI(true))
	}

	return opts, nil
}

func (a AuthFile) authenticator() (httpauth.Authenticator, error) {
	switch strings.ToLower(a.Type) {
	case "":
		return nil, nil
	case "none":
		return httpauth.NewNoAuth(), nil
	case "basic":
		if a.Username == "" {
			return nil, fmt.Errorf("%w: auth.username is required for basic auth", ErrConfigFile)
		}
		return httpauth.NewBasicAuth(a.Username, a.Password), nil
	case "bearer":
		if a.Token == "" {
			return nil, fmt.Errorf("%w: auth.token is required for bearer auth", ErrConfigFile)
		}
		return httpauth.NewBearerAuth(a.Token), nil
	case "header":
		if len(a.Headers) == 0 {
			return nil, fmt.Errorf("%w: auth.headers is required for header auth", ErrConfigFile)
		}
		return httpauth.NewHeaderAuth(a.Headers), nil
	default:
		return nil, fmt.Errorf("%w: unknown auth type %q", ErrConfigFile, a.Type)
	}
}

// pluginLoader picks a loader by the location's scheme.
func pluginLoader(location string) (loader.Loader, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return loader.NewFromHTTP(location)
	}
	return loader.NewFromDisk(location)
}

package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/robbyt/go-compilepad"
	"github.com/robbyt/go-compilepad/engines/types"
	"github.com/robbyt/go-compilepad/options"
	"github.com/samber/do"
)

type globalFlags struct {
	configPath string
	endpoint   string
	engine     string
	logLevel   string
}

// newContainer wires the session from flags, config file and environment.
// Logs go to logOut.
func newContainer(flags *globalFlags, logOut io.Writer) *do.Injector {
	i := do.New()
	do.ProvideValue(i, flags)
	do.Provide(i, func(i *do.Injector) (slog.Handler, error) {
		return provideLogHandler(do.MustInvoke[*globalFlags](i), logOut)
	})
	do.Provide(i, provideOptions)
	do.Provide(i, provideSession)
	return i
}

func provideLogHandler(flags *globalFlags, out io.Writer) (slog.Handler, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(flags.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", flags.logLevel, err)
	}
	return slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}), nil
}

// provideOptions layers the config file, then the environment, then flags.
func provideOptions(i *do.Injector) ([]options.Option, error) {
	flags := do.MustInvoke[*globalFlags](i)
	handler, err := do.Invoke[slog.Handler](i)
	if err != nil {
		return nil, err
	}

	opts := []options.Option{options.WithLogger(handler)}
	if flags.configPath != "" {
		f, err := options.LoadFile(flags.configPath)
		if err != nil {
			return nil, err
		}
		fileOpts, err := f.Options()
		if err != nil {
			return nil, err
		}
		opts = append(opts, fileOpts...)
	}
	opts = append(opts, options.FromEnv())
	if flags.endpoint != "" {
		opts = append(opts, options.WithEndpoint(flags.endpoint))
	}
	if flags.engine != "" {
		t, err := types.Parse(flags.engine)
		if err != nil {
			return nil, err
		}
		opts = append(opts, options.WithEngine(t))
	}
	return opts, nil
}

func provideSession(i *do.Injector) (*compilepad.Session, error) {
	opts, err := do.Invoke[[]options.Option](i)
	if err != nil {
		return nil, err
	}
	return compilepad.New(opts...)
}

// session builds the container and resolves the session.
func session(flags *globalFlags, logOut io.Writer) (*compilepad.Session, error) {
	return do.Invoke[*compilepad.Session](newContainer(flags, logOut))
}

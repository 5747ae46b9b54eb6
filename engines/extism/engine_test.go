package extism

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	extismSDK "github.com/extism/go-sdk"
	"github.com/robbyt/go-compilepad/engines/extism/adapters"
	"github.com/robbyt/go-compilepad/engines/extism/internal/compile"
	"github.com/robbyt/go-compilepad/platform/sandbox"
	"github.com/robbyt/go-compilepad/platform/script/loader"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPlugin struct {
	mock.Mock
}

func (m *mockPlugin) Instance(
	ctx context.Context,
	config extismSDK.PluginInstanceConfig,
) (adapters.PluginInstance, error) {
	args := m.Called(ctx, config)
	instance, _ := args.Get(0).(adapters.PluginInstance)
	return instance, args.Error(1)
}

func (m *mockPlugin) Close(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockInstance struct {
	mock.Mock
}

func (m *mockInstance) CallWithContext(ctx context.Context, name string, data []byte) (uint32, []byte, error) {
	args := m.Called(ctx, name, data)
	output, _ := args.Get(1).([]byte)
	return args.Get(0).(uint32), output, args.Error(2)
}

func (m *mockInstance) FunctionExists(name string) bool {
	return m.Called(name).Bool(0)
}

func (m *mockInstance) Close(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func newTestEngine(t *testing.T, instance *mockInstance, opts ...FunctionalOption) *Engine {
	t.Helper()
	plugin := new(mockPlugin)
	plugin.On("Instance", mock.Anything, mock.Anything).Return(instance, nil)

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	e, err := newWithPlugin(plugin, append([]FunctionalOption{WithLogHandler(handler)}, opts...)...)
	require.NoError(t, err)
	return e
}

func respondingInstance(output string) *mockInstance {
	instance := new(mockInstance)
	instance.On("FunctionExists", DefaultEntrypoint).Return(true)
	instance.On("CallWithContext", mock.Anything, DefaultEntrypoint, mock.Anything).
		Return(uint32(0), []byte(output), nil)
	instance.On("Close", mock.Anything).Return(nil)
	return instance
}

func TestEngine_Run(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		output    string
		wantLines []string
		wantValue sandbox.FinalValue
		wantErr   error
	}{
		{
			name:      "lines",
			output:    `{"lines":["a","b"],"value":null}`,
			wantLines: []string{"a", "b"},
			wantValue: sandbox.Undefined,
		},
		{
			name:      "value",
			output:    `{"lines":[],"value":"42"}`,
			wantValue: sandbox.Defined("42"),
		},
		{
			name:      "empty string value is defined",
			output:    `{"value":""}`,
			wantValue: sandbox.Defined(""),
		},
		{
			name:      "nothing",
			output:    `{}`,
			wantValue: sandbox.Undefined,
		},
		{
			name:      "program error keeps printed lines",
			output:    `{"lines":["before"],"error":"ReferenceError: x is not defined"}`,
			wantLines: []string{"before"},
			wantValue: sandbox.Undefined,
			wantErr:   ErrProgramFailed,
		},
		{
			name:      "malformed output",
			output:    `not json`,
			wantValue: sandbox.Undefined,
			wantErr:   ErrMalformedResponse,
		},
		{
			name:      "empty output",
			output:    "  ",
			wantValue: sandbox.Undefined,
			wantErr:   ErrEmptyResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			instance := respondingInstance(tt.output)
			e := newTestEngine(t, instance)
			out := sandbox.NewCapture(0)

			got, err := e.Run(context.Background(), "print('a')", out)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tt.wantValue, got)
			require.Equal(t, tt.wantLines, out.Lines())
			instance.AssertCalled(t, "CallWithContext", mock.Anything, DefaultEntrypoint, []byte(`{"code":"print('a')"}`))
			instance.AssertCalled(t, "Close", mock.Anything)
		})
	}
}

func TestEngine_RunFailures(t *testing.T) {
	t.Parallel()

	t.Run("missing entrypoint", func(t *testing.T) {
		instance := new(mockInstance)
		instance.On("FunctionExists", "evaluate").Return(false)
		instance.On("Close", mock.Anything).Return(nil)
		e := newTestEngine(t, instance, WithEntrypoint("evaluate"))

		_, err := e.Run(context.Background(), "x", sandbox.NewCapture(0))
		require.ErrorIs(t, err, ErrEntrypointMissing)
		instance.AssertNotCalled(t, "CallWithContext", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("non-zero exit", func(t *testing.T) {
		instance := new(mockInstance)
		instance.On("FunctionExists", DefaultEntrypoint).Return(true)
		instance.On("CallWithContext", mock.Anything, DefaultEntrypoint, mock.Anything).
			Return(uint32(1), nil, nil)
		instance.On("Close", mock.Anything).Return(nil)
		e := newTestEngine(t, instance)

		_, err := e.Run(context.Background(), "x", sandbox.NewCapture(0))
		require.ErrorIs(t, err, ErrNonZeroExit)
	})

	t.Run("call error", func(t *testing.T) {
		instance := new(mockInstance)
		instance.On("FunctionExists", DefaultEntrypoint).Return(true)
		instance.On("CallWithContext", mock.Anything, DefaultEntrypoint, mock.Anything).
			Return(uint32(0), nil, errors.New("trap"))
		instance.On("Close", mock.Anything).Return(errors.New("close failed"))
		e := newTestEngine(t, instance)

		_, err := e.Run(context.Background(), "x", sandbox.NewCapture(0))
		require.ErrorContains(t, err, "trap")
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		instance := new(mockInstance)
		instance.On("FunctionExists", DefaultEntrypoint).Return(true)
		instance.On("CallWithContext", mock.Anything, DefaultEntrypoint, mock.Anything).
			Return(uint32(0), nil, errors.New("module closed with context canceled"))
		instance.On("Close", mock.Anything).Return(nil)
		e := newTestEngine(t, instance)

		_, err := e.Run(ctx, "x", sandbox.NewCapture(0))
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("instance error", func(t *testing.T) {
		plugin := new(mockPlugin)
		plugin.On("Instance", mock.Anything, mock.Anything).Return(nil, errors.New("out of memory"))
		e, err := newWithPlugin(plugin)
		require.NoError(t, err)

		_, err = e.Run(context.Background(), "x", sandbox.NewCapture(0))
		require.ErrorContains(t, err, "out of memory")
	})
}

func TestEngine_WithSandbox(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, respondingInstance(`{"lines":["hi"]}`))
	s, err := sandbox.New(nil, e)
	require.NoError(t, err)

	got := s.Execute(context.Background(), "console.log('hi')")
	require.Equal(t, sandbox.LinesOutcome([]string{"hi"}), got)
	require.Equal(t, "hi", got.String())
}

func TestEngine_Constructors(t *testing.T) {
	t.Parallel()

	t.Run("nil plugin", func(t *testing.T) {
		e, err := newWithPlugin(nil)
		require.Error(t, err)
		require.Nil(t, e)
	})

	t.Run("empty wasm", func(t *testing.T) {
		e, err := New(context.Background(), nil)
		require.ErrorIs(t, err, compile.ErrContentNil)
		require.Nil(t, e)
	})

	t.Run("invalid wasm", func(t *testing.T) {
		e, err := New(context.Background(), []byte("\x00asm\x01\x00\x00\x00garbage"))
		require.ErrorIs(t, err, compile.ErrCompileFailed)
		require.Nil(t, e)
	})

	t.Run("from loader", func(t *testing.T) {
		ldr, err := loader.NewFromString("AGFzbQEAAAD/")
		require.NoError(t, err)
		e, err := FromLoader(context.Background(), ldr)
		require.ErrorIs(t, err, compile.ErrCompileFailed)
		require.Nil(t, e)
	})

	t.Run("invalid options", func(t *testing.T) {
		plugin := new(mockPlugin)
		for name, opt := range map[string]FunctionalOption{
			"empty entrypoint":   WithEntrypoint(""),
			"nil runtime config": WithRuntimeConfig(nil),
			"nil log handler":    WithLogHandler(nil),
		} {
			t.Run(name, func(t *testing.T) {
				e, err := newWithPlugin(plugin, opt)
				require.Error(t, err)
				require.Nil(t, e)
			})
		}
	})

	t.Run("close and name", func(t *testing.T) {
		plugin := new(mockPlugin)
		plugin.On("Close", mock.Anything).Return(nil)
		e, err := newWithPlugin(plugin, WithWASI(true), WithEntrypoint("evaluate"))
		require.NoError(t, err)
		require.Equal(t, "extism", e.Name())
		require.True(t, e.settings.EnableWASI)
		require.Contains(t, e.String(), "evaluate")
		require.NoError(t, e.Close(context.Background()))
	})
}

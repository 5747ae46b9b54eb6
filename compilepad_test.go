package compilepad_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/robbyt/go-compilepad"
	"github.com/robbyt/go-compilepad/engines/mocks"
	"github.com/robbyt/go-compilepad/engines/types"
	"github.com/robbyt/go-compilepad/options"
	"github.com/robbyt/go-compilepad/platform/compiler"
	"github.com/robbyt/go-compilepad/platform/coordinator"
	"github.com/robbyt/go-compilepad/platform/editor"
	"github.com/robbyt/go-compilepad/platform/sandbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})

// newCompileServer answers every compile request by echoing the submitted
// code back as the generated code.
func newCompileServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Code string `json:"code"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if req.Code == "oops(" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"detail":"Unexpected end of input at line 1"}`)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"tokens": []string{"IDENT", "LPAREN", "STRING", "RPAREN"},
			"ast":    "Program\n  Call",
			"js":     req.Code,
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRun_EndToEnd(t *testing.T) {
	t.Parallel()
	server := newCompileServer(t)

	s, err := compilepad.FromString("print('hi')",
		options.WithEndpoint(server.URL+"/api/compile"),
		options.WithLogger(testHandler),
	)
	require.NoError(t, err)

	rep, err := s.Run(context.Background())
	require.NoError(t, err)
	require.True(t, rep.Executed())
	require.Equal(t, sandbox.LinesOutcome([]string{"hi"}), *rep.Outcome)
	assert.Equal(t, []string{"IDENT", "LPAREN", "STRING", "RPAREN"}, rep.Snapshot.Tokens)
	assert.Equal(t, "Program\n  Call", rep.Snapshot.SyntaxTree)
	assert.Equal(t, "print('hi')", rep.Snapshot.GeneratedCode)
	assert.Empty(t, rep.Snapshot.Message)
	assert.False(t, rep.Snapshot.IsCompiling)

	last, ok := s.LastOutcome()
	require.True(t, ok)
	require.Equal(t, "hi", last.String())

	out := rep.String()
	assert.Contains(t, out, "== Tokens ==\nIDENT\nLPAREN")
	assert.Contains(t, out, "== Generated Code ==\nprint('hi')")
	assert.Contains(t, out, "== Output ==\nhi")
	assert.NotContains(t, out, "== Error ==")
	require.NoError(t, s.Close(context.Background()))
}

func TestRun_Outcomes(t *testing.T) {
	t.Parallel()
	server := newCompileServer(t)

	tests := []struct {
		name   string
		source string
		want   sandbox.Outcome
	}{
		{name: "two prints", source: "print('a')\nprint('b')", want: sandbox.LinesOutcome([]string{"a", "b"})},
		{name: "final value", source: "6 * 7", want: sandbox.ValueOutcome("42")},
		{name: "no output", source: "x = 1", want: sandbox.EmptyOutcome()},
		{name: "placeholder comment", source: editor.Placeholder, want: sandbox.EmptyOutcome()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, err := compilepad.FromString(tt.source,
				options.WithEndpoint(server.URL),
				options.WithLogger(testHandler),
			)
			require.NoError(t, err)

			rep, err := s.Run(context.Background())
			require.NoError(t, err)
			require.NotNil(t, rep.Outcome)
			require.Equal(t, tt.want, *rep.Outcome)
		})
	}

	t.Run("runtime failure", func(t *testing.T) {
		t.Parallel()
		s, err := compilepad.FromString("fail('boom')", options.WithEndpoint(server.URL))
		require.NoError(t, err)

		rep, err := s.Run(context.Background())
		require.NoError(t, err)
		require.Equal(t, sandbox.Failure, rep.Outcome.Kind)
		require.Contains(t, rep.String(), "== Output ==\nError: ")
	})
}

func TestRun_CompileErrorDoesNotExecute(t *testing.T) {
	t.Parallel()
	server := newCompileServer(t)

	engine := new(mocks.Engine)
	engine.On("Name").Return("mock")

	s, err := compilepad.FromString("oops(",
		options.WithEndpoint(server.URL),
		options.WithSandboxEngine(engine),
	)
	require.NoError(t, err)

	rep, err := s.Run(context.Background())
	var serviceErr *compiler.ServiceError
	require.ErrorAs(t, err, &serviceErr)
	require.Equal(t, http.StatusBadRequest, serviceErr.StatusCode)
	require.False(t, rep.Executed())
	require.Equal(t, "Unexpected end of input at line 1", rep.Snapshot.Message)
	require.Nil(t, rep.Snapshot.Tokens)
	require.Contains(t, rep.String(), "== Error ==\nUnexpected end of input at line 1")

	_, ok := s.LastOutcome()
	require.False(t, ok)
	engine.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_TransportError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	endpoint := server.URL
	server.Close()

	s, err := compilepad.FromString("print('hi')", options.WithEndpoint(endpoint))
	require.NoError(t, err)

	rep, err := s.Run(context.Background())
	require.ErrorIs(t, err, compiler.ErrTransport)
	require.Equal(t, compiler.MsgTransport, rep.Snapshot.Message)
	require.False(t, rep.Executed())
}

func TestRun_EmptySource(t *testing.T) {
	t.Parallel()

	comp := new(mocks.Compiler)
	comp.On("Compile", mock.Anything, "").Return(nil, compiler.ErrInputMissing)

	s, err := compilepad.New(options.WithCompiler(comp))
	require.NoError(t, err)
	s.SetSource("")

	rep, err := s.Run(context.Background())
	require.ErrorIs(t, err, compiler.ErrInputMissing)
	require.Equal(t, compiler.MsgInputMissing, rep.Snapshot.Message)
	require.False(t, rep.Executed())
}

func TestRun_NotRunnable(t *testing.T) {
	t.Parallel()

	comp := new(mocks.Compiler)
	comp.On("Compile", mock.Anything, "x").Return(&compiler.Result{
		Tokens:        []string{"IDENT x"},
		SyntaxTree:    "Program",
		GeneratedCode: compiler.NoOutput,
	}, nil)

	s, err := compilepad.FromString("x", options.WithCompiler(comp))
	require.NoError(t, err)

	rep, err := s.Run(context.Background())
	require.NoError(t, err)
	require.False(t, rep.Executed())
	require.Equal(t, compiler.NoOutput, rep.Snapshot.GeneratedCode)
}

func TestRun_AutoRunDisabled(t *testing.T) {
	t.Parallel()
	server := newCompileServer(t)

	s, err := compilepad.FromString("print('hi')",
		options.WithEndpoint(server.URL),
		options.WithAutoRun(false),
	)
	require.NoError(t, err)

	rep, err := s.Run(context.Background())
	require.NoError(t, err)
	require.False(t, rep.Executed())
	require.Equal(t, "print('hi')", rep.Snapshot.GeneratedCode)

	outcome := s.Execute(context.Background(), rep.Snapshot.GeneratedCode)
	require.Equal(t, sandbox.LinesOutcome([]string{"hi"}), outcome)
}

func TestRun_SupersededNeverExecutes(t *testing.T) {
	t.Parallel()

	slowStarted := make(chan struct{})
	releaseSlow := make(chan struct{})
	comp := compiler.Func(func(_ context.Context, source string) (*compiler.Result, error) {
		if source == "slow" {
			close(slowStarted)
			<-releaseSlow
		}
		return &compiler.Result{
			Tokens:        []string{source},
			SyntaxTree:    source,
			GeneratedCode: fmt.Sprintf("print(%q)", source),
		}, nil
	})

	engine := new(mocks.Engine)
	engine.On("Name").Return("mock")
	engine.On("Run", mock.Anything, `print("fast")`, mock.Anything).
		Return(sandbox.Undefined, nil, func(out *sandbox.Capture) { out.Print("fast") })

	s, err := compilepad.New(options.WithCompiler(comp), options.WithSandboxEngine(engine))
	require.NoError(t, err)

	s.SetSource("slow")
	slowDone := make(chan compilepad.Report, 1)
	go func() {
		rep, err := s.Run(context.Background())
		assert.ErrorIs(t, err, coordinator.ErrSuperseded)
		slowDone <- rep
	}()
	<-slowStarted

	s.SetSource("fast")
	rep, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, sandbox.LinesOutcome([]string{"fast"}), *rep.Outcome)

	close(releaseSlow)
	slowRep := <-slowDone
	require.True(t, slowRep.Superseded)
	require.False(t, slowRep.Executed())
	require.Equal(t, `print("fast")`, slowRep.Snapshot.GeneratedCode)

	engine.AssertNumberOfCalls(t, "Run", 1)
}

func TestCompile_DoesNotExecute(t *testing.T) {
	t.Parallel()
	server := newCompileServer(t)

	s, err := compilepad.FromString("print('hi')", options.WithEndpoint(server.URL))
	require.NoError(t, err)

	rep, err := s.Compile(context.Background())
	require.NoError(t, err)
	require.False(t, rep.Executed())
	require.True(t, rep.Snapshot.HasResult())
	require.Equal(t, rep.Snapshot, s.Coordinator().Snapshot())
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		s, err := compilepad.New()
		require.NoError(t, err)
		require.Equal(t, editor.Placeholder, s.Source())
		require.Contains(t, s.String(), "starlark")
	})

	t.Run("risor engine", func(t *testing.T) {
		s, err := compilepad.New(options.WithEngine(types.Risor))
		require.NoError(t, err)
		require.Contains(t, s.String(), "risor")
		require.Equal(t, sandbox.ValueOutcome("3"), s.Execute(context.Background(), "1 + 2"))
	})

	t.Run("extism without plugin", func(t *testing.T) {
		s, err := compilepad.New(options.WithEngine(types.Extism))
		require.Error(t, err)
		require.Nil(t, s)
	})

	t.Run("bad option", func(t *testing.T) {
		s, err := compilepad.New(options.WithEndpoint(""))
		require.Error(t, err)
		require.Nil(t, s)
	})

	t.Run("bad endpoint scheme", func(t *testing.T) {
		s, err := compilepad.New(options.WithEndpoint("ftp://example.com/compile"))
		require.ErrorIs(t, err, compiler.ErrEndpointInvalid)
		require.Nil(t, s)
	})

	t.Run("empty initial source", func(t *testing.T) {
		s, err := compilepad.FromString("   ")
		require.Error(t, err)
		require.Nil(t, s)
	})
}

func TestFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "main.star")
	require.NoError(t, os.WriteFile(path, []byte("print('from disk')\n"), 0o600))

	s, err := compilepad.FromFile(path)
	require.NoError(t, err)
	require.Equal(t, "print('from disk')\n", s.Source())

	_, err = compilepad.FromFile(filepath.Join(t.TempDir(), "missing.star"))
	require.Error(t, err)
}

func TestFromConfigFile(t *testing.T) {
	t.Parallel()
	server := newCompileServer(t)

	path := filepath.Join(t.TempDir(), "compilepad.toml")
	config := fmt.Sprintf("endpoint = %q\nengine = \"starlark\"\nexec_timeout = \"2s\"\n", server.URL)
	require.NoError(t, os.WriteFile(path, []byte(config), 0o600))

	s, err := compilepad.FromConfigFile(path, options.WithLogger(testHandler))
	require.NoError(t, err)
	s.SetSource("print('configured')")

	rep, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, "configured", rep.Outcome.String())

	_, err = compilepad.FromConfigFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorIs(t, err, options.ErrConfigFile)
}

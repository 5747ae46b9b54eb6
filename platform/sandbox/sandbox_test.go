package sandbox_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/robbyt/go-compilepad/engines/mocks"
	"github.com/robbyt/go-compilepad/platform/sandbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSandbox(t *testing.T, engine sandbox.Engine, opts ...sandbox.Option) *sandbox.Sandbox {
	t.Helper()
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	s, err := sandbox.New(handler, engine, opts...)
	require.NoError(t, err)
	return s
}

func mockEngine() *mocks.Engine {
	m := new(mocks.Engine)
	m.On("Name").Return("mock").Maybe()
	return m
}

func TestNew(t *testing.T) {
	t.Parallel()

	s, err := sandbox.New(nil, nil)
	require.Error(t, err)
	require.Nil(t, s)

	s, err = sandbox.New(nil, mockEngine(), sandbox.WithTimeout(-time.Second))
	require.Error(t, err)
	require.Nil(t, s)

	s, err = sandbox.New(nil, mockEngine(), sandbox.WithMaxLines(-1))
	require.Error(t, err)
	require.Nil(t, s)

	s = newSandbox(t, mockEngine(), sandbox.WithTimeout(time.Second))
	require.Equal(t, "mock", s.EngineName())
	require.Contains(t, s.String(), "Timeout: 1s")
}

func TestExecute_OutcomeSelection(t *testing.T) {
	t.Parallel()

	printAB := func(out *sandbox.Capture) {
		out.Print("a")
		out.Print("b")
	}

	tests := []struct {
		name    string
		value   sandbox.FinalValue
		err     error
		printer func(*sandbox.Capture)
		want    sandbox.Outcome
	}{
		{
			name:    "captured lines win over value",
			value:   sandbox.Defined("42"),
			printer: printAB,
			want:    sandbox.LinesOutcome([]string{"a", "b"}),
		},
		{
			name:  "value when nothing printed",
			value: sandbox.Defined("42"),
			want:  sandbox.ValueOutcome("42"),
		},
		{
			name:  "empty when nothing printed and no value",
			value: sandbox.Undefined,
			want:  sandbox.EmptyOutcome(),
		},
		{
			name:  "defined empty string value",
			value: sandbox.Defined(""),
			want:  sandbox.ValueOutcome(""),
		},
		{
			name:    "error wins over captured lines",
			value:   sandbox.Undefined,
			err:     errors.New("boom"),
			printer: printAB,
			want:    sandbox.FailureOutcome("boom"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := mockEngine()
			m.On("Run", mock.Anything, "code", mock.Anything).Return(tt.value, tt.err, tt.printer)

			got := newSandbox(t, m).Execute(context.Background(), "code")
			require.Equal(t, tt.want, got)
			m.AssertExpectations(t)
		})
	}
}

func TestExecute_BlankCodeSkipsEngine(t *testing.T) {
	t.Parallel()

	m := mockEngine()
	s := newSandbox(t, m)

	for _, code := range []string{"", "   ", "\n\t\n"} {
		require.Equal(t, sandbox.EmptyOutcome(), s.Execute(context.Background(), code))
	}
	m.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecute_Panic(t *testing.T) {
	t.Parallel()

	m := mockEngine()
	m.On("Run", mock.Anything, "code", mock.Anything).Panic("engine bug")

	got := newSandbox(t, m).Execute(context.Background(), "code")
	require.Equal(t, sandbox.Failure, got.Kind)
	require.Contains(t, got.Message, "engine bug")
	require.Contains(t, got.Message, sandbox.ErrEnginePanic.Error())
}

func TestExecute_Timeout(t *testing.T) {
	t.Parallel()

	m := mockEngine()
	m.On("Run", mock.Anything, "loop", mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(sandbox.Undefined, errors.New("cancelled"))

	got := newSandbox(t, m, sandbox.WithTimeout(20*time.Millisecond)).Execute(context.Background(), "loop")
	require.Equal(t, sandbox.Failure, got.Kind)
	require.Contains(t, got.Message, sandbox.ErrTimeout.Error())
}

func TestExecute_MaxLines(t *testing.T) {
	t.Parallel()

	m := mockEngine()
	m.On("Run", mock.Anything, "code", mock.Anything).Return(sandbox.Undefined, nil, func(out *sandbox.Capture) {
		for _, l := range []string{"1", "2", "3"} {
			out.Append(l)
		}
	})

	got := newSandbox(t, m, sandbox.WithMaxLines(2)).Execute(context.Background(), "code")
	require.Equal(t, sandbox.LinesOutcome([]string{"1", "2"}), got)
}

func TestExecute_CapturesAreIsolated(t *testing.T) {
	t.Parallel()

	m := mockEngine()
	m.On("Run", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			out := args.Get(2).(*sandbox.Capture)
			code := args.String(1)
			for i := 0; i < 10; i++ {
				out.Append(code)
				time.Sleep(time.Microsecond)
			}
		}).
		Return(sandbox.Undefined, nil)

	s := newSandbox(t, m)

	var wg sync.WaitGroup
	results := make([]sandbox.Outcome, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = s.Execute(context.Background(), string(rune('a'+i)))
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		want := string(rune('a' + i))
		require.Len(t, got.Lines, 10)
		for _, line := range got.Lines {
			assert.Equal(t, want, line)
		}
	}
}

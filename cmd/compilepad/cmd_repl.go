package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/robbyt/go-compilepad"
	"github.com/spf13/cobra"
)

const (
	historyFile = ".compilepad_history"
	promptMain  = "pad> "
	promptCont  = "...> "
)

const replHelp = `Type source lines to add them to the buffer. Commands:
  :run      compile the buffer and execute the generated code
  :compile  compile the buffer only
  :show     print the buffer
  :clear    empty the buffer
  :help     show this help
  :quit     leave`

func newReplCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Edit source line by line and compile or run it on demand",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := session(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close(cmd.Context())
			return runREPL(cmd.Context(), s, cmd.OutOrStdout())
		},
	}
}

func runREPL(ctx context.Context, s *compilepad.Session, out io.Writer) error {
	fmt.Fprintln(out, replHelp)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	// Load history (best-effort)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	r := newRepl(s, out)
	for {
		prompt := promptMain
		if len(r.buf) > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out)
			break
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			return err
		}

		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
		if r.handle(ctx, line) {
			break
		}
	}

	// Persist history (best-effort)
	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
	return nil
}

// repl is the line-oriented editor surface: plain lines extend the
// buffer, ':' lines are commands.
type repl struct {
	session *compilepad.Session
	out     io.Writer
	buf     []string
}

func newRepl(s *compilepad.Session, out io.Writer) *repl {
	s.SetSource("")
	return &repl{session: s, out: out}
}

// handle processes one input line and reports whether to quit.
func (r *repl) handle(ctx context.Context, line string) (quit bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, ":") {
		r.buf = append(r.buf, line)
		r.session.SetSource(strings.Join(r.buf, "\n"))
		return false
	}

	switch strings.ToLower(trimmed) {
	case ":run", ":r":
		rep, _ := r.session.Run(ctx)
		renderReport(r.out, rep)
	case ":compile", ":c":
		rep, _ := r.session.Compile(ctx)
		renderReport(r.out, rep)
	case ":show", ":s":
		fmt.Fprintln(r.out, r.session.Source())
	case ":clear":
		r.buf = nil
		r.session.SetSource("")
	case ":help", ":h":
		fmt.Fprintln(r.out, replHelp)
	case ":quit", ":q":
		return true
	default:
		fmt.Fprintf(r.out, "unknown command %s (try :help)\n", trimmed)
	}
	return false
}

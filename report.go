package compilepad

import (
	"strings"

	"github.com/robbyt/go-compilepad/platform/coordinator"
	"github.com/robbyt/go-compilepad/platform/sandbox"
)

// Report is what one Compile or Run produced.
type Report struct {
	Snapshot coordinator.Snapshot
	// Outcome is nil when nothing was executed.
	Outcome *sandbox.Outcome
	// Superseded is set when a newer compile replaced this one.
	Superseded bool
}

// Executed reports whether generated code ran.
func (r Report) Executed() bool {
	return r.Outcome != nil
}

// String renders the report as the sections a user sees: error message,
// tokens, syntax tree, generated code and output.
func (r Report) String() string {
	var b strings.Builder
	snap := r.Snapshot

	if snap.Message != "" {
		section(&b, "Error", snap.Message)
	}
	if snap.HasResult() {
		section(&b, "Tokens", strings.Join(snap.Tokens, "\n"))
		section(&b, "AST", snap.SyntaxTree)
		section(&b, "Generated Code", snap.GeneratedCode)
	}
	if r.Outcome != nil {
		section(&b, "Output", r.Outcome.String())
	}
	return strings.TrimRight(b.String(), "\n")
}

func section(b *strings.Builder, title, body string) {
	b.WriteString("== ")
	b.WriteString(title)
	b.WriteString(" ==\n")
	b.WriteString(body)
	b.WriteString("\n\n")
}

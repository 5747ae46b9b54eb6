// Package compiler is the client side of the remote compilation service.
// The lexer, parser and code generator live behind the service; this
// package only knows how to send source text and read back the result.
package compiler

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// NoOutput replaces response fields the service did not send.
const NoOutput = "No output"

// Compiler turns source text into a Result.
type Compiler interface {
	Compile(ctx context.Context, source string) (*Result, error)
}

// Result is one successful compilation. All fields are always set.
type Result struct {
	// Tokens are the lexical units, in source order.
	Tokens []string `json:"tokens"`

	// SyntaxTree is the service's rendered AST.
	SyntaxTree string `json:"ast"`

	// GeneratedCode is the target-language program, or NoOutput.
	GeneratedCode string `json:"code"`
}

// Runnable reports whether the result carries code worth executing.
func (r *Result) Runnable() bool {
	if r == nil {
		return false
	}
	return r.GeneratedCode != NoOutput && strings.TrimSpace(r.GeneratedCode) != ""
}

// Clone returns a deep copy.
func (r *Result) Clone() *Result {
	if r == nil {
		return nil
	}
	return &Result{
		Tokens:        slices.Clone(r.Tokens),
		SyntaxTree:    r.SyntaxTree,
		GeneratedCode: r.GeneratedCode,
	}
}

func (r *Result) String() string {
	return fmt.Sprintf("compiler.Result{Tokens: %d, Tree: %d chars, Code: %d chars}",
		len(r.Tokens), len(r.SyntaxTree), len(r.GeneratedCode))
}

// Func adapts an ordinary function to the Compiler interface.
type Func func(ctx context.Context, source string) (*Result, error)

// Compile calls f.
func (f Func) Compile(ctx context.Context, source string) (*Result, error) {
	return f(ctx, source)
}

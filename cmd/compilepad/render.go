package main

import (
	"fmt"
	"io"

	"github.com/robbyt/go-compilepad"
	"github.com/robbyt/go-compilepad/platform/sandbox"
)

func renderReport(w io.Writer, rep compilepad.Report) {
	if s := rep.String(); s != "" {
		fmt.Fprintln(w, s)
	}
}

func renderOutcome(w io.Writer, outcome sandbox.Outcome) {
	fmt.Fprintln(w, outcome.String())
}

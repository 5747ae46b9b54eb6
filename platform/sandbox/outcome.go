package sandbox

import (
	"fmt"
	"slices"
	"strings"
)

// Kind tells which variant of an Outcome holds.
type Kind int

const (
	// Empty means the program finished without output or a final value.
	Empty Kind = iota
	// Lines means the program printed at least once.
	Lines
	// Value means the program printed nothing but produced a final value.
	Value
	// Failure means evaluation raised an error.
	Failure
)

// NoOutputMarker is the text of an Empty outcome.
const NoOutputMarker = "Execution completed with no output"

func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Lines:
		return "lines"
	case Value:
		return "value"
	case Failure:
		return "failure"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Outcome is the result of one execution. Exactly one of Lines, Value and
// Message is meaningful, as selected by Kind.
type Outcome struct {
	Kind    Kind
	Lines   []string
	Value   string
	Message string
}

// EmptyOutcome returns the "completed, no output" outcome.
func EmptyOutcome() Outcome {
	return Outcome{Kind: Empty}
}

// LinesOutcome returns an outcome holding captured print lines.
func LinesOutcome(lines []string) Outcome {
	return Outcome{Kind: Lines, Lines: slices.Clone(lines)}
}

// ValueOutcome returns an outcome holding a final value.
func ValueOutcome(v string) Outcome {
	return Outcome{Kind: Value, Value: v}
}

// FailureOutcome returns an outcome describing an evaluation error.
func FailureOutcome(msg string) Outcome {
	return Outcome{Kind: Failure, Message: msg}
}

// Output returns the plain text shown to the user for non-failures.
func (o Outcome) Output() string {
	switch o.Kind {
	case Lines:
		return strings.Join(o.Lines, "\n")
	case Value:
		return o.Value
	case Failure:
		return ""
	default:
		return NoOutputMarker
	}
}

// String renders the outcome as plain text.
func (o Outcome) String() string {
	if o.Kind == Failure {
		return "Error: " + o.Message
	}
	return o.Output()
}

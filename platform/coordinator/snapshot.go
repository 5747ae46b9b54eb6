package coordinator

import "slices"

// Snapshot is a copy of the coordinator's result slots.
type Snapshot struct {
	// Tokens, SyntaxTree and GeneratedCode are the last successful result.
	// They are cleared together whenever Message is set.
	Tokens        []string
	SyntaxTree    string
	GeneratedCode string

	// Message is the user-visible error of the last resolved request.
	Message string

	// IsCompiling is true while any request is in flight.
	IsCompiling bool

	// Seq is the sequence number of the latest trigger.
	Seq uint64
}

// HasResult reports whether the result slots are populated.
func (s Snapshot) HasResult() bool {
	return s.Message == "" && (s.Tokens != nil || s.SyntaxTree != "" || s.GeneratedCode != "")
}

func (s Snapshot) clone() Snapshot {
	s.Tokens = slices.Clone(s.Tokens)
	return s
}

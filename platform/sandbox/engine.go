package sandbox

import "context"

// FinalValue is the value of a program's last expression.
type FinalValue struct {
	Text    string
	Defined bool
}

// Defined returns a FinalValue holding text.
func Defined(text string) FinalValue {
	return FinalValue{Text: text, Defined: true}
}

// Undefined is the FinalValue of a program with no final expression.
var Undefined = FinalValue{}

// Engine evaluates generated code in a restricted interpreter. Every print
// call made by the program must go to out; nothing else may observe it.
// Implementations must not grant filesystem, network or process access.
type Engine interface {
	Name() string
	Run(ctx context.Context, code string, out *Capture) (FinalValue, error)
}

// Package types names the interpreters generated code can run on.
package types

import (
	"fmt"
	"strings"
)

// Type identifies an engine.
type Type string

const (
	// Starlark runs Python-like generated code. It is the default.
	Starlark Type = "starlark"
	// Risor runs Go-like generated code.
	Risor Type = "risor"
	// Extism runs generated code inside a WASM interpreter plugin.
	Extism Type = "extism"
)

// Default is the engine used when none is configured.
const Default = Starlark

// All lists every supported engine type.
func All() []Type {
	return []Type{Starlark, Risor, Extism}
}

// Parse converts a name such as "Starlark" into a Type.
func Parse(name string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(name)))
	if t == "" {
		return Default, nil
	}
	for _, known := range All() {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown engine type %q", name)
}

func (t Type) String() string {
	return string(t)
}

package starlark

import (
	starlarkJSON "go.starlark.net/lib/json"
	starlarkMath "go.starlark.net/lib/math"
	starlarkTime "go.starlark.net/lib/time"
	starlarkLib "go.starlark.net/starlark"
)

// Module names predeclared for every program, on top of the Starlark
// universe. None of them touch the filesystem, network or processes.
const (
	namespaceJSON = "json"
	namespaceMath = "math"
	namespaceTime = "time"
)

// standardModules returns a fresh copy of the allow-listed modules.
func standardModules() starlarkLib.StringDict {
	return starlarkLib.StringDict{
		namespaceJSON: starlarkJSON.Module,
		namespaceMath: starlarkMath.Module,
		namespaceTime: starlarkTime.Module,
	}
}

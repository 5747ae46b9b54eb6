package risor

import (
	"context"
	"strings"

	risorBuiltins "github.com/risor-io/risor/builtins"
	risorJSON "github.com/risor-io/risor/modules/json"
	risorMath "github.com/risor-io/risor/modules/math"
	risorStrings "github.com/risor-io/risor/modules/strings"
	"github.com/risor-io/risor/object"

	"github.com/robbyt/go-compilepad/platform/sandbox"
)

const (
	namespaceJSON    = "json"
	namespaceMath    = "math"
	namespaceStrings = "strings"
)

// standardModules returns the modules visible to every program. Risor's
// default globals also expose os, exec and http; those are never added.
func standardModules() map[string]any {
	return map[string]any{
		namespaceJSON:    risorJSON.Module(),
		namespaceMath:    risorMath.Module(),
		namespaceStrings: risorStrings.Module(),
	}
}

// runGlobals merges the pure builtins, the configured globals and a print
// function bound to out.
func runGlobals(configured map[string]any, out *sandbox.Capture) map[string]any {
	globals := make(map[string]any, len(configured)+64)
	for name, fn := range risorBuiltins.Builtins() {
		globals[name] = fn
	}
	for name, v := range configured {
		globals[name] = v
	}
	globals["print"] = printBuiltin(out)
	return globals
}

func printBuiltin(out *sandbox.Capture) *object.Builtin {
	return object.NewBuiltin("print", func(_ context.Context, args ...object.Object) object.Object {
		parts := make([]string, 0, len(args))
		for _, arg := range args {
			parts = append(parts, display(arg))
		}
		out.Append(strings.Join(parts, " "))
		return object.Nil
	})
}

// display renders a value the way print shows it: strings raw, everything
// else in its inspected form.
func display(obj object.Object) string {
	if s, ok := obj.(*object.String); ok {
		return s.Value()
	}
	return obj.Inspect()
}

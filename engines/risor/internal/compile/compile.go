// Package compile turns Risor source into bytecode.
package compile

import (
	"context"
	"errors"
	"fmt"

	risorCompiler "github.com/risor-io/risor/compiler"
	risorErrors "github.com/risor-io/risor/errz"
	risorParser "github.com/risor-io/risor/parser"
)

// ErrCompileFailed wraps parse and compile errors.
var ErrCompileFailed = errors.New("risor compilation error")

// Compile parses source and compiles it with globals visible by name.
func Compile(ctx context.Context, source string, globals []string) (*risorCompiler.Code, error) {
	ast, err := risorParser.Parse(ctx, source)
	if err != nil {
		// Syntax errors carry a friendlier rendering with the offending line.
		errMsg := err.Error()
		var friendlyErr risorErrors.FriendlyError
		if errors.As(err, &friendlyErr) {
			errMsg = friendlyErr.FriendlyErrorMessage()
		}
		return nil, fmt.Errorf("%w: %s", ErrCompileFailed, errMsg)
	}

	bc, err := risorCompiler.Compile(ast, risorCompiler.WithGlobalNames(globals))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompileFailed, err)
	}
	return bc, nil
}

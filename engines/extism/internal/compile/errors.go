package compile

import "errors"

var (
	ErrContentNil    = errors.New("wasm content is empty")
	ErrInvalidBinary = errors.New("invalid wasm binary")
	ErrCompileFailed = errors.New("failed to compile wasm plugin")
)

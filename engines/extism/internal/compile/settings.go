package compile

import (
	"github.com/tetratelabs/wazero"
)

// Settings holds configuration for compiling a WASM plugin.
type Settings struct {
	// EnableWASI exposes WASI imports to the plugin.
	EnableWASI bool
	// RuntimeConfig customizes the wazero runtime.
	RuntimeConfig wazero.RuntimeConfig
}

// DefaultSettings returns settings with WASI off and a runtime that aborts
// calls when their context is done.
func DefaultSettings() *Settings {
	return &Settings{
		EnableWASI:    false,
		RuntimeConfig: wazero.NewRuntimeConfig().WithCloseOnContextDone(true),
	}
}

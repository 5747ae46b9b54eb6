// Package compile builds Extism plugins from WASM bytes.
package compile

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	extismSDK "github.com/extism/go-sdk"
	"github.com/robbyt/go-compilepad/engines/extism/adapters"
)

// wasmMagic starts every binary WASM module.
const wasmMagic = "\x00asm"

// Bytes compiles a plugin from WASM content. Base64 text is decoded first.
func Bytes(ctx context.Context, content []byte, opts *Settings) (adapters.CompiledPlugin, error) {
	if len(content) == 0 {
		return nil, ErrContentNil
	}
	if !strings.HasPrefix(string(content[:min(len(content), len(wasmMagic))]), wasmMagic) {
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(content)))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidBinary, err)
		}
		content = decoded
	}
	return compile(ctx, content, opts)
}

func compile(ctx context.Context, wasmBytes []byte, opts *Settings) (adapters.CompiledPlugin, error) {
	if len(wasmBytes) == 0 {
		return nil, ErrContentNil
	}
	if opts == nil {
		opts = DefaultSettings()
	}

	manifest := extismSDK.Manifest{
		Wasm: []extismSDK.Wasm{
			extismSDK.WasmData{
				Data: wasmBytes,
			},
		},
	}
	config := extismSDK.PluginConfig{
		EnableWasi:    opts.EnableWASI,
		RuntimeConfig: opts.RuntimeConfig,
	}

	plugin, err := extismSDK.NewCompiledPlugin(ctx, manifest, config, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompileFailed, err)
	}
	return adapters.NewCompiledPluginAdapter(plugin), nil
}

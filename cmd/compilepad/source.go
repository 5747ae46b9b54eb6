package main

import (
	"fmt"
	"io"

	"github.com/robbyt/go-compilepad/platform/script/loader"
	"github.com/spf13/cobra"
)

// sourceLoader picks where program text comes from: --code, a file
// argument, or stdin when the argument is "-" or missing.
func sourceLoader(cmd *cobra.Command, code string, args []string) (loader.Loader, error) {
	if code != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("--code and a file argument are mutually exclusive")
		}
		return loader.NewFromString(code)
	}
	if len(args) > 0 && args[0] != "-" {
		return loader.NewFromDisk(args[0])
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return loader.NewFromString(string(data))
}

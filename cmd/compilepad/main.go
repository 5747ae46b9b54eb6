// Command compilepad is a terminal front end for a compiler playground:
// it sends source to the remote compiler, shows tokens, syntax tree and
// generated code, and runs the generated code locally.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:          "compilepad",
		Short:        "Compile and run code against a compiler playground service",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to a TOML config file")
	rootCmd.PersistentFlags().StringVar(&flags.endpoint, "endpoint", "", "compile endpoint URL")
	rootCmd.PersistentFlags().StringVar(&flags.engine, "engine", "", "engine for generated code (starlark, risor, extism)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newCompileCmd(flags))
	rootCmd.AddCommand(newRunCmd(flags))
	rootCmd.AddCommand(newExecCmd(flags))
	rootCmd.AddCommand(newReplCmd(flags))
	return rootCmd
}

package main

import (
	"fmt"

	"github.com/robbyt/go-compilepad/platform/sandbox"
	"github.com/robbyt/go-compilepad/platform/script/loader"
	"github.com/spf13/cobra"
)

func newExecCmd(flags *globalFlags) *cobra.Command {
	var code string

	cmd := &cobra.Command{
		Use:   "exec [file|-]",
		Short: "Execute already generated code without compiling",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ldr, err := sourceLoader(cmd, code, args)
			if err != nil {
				return err
			}
			generated, err := loader.ReadAll(ldr)
			if err != nil {
				return err
			}
			s, err := session(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close(cmd.Context())

			outcome := s.Execute(cmd.Context(), string(generated))
			renderOutcome(cmd.OutOrStdout(), outcome)
			if outcome.Kind == sandbox.Failure {
				return fmt.Errorf("execution failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&code, "code", "c", "", "generated code to execute")
	return cmd
}

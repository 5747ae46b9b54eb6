package main

import (
	"github.com/spf13/cobra"
)

func newCompileCmd(flags *globalFlags) *cobra.Command {
	var code string

	cmd := &cobra.Command{
		Use:   "compile [file|-]",
		Short: "Compile source and show tokens, syntax tree and generated code",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ldr, err := sourceLoader(cmd, code, args)
			if err != nil {
				return err
			}
			s, err := session(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if err := s.Editor().Load(ldr); err != nil {
				return err
			}

			rep, err := s.Compile(cmd.Context())
			renderReport(cmd.OutOrStdout(), rep)
			return err
		},
	}
	cmd.Flags().StringVarP(&code, "code", "c", "", "source text to compile")
	return cmd
}

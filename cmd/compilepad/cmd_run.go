package main

import (
	"github.com/spf13/cobra"
)

func newRunCmd(flags *globalFlags) *cobra.Command {
	var code string

	cmd := &cobra.Command{
		Use:   "run [file|-]",
		Short: "Compile source and execute the generated code",
		Long: `Compile source with the remote compiler, then run the generated code
on the configured engine. Output is the compile report followed by the
program output: printed lines, the final value, or an error.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ldr, err := sourceLoader(cmd, code, args)
			if err != nil {
				return err
			}
			s, err := session(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close(cmd.Context())
			if err := s.Editor().Load(ldr); err != nil {
				return err
			}

			rep, err := s.Run(cmd.Context())
			renderReport(cmd.OutOrStdout(), rep)
			return err
		},
	}
	cmd.Flags().StringVarP(&code, "code", "c", "", "source text to run")
	return cmd
}

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formstate/pkg/prompt"
)

func newFillCommand(a *app) *cobra.Command {
	var outFile string
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Prompt for every field of a form and print the submitted payload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			filler := prompt.New(
				prompt.WithDriver(prompt.NewSurveyDriver(cmd.ErrOrStderr())),
				prompt.WithOutputFormat(prompt.ParseOutputFormat(a.cfg.Output)),
			)
			out, err := filler.Render(cmd.Context(), f)
			if err != nil {
				return err
			}
			if outFile != "" {
				if err := os.WriteFile(outFile, out, 0o644); err != nil {
					return err
				}
				cmd.PrintErrf("Payload written to %s\n", outFile)
				return nil
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVarP(&outFile, "file", "f", "", "write the payload to a file instead of stdout")
	return cmd
}

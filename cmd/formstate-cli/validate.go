package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/prompt"
)

var errInvalidValues = errors.New("values failed validation")

func newValidateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <values-file>",
		Short: "Submit a JSON or YAML values file and report field errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readValues(args[0])
			if err != nil {
				return err
			}
			f, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			for _, field := range f.Schema().Model().Fields {
				value, ok := raw[field.Name]
				if !ok {
					continue
				}
				if err := f.SetValue(field.Name, value, form.SetOptions{ShouldDirty: true}); err != nil {
					return fmt.Errorf("set %s: %w", field.Name, err)
				}
			}

			out := cmd.OutOrStdout()
			result, err := f.Submit(cmd.Context(), func(_ context.Context, payload map[string]any) error {
				encoded, err := prompt.Serialize(payload, prompt.ParseOutputFormat(a.cfg.Output))
				if err != nil {
					return err
				}
				_, err = out.Write(encoded)
				return err
			}, nil)
			if err != nil {
				return err
			}
			if result.Valid() {
				return nil
			}
			for _, path := range result.Errors.Paths() {
				fmt.Fprintf(out, "%s: %s\n", path, result.Errors.Message(path))
			}
			return errInvalidValues
		},
	}
}

// readValues decodes a values file. YAML is a superset of JSON so one
// decoder serves both.
func readValues(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if values == nil {
		values = map[string]any{}
	}
	return values, nil
}

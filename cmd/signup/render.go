package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-signup/internal/platform/logger"
	"github.com/goliatone/go-signup/pkg/form"
	"github.com/goliatone/go-signup/pkg/openapi"
	"github.com/goliatone/go-signup/pkg/registration"
	"github.com/goliatone/go-signup/pkg/render"
)

func renderCmd(flags *globalFlags) *cobra.Command {
	var (
		valuesPath string
		renderer   string
		output     string
		submit     bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the registration page once",
		Long: `Render the form for a set of values, optionally after submitting it.

Values are read from a YAML or JSON file with firstName, lastName,
email and password keys.

Examples:
  signup render > form.html
  signup render --values ada.yaml --submit --renderer json
  signup render --values ada.json --submit -o page.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			values, err := readValues(valuesPath)
			if err != nil {
				return err
			}

			registry, err := buildRegistry(a)
			if err != nil {
				return err
			}
			r, err := registry.Get(renderer)
			if err != nil {
				return err
			}

			fields, err := openapi.Fields(cmd.Context())
			if err != nil {
				return err
			}

			controller := form.New(
				form.WithValues(values),
				form.WithLogger(logger.Named(a.logger, "form")),
			)
			snap := controller.Snapshot()
			if submit {
				snap = controller.Submit()
			}

			page, err := r.Render(cmd.Context(), render.NewView(snap, render.ViewOptions{
				Copy:   a.copy,
				Fields: fields,
			}))
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, page)
		},
	}

	cmd.Flags().StringVar(&valuesPath, "values", "", "YAML or JSON file with form values")
	cmd.Flags().StringVarP(&renderer, "renderer", "r", "vanilla", "Renderer name (vanilla, json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	cmd.Flags().BoolVar(&submit, "submit", false, "Submit the values before rendering")
	return cmd
}

// readValues decodes a values file. JSON documents parse as YAML.
func readValues(path string) (registration.FormValues, error) {
	var values registration.FormValues
	if strings.TrimSpace(path) == "" {
		return values, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return values, fmt.Errorf("read values %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return values, fmt.Errorf("parse values %s: %w", path, err)
	}
	return values, nil
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

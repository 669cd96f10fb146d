package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-signup/internal/platform/logger"
	"github.com/goliatone/go-signup/pkg/renderers/tui"
)

func promptCmd(flags *globalFlags) *cobra.Command {
	var (
		format      string
		maxAttempts int
	)

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Fill in the registration form in the terminal",
		Long: `Prompt for each field, validate on submit and repeat until the
form is accepted. Registered users are printed on stdout.

Examples:
  signup prompt
  signup prompt --format json --max-attempts 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			outputFormat := tui.OutputFormat(format)
			switch outputFormat {
			case tui.OutputFormatJSON, tui.OutputFormatPrettyText:
			default:
				return fmt.Errorf("unsupported format %q", format)
			}

			session := tui.NewSession(
				tui.WithPromptDriver(tui.NewSurveyDriver(cmd.ErrOrStderr())),
				tui.WithCopy(a.copy),
				tui.WithOutputFormat(outputFormat),
				tui.WithMaxAttempts(maxAttempts),
				tui.WithLogger(logger.Named(a.logger, "tui")),
			)

			registered, err := session.Run(cmd.Context())
			for _, entry := range registered {
				payload, serr := session.Serialize(entry)
				if serr != nil {
					return serr
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(payload))
			}
			if errors.Is(err, tui.ErrAborted) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(tui.OutputFormatPrettyText), "Output format (pretty, json)")
	cmd.Flags().IntVar(&maxAttempts, "max-attempts", 0, "Give up after this many failed submits (0 = unlimited)")
	return cmd
}

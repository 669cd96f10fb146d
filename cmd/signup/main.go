package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-signup/internal/platform/config"
	"github.com/goliatone/go-signup/internal/platform/logger"
	"github.com/goliatone/go-signup/pkg/uischema"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
	copyPath   string
	templates  string
}

// app is the resolved runtime state handed to subcommands.
type app struct {
	cfg       config.Config
	copy      uischema.Copy
	templates string
	logger    *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "signup",
		Short: "Registration form with live validation",
		Long: `signup serves and drives a four field registration form.

The same validation core backs every surface:

  serve    HTTP page, JSON API and live websocket sessions
  prompt   interactive terminal form
  render   one-off page rendering from a values file`,
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Path to a YAML configuration file")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&flags.logFormat, "log-format", "", "Log format (console, json)")
	pf.StringVar(&flags.copyPath, "copy", "", "Path to a YAML or JSON copy document")
	pf.StringVar(&flags.templates, "templates", "", "Directory overriding the embedded page templates")

	rootCmd.AddCommand(
		serveCmd(flags),
		promptCmd(flags),
		renderCmd(flags),
	)
	return rootCmd
}

// setup resolves configuration in order: defaults, file, environment, flags.
func setup(cmd *cobra.Command, flags *globalFlags) (*app, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	changed := cmd.Flags().Changed
	if changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if changed("log-format") {
		cfg.Log.Format = flags.logFormat
	}
	if changed("copy") {
		cfg.CopyFile = flags.copyPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	copyDoc, err := uischema.LoadFile(cfg.CopyFile)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, copy: copyDoc, templates: flags.templates, logger: log}, nil
}

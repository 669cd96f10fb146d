package main

import (
	"os"
	"os/signal"
	"syscall"

	theme "github.com/goliatone/go-theme"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-signup/internal/platform/logger"
	"github.com/goliatone/go-signup/internal/server"
	"github.com/goliatone/go-signup/pkg/render"
	"github.com/goliatone/go-signup/pkg/renderers/vanilla"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the registration form over HTTP",
		Long: `Serve the registration page, the JSON validation API and live
websocket sessions.

Examples:
  signup serve
  signup serve --addr :3000
  signup serve -c signup.yaml --log-format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr = addr
			}

			registry, err := buildRegistry(a)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := server.New(ctx,
				server.WithLogger(logger.Named(a.logger, "server")),
				server.WithCopy(a.copy),
				server.WithRegistry(registry),
				server.WithLiveIdleTimeout(a.cfg.Server.LiveIdleTimeout),
			)
			if err != nil {
				return err
			}
			return srv.Run(ctx, a.cfg.Server)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")
	return cmd
}

// buildRegistry registers the themed HTML renderer first so it is the
// default, followed by the JSON renderer.
func buildRegistry(a *app) (*render.Registry, error) {
	html, err := vanilla.New(
		vanilla.WithCopy(a.copy),
		vanilla.WithTemplatesDir(a.templates),
		vanilla.WithTheme(&theme.RendererConfig{
			Theme:   a.cfg.Theme.Name,
			Variant: a.cfg.Theme.Variant,
			CSSVars: a.cfg.Theme.CSSVars,
		}),
		vanilla.WithLogger(logger.Named(a.logger, "backdrop")),
	)
	if err != nil {
		return nil, err
	}

	registry := render.NewRegistry()
	if err := registry.Register(html); err != nil {
		return nil, err
	}
	if err := registry.Register(render.JSONRenderer{}); err != nil {
		return nil, err
	}
	return registry, nil
}

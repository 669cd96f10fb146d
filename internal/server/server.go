// Package server exposes the sign-up form over HTTP: the server-rendered page,
// a JSON validation endpoint, the live websocket session and metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	formdec "github.com/go-playground/form/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/goliatone/go-signup/internal/platform/config"
	"github.com/goliatone/go-signup/internal/platform/metrics"
	"github.com/goliatone/go-signup/pkg/live"
	"github.com/goliatone/go-signup/pkg/openapi"
	"github.com/goliatone/go-signup/pkg/render"
	"github.com/goliatone/go-signup/pkg/renderers/vanilla"
	"github.com/goliatone/go-signup/pkg/uischema"
)

const (
	tracerName    = "github.com/goliatone/go-signup/internal/server"
	stylesheetURL = "/assets/" + vanilla.StylesheetName
	liveURL       = "/live"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger attaches a logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRegistry replaces the renderer registry. It must hold an HTML renderer
// for text/html and may hold a JSON renderer.
func WithRegistry(registry *render.Registry) Option {
	return func(s *Server) {
		if registry != nil {
			s.registry = registry
		}
	}
}

// WithCopy sets the texts used to build views.
func WithCopy(copyDoc uischema.Copy) Option {
	return func(s *Server) {
		s.copy = copyDoc
	}
}

// WithMetrics records form outcomes on m and serves g on /metrics.
func WithMetrics(m *metrics.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		if m != nil && g != nil {
			s.metrics = m
			s.gatherer = g
		}
	}
}

// WithTracer overrides the tracer. Defaults to the global provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Server) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithLiveIdleTimeout closes idle websocket sessions.
func WithLiveIdleTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.liveIdle = d
	}
}

// Server wires handlers to a chi router.
type Server struct {
	router   chi.Router
	registry *render.Registry
	copy     uischema.Copy
	fields   []render.FieldSpec
	apiDoc   []byte
	decoder  *formdec.Decoder
	logger   *zap.SugaredLogger
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	tracer   trace.Tracer
	liveIdle time.Duration
}

// New builds a Server. Without options it renders with the vanilla and JSON
// renderers, the default copy, and a private Prometheus registry.
func New(ctx context.Context, options ...Option) (*Server, error) {
	s := &Server{
		copy:    uischema.Default(),
		decoder: formdec.NewDecoder(),
		logger:  zap.NewNop().Sugar(),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	if s.metrics == nil {
		reg := prometheus.NewRegistry()
		s.metrics = metrics.New(reg)
		s.gatherer = reg
	}

	if s.registry == nil {
		html, err := vanilla.New(vanilla.WithCopy(s.copy), vanilla.WithLogger(s.logger.Named("backdrop")))
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		s.registry = render.NewRegistry()
		s.registry.MustRegister(html)
		s.registry.MustRegister(render.JSONRenderer{})
	}

	doc, err := openapi.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	if s.fields, err = doc.Fields(); err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	if s.apiDoc, err = doc.JSON(); err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleForm)
	r.Post("/", s.handleFormPost)
	r.Post("/api/register", s.handleRegister)
	r.Get("/api/openapi.json", s.handleOpenAPI)
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(vanilla.AssetsFS()))))
	r.Handle(liveURL, live.NewHandler(
		live.WithLogger(s.logger.Named("live")),
		live.WithObserver(s.metrics),
		live.WithIdleTimeout(s.liveIdle),
	))
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down within the configured
// grace period.
func (s *Server) Run(ctx context.Context, cfg config.Server) error {
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Infow("listening", "addr", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server: listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Infow("shutting down", "grace", cfg.ShutdownTimeout)
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

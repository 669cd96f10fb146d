package vanilla

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"strings"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-signup/pkg/backdrop"
	"github.com/goliatone/go-signup/pkg/render"
	rendertemplate "github.com/goliatone/go-signup/pkg/render/template"
	gotemplate "github.com/goliatone/go-signup/pkg/render/template/gotemplate"
	"github.com/goliatone/go-signup/pkg/uischema"
)

const (
	pageTemplate = "templates/page.tmpl"
	formTemplate = "templates/form.tmpl"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateDir      string
	templateRenderer rendertemplate.TemplateRenderer
	theme            *theme.RendererConfig
	copy             *uischema.Copy
	backdrop         *backdrop.Options
	logger           *zap.SugaredLogger
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk laid out like the
// embedded bundle (templates/page.tmpl, templates/form.tmpl, ...). Includes
// resolve inside that directory, so it should carry every template it uses.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.templateDir = strings.TrimSpace(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTheme injects theme CSS variables and an optional theme stylesheet.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(c *config) {
		c.theme = cfg
	}
}

// WithCopy sets the copy used for the backdrop colours and as title fallback.
func WithCopy(copyDoc uischema.Copy) Option {
	return func(cfg *config) {
		cfg.copy = &copyDoc
	}
}

// WithBackdrop overrides the backdrop options derived from the copy.
func WithBackdrop(opts backdrop.Options) Option {
	return func(cfg *config) {
		cfg.backdrop = &opts
	}
}

// WithLogger attaches a logger; backdrop lifecycle traces go through it.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Renderer renders the sign-up page as server-side HTML.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	theme     themeContext
	copy      uischema.Copy
	backdrop  backdrop.Options
	logger    *zap.SugaredLogger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	themeCtx := buildThemeContext(cfg.theme)
	globals := map[string]any{"theme": themeCtx}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engineOpts := []gotemplate.Option{
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
			gotemplate.WithGlobalData(globals),
		}
		if cfg.templateDir != "" {
			engineOpts = append(engineOpts, gotemplate.WithBaseDir(cfg.templateDir))
		}
		engine, err := gotemplate.New(engineOpts...)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	} else if err := renderer.GlobalContext(globals); err != nil {
		return nil, fmt.Errorf("vanilla renderer: apply theme globals: %w", err)
	}

	copyDoc := uischema.Default()
	if cfg.copy != nil {
		copyDoc = copyDoc.Merge(*cfg.copy)
	}
	effectOpts := backdrop.FromCopy(copyDoc.Backdrop)
	if cfg.backdrop != nil {
		effectOpts = *cfg.backdrop
	}
	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &Renderer{
		templates: renderer,
		theme:     themeCtx,
		copy:      copyDoc,
		backdrop:  effectOpts,
		logger:    logger,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces a full HTML page. A backdrop is mounted for the duration of
// the call and the form markup is placed inside it.
func (r *Renderer) Render(ctx context.Context, view render.View) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if strings.TrimSpace(view.Title) == "" {
		view.Title = r.copy.Title
	}

	data := map[string]any{
		"view": view,
	}
	formHTML, err := r.templates.RenderTemplate(formTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render form: %w", err)
	}

	effect, err := backdrop.Mount(ctx, r.backdrop, backdrop.WithLogger(r.logger))
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: mount backdrop: %w", err)
	}
	defer effect.Destroy()

	data["region"] = effect.Wrap(template.HTML(formHTML))
	if view.StylesheetURL == "" && r.theme.StylesheetURL == "" {
		data["inlineStylesheet"] = defaultStylesheet()
	}

	result, err := r.templates.RenderTemplate(pageTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render page: %w", err)
	}
	return []byte(result), nil
}

package vanilla

import (
	"errors"
	"html"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-signup/pkg/backdrop"
	"github.com/goliatone/go-signup/pkg/form"
	"github.com/goliatone/go-signup/pkg/registration"
	"github.com/goliatone/go-signup/pkg/render"
	"github.com/goliatone/go-signup/pkg/testsupport"
)

func TestRenderer_IdlePage(t *testing.T) {
	output := renderView(t, render.NewView(form.New().Snapshot(), render.ViewOptions{}))

	assertContains(t, output,
		"<title>Sign-Up Club 👇</title>",
		`<h1 class="signup-title">Sign-Up Club 👇</h1>`,
		`<form class="signup-form" method="post" action="/" data-status="idle" novalidate>`,
		`<input type="hidden" name="_action" value="submit">`,
		`type="email" name="email" value="" autocomplete="email"`,
		`type="password" name="password" value="" autocomplete="new-password"`,
		`>Register 🚀</button>`,
		`class="signup-backdrop signup-backdrop--active"`,
		"data-backdrop-options=",
		".signup-card",
	)
	assertNotContains(t, output, "signup-banner", `aria-invalid="true"`)
}

func TestRenderer_WarningShowsInlineErrors(t *testing.T) {
	snap := testsupport.SubmittedSnapshot(t, registration.FormValues{
		FirstName: "Ada",
		Email:     "ada@yahoo.com",
		Password:  "short",
	})
	output := renderView(t, render.NewView(snap, render.ViewOptions{}))

	assertContains(t, output,
		`data-status="warning"`,
		`name="lastName" value="" autocomplete="family-name" aria-invalid="true" aria-describedby="lastName-error"`,
		`<p id="lastName-error" class="signup-error">`+registration.MsgLastNameRequired+`</p>`,
		html.EscapeString(registration.MsgEmailFormat),
		html.EscapeString(registration.MsgPasswordStrength),
		`role="alert">Please complete all fields.</p>`,
		`<input type="hidden" name="_action" value="submit">`,
	)
	assertNotContains(t, output, `aria-describedby="firstName-error"`)
}

func TestRenderer_SuccessOffersReset(t *testing.T) {
	snap := testsupport.SubmittedSnapshot(t, testsupport.ValidValues())
	output := renderView(t, render.NewView(snap, render.ViewOptions{}))

	assertContains(t, output,
		`data-status="success"`,
		`role="status">Registration successful! 🎉</p>`,
		`<input type="hidden" name="_action" value="reset">`,
		`signup-button--reset">Register another user</button>`,
	)
}

func TestRenderer_EscapesValues(t *testing.T) {
	controller := form.New()
	if err := controller.SetField(registration.FieldFirstName, `<script>alert("x")</script>`); err != nil {
		t.Fatalf("set field: %v", err)
	}
	output := renderView(t, render.NewView(controller.Snapshot(), render.ViewOptions{}))

	assertContains(t, output, "&lt;script&gt;")
	assertNotContains(t, output, "<script>alert")
}

func TestRenderer_ThemeConfig(t *testing.T) {
	renderer, err := New(WithTheme(&theme.RendererConfig{
		Theme:   "acme",
		Variant: "dark",
		CSSVars: map[string]string{
			"--brand":      "#123456",
			"--signup-ink": "#101010",
			"--bad":        "red;}body{display:none",
			"color":        "red",
		},
		AssetURL: func(key string) string {
			if key == "" {
				return ""
			}
			return "/themes/acme/" + key
		},
	}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := renderer.Render(testsupport.Context(), render.NewView(form.New().Snapshot(), render.ViewOptions{}))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	output := string(out)

	assertContains(t, output,
		`<link rel="stylesheet" href="/themes/acme/vanilla.stylesheet">`,
		`<style data-theme="acme" data-variant="dark">:root{--brand:#123456;--signup-ink:#101010;}</style>`,
	)
	assertNotContains(t, output, "display:none", ".signup-card")
}

func TestRenderer_ViewStylesheetURL(t *testing.T) {
	output := renderView(t, render.NewView(form.New().Snapshot(), render.ViewOptions{StylesheetURL: "/assets/signup.css"}))

	assertContains(t, output, `<link rel="stylesheet" href="/assets/signup.css">`)
	assertNotContains(t, output, ".signup-card")
}

func TestRenderer_DisabledBackdropKeepsForm(t *testing.T) {
	opts := backdrop.DefaultOptions()
	opts.Disabled = true
	renderer, err := New(WithBackdrop(opts))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	view := render.NewView(form.New().Snapshot(), render.ViewOptions{StylesheetURL: "/assets/signup.css"})
	out, err := renderer.Render(testsupport.Context(), view)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	output := string(out)

	assertContains(t, output, `style="background-color:#bcf8fb"`, `<form class="signup-form"`)
	assertNotContains(t, output, "signup-backdrop--active", "data-backdrop-options")
}

func TestRenderer_InvalidBackdrop(t *testing.T) {
	opts := backdrop.DefaultOptions()
	opts.Color = "cyan"
	renderer, err := New(WithBackdrop(opts))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	_, err = renderer.Render(testsupport.Context(), render.NewView(form.New().Snapshot(), render.ViewOptions{}))
	if !errors.Is(err, backdrop.ErrInvalidOptions) {
		t.Fatalf("expected ErrInvalidOptions, got %v", err)
	}
}

func TestRenderer_WrapsFormInBackdropRegion(t *testing.T) {
	stub := &recordingTemplates{}
	renderer, err := New(WithTemplateRenderer(stub))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := renderer.Render(testsupport.Context(), render.View{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "page" {
		t.Fatalf("unexpected output %q", out)
	}
	if got := strings.Join(stub.names, ","); got != formTemplate+","+pageTemplate {
		t.Fatalf("unexpected template order %s", got)
	}

	region, ok := stub.pageData["region"].(backdrop.Region)
	if !ok {
		t.Fatalf("page data missing backdrop region: %#v", stub.pageData["region"])
	}
	if string(region.Children) != "form" || !region.Active {
		t.Fatalf("unexpected region %+v", region)
	}
	view, ok := stub.pageData["view"].(render.View)
	if !ok || view.Title != "Sign-Up Club 👇" {
		t.Fatalf("empty title should fall back to copy, got %#v", stub.pageData["view"])
	}
}

func TestRenderer_ThemeIsGlobalForInjectedTemplates(t *testing.T) {
	stub := &recordingTemplates{}
	if _, err := New(WithTemplateRenderer(stub), WithTheme(&theme.RendererConfig{Theme: "acme", Variant: "dark"})); err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	got, ok := stub.globals["theme"].(themeContext)
	if !ok {
		t.Fatalf("expected theme globals, got %#v", stub.globals)
	}
	if got.Name != "acme" || got.Variant != "dark" {
		t.Fatalf("unexpected theme globals %+v", got)
	}
}

func TestRenderer_TemplatesDir(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "templates/page.tmpl",
		`<main data-theme="{{ theme.name }}">{{ region.children|safe }}</main>`)
	writeTemplate(t, dir, "templates/form.tmpl",
		`<form data-status="{{ view.status }}">{{ view.button.label }}</form>`)

	renderer, err := New(
		WithTemplatesDir(dir),
		WithTheme(&theme.RendererConfig{Theme: "club"}),
	)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := renderer.Render(testsupport.Context(), render.NewView(form.New().Snapshot(), render.ViewOptions{}))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<main data-theme="club"><form data-status="idle">Register 🚀</form></main>`
	if strings.TrimSpace(string(out)) != want {
		t.Fatalf("templates dir output mismatch\nwant: %s\n got: %s", want, out)
	}
}

func writeTemplate(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
}

func TestAssetsFSIncludesStylesheet(t *testing.T) {
	data, err := fs.ReadFile(AssetsFS(), StylesheetName)
	if err != nil {
		t.Fatalf("expected stylesheet to be readable: %v", err)
	}
	if !strings.Contains(string(data), "--backdrop-color") {
		t.Fatalf("expected stylesheet to consume backdrop colours")
	}
}

func TestCSSVarsStyle(t *testing.T) {
	if got := cssVarsStyle(nil); got != "" {
		t.Fatalf("expected empty style, got %q", got)
	}
	got := cssVarsStyle(map[string]string{"--b": " 2px ", "--a": "1px", "--c": "url(x)<"})
	if got != ":root{--a:1px;--b:2px;}" {
		t.Fatalf("unexpected style %q", got)
	}
}

type recordingTemplates struct {
	names    []string
	pageData map[string]any
	globals  map[string]any
}

func (r *recordingTemplates) Render(name string, data any, out ...io.Writer) (string, error) {
	return r.RenderTemplate(name, data, out...)
}

func (r *recordingTemplates) RenderTemplate(name string, data any, _ ...io.Writer) (string, error) {
	r.names = append(r.names, name)
	if name == pageTemplate {
		r.pageData, _ = data.(map[string]any)
		return "page", nil
	}
	return "form", nil
}

func (r *recordingTemplates) RenderString(string, any, ...io.Writer) (string, error) {
	return "", nil
}

func (r *recordingTemplates) RegisterFilter(string, func(any, any) (any, error)) error {
	return nil
}

func (r *recordingTemplates) GlobalContext(data any) error {
	r.globals, _ = data.(map[string]any)
	return nil
}

func renderView(t *testing.T, view render.View) string {
	t.Helper()

	renderer, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(testsupport.Context(), view)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func assertContains(t *testing.T, output string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(output, fragment) {
			t.Fatalf("expected output to contain %q\n%s", fragment, output)
		}
	}
}

func assertNotContains(t *testing.T, output string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if strings.Contains(output, fragment) {
			t.Fatalf("expected output not to contain %q\n%s", fragment, output)
		}
	}
}

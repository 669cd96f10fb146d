package vanilla

import (
	"regexp"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ThemeStylesheetKey is the asset key resolved through RendererConfig.AssetURL
// for a theme-provided stylesheet.
const ThemeStylesheetKey = "vanilla.stylesheet"

var cssVarName = regexp.MustCompile(`^--[a-zA-Z0-9_-]+$`)

type themeContext struct {
	Name          string `json:"name,omitempty"`
	Variant       string `json:"variant,omitempty"`
	CSSVarsStyle  string `json:"cssVarsStyle,omitempty"`
	StylesheetURL string `json:"stylesheetURL,omitempty"`
}

func buildThemeContext(cfg *theme.RendererConfig) themeContext {
	if cfg == nil {
		return themeContext{}
	}
	ctx := themeContext{
		Name:         cfg.Theme,
		Variant:      cfg.Variant,
		CSSVarsStyle: cssVarsStyle(cfg.CSSVars),
	}
	if cfg.AssetURL != nil {
		ctx.StylesheetURL = cfg.AssetURL(ThemeStylesheetKey)
	}
	return ctx
}

// cssVarsStyle renders a :root rule. Names must be custom properties and
// values may not break out of the declaration; offending entries are skipped.
func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		if cssVarName.MatchString(key) && safeCSSValue(vars[key]) {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root{")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(":")
		b.WriteString(strings.TrimSpace(vars[key]))
		b.WriteString(";")
	}
	b.WriteString("}")
	return b.String()
}

func safeCSSValue(value string) bool {
	value = strings.TrimSpace(value)
	return value != "" && !strings.ContainsAny(value, ";{}<>\\")
}

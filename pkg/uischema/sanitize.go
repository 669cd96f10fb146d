package uischema

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	inlinePolicyOnce sync.Once
	inlinePolicy     *bluemonday.Policy
)

// Sanitize strips everything but inline formatting from markup.
func Sanitize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(inlineSanitizer().Sanitize(trimmed))
}

// Plain removes all markup and decodes entities, for terminal output.
func Plain(raw string) string {
	stripped := bluemonday.StrictPolicy().Sanitize(raw)
	return strings.TrimSpace(html.UnescapeString(stripped))
}

func inlineSanitizer() *bluemonday.Policy {
	inlinePolicyOnce.Do(func() {
		policy := bluemonday.NewPolicy()
		policy.AllowElements("b", "strong", "em", "i", "u", "small", "br", "span")
		policy.AllowAttrs("class").OnElements("span", "strong", "em")
		policy.AllowAttrs("role", "aria-hidden").OnElements("span")
		inlinePolicy = policy
	})
	return inlinePolicy
}

func sanitizeCopy(c Copy) Copy {
	out := c.clone()
	out.Title = Sanitize(out.Title)
	for name, fc := range out.Fields {
		fc.Label = Sanitize(fc.Label)
		fc.Placeholder = Plain(fc.Placeholder)
		fc.HelpText = Sanitize(fc.HelpText)
		out.Fields[name] = fc
	}
	for status, text := range out.Banners {
		out.Banners[status] = Sanitize(text)
	}
	out.Buttons.Submit = Sanitize(out.Buttons.Submit)
	out.Buttons.Reset = Sanitize(out.Buttons.Reset)
	return out
}

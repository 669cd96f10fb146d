package uischema

import (
	"strings"

	"github.com/goliatone/go-signup/pkg/form"
	"github.com/goliatone/go-signup/pkg/registration"
)

// Copy is the full set of user-visible texts plus backdrop colours.
type Copy struct {
	Title    string               `json:"title" yaml:"title"`
	Fields   map[string]FieldCopy `json:"fields" yaml:"fields"`
	Banners  map[string]string    `json:"banners" yaml:"banners"`
	Buttons  ButtonCopy           `json:"buttons" yaml:"buttons"`
	Backdrop BackdropCopy         `json:"backdrop" yaml:"backdrop"`
}

// FieldCopy customises a single input.
type FieldCopy struct {
	Label       string `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	HelpText    string `json:"helpText,omitempty" yaml:"helpText,omitempty"`
}

// ButtonCopy labels the two mutually exclusive action buttons.
type ButtonCopy struct {
	Submit string `json:"submit" yaml:"submit"`
	Reset  string `json:"reset" yaml:"reset"`
}

// BackdropCopy configures the decorative background. Colours are #rrggbb.
type BackdropCopy struct {
	Color      string `json:"color,omitempty" yaml:"color,omitempty"`
	Color2     string `json:"color2,omitempty" yaml:"color2,omitempty"`
	Background string `json:"background,omitempty" yaml:"background,omitempty"`
	Fallback   string `json:"fallback,omitempty" yaml:"fallback,omitempty"`
	Disabled   bool   `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// Field returns the copy for field; missing labels fall back to the field
// name.
func (c Copy) Field(field registration.Field) FieldCopy {
	fc := c.Fields[field.String()]
	if strings.TrimSpace(fc.Label) == "" {
		fc.Label = field.String()
	}
	return fc
}

// Banner returns the banner text for status. Idle has no banner.
func (c Copy) Banner(status form.Status) string {
	if status == form.StatusIdle {
		return ""
	}
	return c.Banners[status.String()]
}

// Button returns the label for the action offered in status.
func (c Copy) Button(status form.Status) string {
	if status.AllowsReset() {
		return c.Buttons.Reset
	}
	return c.Buttons.Submit
}

// Merge overlays every non-empty value of override onto c.
func (c Copy) Merge(override Copy) Copy {
	out := c.clone()
	if v := strings.TrimSpace(override.Title); v != "" {
		out.Title = override.Title
	}
	for name, fc := range override.Fields {
		current := out.Fields[name]
		if strings.TrimSpace(fc.Label) != "" {
			current.Label = fc.Label
		}
		if strings.TrimSpace(fc.Placeholder) != "" {
			current.Placeholder = fc.Placeholder
		}
		if strings.TrimSpace(fc.HelpText) != "" {
			current.HelpText = fc.HelpText
		}
		out.Fields[name] = current
	}
	for status, text := range override.Banners {
		if strings.TrimSpace(text) != "" {
			out.Banners[status] = text
		}
	}
	if v := strings.TrimSpace(override.Buttons.Submit); v != "" {
		out.Buttons.Submit = override.Buttons.Submit
	}
	if v := strings.TrimSpace(override.Buttons.Reset); v != "" {
		out.Buttons.Reset = override.Buttons.Reset
	}
	out.Backdrop = mergeBackdrop(out.Backdrop, override.Backdrop)
	return out
}

func mergeBackdrop(base, override BackdropCopy) BackdropCopy {
	if override.Color != "" {
		base.Color = override.Color
	}
	if override.Color2 != "" {
		base.Color2 = override.Color2
	}
	if override.Background != "" {
		base.Background = override.Background
	}
	if override.Fallback != "" {
		base.Fallback = override.Fallback
	}
	if override.Disabled {
		base.Disabled = true
	}
	return base
}

func (c Copy) clone() Copy {
	out := c
	out.Fields = make(map[string]FieldCopy, len(c.Fields))
	for k, v := range c.Fields {
		out.Fields[k] = v
	}
	out.Banners = make(map[string]string, len(c.Banners))
	for k, v := range c.Banners {
		out.Banners[k] = v
	}
	return out
}

package uischema

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-signup/pkg/form"
	"github.com/goliatone/go-signup/pkg/registration"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// LoadFile reads an override document from disk and merges it onto Default.
// An empty path returns Default unchanged.
func LoadFile(path string) (Copy, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Copy{}, fmt.Errorf("uischema: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Load reads name from fsys and merges it onto Default.
func Load(fsys fs.FS, name string) (Copy, error) {
	if fsys == nil {
		return Default(), nil
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Copy{}, fmt.Errorf("uischema: read %s: %w", name, err)
	}
	return Parse(data, name)
}

// Parse decodes a JSON or YAML override, validates it and merges it onto
// Default. source is only used in error messages.
func Parse(data []byte, source string) (Copy, error) {
	override, err := parseDocument(data, source)
	if err != nil {
		return Copy{}, err
	}
	if err := validate(override, source); err != nil {
		return Copy{}, err
	}
	return sanitizeCopy(Default().Merge(override)), nil
}

func parseDocument(data []byte, source string) (Copy, error) {
	var doc Copy
	if len(strings.TrimSpace(string(data))) == 0 {
		return Copy{}, fmt.Errorf("uischema: file %s is empty", source)
	}

	if isJSON(source, data) {
		if err := json.Unmarshal(data, &doc); err != nil {
			return Copy{}, fmt.Errorf("uischema: parse %s: %w", source, err)
		}
		return doc, nil
	}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Copy{}, fmt.Errorf("uischema: parse %s: %w", source, err)
	}
	return doc, nil
}

func isJSON(source string, data []byte) bool {
	if strings.EqualFold(filepath.Ext(source), ".json") {
		return true
	}
	trimmed := strings.TrimSpace(string(data))
	return strings.HasPrefix(trimmed, "{")
}

func validate(doc Copy, source string) error {
	for name := range doc.Fields {
		if _, ok := registration.ParseField(name); !ok {
			return fmt.Errorf("uischema: file %s configures unknown field %q", source, name)
		}
	}
	for status := range doc.Banners {
		parsed, err := form.ParseStatus(status)
		if err != nil {
			return fmt.Errorf("uischema: file %s: banner %q: %w", source, status, err)
		}
		if parsed == form.StatusIdle {
			return fmt.Errorf("uischema: file %s: idle status has no banner", source)
		}
	}
	colors := map[string]string{
		"color":      doc.Backdrop.Color,
		"color2":     doc.Backdrop.Color2,
		"background": doc.Backdrop.Background,
		"fallback":   doc.Backdrop.Fallback,
	}
	for key, value := range colors {
		if value != "" && !hexColor.MatchString(value) {
			return fmt.Errorf("uischema: file %s: backdrop %s %q is not a #rrggbb colour", source, key, value)
		}
	}
	return nil
}

package tui

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-signup/pkg/form"
	"github.com/goliatone/go-signup/pkg/uischema"
)

// OutputFormat controls how registered values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures optional formatting hints the session applies when printing
// messages. Keep minimal to avoid coupling session logic to ANSI specifics.
type Theme struct {
	InfoPrefix    string
	ErrorPrefix   string
	SuccessPrefix string
}

// DefaultTheme is used when WithTheme is not given.
func DefaultTheme() Theme {
	return Theme{
		InfoPrefix:    "",
		ErrorPrefix:   "✗ ",
		SuccessPrefix: "✓ ",
	}
}

// Option configures the session.
type Option func(*Session)

// WithPromptDriver overrides the prompt driver used by the session.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(s *Session) {
		if format != "" {
			s.outputFormat = format
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(s *Session) {
		s.theme = theme
	}
}

// WithCopy sets labels, banners and button texts.
func WithCopy(copyDoc uischema.Copy) Option {
	return func(s *Session) {
		s.copy = copyDoc
	}
}

// WithController drives an existing controller instead of a fresh one.
func WithController(controller *form.Controller) Option {
	return func(s *Session) {
		if controller != nil {
			s.controller = controller
		}
	}
}

// WithMaxAttempts bounds the number of submissions per registration. Zero
// means unlimited.
func WithMaxAttempts(n int) Option {
	return func(s *Session) {
		if n >= 0 {
			s.maxAttempts = n
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

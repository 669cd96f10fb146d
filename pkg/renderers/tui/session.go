// Package tui runs the sign-up form as an interactive terminal session.
package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-signup/pkg/form"
	"github.com/goliatone/go-signup/pkg/registration"
	"github.com/goliatone/go-signup/pkg/uischema"
)

// Session prompts for the four fields, submits, and repeats until the
// controller reports success. It is not safe for concurrent use.
type Session struct {
	driver       PromptDriver
	controller   *form.Controller
	copy         uischema.Copy
	outputFormat OutputFormat
	theme        Theme
	maxAttempts  int
	logger       *zap.SugaredLogger
}

// Registered is one successful registration as reported to the caller. The
// password never leaves the session.
type Registered struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// NewSession constructs a Session. Without WithPromptDriver the survey-backed
// terminal driver is used.
func NewSession(options ...Option) *Session {
	s := &Session{
		copy:         uischema.Default(),
		outputFormat: OutputFormatPrettyText,
		theme:        DefaultTheme(),
		logger:       zap.NewNop().Sugar(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	if s.controller == nil {
		s.controller = form.New(form.WithLogger(s.logger))
	}
	return s
}

// Controller exposes the driven controller.
func (s *Session) Controller() *form.Controller {
	return s.controller
}

// Run loops until the user declines another registration. It returns every
// successful registration in order.
func (s *Session) Run(ctx context.Context) ([]Registered, error) {
	var registered []Registered
	for {
		snap, err := s.collect(ctx)
		if err != nil {
			return registered, err
		}
		entry := Registered{
			FirstName: snap.Values.FirstName,
			LastName:  snap.Values.LastName,
			Email:     snap.Values.Email,
		}
		registered = append(registered, entry)

		summary, err := s.Serialize(entry)
		if err != nil {
			return registered, err
		}
		if err := s.driver.Info(ctx, string(summary)); err != nil {
			return registered, err
		}

		again, err := s.driver.Confirm(ctx, ConfirmConfig{
			Message: uischema.Plain(s.copy.Button(form.StatusSuccess)) + "?",
		})
		if err != nil {
			return registered, err
		}
		if !again {
			return registered, nil
		}
		s.controller.Reset()
		s.logger.Debugw("registration reset", "count", len(registered))
	}
}

// collect prompts and submits until the controller reaches success.
func (s *Session) collect(ctx context.Context) (form.Snapshot, error) {
	if title := uischema.Plain(s.copy.Title); title != "" {
		if err := s.driver.Info(ctx, s.theme.InfoPrefix+title); err != nil {
			return form.Snapshot{}, err
		}
	}

	for attempt := 1; ; attempt++ {
		if s.maxAttempts > 0 && attempt > s.maxAttempts {
			return s.controller.Snapshot(), fmt.Errorf("%w: %d", ErrTooManyAttempts, s.maxAttempts)
		}
		if err := s.promptFields(ctx); err != nil {
			return form.Snapshot{}, err
		}

		snap := s.controller.Submit()
		s.logger.Debugw("terminal submission", "attempt", attempt, "status", snap.Status, "errors", snap.Errors.Len())

		if err := s.report(ctx, snap); err != nil {
			return form.Snapshot{}, err
		}
		if snap.Status == form.StatusSuccess {
			return snap, nil
		}
	}
}

func (s *Session) promptFields(ctx context.Context) error {
	current := s.controller.Values()
	for _, field := range registration.Fields() {
		fc := s.copy.Field(field)
		cfg := InputConfig{
			Message: uischema.Plain(fc.Label) + ":",
			Help:    uischema.Plain(fc.HelpText),
			Default: current.Get(field),
		}

		var (
			value string
			err   error
		)
		if field == registration.FieldPassword {
			value, err = s.driver.Password(ctx, cfg)
			if err == nil && value == "" {
				value = cfg.Default
			}
		} else {
			value, err = s.driver.Input(ctx, cfg)
		}
		if err != nil {
			return fmt.Errorf("tui: prompt %s: %w", field, err)
		}
		if err := s.controller.SetField(field, value); err != nil {
			return fmt.Errorf("tui: set %s: %w", field, err)
		}
	}
	return nil
}

func (s *Session) report(ctx context.Context, snap form.Snapshot) error {
	for _, fe := range snap.Errors.List() {
		label := uischema.Plain(s.copy.Field(fe.Field).Label)
		if err := s.driver.Info(ctx, fmt.Sprintf("%s%s: %s", s.theme.ErrorPrefix, label, fe.Message)); err != nil {
			return err
		}
	}
	banner := uischema.Plain(s.copy.Banner(snap.Status))
	if banner == "" {
		return nil
	}
	prefix := s.theme.ErrorPrefix
	if snap.Status == form.StatusSuccess {
		prefix = s.theme.SuccessPrefix
	}
	return s.driver.Info(ctx, prefix+banner)
}

// Serialize renders a registration in the configured output format.
func (s *Session) Serialize(entry Registered) ([]byte, error) {
	switch s.outputFormat {
	case OutputFormatJSON:
		payload, err := json.Marshal(entry)
		if err != nil {
			return nil, fmt.Errorf("tui: encode registration: %w", err)
		}
		return payload, nil
	case OutputFormatPrettyText, "":
		var b strings.Builder
		for i, field := range []registration.Field{
			registration.FieldFirstName,
			registration.FieldLastName,
			registration.FieldEmail,
		} {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "%s: %s", uischema.Plain(s.copy.Field(field).Label), entry.value(field))
		}
		return []byte(b.String()), nil
	default:
		return nil, fmt.Errorf("tui: unsupported output format %q", s.outputFormat)
	}
}

func (r Registered) value(field registration.Field) string {
	switch field {
	case registration.FieldFirstName:
		return r.FirstName
	case registration.FieldLastName:
		return r.LastName
	case registration.FieldEmail:
		return r.Email
	default:
		return ""
	}
}

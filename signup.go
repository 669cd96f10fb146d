// Package signup is the top-level entry point for the registration form. It
// re-exports the core types and offers one-call helpers for callers that do not
// need the individual packages.
package signup

import (
	"context"

	"github.com/goliatone/go-signup/pkg/form"
	"github.com/goliatone/go-signup/pkg/registration"
	"github.com/goliatone/go-signup/pkg/render"
	"github.com/goliatone/go-signup/pkg/renderers/vanilla"
)

// FormValues aliases registration.FormValues.
type FormValues = registration.FormValues

// FormErrors aliases registration.FormErrors.
type FormErrors = registration.FormErrors

// Status aliases form.Status.
type Status = form.Status

// Snapshot aliases form.Snapshot.
type Snapshot = form.Snapshot

// ViewOptions aliases render.ViewOptions for callers tuning RenderHTML.
type ViewOptions = render.ViewOptions

// NewController exposes the form controller constructor from the top-level
// module.
func NewController(options ...form.Option) *form.Controller {
	return form.New(options...)
}

// Validate runs every field rule against values.
func Validate(values FormValues) FormErrors {
	return registration.Validate(values)
}

// Submit validates values in a fresh controller and returns the resulting
// snapshot.
func Submit(values FormValues) Snapshot {
	return form.New(form.WithValues(values)).Submit()
}

// RenderHTML renders snap as a full HTML page with the vanilla renderer.
func RenderHTML(ctx context.Context, snap Snapshot, opts ViewOptions, options ...vanilla.Option) ([]byte, error) {
	renderer, err := vanilla.New(options...)
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, render.NewView(snap, opts))
}

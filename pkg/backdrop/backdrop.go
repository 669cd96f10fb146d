// Package backdrop provides the decorative animated background the sign-up
// form is rendered on.
//
// The backdrop is a scoped resource: Mount acquires an Effect, Destroy
// releases it, and in between the effect only hands out a Region that wraps
// arbitrary children. Nothing here reads or writes form state.
package backdrop

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"regexp"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/goliatone/go-signup/pkg/uischema"
)

// ErrInvalidOptions is returned by Mount when the effect options are unusable.
var ErrInvalidOptions = errors.New("backdrop: invalid options")

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

var mounted atomic.Uint64

// Options mirror the globe effect settings.
type Options struct {
	MouseControls bool    `json:"mouseControls"`
	TouchControls bool    `json:"touchControls"`
	GyroControls  bool    `json:"gyroControls"`
	MinHeight     float64 `json:"minHeight"`
	MinWidth      float64 `json:"minWidth"`
	Scale         float64 `json:"scale"`
	ScaleMobile   float64 `json:"scaleMobile"`
	Color         string  `json:"color"`
	Color2        string  `json:"color2"`
	Background    string  `json:"backgroundColor"`
	// Fallback paints the container when the effect is unavailable.
	Fallback string `json:"-"`
	Disabled bool   `json:"-"`
}

// DefaultOptions returns the stock globe configuration.
func DefaultOptions() Options {
	return Options{
		MouseControls: true,
		TouchControls: true,
		GyroControls:  false,
		MinHeight:     200,
		MinWidth:      200,
		Scale:         1,
		ScaleMobile:   1,
		Color:         "#00fffb",
		Color2:        "#ff30c2",
		Background:    "#000000",
		Fallback:      "#bcf8fb",
	}
}

// FromCopy applies the colours configured in the copy document on top of
// DefaultOptions.
func FromCopy(c uischema.BackdropCopy) Options {
	opts := DefaultOptions()
	if c.Color != "" {
		opts.Color = c.Color
	}
	if c.Color2 != "" {
		opts.Color2 = c.Color2
	}
	if c.Background != "" {
		opts.Background = c.Background
	}
	if c.Fallback != "" {
		opts.Fallback = c.Fallback
	}
	opts.Disabled = c.Disabled
	return opts
}

func (o Options) validate() error {
	for name, value := range map[string]string{
		"color":      o.Color,
		"color2":     o.Color2,
		"background": o.Background,
		"fallback":   o.Fallback,
	} {
		if !hexColor.MatchString(value) {
			return fmt.Errorf("%w: %s %q", ErrInvalidOptions, name, value)
		}
	}
	if o.MinHeight < 0 || o.MinWidth < 0 || o.Scale <= 0 || o.ScaleMobile <= 0 {
		return fmt.Errorf("%w: sizes must be positive", ErrInvalidOptions)
	}
	return nil
}

// MountOption configures Mount.
type MountOption func(*Effect)

// WithLogger attaches a logger for lifecycle traces.
func WithLogger(logger *zap.SugaredLogger) MountOption {
	return func(e *Effect) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Effect is a mounted backdrop. It is safe for concurrent use.
type Effect struct {
	id      string
	options Options
	logger  *zap.SugaredLogger

	mu        sync.Mutex
	destroyed bool
}

// Region is the renderable container produced by an Effect.
type Region struct {
	ID       string        `json:"id"`
	Active   bool          `json:"active"`
	Style    template.CSS  `json:"style"`
	Options  string        `json:"options,omitempty"`
	Children template.HTML `json:"children"`
}

// Mount acquires a backdrop effect. Callers must Destroy it when the page is
// torn down.
func Mount(ctx context.Context, opts Options, options ...MountOption) (*Effect, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	effect := &Effect{
		id:      fmt.Sprintf("signup-backdrop-%d", mounted.Add(1)),
		options: opts,
		logger:  zap.NewNop().Sugar(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(effect)
		}
	}
	effect.logger.Debugw("backdrop mounted", "id", effect.id, "disabled", opts.Disabled)
	return effect, nil
}

// ID returns the DOM id of the backdrop container.
func (e *Effect) ID() string {
	return e.id
}

// Active reports whether the effect is mounted and enabled.
func (e *Effect) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.destroyed && !e.options.Disabled
}

// Wrap places children inside the backdrop. A destroyed or disabled effect
// still returns a plain container so the content stays visible.
func (e *Effect) Wrap(children template.HTML) Region {
	region := Region{
		ID:       e.id,
		Style:    template.CSS(fmt.Sprintf("background-color:%s", e.options.Fallback)),
		Children: children,
	}
	if !e.Active() {
		return region
	}

	payload, err := json.Marshal(e.options)
	if err != nil {
		e.logger.Warnw("backdrop options not encodable, rendering plain container", "id", e.id, "error", err)
		return region
	}
	region.Active = true
	region.Options = string(payload)
	region.Style = template.CSS(fmt.Sprintf(
		"background-color:%s;--backdrop-color:%s;--backdrop-color2:%s;--backdrop-bg:%s",
		e.options.Fallback, e.options.Color, e.options.Color2, e.options.Background,
	))
	return region
}

// Destroy releases the effect. Calling it more than once is harmless.
func (e *Effect) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return
	}
	e.destroyed = true
	e.logger.Debugw("backdrop destroyed", "id", e.id)
}

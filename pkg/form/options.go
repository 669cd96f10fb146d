package form

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-signup/pkg/registration"
)

// Transition describes a status change observed by the controller.
type Transition struct {
	From  Status
	To    Status
	Event string
}

// TransitionFunc observes status changes. It runs synchronously inside Submit
// or Reset and must not call back into the controller.
type TransitionFunc func(Transition)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger attaches a logger used for debug traces of submits and
// transitions. Field values are never logged.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTransitionHook registers a callback invoked on every status change.
func WithTransitionHook(fn TransitionFunc) Option {
	return func(c *Controller) {
		if fn != nil {
			c.hooks = append(c.hooks, fn)
		}
	}
}

// WithValues seeds the controller with initial field values. Status stays
// idle and no validation runs.
func WithValues(values registration.FormValues) Option {
	return func(c *Controller) {
		c.values = values
	}
}

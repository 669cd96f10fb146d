package form

import (
	"errors"
	"fmt"

	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"github.com/goliatone/go-signup/pkg/registration"
)

// ErrUnknownField is returned by SetField for names outside the form's field
// set.
var ErrUnknownField = errors.New("form: unknown field")

// Snapshot is a copy of the controller state handed to renderers.
type Snapshot struct {
	Values registration.FormValues `json:"values"`
	Errors registration.FormErrors `json:"errors"`
	Status Status                  `json:"status"`
}

// Controller owns the state of a single form instance.
type Controller struct {
	values  registration.FormValues
	errors  registration.FormErrors
	machine *fsm.FSM
	logger  *zap.SugaredLogger
	hooks   []TransitionFunc
}

// New returns a controller with empty values, no errors and idle status.
func New(options ...Option) *Controller {
	c := &Controller{
		logger: zap.NewNop().Sugar(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	c.machine = newMachine(c.notify)
	return c
}

// SetField overwrites one field. Any string is accepted; errors and status are
// left untouched until the next Submit.
func (c *Controller) SetField(field registration.Field, value string) error {
	if !c.values.Set(field, value) {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// SetFieldByName resolves name with registration.ParseField before setting it.
func (c *Controller) SetFieldByName(name, value string) error {
	field, ok := registration.ParseField(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return c.SetField(field, value)
}

// Submit validates the current values, stores the resulting errors and moves
// to the derived status. Repeated calls with unchanged values yield the same snapshot.
func (c *Controller) Submit() Snapshot {
	c.errors = registration.Validate(c.values)
	target := DeriveStatus(c.errors)

	c.logger.Debugw("form submitted",
		"failing_fields", fieldNames(c.errors),
		"status", target,
	)
	c.transition(target)
	return c.Snapshot()
}

// Reset clears values and errors and returns to idle. It is valid from every
// status.
func (c *Controller) Reset() Snapshot {
	c.values = registration.FormValues{}
	c.errors = registration.FormErrors{}
	c.transition(StatusIdle)
	return c.Snapshot()
}

// Values returns the current field values.
func (c *Controller) Values() registration.FormValues {
	return c.values
}

// Errors returns the errors computed by the last Submit.
func (c *Controller) Errors() registration.FormErrors {
	return c.errors
}

// Status returns the current banner status.
func (c *Controller) Status() Status {
	return Status(c.machine.Current())
}

// Snapshot copies the full state.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Values: c.values,
		Errors: c.errors,
		Status: c.Status(),
	}
}

func (c *Controller) transition(target Status) {
	if err := moveTo(c.machine, target); err != nil {
		c.logger.Errorw("status transition rejected, forcing state", "target", target, "error", err)
		c.machine.SetState(string(target))
	}
}

func (c *Controller) notify(from, to Status, event string) {
	c.logger.Debugw("form status changed", "from", from, "to", to, "event", event)
	for _, hook := range c.hooks {
		hook(Transition{From: from, To: to, Event: event})
	}
}

func fieldNames(errs registration.FormErrors) []string {
	list := errs.List()
	names := make([]string, 0, len(list))
	for _, fe := range list {
		names = append(names, fe.Field.String())
	}
	return names
}

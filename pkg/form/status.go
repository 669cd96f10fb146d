package form

import (
	"fmt"

	"github.com/goliatone/go-signup/pkg/registration"
)

// Status selects the banner and action button shown with the form.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusWarning Status = "warning"
	StatusFailure Status = "failure"
	StatusSuccess Status = "success"
)

// Statuses lists every status in declaration order.
func Statuses() []Status {
	return []Status{StatusIdle, StatusWarning, StatusFailure, StatusSuccess}
}

// ParseStatus converts a raw string into a Status.
func ParseStatus(raw string) (Status, error) {
	for _, status := range Statuses() {
		if string(status) == raw {
			return status, nil
		}
	}
	return "", fmt.Errorf("form: unknown status %q", raw)
}

func (s Status) String() string {
	return string(s)
}

// AllowsReset reports whether the surface should offer "register another
// user" instead of the submit button.
func (s Status) AllowsReset() bool {
	return s == StatusSuccess
}

// DeriveStatus maps a validation result onto a Status. A duplicate email wins
// over every other error, any remaining error yields a warning, and a clean
// result is a success.
func DeriveStatus(errs registration.FormErrors) Status {
	switch {
	case errs.DuplicateEmail():
		return StatusFailure
	case !errs.Empty():
		return StatusWarning
	default:
		return StatusSuccess
	}
}

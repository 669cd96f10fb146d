package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrTooManyAttempts is returned when the attempt limit is reached before a
	// submission succeeds.
	ErrTooManyAttempts = errors.New("tui: too many attempts")
)

// Package registration holds the field set of the sign-up form and the pure
// validation rules evaluated against it.
//
// Every rule is a deterministic function of its input; nothing in this package
// keeps state. The form controller (package form) runs Validate on submit and
// derives the banner status from the returned FormErrors.
package registration

// Package uischema loads the presentation copy of the sign-up form: heading,
// field labels, banner texts, button labels and backdrop colours.
//
// A built-in document ships embedded; operators can overlay a YAML or JSON
// file on top of it. Text values may carry inline markup, which is sanitized
// before any renderer sees it.
package uischema

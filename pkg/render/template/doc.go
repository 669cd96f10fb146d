// Package template defines the engine contract HTML renderers render through.
// Adapters live in subpackages; gotemplate wraps pongo2.
package template

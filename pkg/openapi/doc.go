// Package openapi serves the embedded API description of the registration
// endpoint and reads per-field presentation metadata from it. The field set
// itself is fixed by package registration; the document only labels it.
package openapi

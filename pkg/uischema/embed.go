package uischema

import (
	_ "embed"
	"sync"
)

//go:embed ui/copy.yaml
var embeddedCopy []byte

var (
	defaultOnce sync.Once
	defaultCopy Copy
)

// Default returns the built-in copy. The embedded document is parsed once.
func Default() Copy {
	defaultOnce.Do(func() {
		parsed, err := parseDocument(embeddedCopy, "embedded:ui/copy.yaml")
		if err != nil {
			// The embedded document is covered by tests; failing here is a
			// build defect.
			panic(err)
		}
		defaultCopy = sanitizeCopy(parsed)
	})
	return defaultCopy.clone()
}

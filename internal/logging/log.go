package logging

import (
	"log"
	"sync/atomic"
)

var verbose atomic.Bool

// SetVerbose toggles per-transition trace logging.
func SetVerbose(v bool) {
	verbose.Store(v)
}

// Verbose reports whether trace logging is enabled.
func Verbose() bool {
	return verbose.Load()
}

// Verbosef logs only when verbose mode is enabled.
func Verbosef(format string, v ...interface{}) {
	if verbose.Load() {
		log.Printf(format, v...)
	}
}

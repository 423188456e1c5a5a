// Package logging builds the logr.Logger used by profile loading, platform
// clients, and apply.
package logging

import (
	"io"
	"log"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

// New returns a logger writing to w that prints V-levels up to verbosity.
// Info at V(0) is always printed.
func New(w io.Writer, verbosity int) logr.Logger {
	if w == nil {
		return logr.Discard()
	}
	stdr.SetVerbosity(verbosity)
	return stdr.NewWithOptions(log.New(w, "", log.LstdFlags), stdr.Options{LogCaller: stdr.None}).WithName("steward")
}

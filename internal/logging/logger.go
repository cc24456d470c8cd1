// Package logging configures the process-wide logger.
package logging

import (
	"os"

	"github.com/hashicorp/go-hclog"
)

// New creates the named logger for the updater. Debug mode lowers the level
// so per-unit decisions (skip, upgrade, install) become visible.
func New(debug bool) hclog.Logger {
	level := hclog.Info
	if debug {
		level = hclog.Debug
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   "theia-update",
		Level:  level,
		Output: os.Stderr,
	})
}

// Package hooks connects a host execution engine to the progress correlator.
//
// The host calls Adapter.Begin once per run and receives an Observer it must
// drive from its execution thread. Dataset I/O is wrapped by Catalog, which
// forwards successful loads and saves to that Observer.
package hooks

import (
	"os"
	"strconv"
)

// EnvProgress is the environment variable that switches correlation off.
const EnvProgress = "CATBIND_PROGRESS"

// Config controls whether runs are correlated at all.
type Config struct {
	// Enabled must be false under parallel execution, where lifecycle events
	// are no longer totally ordered.
	Enabled bool
}

// DefaultConfig enables correlation.
func DefaultConfig() Config {
	return Config{Enabled: true}
}

// ConfigFromEnv returns DefaultConfig adjusted by CATBIND_PROGRESS.
// Unparsable values leave correlation enabled.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	raw, ok := os.LookupEnv(EnvProgress)
	if !ok {
		return cfg
	}
	if enabled, err := strconv.ParseBool(raw); err == nil {
		cfg.Enabled = enabled
	}
	return cfg
}

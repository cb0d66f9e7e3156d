package hooks

import (
	"errors"
	"fmt"
)

// ErrDatasetNotFound is returned by MemoryIO for names never saved.
var ErrDatasetNotFound = errors.New("dataset not found")

// ConfigError reports a run that cannot be tracked because its pipeline or
// catalog is missing. Fatal to progress tracking of that run only.
type ConfigError struct {
	Pipeline string
	Reason   string
	Err      error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("progress config for pipeline %q: %s", e.Pipeline, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

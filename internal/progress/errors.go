package progress

import (
	"errors"
	"fmt"
)

// Configuration errors returned by Start. They are fatal to the run's
// progress tracking only.
var (
	ErrNoPipeline     = errors.New("progress: no pipeline to track")
	ErrNoCatalog      = errors.New("progress: no catalog loaded")
	ErrAlreadyStarted = errors.New("progress: correlator already started")
)

// ErrUnknownEvent is returned by Dispatch for an event kind outside the
// closed set.
var ErrUnknownEvent = errors.New("progress: unknown lifecycle event")

// AnomalyCode categorizes reporting anomalies.
type AnomalyCode string

const (
	// AnomalyOverflow indicates more completions than declared units.
	AnomalyOverflow AnomalyCode = "COUNTER_OVERFLOW"

	// AnomalyLateEvent indicates an event after the run completed.
	AnomalyLateEvent AnomalyCode = "LATE_EVENT"

	// AnomalyEarlyEvent indicates an event before the run started.
	AnomalyEarlyEvent AnomalyCode = "EARLY_EVENT"
)

// Anomaly describes a reporting inconsistency from the host engine.
// Anomalies are logged and counted, never returned as errors.
type Anomaly struct {
	Code    AnomalyCode
	Counter string
	Event   EventKind
}

func (a Anomaly) String() string {
	if a.Counter != "" {
		return fmt.Sprintf("%s: %s counter", a.Code, a.Counter)
	}
	return fmt.Sprintf("%s: %s", a.Code, a.Event)
}

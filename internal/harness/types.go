package harness

import "github.com/roach88/catbind/internal/ir"

// TraceEvent is one snapshot pushed during a scenario run.
type TraceEvent struct {
	Seq      int64       `json:"seq"`
	State    ir.RunState `json:"state"`
	Activity string      `json:"activity,omitempty"`
	Overall  ir.Counter  `json:"overall"`
	Loads    ir.Counter  `json:"loads"`
	Saves    ir.Counter  `json:"saves"`
}

// traceEvent strips the run identity from a snapshot.
func traceEvent(s ir.Snapshot) TraceEvent {
	return TraceEvent{
		Seq:      s.Seq,
		State:    s.State,
		Activity: s.Activity,
		Overall:  s.Overall,
		Loads:    s.Loads,
		Saves:    s.Saves,
	}
}

// Snapshot rebuilds the display snapshot for this trace entry.
func (e TraceEvent) Snapshot() ir.Snapshot {
	return ir.Snapshot{
		Seq:      e.Seq,
		State:    e.State,
		Activity: e.Activity,
		Overall:  e.Overall,
		Loads:    e.Loads,
		Saves:    e.Saves,
	}
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every assertion holds.
	Pass bool `json:"pass"`

	// RunID is the run identifier the correlator stamped on snapshots.
	// Empty when tracking was disabled.
	RunID string `json:"run_id,omitempty"`

	// Trace contains every pushed snapshot in order.
	Trace []TraceEvent `json:"trace"`

	// Anomalies lists the correlator's recorded anomalies as strings.
	Anomalies []string `json:"anomalies,omitempty"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Final returns the last trace entry, or false when nothing was pushed.
func (r *Result) Final() (TraceEvent, bool) {
	if len(r.Trace) == 0 {
		return TraceEvent{}, false
	}
	return r.Trace[len(r.Trace)-1], true
}

// Package progress implements the per-run progress correlator.
//
// The correlator consumes the lifecycle events of one pipeline run and keeps
// three counters (nodes finished, datasets loaded, datasets saved) plus an
// activity label. Only events that fall inside the run's precomputed scope
// move the counters.
//
// ARCHITECTURE:
//
// Single-Threaded Observer:
// The host execution engine calls the correlator synchronously from its own
// execution thread at fixed lifecycle points. Events arrive one at a time in
// a total order, so the correlator holds no locks. This ensures:
//   - Counters are monotonically non-decreasing within a run
//   - Snapshots pushed to sinks are strictly ordered by a logical seq
//   - No state is shared between runs
//
// State Machine:
//
//	Idle --Start--> Running --RunFinished--> Completed
//
// There is no way back to Idle. A correlator serves exactly one run; events
// delivered while Idle or Completed are ignored.
//
// Parallel Execution:
// Multi-worker execution breaks the one-event-at-a-time assumption. The host
// adapter (internal/hooks) disables correlation entirely in that case rather
// than making the counters thread-safe.
//
// Anomalies:
// Counters that would exceed their declared totals are clamped and logged.
// Out-of-scope dataset events are ignored. Neither is an error: the host
// engine, not this observer, is the source of truth for run success.
package progress

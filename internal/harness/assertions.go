package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/catbind/internal/ir"
	"github.com/roach88/catbind/internal/render"
)

// AssertionError is returned when an assertion fails.
// It includes the full trace to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, event := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s\n", event.Seq, render.FormatLine(event.Snapshot()))
	}
	return buf.String()
}

// EvaluateAssertions checks every assertion against trace and returns the
// failures in assertion order.
func EvaluateAssertions(trace []TraceEvent, assertions []Assertion) []error {
	var errs []error
	for _, a := range assertions {
		if err := evaluate(trace, a); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func evaluate(trace []TraceEvent, a Assertion) error {
	switch a.Type {
	case AssertFinalState:
		return assertFinalState(trace, a)
	case AssertFinalCounter:
		return assertFinalCounter(trace, a)
	case AssertActivitySeen:
		return assertActivitySeen(trace, a)
	case AssertSnapshotCount:
		return assertSnapshotCount(trace, a)
	case AssertMonotonic:
		return assertMonotonic(trace)
	default:
		return fmt.Errorf("unknown assertion type: %s", a.Type)
	}
}

func assertFinalState(trace []TraceEvent, a Assertion) error {
	actual := "no snapshots"
	if len(trace) > 0 {
		last := trace[len(trace)-1]
		if string(last.State) == a.State {
			return nil
		}
		actual = string(last.State)
	}
	return &AssertionError{
		Type:     AssertFinalState,
		Expected: a.State,
		Actual:   actual,
		Trace:    trace,
	}
}

func assertFinalCounter(trace []TraceEvent, a Assertion) error {
	want := ir.Counter{Done: a.Done, Total: a.Total}
	actual := "no snapshots"
	if len(trace) > 0 {
		got := counter(trace[len(trace)-1], a.Counter)
		if got == want {
			return nil
		}
		actual = fmt.Sprintf("%s %d/%d", a.Counter, got.Done, got.Total)
	}
	return &AssertionError{
		Type:     AssertFinalCounter,
		Expected: fmt.Sprintf("%s %d/%d", a.Counter, want.Done, want.Total),
		Actual:   actual,
		Trace:    trace,
	}
}

func assertActivitySeen(trace []TraceEvent, a Assertion) error {
	for _, event := range trace {
		if event.Activity == a.Activity {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertActivitySeen,
		Expected: fmt.Sprintf("activity %q", a.Activity),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

func assertSnapshotCount(trace []TraceEvent, a Assertion) error {
	if len(trace) == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertSnapshotCount,
		Expected: fmt.Sprintf("%d snapshots", a.Count),
		Actual:   fmt.Sprintf("%d snapshots", len(trace)),
		Trace:    trace,
	}
}

// assertMonotonic checks that seq strictly increases and that no counter
// moves backwards or past its total.
func assertMonotonic(trace []TraceEvent) error {
	for i, event := range trace {
		for _, name := range []string{"overall", "loads", "saves"} {
			c := counter(event, name)
			if c.Done > c.Total {
				return &AssertionError{
					Type:     AssertMonotonic,
					Expected: fmt.Sprintf("%s done <= total", name),
					Actual:   fmt.Sprintf("snapshot %d has %s %d/%d", i, name, c.Done, c.Total),
					Trace:    trace,
				}
			}
		}
		if i == 0 {
			continue
		}
		prev := trace[i-1]
		if event.Seq <= prev.Seq {
			return &AssertionError{
				Type:     AssertMonotonic,
				Expected: "strictly increasing seq",
				Actual:   fmt.Sprintf("seq %d after %d", event.Seq, prev.Seq),
				Trace:    trace,
			}
		}
		for _, name := range []string{"overall", "loads", "saves"} {
			if counter(event, name).Done < counter(prev, name).Done {
				return &AssertionError{
					Type:     AssertMonotonic,
					Expected: fmt.Sprintf("non-decreasing %s", name),
					Actual:   fmt.Sprintf("%s went from %d to %d at seq %d", name, counter(prev, name).Done, counter(event, name).Done, event.Seq),
					Trace:    trace,
				}
			}
		}
	}
	return nil
}

func counter(e TraceEvent, name string) ir.Counter {
	switch name {
	case "overall":
		return e.Overall
	case "loads":
		return e.Loads
	case "saves":
		return e.Saves
	}
	return ir.Counter{}
}

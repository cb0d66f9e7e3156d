package harness

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/catbind/internal/render"
)

// FormatTrace renders a result as golden-file text: a header naming the
// scenario and run (when tracked), then one progress line per snapshot prefixed by its seq.
//
//	scenario: namespaced_training
//	run_id: run-0001
//	001 [running] overall 0/2 loads 0/2 saves 0/1
func FormatTrace(name string, result *Result) []byte {
	var buf strings.Builder
	fmt.Fprintf(&buf, "scenario: %s\n", name)
	if result.RunID != "" {
		fmt.Fprintf(&buf, "run_id: %s\n", result.RunID)
	}
	for _, event := range result.Trace {
		fmt.Fprintf(&buf, "%03d %s\n", event.Seq, render.FormatLine(event.Snapshot()))
	}
	for _, a := range result.Anomalies {
		fmt.Fprintf(&buf, "anomaly: %s\n", a)
	}
	return []byte(buf.String())
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can inspect assertion failures.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), scenario)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares an already computed result against a golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, FormatTrace(scenarioName, result))
}

package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/catbind/internal/hooks"
	"github.com/roach88/catbind/internal/ir"
	"github.com/roach88/catbind/internal/progress"
)

// Scenario defines one recorded pipeline run.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// RunID is stamped on every snapshot. Defaults to "test-run-1".
	RunID string `yaml:"run_id,omitempty"`

	// Pipeline names the pipeline being run. Empty means "__default__".
	Pipeline string `yaml:"pipeline,omitempty"`

	// Project is a project directory to load catalog and pipelines from.
	// Mutually exclusive with Catalog and Pipelines.
	Project string `yaml:"project,omitempty"`

	// Catalog lists inline catalog entries in order.
	Catalog []DatasetStep `yaml:"catalog,omitempty"`

	// Pipelines maps pipeline names to inline node lists.
	Pipelines map[string][]NodeStep `yaml:"pipelines,omitempty"`

	// Parallel simulates multi-worker execution, which disables tracking.
	Parallel bool `yaml:"parallel,omitempty"`

	// Events is the recorded lifecycle stream, in delivery order.
	Events []EventStep `yaml:"events"`

	// Assertions validate the resulting trace.
	Assertions []Assertion `yaml:"assertions"`
}

// DatasetStep is one inline catalog entry.
type DatasetStep struct {
	Key      string `yaml:"key"`
	Type     string `yaml:"type"`
	Category string `yaml:"category,omitempty"` // persisted (default), ephemeral, parameter
}

// NodeStep is one inline pipeline node.
type NodeStep struct {
	Name      string   `yaml:"name,omitempty"`
	Inputs    []string `yaml:"inputs"`
	Outputs   []string `yaml:"outputs"`
	Namespace string   `yaml:"namespace,omitempty"`
}

// EventStep is one recorded lifecycle event. Node names a node of the
// running pipeline; unknown names start a bare node with that name.
type EventStep = hooks.RecordedEvent

// Assertion validates the trace.
type Assertion struct {
	// Type specifies the assertion type (see package docs).
	Type string `yaml:"type"`

	// State is the expected final run state (final_state).
	State string `yaml:"state,omitempty"`

	// Counter is overall, loads or saves (final_counter).
	Counter string `yaml:"counter,omitempty"`

	// Done and Total are the expected final values (final_counter).
	Done  int `yaml:"done,omitempty"`
	Total int `yaml:"total,omitempty"`

	// Activity is the label that must appear (activity_seen).
	Activity string `yaml:"activity,omitempty"`

	// Count is the expected number of snapshots (snapshot_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertFinalState    = "final_state"
	AssertFinalCounter  = "final_counter"
	AssertActivitySeen  = "activity_seen"
	AssertSnapshotCount = "snapshot_count"
	AssertMonotonic     = "monotonic"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// A relative project path is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	s, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}
	if s.Project != "" && !filepath.IsAbs(s.Project) {
		s.Project = filepath.Join(filepath.Dir(path), s.Project)
	}
	return s, nil
}

// ParseScenario decodes scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Project != "" && (len(s.Catalog) > 0 || len(s.Pipelines) > 0) {
		return fmt.Errorf("project cannot be combined with inline catalog or pipelines")
	}
	if s.Project == "" && len(s.Pipelines) == 0 {
		return fmt.Errorf("either project or pipelines is required")
	}
	if len(s.Events) == 0 {
		return fmt.Errorf("events list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, d := range s.Catalog {
		if d.Key == "" || d.Type == "" {
			return fmt.Errorf("catalog[%d]: key and type are required", i)
		}
		if d.Category != "" {
			if _, err := ir.ParseCategory(d.Category); err != nil {
				return fmt.Errorf("catalog[%d]: %w", i, err)
			}
		}
	}

	for i, ev := range s.Events {
		kind, err := progress.ParseEventKind(ev.Event)
		if err != nil {
			return fmt.Errorf("events[%d]: %w", i, err)
		}
		switch kind {
		case progress.EventDatasetLoaded, progress.EventDatasetSaved:
			if ev.Dataset == "" {
				return fmt.Errorf("events[%d]: dataset is required for %s", i, kind)
			}
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertFinalState:
		if a.State == "" {
			return fmt.Errorf("assertions[%d]: state is required for final_state", index)
		}
	case AssertFinalCounter:
		switch a.Counter {
		case "overall", "loads", "saves":
		default:
			return fmt.Errorf("assertions[%d]: counter must be overall, loads or saves", index)
		}
	case AssertActivitySeen:
		if a.Activity == "" {
			return fmt.Errorf("assertions[%d]: activity is required for activity_seen", index)
		}
	case AssertSnapshotCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for snapshot_count", index)
		}
	case AssertMonotonic:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

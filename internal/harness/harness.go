package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/catbind/internal/catalog"
	"github.com/roach88/catbind/internal/hooks"
	"github.com/roach88/catbind/internal/ir"
	"github.com/roach88/catbind/internal/progress"
	"github.com/roach88/catbind/internal/project"
	"github.com/roach88/catbind/internal/testutil"
)

// DefaultRunID is stamped on snapshots when a scenario sets no run_id.
const DefaultRunID = "test-run-1"

// Option configures a scenario run.
type Option func(*runConfig)

type runConfig struct {
	logger *slog.Logger
}

// WithLogger routes adapter, catalog and correlator logs to l.
func WithLogger(l *slog.Logger) Option {
	return func(c *runConfig) {
		c.logger = l
	}
}

// Run executes a scenario and evaluates its assertions.
//
// The catalog and pipelines come from the scenario (inline or via a project
// directory). Dataset events are replayed through a logging catalog backed
// by memory, so they reach the correlator the same way live I/O does.
//
// Returns error only when the scenario cannot be executed (bad project,
// unknown pipeline, failed replay). Assertion failures land in Result.Errors.
func Run(ctx context.Context, scenario *Scenario, opts ...Option) (*Result, error) {
	cfg := runConfig{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&cfg)
	}

	cat, reg, err := buildProject(ctx, scenario)
	if err != nil {
		return nil, err
	}

	runID := scenario.RunID
	if runID == "" {
		runID = DefaultRunID
	}
	recorder := progress.NewRecorder()
	adapter := hooks.NewAdapter(
		hooks.Config{Enabled: !scenario.Parallel},
		cfg.logger,
		func(string, string) progress.Sink { return recorder },
		hooks.WithRunIDs(testutil.NewFixedRunIDs(runID)),
		hooks.WithClock(testutil.NewDeterministicClock()),
	)

	params := hooks.RunParams{PipelineName: scenario.Pipeline, Registry: reg, Catalog: cat}
	obs, err := adapter.Begin(params)
	if err != nil {
		return nil, fmt.Errorf("begin run: %w", err)
	}

	pipeline := reg[params.Name()]
	events, err := hooks.ResolveEvents(scenario.Events, pipeline)
	if err != nil {
		return nil, err
	}

	mem := hooks.NewMemoryIO()
	if err := hooks.SeedReplay(ctx, mem, pipeline, events); err != nil {
		return nil, fmt.Errorf("seed inputs: %w", err)
	}
	wrapped := hooks.WrapCatalog(mem, cat.Entries(), obs, cfg.logger)
	if err := hooks.Drive(ctx, obs, wrapped, events); err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}

	result := NewResult()
	for _, snap := range recorder.Snapshots() {
		result.Trace = append(result.Trace, traceEvent(snap))
	}
	if c, ok := obs.(*progress.Correlator); ok {
		result.RunID = runID
		for _, a := range c.Anomalies() {
			result.Anomalies = append(result.Anomalies, a.String())
		}
	}

	for _, err := range EvaluateAssertions(result.Trace, scenario.Assertions) {
		result.AddError(err.Error())
	}
	return result, nil
}

// buildProject returns the scenario's catalog and registry.
func buildProject(ctx context.Context, s *Scenario) (*catalog.Catalog, ir.Registry, error) {
	if s.Project != "" {
		p, err := project.Load(ctx, s.Project)
		if err != nil {
			return nil, nil, fmt.Errorf("load project: %w", err)
		}
		return p.Catalog, p.Registry, nil
	}

	entries := make([]ir.CatalogEntry, 0, len(s.Catalog))
	for _, d := range s.Catalog {
		category := ir.CategoryPersisted
		if d.Category != "" {
			c, err := ir.ParseCategory(d.Category)
			if err != nil {
				return nil, nil, err
			}
			category = c
		}
		entries = append(entries, ir.CatalogEntry{Key: d.Key, TypeName: d.Type, Category: category})
	}
	cat, err := catalog.New(entries...)
	if err != nil {
		return nil, nil, fmt.Errorf("build catalog: %w", err)
	}

	reg := make(ir.Registry, len(s.Pipelines))
	for name, steps := range s.Pipelines {
		p := &ir.Pipeline{Name: name, Nodes: make([]ir.Node, 0, len(steps))}
		for _, n := range steps {
			p.Nodes = append(p.Nodes, ir.Node{
				Name:      n.Name,
				Inputs:    orEmpty(n.Inputs),
				Outputs:   orEmpty(n.Outputs),
				Namespace: n.Namespace,
			})
		}
		reg[name] = p
	}
	return cat, reg, nil
}

func orEmpty(l []string) []string {
	if l == nil {
		return []string{}
	}
	return l
}

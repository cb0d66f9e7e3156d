package hooks

import (
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/roach88/catbind/internal/catalog"
	"github.com/roach88/catbind/internal/ir"
	"github.com/roach88/catbind/internal/progress"
)

// RunIDGenerator produces run identifiers.
// Implemented by UUIDv7Generator (production) and testutil.FixedRunIDs (tests).
type RunIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run IDs.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// SinkFactory builds the display sink for one run.
type SinkFactory func(runID, pipeline string) progress.Sink

// RunParams describes the run the host is about to execute.
//
// Pipeline takes precedence; otherwise PipelineName is looked up in
// Registry.
type RunParams struct {
	PipelineName string
	Pipeline     *ir.Pipeline
	Registry     ir.Registry
	Catalog      *catalog.Catalog
}

// Name returns the pipeline name, defaulting to "__default__".
func (p RunParams) Name() string {
	if p.PipelineName == "" {
		return ir.DefaultPipelineName
	}
	return p.PipelineName
}

// Adapter creates one correlator per run.
//
// The adapter itself holds no per-run state, so one adapter may serve
// many runs. Each returned Observer belongs to exactly one run.
type Adapter struct {
	cfg    Config
	logger *slog.Logger
	sinks  SinkFactory
	ids    RunIDGenerator
	clock  progress.Sequencer
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithRunIDs replaces the UUIDv7 generator.
func WithRunIDs(g RunIDGenerator) AdapterOption {
	return func(a *Adapter) {
		if g != nil {
			a.ids = g
		}
	}
}

// WithClock shares one logical clock across every run of this adapter.
func WithClock(c progress.Sequencer) AdapterOption {
	return func(a *Adapter) {
		a.clock = c
	}
}

// NewAdapter creates an adapter. A nil logger discards output; a nil
// factory discards snapshots.
func NewAdapter(cfg Config, logger *slog.Logger, sinks SinkFactory, opts ...AdapterOption) *Adapter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	a := &Adapter{
		cfg:    cfg,
		logger: logger,
		sinks:  sinks,
		ids:    UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Begin starts tracking a run and returns the Observer the host must drive.
//
// When correlation is disabled Begin logs a warning and returns
// progress.NopObserver. A missing pipeline or catalog yields *ConfigError.
func (a *Adapter) Begin(params RunParams) (progress.Observer, error) {
	name := params.Name()
	if !a.cfg.Enabled {
		a.logger.Warn("progress correlation disabled; parallel execution is not tracked",
			"pipeline", name,
		)
		return progress.NopObserver{}, nil
	}

	pipeline, err := resolvePipeline(params)
	if err != nil {
		return nil, err
	}
	if params.Catalog == nil {
		return nil, &ConfigError{Pipeline: name, Reason: "no catalog", Err: progress.ErrNoCatalog}
	}

	runID := a.ids.Generate()
	var sink progress.Sink = progress.NopSink{}
	if a.sinks != nil {
		if s := a.sinks(runID, name); s != nil {
			sink = s
		}
	}

	logger := a.logger.With("run_id", runID, "pipeline", name)
	opts := []progress.Option{
		progress.WithLogger(logger),
		progress.WithSink(sink),
		progress.WithRunID(runID),
	}
	if a.clock != nil {
		opts = append(opts, progress.WithClock(a.clock))
	}

	c := progress.New(opts...)
	if err := c.Start(pipeline, params.Catalog); err != nil {
		return nil, &ConfigError{Pipeline: name, Reason: "start failed", Err: err}
	}
	logger.Info("tracking pipeline run", "nodes", pipeline.NodeCount())
	return c, nil
}

func resolvePipeline(params RunParams) (*ir.Pipeline, error) {
	if params.Pipeline != nil {
		return params.Pipeline, nil
	}
	name := params.Name()
	if params.Registry == nil {
		return nil, &ConfigError{Pipeline: name, Reason: "no pipeline registry", Err: progress.ErrNoPipeline}
	}
	p, ok := params.Registry[name]
	if !ok || p == nil {
		return nil, &ConfigError{Pipeline: name, Reason: "pipeline not registered", Err: progress.ErrNoPipeline}
	}
	return p, nil
}

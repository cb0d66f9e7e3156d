package cli

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/roach88/catbind/internal/hooks"
	"github.com/roach88/catbind/internal/ir"
	"github.com/roach88/catbind/internal/metrics"
	"github.com/roach88/catbind/internal/progress"
	"github.com/roach88/catbind/internal/project"
	"github.com/roach88/catbind/internal/render"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Events   string
	Pipeline string
	Parallel bool
	Metrics  bool

	// RunIDs overrides the run ID generator (for testing).
	// If nil, run IDs are UUIDv7.
	RunIDs hooks.RunIDGenerator
}

// ReplayResult is the JSON payload of the replay command.
type ReplayResult struct {
	RunID     string        `json:"run_id,omitempty"`
	Pipeline  string        `json:"pipeline"`
	Tracked   bool          `json:"tracked"`
	Snapshots []ir.Snapshot `json:"snapshots"`
	Anomalies []string      `json:"anomalies,omitempty"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <project-dir>",
		Short: "Replay recorded lifecycle events and show run progress",
		Long: `Replay a recorded stream of pipeline lifecycle events against the
project's catalog and print one progress line per update.

Dataset loads and saves go through the logging catalog exactly as a live
run would. --parallel simulates a multi-worker run, for which progress
correlation is disabled. Setting CATBIND_PROGRESS=false disables it too.

Event file format:
  events:
    - {event: node_started, node: train_model}
    - {event: dataset_loaded, dataset: model_input_table}
    - {event: node_finished}
    - {event: run_finished}

Exit codes:
  0 - Replay finished
  1 - Replay failed (a load found no data, etc.)
  2 - Command error (missing project, bad event file, unknown pipeline)

Examples:
  catbind replay ./examples/spaceflights --events run.yaml --pipeline data_science
  catbind replay ./examples/spaceflights --events run.yaml --metrics`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Events, "events", "", "path to the recorded event file (required)")
	_ = cmd.MarkFlagRequired("events")
	cmd.Flags().StringVarP(&opts.Pipeline, "pipeline", "p", ir.DefaultPipelineName, "pipeline name")
	cmd.Flags().BoolVar(&opts.Parallel, "parallel", false, "simulate a parallel run (disables progress correlation)")
	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "print Prometheus metrics after the replay")

	return cmd
}

func runReplay(opts *ReplayOptions, dir string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	p, err := loadProject(ctx, formatter, logger, dir)
	if err != nil {
		return err
	}
	recorded, err := hooks.LoadEventFile(opts.Events)
	if err != nil {
		return formatter.Fail(ExitCommandError, project.ErrCodeParseFailed, "failed to load event file", err)
	}

	cfg := hooks.ConfigFromEnv()
	if opts.Parallel {
		cfg.Enabled = false
	}

	reg := prometheus.NewRegistry()
	var m *metrics.Metrics
	if opts.Metrics {
		m = metrics.New(reg)
	}

	recorder := progress.NewRecorder()
	factory := func(runID, pipeline string) progress.Sink {
		sinks := progress.MultiSink{recorder}
		if !formatter.JSON() {
			sinks = append(sinks, render.NewLineSink(formatter.Writer))
		}
		if m != nil {
			sinks = append(sinks, m.Sink(pipeline))
		}
		return sinks
	}

	var adapterOpts []hooks.AdapterOption
	if opts.RunIDs != nil {
		adapterOpts = append(adapterOpts, hooks.WithRunIDs(opts.RunIDs))
	}
	adapter := hooks.NewAdapter(cfg, logger, factory, adapterOpts...)

	params := hooks.RunParams{PipelineName: opts.Pipeline, Registry: p.Registry, Catalog: p.Catalog}
	obs, err := adapter.Begin(params)
	if err != nil {
		var cfgErr *hooks.ConfigError
		if errors.As(err, &cfgErr) {
			return formatter.Fail(ExitCommandError, project.ErrCodeNotFound, cfgErr.Error(), cfgErr.Err)
		}
		return formatter.Fail(ExitCommandError, project.ErrCodeGeneric, "failed to start run", err)
	}

	pipeline := p.Registry[params.Name()]
	events, err := hooks.ResolveEvents(recorded, pipeline)
	if err != nil {
		return formatter.Fail(ExitCommandError, project.ErrCodeParseFailed, "invalid event file", err)
	}

	mem := hooks.NewMemoryIO()
	if err := hooks.SeedReplay(ctx, mem, pipeline, events); err != nil {
		return formatter.Fail(ExitFailure, project.ErrCodeGeneric, "failed to seed datasets", err)
	}
	cat := hooks.WrapCatalog(mem, p.Catalog.Entries(), obs, logger)
	if err := hooks.Drive(ctx, obs, cat, events); err != nil {
		return formatter.Fail(ExitFailure, project.ErrCodeGeneric, "replay failed", err)
	}

	result := ReplayResult{Pipeline: params.Name(), Snapshots: recorder.Snapshots()}
	if c, ok := obs.(*progress.Correlator); ok {
		result.Tracked = true
		result.RunID = c.Snapshot().RunID
		for _, a := range c.Anomalies() {
			result.Anomalies = append(result.Anomalies, a.String())
		}
	}
	if result.Snapshots == nil {
		result.Snapshots = []ir.Snapshot{}
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}
	for _, a := range result.Anomalies {
		fmt.Fprintf(formatter.GetErrWriter(), "anomaly: %s\n", a)
	}
	if m != nil {
		return metrics.WriteText(formatter.Writer, reg)
	}
	return nil
}

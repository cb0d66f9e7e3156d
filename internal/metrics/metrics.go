// Package metrics mirrors progress snapshots into Prometheus gauges.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	"github.com/roach88/catbind/internal/ir"
	"github.com/roach88/catbind/internal/progress"
)

// Counter label values.
const (
	CounterOverall = "overall"
	CounterLoads   = "loads"
	CounterSaves   = "saves"
)

// Metrics holds the progress collectors registered on one registry.
type Metrics struct {
	Done      *prometheus.GaugeVec
	Total     *prometheus.GaugeVec
	Completed *prometheus.GaugeVec
	Updates   *prometheus.CounterVec
}

// New registers the progress collectors on reg. Registering twice on the
// same registry panics, so build one Metrics per registry.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Done: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "catbind_progress_done",
				Help: "Units completed in the current run, by counter",
			},
			[]string{"pipeline", "counter"},
		),
		Total: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "catbind_progress_total",
				Help: "Units declared for the current run, by counter",
			},
			[]string{"pipeline", "counter"},
		),
		Completed: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "catbind_run_completed",
				Help: "1 once the run has finished, 0 while running",
			},
			[]string{"pipeline"},
		),
		Updates: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catbind_progress_updates_total",
				Help: "Snapshots received from the correlator",
			},
			[]string{"pipeline"},
		),
	}
}

// ProgressSink is a progress.Sink writing into Metrics.
// Prometheus collectors are goroutine-safe, so the sink is too.
type ProgressSink struct {
	m        *Metrics
	pipeline string
}

var _ progress.Sink = (*ProgressSink)(nil)

// Sink returns a sink labelling every sample with pipeline.
func (m *Metrics) Sink(pipeline string) *ProgressSink {
	return &ProgressSink{m: m, pipeline: pipeline}
}

// NewProgressSink registers fresh collectors on reg and returns a sink for
// pipeline.
func NewProgressSink(reg prometheus.Registerer, pipeline string) *ProgressSink {
	return New(reg).Sink(pipeline)
}

// Update sets every gauge from snap.
func (s *ProgressSink) Update(snap ir.Snapshot) {
	for _, c := range []struct {
		name string
		ctr  ir.Counter
	}{
		{CounterOverall, snap.Overall},
		{CounterLoads, snap.Loads},
		{CounterSaves, snap.Saves},
	} {
		s.m.Done.WithLabelValues(s.pipeline, c.name).Set(float64(c.ctr.Done))
		s.m.Total.WithLabelValues(s.pipeline, c.name).Set(float64(c.ctr.Total))
	}

	completed := 0.0
	if snap.State == ir.RunCompleted {
		completed = 1
	}
	s.m.Completed.WithLabelValues(s.pipeline).Set(completed)
	s.m.Updates.WithLabelValues(s.pipeline).Inc()
}

// WriteText dumps every metric family of g in the Prometheus text format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

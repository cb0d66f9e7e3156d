package metrics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/catbind/internal/ir"
)

func TestProgressSinkMirrorsSnapshot(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	sink := m.Sink("etl")

	sink.Update(ir.Snapshot{
		State:   ir.RunRunning,
		Overall: ir.Counter{Done: 1, Total: 3},
		Loads:   ir.Counter{Done: 2, Total: 2},
		Saves:   ir.Counter{Done: 0, Total: 1},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Done.WithLabelValues("etl", CounterOverall)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Total.WithLabelValues("etl", CounterOverall)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Done.WithLabelValues("etl", CounterLoads)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Total.WithLabelValues("etl", CounterSaves)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Completed.WithLabelValues("etl")))

	sink.Update(ir.Snapshot{State: ir.RunCompleted, Overall: ir.Counter{Done: 3, Total: 3}})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Completed.WithLabelValues("etl")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Updates.WithLabelValues("etl")))
}

func TestCollectorsRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.Sink("etl").Update(ir.Snapshot{State: ir.RunRunning})

	expected := `
# HELP catbind_run_completed 1 once the run has finished, 0 while running
# TYPE catbind_run_completed gauge
catbind_run_completed{pipeline="etl"} 0
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "catbind_run_completed"))
	assert.Equal(t, 3, testutil.CollectAndCount(m.Done), "one series per counter")
}

func TestWriteText(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewProgressSink(reg, "etl").Update(ir.Snapshot{Loads: ir.Counter{Done: 1, Total: 4}})

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, reg))
	out := buf.String()
	assert.Contains(t, out, `catbind_progress_total{counter="loads",pipeline="etl"} 4`)
	assert.Contains(t, out, `catbind_progress_done{counter="loads",pipeline="etl"} 1`)
	assert.Contains(t, out, "# TYPE catbind_progress_updates_total counter")
}

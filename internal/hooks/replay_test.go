package hooks

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/catbind/internal/ir"
	"github.com/roach88/catbind/internal/progress"
	"github.com/roach88/catbind/internal/testutil"
)

func TestLoadEventFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
events:
  - {event: node_started, node: split}
  - {event: dataset_loaded, dataset: raw}
  - event: run_finished
`), 0o644))

	events, err := LoadEventFile(path)
	require.NoError(t, err)
	assert.Equal(t, []RecordedEvent{
		{Event: "node_started", Node: "split"},
		{Event: "dataset_loaded", Dataset: "raw"},
		{Event: "run_finished"},
	}, events)
}

func TestLoadEventFileRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.yaml")
	require.NoError(t, os.WriteFile(path, []byte("events:\n  - {event: run_finished, when: now}\n"), 0o644))

	_, err := LoadEventFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse event file")
}

func TestLoadEventFileMissing(t *testing.T) {
	_, err := LoadEventFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolveEvents(t *testing.T) {
	p := testutil.NamespacedPipeline()

	events, err := ResolveEvents([]RecordedEvent{
		{Event: "node_started", Node: "fit"},
		{Event: "node_started", Node: "ghost"},
		{Event: "dataset_saved", Dataset: "ds.model"},
	}, p)
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, p.Nodes[1], events[0].Node)
	assert.Equal(t, ir.Node{Name: "ghost"}, events[1].Node)
	assert.Equal(t, progress.Event{Kind: progress.EventDatasetSaved, Dataset: "ds.model"}, events[2])
}

func TestResolveEventsErrors(t *testing.T) {
	_, err := ResolveEvents([]RecordedEvent{{Event: "node_paused"}}, nil)
	require.ErrorIs(t, err, progress.ErrUnknownEvent)

	_, err = ResolveEvents([]RecordedEvent{{Event: "run_finished"}, {Event: "dataset_loaded"}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "event 1: dataset_loaded without dataset")
}

func TestSeedReplay(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryIO()

	err := SeedReplay(ctx, m, testutil.NamespacedPipeline(), []progress.Event{
		{Kind: progress.EventDatasetLoaded, Dataset: "extra"},
		{Kind: progress.EventDatasetSaved, Dataset: "not_seeded"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ds.train", "extra", "params:ratio", "raw"}, m.Names())
}

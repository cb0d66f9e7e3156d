package hooks

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/catbind/internal/progress"
	"github.com/roach88/catbind/internal/testutil"
)

type failingIO struct{}

var errDisk = errors.New("disk on fire")

func (failingIO) Load(context.Context, string) (any, error) { return nil, errDisk }
func (failingIO) Save(context.Context, string, any) error   { return errDisk }

func TestCatalogForwardsSuccessfulIO(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	cat := testutil.NamespacedCatalog()
	c := progress.New(progress.WithLogger(quietLogger()))
	require.NoError(t, c.Start(testutil.NamespacedPipeline(), cat))

	mem := NewMemoryIO()
	require.NoError(t, SeedInputs(ctx, mem, testutil.NamespacedPipeline()))
	wrapped := WrapCatalog(mem, cat.Entries(), c, logger)

	data, err := wrapped.Load(ctx, "ds.train")
	require.NoError(t, err)
	assert.Equal(t, "ds.train", data)
	require.NoError(t, wrapped.Save(ctx, "ds.model", 42))

	snap := c.Snapshot()
	assert.Equal(t, 1, snap.Loads.Done)
	assert.Equal(t, 1, snap.Saves.Done)
	assert.Equal(t, "saving ds.model (PickleDataSet)", snap.Activity)

	logs := buf.String()
	assert.Contains(t, logs, `msg="loading data" dataset=ds.train type=ParquetDataSet`)
	assert.Contains(t, logs, `msg="saving data" dataset=ds.model type=PickleDataSet`)
}

func TestCatalogDoesNotReportFailedIO(t *testing.T) {
	ctx := context.Background()
	c := progress.New(progress.WithLogger(quietLogger()))
	require.NoError(t, c.Start(testutil.NamespacedPipeline(), testutil.NamespacedCatalog()))

	wrapped := WrapCatalog(failingIO{}, nil, c, quietLogger())

	_, err := wrapped.Load(ctx, "raw")
	assert.ErrorIs(t, err, errDisk)
	assert.ErrorIs(t, wrapped.Save(ctx, "train", 1), errDisk)

	snap := c.Snapshot()
	assert.Equal(t, 0, snap.Loads.Done)
	assert.Equal(t, 0, snap.Saves.Done)
}

func TestMemoryIO(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryIO()

	_, err := m.Load(ctx, "nothing")
	assert.ErrorIs(t, err, ErrDatasetNotFound)

	require.NoError(t, m.Save(ctx, "b", 2))
	require.NoError(t, m.Save(ctx, "a", 1))
	v, err := m.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.Equal(t, []string{"a", "b"}, m.Names())

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, m.Save(cancelled, "c", 3), context.Canceled)
}

func TestDriveReplaysThroughCatalog(t *testing.T) {
	ctx := context.Background()
	p := testutil.NamespacedPipeline()
	cat := testutil.NamespacedCatalog()

	rec := progress.NewRecorder()
	c := progress.New(progress.WithLogger(quietLogger()), progress.WithSink(rec))
	require.NoError(t, c.Start(p, cat))

	mem := NewMemoryIO()
	require.NoError(t, SeedInputs(ctx, mem, p))
	wrapped := WrapCatalog(mem, cat.Entries(), c, quietLogger())

	err := Drive(ctx, c, wrapped, []progress.Event{
		{Kind: progress.EventNodeStarted, Node: p.Nodes[0]},
		{Kind: progress.EventDatasetLoaded, Dataset: "raw"},
		{Kind: progress.EventDatasetLoaded, Dataset: "params:ratio"},
		{Kind: progress.EventDatasetSaved, Dataset: "train"},
		{Kind: progress.EventNodeFinished},
		{Kind: progress.EventNodeStarted, Node: p.Nodes[1]},
		{Kind: progress.EventDatasetLoaded, Dataset: "ds.train"},
		{Kind: progress.EventDatasetSaved, Dataset: "ds.model"},
		{Kind: progress.EventNodeFinished},
		{Kind: progress.EventRunFinished},
	})
	require.NoError(t, err)

	snap := c.Snapshot()
	assert.Equal(t, progress.ActivityComplete, snap.Activity)
	assert.Equal(t, 2, snap.Overall.Done)
	assert.Equal(t, snap.Loads.Total, snap.Loads.Done)
	assert.Equal(t, snap.Saves.Total, snap.Saves.Done)
}

func TestDriveStopsOnMissingData(t *testing.T) {
	ctx := context.Background()
	wrapped := WrapCatalog(NewMemoryIO(), nil, progress.NopObserver{}, quietLogger())

	err := Drive(ctx, progress.NopObserver{}, wrapped, []progress.Event{
		{Kind: progress.EventDatasetLoaded, Dataset: "raw"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDatasetNotFound)
	assert.Contains(t, err.Error(), "event 0 (dataset_loaded)")
}

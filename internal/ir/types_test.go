package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRecordJSONFieldNaming(t *testing.T) {
	ns := "modelling"
	rec := DatasetReportRecord{
		DatasetType: "PickleDataSet",
		Namespace:   &ns,
		Key:         "model",
		Pipelines:   []string{"__default__"},
	}
	data, err := json.Marshal(rec)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"dataset_type": "PickleDataSet",
		"namespace": "modelling",
		"key": "model",
		"pipelines": ["__default__"]
	}`, string(data))
}

func TestReportRecordNullNamespace(t *testing.T) {
	rec := DatasetReportRecord{DatasetType: "CSVDataSet", Key: "cars", Pipelines: []string{}}
	data, err := json.Marshal(rec)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"namespace":null`)
	assert.Contains(t, string(data), `"pipelines":[]`)
	assert.False(t, rec.HasNamespace())
}

func TestCategoryRoundTrip(t *testing.T) {
	for _, c := range []Category{CategoryPersisted, CategoryEphemeral, CategoryParameter} {
		t.Run(c.String(), func(t *testing.T) {
			parsed, err := ParseCategory(c.String())
			require.NoError(t, err)
			assert.Equal(t, c, parsed)
		})
	}

	_, err := ParseCategory("durable")
	require.Error(t, err)
	assert.Equal(t, "category(42)", Category(42).String())
}

func TestCatalogEntryEphemeral(t *testing.T) {
	assert.True(t, CatalogEntry{Key: "y", Category: CategoryEphemeral}.Ephemeral())
	assert.False(t, CatalogEntry{Key: "x", Category: CategoryPersisted}.Ephemeral())
	assert.False(t, CatalogEntry{Key: "parameters", Category: CategoryParameter}.Ephemeral())
}

func TestRegistryNamesSorted(t *testing.T) {
	reg := Registry{
		"training":    &Pipeline{Name: "training"},
		"__default__": &Pipeline{Name: "__default__"},
		"ingest":      &Pipeline{Name: "ingest"},
	}
	assert.Equal(t, []string{"__default__", "ingest", "training"}, reg.Names())
	assert.Empty(t, Registry{}.Names())
}

func TestPipelineNodeCount(t *testing.T) {
	var nilPipe *Pipeline
	assert.Equal(t, 0, nilPipe.NodeCount())

	p := &Pipeline{Nodes: []Node{{Name: "a"}, {Name: "b"}}}
	assert.Equal(t, 2, p.NodeCount())
}

func TestScopeResultJSONSorted(t *testing.T) {
	s := ScopeResult{
		Inputs:  NewKeySet("b", "a"),
		Outputs: NewKeySet("ns__c", "b"),
	}
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"inputs":["a","b"],"outputs":["b","ns__c"]}`, string(data))
	assert.Equal(t, []string{"a", "b", "ns__c"}, s.All().Sorted())
}

func TestKeySetHas(t *testing.T) {
	s := NewKeySet("x")
	assert.True(t, s.Has("x"))
	assert.False(t, s.Has("y"))

	var empty KeySet
	assert.False(t, empty.Has("x"))
	assert.Empty(t, empty.Sorted())
}

func TestCounterRemaining(t *testing.T) {
	assert.Equal(t, 2, Counter{Done: 1, Total: 3}.Remaining())
}

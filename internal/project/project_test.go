package project

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/catbind/internal/ir"
)

// writeProject creates a project directory from name -> content pairs.
func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func keysOf(entries []ir.CatalogEntry) []string {
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}

const catalogYAML = `
companies:
  type: pandas.CSVDataSet
  filepath: data/01_raw/companies.csv
shuttles:
  type: pandas.ExcelDataSet
  filepath: data/01_raw/shuttles.xlsx
  load_args:
    engine: openpyxl
preprocessed_shuttles:
  type: MemoryDataSet
model_input_table:
  type: pandas.ParquetDataSet
  ephemeral: true
data_science__regressor:
  type: pickle.PickleDataSet
`

const parametersYAML = `
test_size: 0.2
random_state: 3
features:
  - engines
`

const pipelinesYAMLFixture = `
pipelines:
  data_processing:
    nodes:
      - name: preprocess_shuttles
        inputs: shuttles
        outputs: preprocessed_shuttles
      - name: create_model_input_table
        inputs: [preprocessed_shuttles, companies]
        outputs: [model_input_table]
  data_science:
    nodes:
      - name: train_model
        inputs: [data_science.model_input_table, params:test_size]
        outputs: [data_science.regressor]
        namespace: data_science
`

func TestLoadYAMLProject(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"catalog.yml":    catalogYAML,
		"parameters.yml": parametersYAML,
		"pipelines.yaml": pipelinesYAMLFixture,
		"README.md":      "ignored",
	})

	p, err := Load(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"companies",
		"shuttles",
		"preprocessed_shuttles",
		"model_input_table",
		"data_science__regressor",
		"parameters",
		"params:test_size",
		"params:random_state",
		"params:features",
	}, keysOf(p.Catalog.Entries()))

	categories := map[string]ir.Category{}
	for _, e := range p.Catalog.Entries() {
		categories[e.Key] = e.Category
	}
	assert.Equal(t, ir.CategoryPersisted, categories["companies"])
	assert.Equal(t, ir.CategoryEphemeral, categories["preprocessed_shuttles"])
	assert.Equal(t, ir.CategoryEphemeral, categories["model_input_table"])
	assert.Equal(t, ir.CategoryParameter, categories["parameters"])
	assert.Equal(t, ir.CategoryParameter, categories["params:features"])

	assert.Equal(t, []string{"data_processing", "data_science"}, p.Registry.Names())
	dp := p.Registry["data_processing"]
	require.Len(t, dp.Nodes, 2)
	assert.Equal(t, []string{"shuttles"}, dp.Nodes[0].Inputs)
	assert.Equal(t, []string{"preprocessed_shuttles", "companies"}, dp.Nodes[1].Inputs)
	assert.Equal(t, "data_science", p.Registry["data_science"].Nodes[0].Namespace)

	assert.Len(t, p.Files, 3)
}

func TestLoadCUEProject(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"project.cue": `
catalog: {
	raw: type: "CSVDataSet"
	scratch: {type: "ParquetDataSet", ephemeral: true}
	"params:alpha": type: "MemoryDataSet"
}
pipelines: etl: nodes: [
	{name: "clean", inputs: ["raw", "params:alpha"], outputs: ["scratch"]},
	{inputs: ["scratch"], outputs: []},
]
`,
	})

	p, err := Load(context.Background(), dir)
	require.NoError(t, err)

	entries := p.Catalog.Entries()
	assert.Equal(t, []string{"raw", "scratch", "params:alpha"}, keysOf(entries))
	assert.Equal(t, ir.CategoryPersisted, entries[0].Category)
	assert.Equal(t, ir.CategoryEphemeral, entries[1].Category)
	assert.Equal(t, ir.CategoryParameter, entries[2].Category)

	etl := p.Registry["etl"]
	require.NotNil(t, etl)
	require.Len(t, etl.Nodes, 2)
	assert.Equal(t, "clean", etl.Nodes[0].Name)
	assert.Empty(t, etl.Nodes[1].Name)
	assert.Equal(t, []string{}, etl.Nodes[1].Outputs)
}

func TestLoadHCLProject(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"project.hcl": `
dataset "raw" {
  type = "CSVDataSet"
}

dataset "ds__model" {
  type = "PickleDataSet"
}

dataset "cache" {
  type      = "ParquetDataSet"
  ephemeral = true
}

pipeline "train" {
  node "fit" {
    inputs    = ["ds.raw"]
    outputs   = ["ds.model"]
    namespace = "ds"
  }
}
`,
	})

	p, err := Load(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"raw", "ds__model", "cache"}, keysOf(p.Catalog.Entries()))
	assert.True(t, p.Catalog.Entries()[2].Ephemeral())

	train := p.Registry["train"]
	require.NotNil(t, train)
	assert.Equal(t, ir.Node{
		Name:      "fit",
		Inputs:    []string{"ds.raw"},
		Outputs:   []string{"ds.model"},
		Namespace: "ds",
	}, train.Nodes[0])
}

func TestLoadMergesFormats(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"catalog.yml": "a:\n  type: CSVDataSet\n",
		"extra.hcl":   "dataset \"b\" {\n  type = \"CSVDataSet\"\n}\n",
		"more.cue":    "pipelines: p: nodes: [{name: \"n\", inputs: [\"a\"], outputs: [\"b\"]}]\n",
	})

	p, err := Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keysOf(p.Catalog.Entries()))
	assert.Equal(t, []string{"p"}, p.Registry.Names())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		files    map[string]string
		wantCode string
	}{
		{
			name:     "no project files",
			files:    map[string]string{"notes.txt": "hello"},
			wantCode: ErrCodeNoFiles,
		},
		{
			name:     "malformed YAML",
			files:    map[string]string{"catalog.yml": "a: [unclosed"},
			wantCode: ErrCodeParseFailed,
		},
		{
			name:     "catalog is not a mapping",
			files:    map[string]string{"catalog.yml": "- a\n- b\n"},
			wantCode: ErrCodeParseFailed,
		},
		{
			name: "unknown field in pipelines",
			files: map[string]string{
				"pipelines.yml": "pipelines:\n  p:\n    nodes:\n      - name: n\n        func: f\n",
			},
			wantCode: ErrCodeParseFailed,
		},
		{
			name:     "dataset without type",
			files:    map[string]string{"catalog.yml": "a:\n  filepath: x.csv\n"},
			wantCode: ErrCodeMissingType,
		},
		{
			name:     "ambiguous key",
			files:    map[string]string{"catalog.yml": "ns.a__b:\n  type: CSVDataSet\n"},
			wantCode: ErrCodeInvalidKey,
		},
		{
			name: "dataset defined twice",
			files: map[string]string{
				"catalog.yml": "a:\n  type: CSVDataSet\n",
				"a.hcl":       "dataset \"a\" {\n  type = \"CSVDataSet\"\n}\n",
			},
			wantCode: ErrCodeDupDataset,
		},
		{
			name: "pipeline defined twice",
			files: map[string]string{
				"pipelines.yml": "pipelines:\n  p:\n    nodes: []\n",
				"p.hcl":         "pipeline \"p\" {\n}\n",
			},
			wantCode: ErrCodeDupPipeline,
		},
		{
			name:     "HCL missing required attribute",
			files:    map[string]string{"a.hcl": "dataset \"a\" {\n}\n"},
			wantCode: ErrCodeParseFailed,
		},
		{
			name:     "CUE conflict",
			files:    map[string]string{"a.cue": "catalog: a: type: \"X\"\ncatalog: a: type: \"Y\"\n"},
			wantCode: ErrCodeParseFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeProject(t, tt.files)

			p, err := Load(context.Background(), dir)
			assert.Nil(t, p)
			require.Error(t, err)

			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, tt.wantCode, loadErr.Code, "error: %v", err)
		})
	}
}

func TestLoadMissingDirectory(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing"))

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeNotFound, loadErr.Code)
}

func TestLoadCollectAll(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"catalog.yml": "a:\n  type: CSVDataSet\nb:\n  filepath: x\n",
		"a.hcl":       "dataset \"a\" {\n  type = \"CSVDataSet\"\n}\n",
	})

	p, errs := LoadWithMode(context.Background(), dir, LoadModeCollectAll)
	require.Len(t, errs, 2)
	require.NotNil(t, p)

	var first, second *LoadError
	require.ErrorAs(t, errs[0], &first)
	require.ErrorAs(t, errs[1], &second)
	assert.Equal(t, ErrCodeMissingType, first.Code)
	assert.Equal(t, ErrCodeDupDataset, second.Code)
	assert.Equal(t, []string{"a"}, keysOf(p.Catalog.Entries()))
}

func TestLoadRespectsContext(t *testing.T) {
	dir := writeProject(t, map[string]string{"catalog.yml": "a:\n  type: CSVDataSet\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, dir)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadErrorFormat(t *testing.T) {
	assert.Equal(t, "E001: boom", (&LoadError{Code: ErrCodeGeneric, Message: "boom"}).Error())
	assert.Equal(t, "c.yml: E004: bad", (&LoadError{Code: ErrCodeParseFailed, Message: "bad", File: "c.yml"}).Error())
	assert.Equal(t, "c.yml:3: E010: dup", (&LoadError{Code: ErrCodeDupDataset, Message: "dup", File: "c.yml", Line: 3}).Error())
}

func TestCategorize(t *testing.T) {
	assert.Equal(t, ir.CategoryParameter, categorize("params:x", "MemoryDataSet", false))
	assert.Equal(t, ir.CategoryParameter, categorize("parameters", "CSVDataSet", false))
	assert.Equal(t, ir.CategoryEphemeral, categorize("x", "kedro.io.MemoryDataSet", false))
	assert.Equal(t, ir.CategoryEphemeral, categorize("x", "CSVDataSet", true))
	assert.Equal(t, ir.CategoryPersisted, categorize("x", "CSVDataSet", false))
}

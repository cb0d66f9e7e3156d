package testutil

import (
	"github.com/roach88/catbind/internal/catalog"
	"github.com/roach88/catbind/internal/ir"
)

// EndToEndCatalog is the three-dataset catalog {x: Pickle, y: Memory,
// z: Pickle}, with y ingested as ephemeral.
func EndToEndCatalog() *catalog.Catalog {
	return catalog.MustNew(
		ir.CatalogEntry{Key: "x", TypeName: "PickleDataSet"},
		ir.CatalogEntry{Key: "y", TypeName: "MemoryDataSet", Category: ir.CategoryEphemeral},
		ir.CatalogEntry{Key: "z", TypeName: "PickleDataSet"},
	)
}

// EndToEndRegistry holds two pipelines over EndToEndCatalog: "etl" reads x
// and writes y, "report" reads y and writes z.
func EndToEndRegistry() ir.Registry {
	return ir.Registry{
		"etl": {
			Name:  "etl",
			Nodes: []ir.Node{{Name: "extract", Inputs: []string{"x"}, Outputs: []string{"y"}}},
		},
		"report": {
			Name:  "report",
			Nodes: []ir.Node{{Name: "summarise", Inputs: []string{"y"}, Outputs: []string{"z"}}},
		},
	}
}

// NamespacedPipeline is a two-node pipeline whose second node runs under
// namespace "ds".
func NamespacedPipeline() *ir.Pipeline {
	return &ir.Pipeline{
		Name: "training",
		Nodes: []ir.Node{
			{Name: "split", Inputs: []string{"raw", "params:ratio"}, Outputs: []string{"train"}},
			{Name: "fit", Inputs: []string{"ds.train"}, Outputs: []string{"ds.model"}, Namespace: "ds"},
		},
	}
}

// NamespacedCatalog backs NamespacedPipeline.
func NamespacedCatalog() *catalog.Catalog {
	return catalog.MustNew(
		ir.CatalogEntry{Key: "raw", TypeName: "CSVDataSet"},
		ir.CatalogEntry{Key: "params:ratio", TypeName: "MemoryDataSet", Category: ir.CategoryParameter},
		ir.CatalogEntry{Key: "train", TypeName: "ParquetDataSet"},
		ir.CatalogEntry{Key: "ds__train", TypeName: "ParquetDataSet"},
		ir.CatalogEntry{Key: "ds__model", TypeName: "PickleDataSet"},
	)
}

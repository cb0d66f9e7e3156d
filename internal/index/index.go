// Package index maps persisted datasets to the registered pipelines that
// reference them and builds the per-dataset report records.
//
// Everything here is a pure function of an immutable catalog/registry
// snapshot and is safe to call from any goroutine.
package index

import (
	"sort"

	"github.com/roach88/catbind/internal/catalog"
	"github.com/roach88/catbind/internal/ir"
	"github.com/roach88/catbind/internal/namespace"
	"github.com/roach88/catbind/internal/scope"
)

// ByPipeline returns, for every registered pipeline, the sorted dataset keys
// it reads or writes. Uses suffix matching (scope.ComputeSuffix).
func ByPipeline(ds catalog.Datasets, reg ir.Registry) map[string][]string {
	out := make(map[string][]string, len(reg))
	for _, name := range reg.Names() {
		out[name] = scope.ComputeSuffix(ds, reg[name]).All().Sorted()
	}
	return out
}

// Invert turns a pipeline -> datasets mapping into dataset -> sorted pipeline
// names. Datasets referenced by no pipeline are absent from the result.
func Invert(byPipeline map[string][]string) map[string][]string {
	out := make(map[string][]string)
	for pipeline, keys := range byPipeline {
		for _, key := range keys {
			out[key] = append(out[key], pipeline)
		}
	}
	for key := range out {
		sort.Strings(out[key])
	}
	return out
}

// Build indexes ds against every pipeline in reg.
func Build(ds catalog.Datasets, reg ir.Registry) map[string][]string {
	return Invert(ByPipeline(ds, reg))
}

// BuildReport emits one record per dataset in ds, sorted by dataset type.
// The sort is stable: records of the same type keep catalog order.
func BuildReport(ds catalog.Datasets, idx map[string][]string) []ir.DatasetReportRecord {
	keys := ds.Keys()
	records := make([]ir.DatasetReportRecord, 0, len(keys))
	for _, key := range keys {
		typeName, _ := ds.Type(key)
		rec := ir.DatasetReportRecord{
			DatasetType: typeName,
			Pipelines:   []string{},
		}
		ns, ok, bare := namespace.SplitNamespaceAndKey(namespace.ToDottedName(key))
		if ok {
			rec.Namespace = &ns
		}
		rec.Key = bare
		if pipes, found := idx[key]; found {
			rec.Pipelines = append(rec.Pipelines, pipes...)
		}
		records = append(records, rec)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].DatasetType < records[j].DatasetType
	})
	return records
}

// Report classifies c for reporting, indexes it against reg and builds the
// records in one call.
func Report(c *catalog.Catalog, reg ir.Registry) []ir.DatasetReportRecord {
	ds := catalog.Reportable(c)
	return BuildReport(ds, Build(ds, reg))
}

package index

import (
	"sort"

	"github.com/roach88/catbind/internal/ir"
)

// TypeCount is the number of datasets of one storage type.
type TypeCount struct {
	DatasetType string `json:"dataset_type"`
	Count       int    `json:"count"`
}

// Summary aggregates a report for footers and log lines.
type Summary struct {
	Datasets     int         `json:"datasets"`
	Unreferenced int         `json:"unreferenced"`
	Namespaced   int         `json:"namespaced"`
	Types        []TypeCount `json:"types"`
}

// Summarize counts records by type, in type order.
func Summarize(records []ir.DatasetReportRecord) Summary {
	counts := make(map[string]int)
	s := Summary{Datasets: len(records)}
	for _, rec := range records {
		counts[rec.DatasetType]++
		if len(rec.Pipelines) == 0 {
			s.Unreferenced++
		}
		if rec.HasNamespace() {
			s.Namespaced++
		}
	}
	s.Types = make([]TypeCount, 0, len(counts))
	for t, n := range counts {
		s.Types = append(s.Types, TypeCount{DatasetType: t, Count: n})
	}
	sort.Slice(s.Types, func(i, j int) bool {
		return s.Types[i].DatasetType < s.Types[j].DatasetType
	})
	return s
}

package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/roach88/catbind/internal/ir"
)

// DefaultThreshold is the pipeline count above which per-pipeline columns
// collapse into a single pipeline_count column.
const DefaultThreshold = 10

// Cell markers.
const (
	Member    = "✓"
	NotMember = "✘"
	NoValue   = "n/a"
)

// Table writes the dataset report as an aligned text table.
//
// The namespace column appears only when some record has a namespace. The
// dataset type is printed on the first row of each run of equal types, so
// records should already be grouped by type (index.BuildReport does this).
// With more than threshold pipelines the membership columns collapse to a
// count.
func Table(w io.Writer, records []ir.DatasetReportRecord, pipelineNames []string, threshold int) error {
	showNamespace := false
	for _, r := range records {
		if r.HasNamespace() {
			showNamespace = true
			break
		}
	}
	collapse := len(pipelineNames) > threshold

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	var header []string
	if showNamespace {
		header = append(header, "namespace")
	}
	header = append(header, "dataset_name", "dataset_type")
	if collapse {
		header = append(header, "pipeline_count")
	} else {
		header = append(header, pipelineNames...)
	}
	writeRow(tw, header)

	for i, r := range records {
		var row []string
		if showNamespace {
			ns := NoValue
			if r.HasNamespace() {
				ns = *r.Namespace
			}
			row = append(row, ns)
		}

		typeCell := ""
		if i == 0 || records[i-1].DatasetType != r.DatasetType {
			typeCell = r.DatasetType
		}
		row = append(row, r.Key, typeCell)

		if collapse {
			row = append(row, fmt.Sprintf("%d", len(r.Pipelines)))
		} else {
			member := make(map[string]bool, len(r.Pipelines))
			for _, p := range r.Pipelines {
				member[p] = true
			}
			for _, name := range pipelineNames {
				if member[name] {
					row = append(row, Member)
				} else {
					row = append(row, NotMember)
				}
			}
		}
		writeRow(tw, row)
	}
	return tw.Flush()
}

// writeRow terminates every cell but the last with a tab so the final
// column carries no trailing padding.
func writeRow(w io.Writer, cells []string) {
	fmt.Fprintln(w, strings.Join(cells, "\t"))
}

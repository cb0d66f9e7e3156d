package render

import (
	"encoding/json"
	"io"

	"github.com/roach88/catbind/internal/ir"
)

// JSON writes the dataset report as an indented JSON array. An empty report
// is written as [].
func JSON(w io.Writer, records []ir.DatasetReportRecord) error {
	if records == nil {
		records = []ir.DatasetReportRecord{}
	}
	return Indented(w, records)
}

// Indented writes v as two-space indented JSON without HTML escaping.
func Indented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package render

import (
	"fmt"
	"io"

	"github.com/roach88/catbind/internal/index"
	"github.com/roach88/catbind/internal/ir"
)

// Scope writes a scope result as two indented, sorted lists.
func Scope(w io.Writer, pipeline string, sc ir.ScopeResult) error {
	if _, err := fmt.Fprintf(w, "pipeline: %s\n", pipeline); err != nil {
		return err
	}
	for _, section := range []struct {
		label string
		keys  ir.KeySet
	}{
		{"inputs", sc.Inputs},
		{"outputs", sc.Outputs},
	} {
		if _, err := fmt.Fprintf(w, "%s (%d):\n", section.label, len(section.keys)); err != nil {
			return err
		}
		for _, k := range section.keys.Sorted() {
			if _, err := fmt.Fprintf(w, "  %s\n", k); err != nil {
				return err
			}
		}
	}
	return nil
}

// Summary writes the catalog summary, one type per line.
func Summary(w io.Writer, s index.Summary) error {
	if _, err := fmt.Fprintf(w, "datasets: %d (unreferenced %d, namespaced %d)\n",
		s.Datasets, s.Unreferenced, s.Namespaced); err != nil {
		return err
	}
	for _, tc := range s.Types {
		if _, err := fmt.Fprintf(w, "  %s: %d\n", tc.DatasetType, tc.Count); err != nil {
			return err
		}
	}
	return nil
}

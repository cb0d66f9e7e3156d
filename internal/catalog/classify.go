package catalog

import (
	"strings"

	"github.com/roach88/catbind/internal/ir"
)

// Reserved parameter keys dropped when Options.DropReserved is set.
const (
	ReservedParametersKey = "parameters"
	ReservedParamsPrefix  = "params"
)

// Options controls which entries Classify keeps.
type Options struct {
	// ExcludeTypes drops entries by storage type name.
	ExcludeTypes []string

	// ExcludeCategories drops entries by ingestion category.
	ExcludeCategories []ir.Category

	// DropReserved drops "parameters" and every key starting with "params".
	DropReserved bool
}

// Datasets is an ordered key -> type name mapping produced by Classify.
// Order follows the catalog; consumers that need another order sort.
type Datasets struct {
	keys  []string
	types map[string]string
}

// NewDatasets builds a Datasets from parallel key/type pairs, in order.
// Later duplicates are ignored.
func NewDatasets(pairs ...[2]string) Datasets {
	d := Datasets{types: make(map[string]string, len(pairs))}
	for _, p := range pairs {
		d.add(p[0], p[1])
	}
	return d
}

func (d *Datasets) add(key, typeName string) {
	if _, ok := d.types[key]; ok {
		return
	}
	d.keys = append(d.keys, key)
	d.types[key] = typeName
}

// Keys returns the dataset keys in catalog order.
func (d Datasets) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Type returns the type name recorded for key.
func (d Datasets) Type(key string) (string, bool) {
	t, ok := d.types[key]
	return t, ok
}

// Has reports whether key survived classification.
func (d Datasets) Has(key string) bool {
	_, ok := d.types[key]
	return ok
}

// Len returns the number of datasets.
func (d Datasets) Len() int {
	return len(d.keys)
}

// Map returns a copy of the key -> type mapping.
func (d Datasets) Map() map[string]string {
	out := make(map[string]string, len(d.types))
	for k, v := range d.types {
		out[k] = v
	}
	return out
}

// Classify filters entries down to the datasets selected by opts.
func Classify(entries []ir.CatalogEntry, opts Options) Datasets {
	excludedTypes := make(map[string]bool, len(opts.ExcludeTypes))
	for _, t := range opts.ExcludeTypes {
		excludedTypes[t] = true
	}
	excludedCategories := make(map[ir.Category]bool, len(opts.ExcludeCategories))
	for _, c := range opts.ExcludeCategories {
		excludedCategories[c] = true
	}

	d := Datasets{types: make(map[string]string, len(entries))}
	for _, e := range entries {
		if excludedTypes[e.TypeName] || excludedCategories[e.Category] {
			continue
		}
		if opts.DropReserved && IsReserved(e.Key) {
			continue
		}
		d.add(e.Key, e.TypeName)
	}
	return d
}

// IsReserved reports whether key names a parameter feed.
func IsReserved(key string) bool {
	return key == ReservedParametersKey || strings.HasPrefix(key, ReservedParamsPrefix)
}

// Persisted returns the durable datasets of c, the set progress tracking uses.
func Persisted(c *Catalog) Datasets {
	return Classify(c.Entries(), Options{
		ExcludeCategories: []ir.Category{ir.CategoryEphemeral, ir.CategoryParameter},
	})
}

// Reportable returns the datasets shown in the dataset report.
func Reportable(c *Catalog) Datasets {
	return Classify(c.Entries(), Options{
		ExcludeCategories: []ir.Category{ir.CategoryEphemeral, ir.CategoryParameter},
		DropReserved:      true,
	})
}

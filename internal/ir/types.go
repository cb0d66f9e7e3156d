package ir

import (
	"fmt"
	"sort"
)

// Category tags a catalog entry with how its data is backed.
// Assigned when the catalog is ingested.
type Category int

const (
	// CategoryPersisted marks entries backed by durable storage.
	CategoryPersisted Category = iota

	// CategoryEphemeral marks in-memory entries never written to storage.
	CategoryEphemeral

	// CategoryParameter marks parameter feeds ("parameters", "params:*").
	CategoryParameter
)

var categoryNames = map[Category]string{
	CategoryPersisted: "persisted",
	CategoryEphemeral: "ephemeral",
	CategoryParameter: "parameter",
}

// String returns the lower-case category name.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// ParseCategory converts a category name back to its tag.
func ParseCategory(s string) (Category, error) {
	for c, name := range categoryNames {
		if name == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown dataset category %q", s)
}

// CatalogEntry is one named dataset in a catalog.
type CatalogEntry struct {
	Key      string   `json:"key"`
	TypeName string   `json:"type_name"`
	Category Category `json:"category"`
}

// Ephemeral reports whether the entry is in-memory only.
func (e CatalogEntry) Ephemeral() bool {
	return e.Category == CategoryEphemeral
}

// Node is a processing step with declared input and output port names.
// Port names are the workflow's dotted names, not catalog keys.
type Node struct {
	Name      string   `json:"name,omitempty"`
	Inputs    []string `json:"inputs"`
	Outputs   []string `json:"outputs"`
	Namespace string   `json:"namespace,omitempty"` // empty means none
}

// Namespaced reports whether the node carries a namespace.
func (n Node) Namespaced() bool {
	return n.Namespace != ""
}

// Pipeline is a named collection of nodes.
// Node order only matters for display; scope is set-based.
type Pipeline struct {
	Name  string `json:"name"`
	Nodes []Node `json:"nodes"`
}

// NodeCount returns the number of nodes in the pipeline.
func (p *Pipeline) NodeCount() int {
	if p == nil {
		return 0
	}
	return len(p.Nodes)
}

// Registry maps pipeline names to pipelines. Read-only once loaded.
type Registry map[string]*Pipeline

// Names returns the registered pipeline names in lexical order.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultPipelineName is used when a run does not name its pipeline.
const DefaultPipelineName = "__default__"

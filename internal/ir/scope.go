package ir

import "sort"

// KeySet is a set of catalog keys.
type KeySet map[string]struct{}

// NewKeySet builds a set from the given keys.
func NewKeySet(keys ...string) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s KeySet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Sorted returns the keys in lexical order.
func (s KeySet) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Union returns a new set containing the keys of both sets.
func (s KeySet) Union(other KeySet) KeySet {
	out := make(KeySet, len(s)+len(other))
	for k := range s {
		out[k] = struct{}{}
	}
	for k := range other {
		out[k] = struct{}{}
	}
	return out
}

// ScopeResult holds the catalog keys a pipeline reads and writes.
// A key may appear in both sets.
type ScopeResult struct {
	Inputs  KeySet `json:"-"`
	Outputs KeySet `json:"-"`
}

// scopeJSON is the serialised form with deterministic ordering.
type scopeJSON struct {
	Inputs  []string `json:"inputs"`
	Outputs []string `json:"outputs"`
}

// MarshalJSON renders both sets as sorted lists.
func (s ScopeResult) MarshalJSON() ([]byte, error) {
	return marshalJSON(scopeJSON{Inputs: s.Inputs.Sorted(), Outputs: s.Outputs.Sorted()})
}

// All returns the union of inputs and outputs.
func (s ScopeResult) All() KeySet {
	return s.Inputs.Union(s.Outputs)
}

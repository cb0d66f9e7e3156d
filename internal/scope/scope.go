// Package scope computes which catalog keys a pipeline reads and writes.
//
// Two matching policies exist and must not be merged:
//   - Compute uses exact matching. Progress tracking observes live events that
//     carry exact catalog keys.
//   - ComputeSuffix accepts a key that ends with a resolved name. The static
//     report must reconcile catalog keys that still carry unresolved
//     namespace segments.
package scope

import (
	"strings"

	"github.com/roach88/catbind/internal/catalog"
	"github.com/roach88/catbind/internal/ir"
	"github.com/roach88/catbind/internal/namespace"
)

// Resolved returns the catalog-key form of every input and output declared by
// the pipeline's nodes. Ports of namespaced nodes are flattened.
func Resolved(p *ir.Pipeline) (inputs, outputs ir.KeySet) {
	inputs, outputs = ir.KeySet{}, ir.KeySet{}
	if p == nil {
		return inputs, outputs
	}
	for _, node := range p.Nodes {
		for _, name := range node.Inputs {
			inputs[namespace.Resolve(name, node.Namespace)] = struct{}{}
		}
		for _, name := range node.Outputs {
			outputs[namespace.Resolve(name, node.Namespace)] = struct{}{}
		}
	}
	return inputs, outputs
}

// Declared returns the raw port names as written on the nodes, before any
// namespace flattening.
func Declared(p *ir.Pipeline) (inputs, outputs ir.KeySet) {
	inputs, outputs = ir.KeySet{}, ir.KeySet{}
	if p == nil {
		return inputs, outputs
	}
	for _, node := range p.Nodes {
		for _, name := range node.Inputs {
			inputs[name] = struct{}{}
		}
		for _, name := range node.Outputs {
			outputs[name] = struct{}{}
		}
	}
	return inputs, outputs
}

// Compute intersects the pipeline's resolved names with the classified
// datasets using exact key equality.
func Compute(ds catalog.Datasets, p *ir.Pipeline) ir.ScopeResult {
	allInputs, allOutputs := Resolved(p)
	result := ir.ScopeResult{Inputs: ir.KeySet{}, Outputs: ir.KeySet{}}
	for _, key := range ds.Keys() {
		if allInputs.Has(key) {
			result.Inputs[key] = struct{}{}
		}
		if allOutputs.Has(key) {
			result.Outputs[key] = struct{}{}
		}
	}
	return result
}

// ComputeSuffix is the reporting variant of Compute: a dataset key is in
// scope when it equals or ends with a resolved name.
func ComputeSuffix(ds catalog.Datasets, p *ir.Pipeline) ir.ScopeResult {
	allInputs, allOutputs := Resolved(p)
	result := ir.ScopeResult{Inputs: ir.KeySet{}, Outputs: ir.KeySet{}}
	for _, key := range ds.Keys() {
		if matchesAny(key, allInputs) {
			result.Inputs[key] = struct{}{}
		}
		if matchesAny(key, allOutputs) {
			result.Outputs[key] = struct{}{}
		}
	}
	return result
}

func matchesAny(key string, names ir.KeySet) bool {
	if names.Has(key) {
		return true
	}
	for name := range names {
		if name != "" && strings.HasSuffix(key, name) {
			return true
		}
	}
	return false
}

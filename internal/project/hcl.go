package project

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/roach88/catbind/internal/ir"
)

// hclProjectFile is the top-level structure of a project .hcl file:
//
//	dataset "raw" {
//	  type = "CSVDataSet"
//	}
//
//	pipeline "etl" {
//	  node "clean" {
//	    inputs  = ["raw"]
//	    outputs = ["clean"]
//	  }
//	}
type hclProjectFile struct {
	Datasets  []*hclDataset  `hcl:"dataset,block"`
	Pipelines []*hclPipeline `hcl:"pipeline,block"`
}

type hclDataset struct {
	Key       string `hcl:"key,label"`
	Type      string `hcl:"type"`
	Ephemeral bool   `hcl:"ephemeral,optional"`
}

type hclPipeline struct {
	Name  string     `hcl:"name,label"`
	Nodes []*hclNode `hcl:"node,block"`
}

type hclNode struct {
	Name      string   `hcl:"name,label"`
	Inputs    []string `hcl:"inputs,optional"`
	Outputs   []string `hcl:"outputs,optional"`
	Namespace string   `hcl:"namespace,optional"`
}

// loadHCL parses one .hcl file. Each file gets its own parser.
func loadHCL(path string, s sink) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return hclLoadError(path, "parsing HCL", diags)
	}

	var parsed hclProjectFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return hclLoadError(path, "decoding HCL", diags)
	}

	for _, ds := range parsed.Datasets {
		if !s.dataset(path, 0, ds.Key, ds.Type, ds.Ephemeral) {
			return nil
		}
	}
	for _, hp := range parsed.Pipelines {
		p := &ir.Pipeline{Name: hp.Name}
		for _, n := range hp.Nodes {
			p.Nodes = append(p.Nodes, ir.Node{
				Name:      n.Name,
				Inputs:    orEmpty(n.Inputs),
				Outputs:   orEmpty(n.Outputs),
				Namespace: n.Namespace,
			})
		}
		if !s.pipeline(path, 0, p) {
			return nil
		}
	}
	return nil
}

func hclLoadError(path, context string, diags hcl.Diagnostics) *LoadError {
	le := &LoadError{
		Code:    ErrCodeParseFailed,
		Message: fmt.Sprintf("%s: %v", context, diags),
		File:    path,
		Err:     diags,
	}
	for _, d := range diags {
		if d.Severity == hcl.DiagError && d.Subject != nil {
			le.Line = d.Subject.Start.Line
			break
		}
	}
	return le
}

package project

import (
	"fmt"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"

	"github.com/roach88/catbind/internal/ir"
)

// datasetCUE and nodeCUE mirror the CUE schema:
//
//	catalog: raw: {type: "CSVDataSet"}
//	pipelines: etl: nodes: [{name: "clean", inputs: ["raw"], outputs: ["clean"]}]
type datasetCUE struct {
	Type      string `json:"type"`
	Ephemeral bool   `json:"ephemeral"`
}

type nodeCUE struct {
	Name      string   `json:"name"`
	Inputs    []string `json:"inputs"`
	Outputs   []string `json:"outputs"`
	Namespace string   `json:"namespace"`
}

// loadCUE builds all CUE files of the project as one instance.
func loadCUE(dir string, files []string, s sink) error {
	args := make([]string, len(files))
	for i, f := range files {
		args[i] = filepath.Base(f)
	}

	ctx := cuecontext.New()
	instances := load.Instances(args, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return &LoadError{Code: ErrCodeParseFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return cueLoadError("loading CUE files", inst.Err)
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return cueLoadError("building CUE value", err)
	}

	if catalogVal := value.LookupPath(cue.ParsePath("catalog")); catalogVal.Exists() {
		iter, err := catalogVal.Fields()
		if err != nil {
			return cueLoadError("iterating catalog", err)
		}
		for iter.Next() {
			var ds datasetCUE
			if err := iter.Value().Decode(&ds); err != nil {
				return cueLoadError(fmt.Sprintf("dataset %q", iter.Label()), err)
			}
			file, line := position(iter.Value())
			if !s.dataset(file, line, iter.Label(), ds.Type, ds.Ephemeral) {
				return nil
			}
		}
	}

	if pipelinesVal := value.LookupPath(cue.ParsePath("pipelines")); pipelinesVal.Exists() {
		iter, err := pipelinesVal.Fields()
		if err != nil {
			return cueLoadError("iterating pipelines", err)
		}
		for iter.Next() {
			name := iter.Label()
			var nodes []nodeCUE
			if err := iter.Value().LookupPath(cue.ParsePath("nodes")).Decode(&nodes); err != nil {
				return cueLoadError(fmt.Sprintf("pipeline %q", name), err)
			}
			p := &ir.Pipeline{Name: name}
			for _, n := range nodes {
				p.Nodes = append(p.Nodes, ir.Node{
					Name:      n.Name,
					Inputs:    orEmpty(n.Inputs),
					Outputs:   orEmpty(n.Outputs),
					Namespace: n.Namespace,
				})
			}
			file, line := position(iter.Value())
			if !s.pipeline(file, line, p) {
				return nil
			}
		}
	}
	return nil
}

func position(v cue.Value) (string, int) {
	pos := v.Pos()
	if !pos.IsValid() {
		return "", 0
	}
	return pos.Filename(), pos.Line()
}

// cueLoadError extracts position info from CUE errors.
func cueLoadError(context string, err error) *LoadError {
	le := &LoadError{
		Code:    ErrCodeParseFailed,
		Message: fmt.Sprintf("%s: %v", context, err),
		Err:     err,
	}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return le
	}
	if positions := cueerrors.Positions(errs[0]); len(positions) > 0 {
		le.File = positions[0].Filename()
		le.Line = positions[0].Line()
	}
	return le
}

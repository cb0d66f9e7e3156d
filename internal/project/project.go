// Package project loads a catalog and pipeline registry snapshot from a
// project directory.
//
// A project may mix formats:
//   - catalog.yml, parameters.yml and pipelines.yml (YAML)
//   - *.cue files with top-level catalog and pipelines structs
//   - *.hcl files with dataset and pipeline blocks
//
// Only the top level of the directory is scanned. All definitions are merged
// into one snapshot; a dataset or pipeline defined twice is an error.
package project

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/roach88/catbind/internal/catalog"
	"github.com/roach88/catbind/internal/ir"
	"github.com/roach88/catbind/internal/namespace"
)

// Well-known YAML file names. Both .yml and .yaml are accepted.
const (
	CatalogFile    = "catalog"
	ParametersFile = "parameters"
	PipelinesFile  = "pipelines"
)

// LoadMode controls how errors are handled during loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// Project is an immutable catalog and registry snapshot.
type Project struct {
	Dir      string
	Catalog  *catalog.Catalog
	Registry ir.Registry
	Files    []string // files that contributed, in load order
}

// Load reads every project file in dir and stops at the first error.
func Load(ctx context.Context, dir string) (*Project, error) {
	p, errs := LoadWithMode(ctx, dir, LoadModeFailFast)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return p, nil
}

// LoadWithMode reads every project file in dir.
// With LoadModeCollectAll the returned project holds whatever loaded
// cleanly alongside the errors.
func LoadWithMode(ctx context.Context, dir string, mode LoadMode) (*Project, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("project directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing project directory: %v", err), Err: err}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	files, err := scan(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err), Err: err}}
	}
	if files.empty() {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no project files found in %s", dir)}}
	}

	b := newBuilder(mode)
	steps := []func() bool{
		func() bool { return b.run(files.catalog, loadCatalogYAML) },
		func() bool { return b.run(files.parameters, loadParametersYAML) },
		func() bool { return b.run(files.pipelines, loadPipelinesYAML) },
		func() bool { return b.runCUE(dir, files.cue) },
	}
	for _, f := range files.hcl {
		steps = append(steps, func() bool { return b.run(f, loadHCL) })
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, []error{err}
		}
		if !step() {
			return nil, b.errs
		}
	}

	cat, err := catalog.New(b.entries...)
	if err != nil {
		b.fail(catalogError(err))
		if mode == LoadModeFailFast {
			return nil, b.errs
		}
		cat = nil
	}

	return &Project{
		Dir:      dir,
		Catalog:  cat,
		Registry: b.registry,
		Files:    b.files,
	}, b.errs
}

// projectFiles groups the files found in a project directory.
type projectFiles struct {
	catalog    string
	parameters string
	pipelines  string
	cue        []string
	hcl        []string
}

func (f projectFiles) empty() bool {
	return f.catalog == "" && f.parameters == "" && f.pipelines == "" && len(f.cue) == 0 && len(f.hcl) == 0
}

func scan(dir string) (projectFiles, error) {
	var files projectFiles
	entries, err := os.ReadDir(dir)
	if err != nil {
		return files, err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		path := filepath.Join(dir, name)
		ext := filepath.Ext(name)
		base := strings.TrimSuffix(name, ext)
		switch {
		case ext == ".cue":
			files.cue = append(files.cue, path)
		case ext == ".hcl":
			files.hcl = append(files.hcl, path)
		case ext == ".yml" || ext == ".yaml":
			switch base {
			case CatalogFile:
				files.catalog = path
			case ParametersFile:
				files.parameters = path
			case PipelinesFile:
				files.pipelines = path
			}
		}
	}
	sort.Strings(files.cue)
	sort.Strings(files.hcl)
	return files, nil
}

// builder accumulates definitions across files and detects duplicates.
type builder struct {
	mode     LoadMode
	entries  []ir.CatalogEntry
	datasets map[string]string // key -> defining file
	registry ir.Registry
	pipeFile map[string]string // pipeline -> defining file
	files    []string
	errs     []error
}

func newBuilder(mode LoadMode) *builder {
	return &builder{
		mode:     mode,
		datasets: make(map[string]string),
		registry: make(ir.Registry),
		pipeFile: make(map[string]string),
	}
}

// sink receives definitions from a format loader.
type sink interface {
	dataset(file string, line int, key, typeName string, ephemeral bool) bool
	parameter(file string, key string) bool
	pipeline(file string, line int, p *ir.Pipeline) bool
	fail(err error) bool
}

type loaderFunc func(path string, s sink) error

// run loads one file. It reports false when loading must stop.
func (b *builder) run(path string, load loaderFunc) bool {
	if path == "" {
		return true
	}
	b.files = append(b.files, path)
	if err := load(path, b); err != nil {
		return b.fail(err)
	}
	return b.mode == LoadModeCollectAll || len(b.errs) == 0
}

func (b *builder) runCUE(dir string, files []string) bool {
	if len(files) == 0 {
		return true
	}
	b.files = append(b.files, files...)
	if err := loadCUE(dir, files, b); err != nil {
		return b.fail(err)
	}
	return b.mode == LoadModeCollectAll || len(b.errs) == 0
}

func (b *builder) fail(err error) bool {
	b.errs = append(b.errs, err)
	return b.mode == LoadModeCollectAll
}

func (b *builder) dataset(file string, line int, key, typeName string, ephemeral bool) bool {
	if typeName == "" {
		return b.fail(&LoadError{
			Code:    ErrCodeMissingType,
			Message: fmt.Sprintf("dataset %q has no type", key),
			File:    file,
			Line:    line,
		})
	}
	if prev, ok := b.datasets[key]; ok {
		return b.fail(&LoadError{
			Code:    ErrCodeDupDataset,
			Message: fmt.Sprintf("dataset %q already defined in %s", key, prev),
			File:    file,
			Line:    line,
		})
	}
	b.datasets[key] = file
	b.entries = append(b.entries, ir.CatalogEntry{
		Key:      key,
		TypeName: typeName,
		Category: categorize(key, typeName, ephemeral),
	})
	return true
}

func (b *builder) parameter(file string, key string) bool {
	if _, ok := b.datasets[key]; ok {
		// A parameter feed declared explicitly in the catalog wins.
		return true
	}
	b.datasets[key] = file
	b.entries = append(b.entries, ir.CatalogEntry{
		Key:      key,
		TypeName: MemoryType,
		Category: ir.CategoryParameter,
	})
	return true
}

func (b *builder) pipeline(file string, line int, p *ir.Pipeline) bool {
	if prev, ok := b.pipeFile[p.Name]; ok {
		return b.fail(&LoadError{
			Code:    ErrCodeDupPipeline,
			Message: fmt.Sprintf("pipeline %q already defined in %s", p.Name, prev),
			File:    file,
			Line:    line,
		})
	}
	b.pipeFile[p.Name] = file
	b.registry[p.Name] = p
	return true
}

// MemoryType is the type name given to parameter feeds.
const MemoryType = "MemoryDataSet"

// categorize assigns the dataset category at ingestion.
func categorize(key, typeName string, ephemeral bool) ir.Category {
	switch {
	case catalog.IsReserved(key):
		return ir.CategoryParameter
	case ephemeral || strings.HasSuffix(typeName, MemoryType):
		return ir.CategoryEphemeral
	default:
		return ir.CategoryPersisted
	}
}

func catalogError(err error) *LoadError {
	code := ErrCodeGeneric
	var keyErr *namespace.KeyError
	switch {
	case errors.Is(err, catalog.ErrDuplicateKey):
		code = ErrCodeDupDataset
	case errors.As(err, &keyErr), errors.Is(err, catalog.ErrEmptyKey):
		code = ErrCodeInvalidKey
	}
	return &LoadError{Code: code, Message: err.Error(), Err: err}
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/catbind/internal/catalog"
	"github.com/roach88/catbind/internal/ir"
	"github.com/roach88/catbind/internal/project"
	"github.com/roach88/catbind/internal/store"
)

// source is a loaded catalog and pipeline registry, from either a project
// directory or a snapshot database.
type source struct {
	Catalog  *catalog.Catalog
	Registry ir.Registry
}

// loadSource reads the project at dir, or the snapshot at dbPath when set.
// Errors are written through f and come back as *ExitError.
func loadSource(ctx context.Context, f *OutputFormatter, logger *slog.Logger, dir, dbPath string) (*source, error) {
	if dbPath != "" {
		logger.Debug("opening snapshot", "path", dbPath)
		st, err := store.Open(dbPath)
		if err != nil {
			return nil, f.Fail(ExitCommandError, project.ErrCodeGeneric, "failed to open snapshot database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
		cat, reg, err := st.LoadSnapshot(ctx)
		if err != nil {
			return nil, f.Fail(ExitCommandError, project.ErrCodeGeneric, "failed to read snapshot", err)
		}
		return &source{Catalog: cat, Registry: reg}, nil
	}

	if dir == "" {
		return nil, f.Fail(ExitCommandError, project.ErrCodeGeneric, "a project directory or --db is required", nil)
	}
	p, err := loadProject(ctx, f, logger, dir)
	if err != nil {
		return nil, err
	}
	return &source{Catalog: p.Catalog, Registry: p.Registry}, nil
}

// loadProject loads dir in fail-fast mode and maps load errors to their
// codes.
func loadProject(ctx context.Context, f *OutputFormatter, logger *slog.Logger, dir string) (*project.Project, error) {
	logger.Debug("loading project", "dir", dir)
	p, err := project.Load(ctx, dir)
	if err != nil {
		return nil, projectError(f, err)
	}
	logger.Debug("project loaded",
		"files", len(p.Files),
		"datasets", p.Catalog.Len(),
		"pipelines", len(p.Registry),
	)
	return p, nil
}

func projectError(f *OutputFormatter, err error) error {
	var loadErr *project.LoadError
	if errors.As(err, &loadErr) {
		return f.Fail(ExitCommandError, loadErr.Code, loadErrorMessage(loadErr), loadErr.Err)
	}
	return f.Fail(ExitCommandError, project.ErrCodeGeneric, fmt.Sprintf("failed to load project: %v", err), nil)
}

// lookupPipeline resolves name (default "__default__") in reg.
func lookupPipeline(f *OutputFormatter, reg ir.Registry, name string) (*ir.Pipeline, error) {
	if name == "" {
		name = ir.DefaultPipelineName
	}
	p, ok := reg[name]
	if !ok || p == nil {
		return nil, f.Fail(ExitCommandError, project.ErrCodeNotFound,
			fmt.Sprintf("pipeline %q not found (have %v)", name, reg.Names()), nil)
	}
	return p, nil
}

// loadErrorMessage is the LoadError text without its code, which the
// formatter prints separately.
func loadErrorMessage(e *project.LoadError) string {
	switch {
	case e.File != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	case e.File != "":
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	default:
		return e.Message
	}
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/catbind/internal/catalog"
	"github.com/roach88/catbind/internal/ir"
)

// ErrNoSnapshot is returned when the database has never been written.
var ErrNoSnapshot = errors.New("no snapshot stored")

// Meta describes the stored snapshot.
type Meta struct {
	SnapshotVersion string `json:"snapshot_version"`
	ToolVersion     string `json:"tool_version"`
	Source          string `json:"source"`
	DatasetCount    int    `json:"dataset_count"`
	PipelineCount   int    `json:"pipeline_count"`
}

// ReadMeta returns the metadata row of the stored snapshot.
func (s *Store) ReadMeta(ctx context.Context) (Meta, error) {
	var m Meta
	err := s.db.QueryRowContext(ctx, `
		SELECT snapshot_version, tool_version, source, dataset_count, pipeline_count
		FROM snapshot_meta
		WHERE id = 1
	`).Scan(&m.SnapshotVersion, &m.ToolVersion, &m.Source, &m.DatasetCount, &m.PipelineCount)
	if errors.Is(err, sql.ErrNoRows) {
		return Meta{}, ErrNoSnapshot
	}
	if err != nil {
		return Meta{}, fmt.Errorf("read meta: %w", err)
	}
	return m, nil
}

// LoadSnapshot rebuilds the stored catalog and registry.
// Keys are revalidated by catalog.New on the way out.
func (s *Store) LoadSnapshot(ctx context.Context) (*catalog.Catalog, ir.Registry, error) {
	if _, err := s.ReadMeta(ctx); err != nil {
		return nil, nil, err
	}

	entries, err := s.readDatasets(ctx)
	if err != nil {
		return nil, nil, err
	}
	cat, err := catalog.New(entries...)
	if err != nil {
		return nil, nil, fmt.Errorf("load snapshot: %w", err)
	}

	reg, err := s.readRegistry(ctx)
	if err != nil {
		return nil, nil, err
	}
	return cat, reg, nil
}

func (s *Store) readDatasets(ctx context.Context) ([]ir.CatalogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, type_name, category
		FROM datasets
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("read datasets: %w", err)
	}
	defer rows.Close()

	var entries []ir.CatalogEntry
	for rows.Next() {
		var e ir.CatalogEntry
		var category string
		if err := rows.Scan(&e.Key, &e.TypeName, &category); err != nil {
			return nil, fmt.Errorf("scan dataset: %w", err)
		}
		if e.Category, err = ir.ParseCategory(category); err != nil {
			return nil, fmt.Errorf("dataset %q: %w", e.Key, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read datasets: %w", err)
	}
	return entries, nil
}

func (s *Store) readRegistry(ctx context.Context) (ir.Registry, error) {
	reg := ir.Registry{}

	names, err := s.db.QueryContext(ctx, "SELECT name FROM pipelines ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("read pipelines: %w", err)
	}
	for names.Next() {
		var name string
		if err := names.Scan(&name); err != nil {
			names.Close()
			return nil, fmt.Errorf("scan pipeline: %w", err)
		}
		reg[name] = &ir.Pipeline{Name: name, Nodes: []ir.Node{}}
	}
	if err := names.Err(); err != nil {
		names.Close()
		return nil, fmt.Errorf("read pipelines: %w", err)
	}
	names.Close()

	rows, err := s.db.QueryContext(ctx, `
		SELECT pipeline, name, namespace, inputs, outputs
		FROM nodes
		ORDER BY pipeline ASC, position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("read nodes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pipeline, inputs, outputs string
		var n ir.Node
		if err := rows.Scan(&pipeline, &n.Name, &n.Namespace, &inputs, &outputs); err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		if n.Inputs, err = unmarshalNames(inputs); err != nil {
			return nil, err
		}
		if n.Outputs, err = unmarshalNames(outputs); err != nil {
			return nil, err
		}
		p := reg[pipeline]
		p.Nodes = append(p.Nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read nodes: %w", err)
	}
	return reg, nil
}

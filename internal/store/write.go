package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/catbind/internal/catalog"
	"github.com/roach88/catbind/internal/ir"
)

// SaveSnapshot replaces the stored snapshot with cat and reg.
// source records where the snapshot came from, usually the project directory.
//
// The whole replacement runs in one transaction.
func (s *Store) SaveSnapshot(ctx context.Context, source string, cat *catalog.Catalog, reg ir.Registry) (err error) {
	if cat == nil {
		return fmt.Errorf("save snapshot: %w", catalog.ErrNilCatalog)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save snapshot: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range []string{
		"DELETE FROM nodes",
		"DELETE FROM pipelines",
		"DELETE FROM datasets",
		"DELETE FROM snapshot_meta",
	} {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("save snapshot: clear: %w", err)
		}
	}

	if err = writeDatasets(ctx, tx, cat.Entries()); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	if err = writePipelines(ctx, tx, reg); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshot_meta
		(id, snapshot_version, tool_version, source, dataset_count, pipeline_count)
		VALUES (1, ?, ?, ?, ?, ?)
	`,
		ir.SnapshotVersion,
		ir.ToolVersion,
		source,
		cat.Len(),
		len(reg),
	)
	if err != nil {
		return fmt.Errorf("save snapshot: meta: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("save snapshot: commit: %w", err)
	}
	return nil
}

func writeDatasets(ctx context.Context, tx *sql.Tx, entries []ir.CatalogEntry) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO datasets (key, position, type_name, category)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare datasets: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.Key, i, e.TypeName, e.Category.String()); err != nil {
			return fmt.Errorf("write dataset %q: %w", e.Key, err)
		}
	}
	return nil
}

func writePipelines(ctx context.Context, tx *sql.Tx, reg ir.Registry) error {
	for _, name := range reg.Names() {
		p := reg[name]
		if _, err := tx.ExecContext(ctx, "INSERT INTO pipelines (name) VALUES (?)", name); err != nil {
			return fmt.Errorf("write pipeline %q: %w", name, err)
		}
		if p == nil {
			continue
		}
		for i, n := range p.Nodes {
			inputs, err := marshalNames(n.Inputs)
			if err != nil {
				return err
			}
			outputs, err := marshalNames(n.Outputs)
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO nodes (pipeline, position, name, namespace, inputs, outputs)
				VALUES (?, ?, ?, ?, ?, ?)
			`, name, i, n.Name, n.Namespace, inputs, outputs)
			if err != nil {
				return fmt.Errorf("write node %d of %q: %w", i, name, err)
			}
		}
	}
	return nil
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/catbind/internal/project"
	"github.com/roach88/catbind/internal/store"
)

// SnapshotOptions holds flags for the snapshot command.
type SnapshotOptions struct {
	*RootOptions
	Database string
}

// NewSnapshotCommand creates the snapshot command.
func NewSnapshotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SnapshotOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "snapshot <project-dir>",
		Short: "Store the project catalog and pipelines in SQLite",
		Long: `Load a project and write its catalog and pipeline registry to a SQLite
database. An existing snapshot in the database is replaced.

The stored snapshot can be read back with --db on list-datasets and scope.

Example:
  catbind snapshot ./examples/spaceflights --db ./catalog.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runSnapshot(opts *SnapshotOptions, dir string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	p, err := loadProject(ctx, formatter, logger, dir)
	if err != nil {
		return err
	}

	logger.Debug("opening database", "path", opts.Database)
	st, err := store.Open(opts.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, project.ErrCodeGeneric, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	if err := st.SaveSnapshot(ctx, dir, p.Catalog, p.Registry); err != nil {
		return formatter.Fail(ExitFailure, project.ErrCodeGeneric, "failed to write snapshot", err)
	}
	meta, err := st.ReadMeta(ctx)
	if err != nil {
		return formatter.Fail(ExitFailure, project.ErrCodeGeneric, "failed to read snapshot back", err)
	}
	logger.Info("snapshot stored", "path", opts.Database, "datasets", meta.DatasetCount, "pipelines", meta.PipelineCount)

	if formatter.JSON() {
		return formatter.Success(meta)
	}
	formatter.VerboseLog("source: %s", meta.Source)
	return formatter.Success(formatSnapshotMeta(opts.Database, meta))
}

func formatSnapshotMeta(path string, m store.Meta) string {
	return fmt.Sprintf("✓ Stored %d dataset(s) and %d pipeline(s) in %s", m.DatasetCount, m.PipelineCount, path)
}

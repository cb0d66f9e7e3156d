package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/catbind/internal/index"
	"github.com/roach88/catbind/internal/render"
)

// ListOptions holds flags for the list-datasets command.
type ListOptions struct {
	*RootOptions
	Database  string
	Threshold int
}

// NewListDatasetsCommand creates the list-datasets command.
func NewListDatasetsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list-datasets [project-dir]",
		Short: "Show which pipelines use each dataset",
		Long: `List every persisted dataset in the catalog with the pipelines that
read or write it.

Parameter feeds and in-memory datasets are left out. Rows are grouped by
dataset type. With more pipelines than --threshold the per-pipeline columns
collapse into a single pipeline_count column.

Examples:
  catbind list-datasets ./examples/spaceflights
  catbind list-datasets --db ./catalog.db --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var dir string
			if len(args) == 1 {
				dir = args[0]
			}
			return runListDatasets(opts, dir, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "read a stored snapshot instead of a project directory")
	cmd.Flags().IntVar(&opts.Threshold, "threshold", render.DefaultThreshold, "collapse pipeline columns above this many pipelines")

	return cmd
}

func runListDatasets(opts *ListOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	src, err := loadSource(cmd.Context(), formatter, logger, dir, opts.Database)
	if err != nil {
		return err
	}

	records := index.Report(src.Catalog, src.Registry)
	logger.Debug("report built", "datasets", len(records), "pipelines", len(src.Registry))

	if formatter.JSON() {
		return render.JSON(formatter.Writer, records)
	}
	if err := render.Table(formatter.Writer, records, src.Registry.Names(), opts.Threshold); err != nil {
		return err
	}
	if formatter.Verbose {
		return render.Summary(formatter.GetErrWriter(), index.Summarize(records))
	}
	return nil
}

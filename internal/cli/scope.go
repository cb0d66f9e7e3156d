package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/catbind/internal/catalog"
	"github.com/roach88/catbind/internal/ir"
	"github.com/roach88/catbind/internal/project"
	"github.com/roach88/catbind/internal/render"
	"github.com/roach88/catbind/internal/scope"
)

// Matching policies accepted by --match.
const (
	MatchExact  = "exact"
	MatchSuffix = "suffix"
)

// ScopeOptions holds flags for the scope command.
type ScopeOptions struct {
	*RootOptions
	Database string
	Pipeline string
	Match    string
}

// ScopeOutput is the JSON payload of the scope command.
type ScopeOutput struct {
	Pipeline string         `json:"pipeline"`
	Match    string         `json:"match"`
	Scope    ir.ScopeResult `json:"scope"`
}

// NewScopeCommand creates the scope command.
func NewScopeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScopeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "scope [project-dir]",
		Short: "Print the datasets a pipeline reads and writes",
		Long: `Print the persisted catalog keys a pipeline reads and writes.

The default exact matching is what progress tracking counts. Suffix matching
is what the dataset report uses and also accepts keys that end with a
resolved port name.

Examples:
  catbind scope ./examples/spaceflights --pipeline data_science
  catbind scope ./examples/spaceflights --pipeline data_science --match suffix`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var dir string
			if len(args) == 1 {
				dir = args[0]
			}
			return runScope(opts, dir, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "read a stored snapshot instead of a project directory")
	cmd.Flags().StringVarP(&opts.Pipeline, "pipeline", "p", ir.DefaultPipelineName, "pipeline name")
	cmd.Flags().StringVar(&opts.Match, "match", MatchExact, "matching policy (exact|suffix)")

	return cmd
}

func runScope(opts *ScopeOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	if opts.Match != MatchExact && opts.Match != MatchSuffix {
		return formatter.Fail(ExitCommandError, project.ErrCodeGeneric,
			fmt.Sprintf("invalid match %q: must be %s or %s", opts.Match, MatchExact, MatchSuffix), nil)
	}

	src, err := loadSource(cmd.Context(), formatter, logger, dir, opts.Database)
	if err != nil {
		return err
	}
	pipeline, err := lookupPipeline(formatter, src.Registry, opts.Pipeline)
	if err != nil {
		return err
	}

	var sc ir.ScopeResult
	if opts.Match == MatchSuffix {
		sc = scope.ComputeSuffix(catalog.Reportable(src.Catalog), pipeline)
	} else {
		sc = scope.Compute(catalog.Persisted(src.Catalog), pipeline)
	}

	if formatter.JSON() {
		return formatter.Success(ScopeOutput{Pipeline: pipeline.Name, Match: opts.Match, Scope: sc})
	}
	return render.Scope(formatter.Writer, pipeline.Name, sc)
}

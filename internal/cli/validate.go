package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/catbind/internal/index"
	"github.com/roach88/catbind/internal/project"
	"github.com/roach88/catbind/internal/render"
)

// ValidationIssue is one project load error.
type ValidationIssue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool              `json:"valid"`
	Files   int               `json:"files"`
	Errors  []ValidationIssue `json:"errors,omitempty"`
	Summary *index.Summary    `json:"summary,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <project-dir>",
		Short: "Check project files without reporting",
		Long: `Load every catalog and pipeline file in a project directory and report
all errors at once: parse failures, duplicate datasets or pipelines,
and catalog keys that mix namespace separators.

Exit codes:
  0 - Project is valid
  1 - Project files have errors
  2 - Command error (directory not found, no project files)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	p, errs := project.LoadWithMode(cmd.Context(), dir, project.LoadModeCollectAll)

	// Nothing to validate: missing directory, scan failure or no files.
	if p == nil && len(errs) > 0 {
		return projectError(formatter, errs[0])
	}

	formatter.VerboseLog("Found %d project file(s) in %s", len(p.Files), dir)

	result := ValidationResult{Valid: len(errs) == 0, Files: len(p.Files)}
	for _, err := range errs {
		result.Errors = append(result.Errors, toIssue(err))
	}
	if result.Valid {
		summary := index.Summarize(index.Report(p.Catalog, p.Registry))
		result.Summary = &summary
		return outputValidateSuccess(formatter, result)
	}
	return outputValidationErrors(formatter, result)
}

func toIssue(err error) ValidationIssue {
	var loadErr *project.LoadError
	if errors.As(err, &loadErr) {
		return ValidationIssue{
			Code:    loadErr.Code,
			Message: loadErr.Message,
			File:    loadErr.File,
			Line:    loadErr.Line,
		}
	}
	return ValidationIssue{Code: project.ErrCodeGeneric, Message: err.Error()}
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.JSON() {
		return formatter.Success(result)
	}

	fmt.Fprintln(formatter.Writer, "✓ Project valid")
	return render.Summary(formatter.Writer, *result.Summary)
}

// outputValidationErrors outputs every collected load error.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	failure := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(result.Errors)))

	if formatter.JSON() {
		first := result.Errors[0]
		if err := formatter.encode(CLIResponse{
			Status: "error",
			Data:   result,
			Error:  &CLIError{Code: first.Code, Message: first.Message},
		}); err != nil {
			return err
		}
		return failure
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, issue := range result.Errors {
		switch {
		case issue.File != "" && issue.Line > 0:
			fmt.Fprintf(formatter.Writer, "%s:%d\n", issue.File, issue.Line)
		case issue.File != "":
			fmt.Fprintf(formatter.Writer, "%s\n", issue.File)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", issue.Code, issue.Message)
	}
	return failure
}

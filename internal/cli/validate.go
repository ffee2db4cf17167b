package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/bioindex/internal/catalog"
	"github.com/roach88/bioindex/internal/index"
)

// ValidationResult is the payload of the validate command.
type ValidationResult struct {
	Valid    bool                  `json:"valid"`
	Source   string                `json:"source"`
	Issues   []catalog.RecordIssue `json:"issues"`
	Warnings []catalog.RecordIssue `json:"warnings"`

	// Statistics and Report are set when the dataset built.
	Statistics *index.Statistics `json:"statistics,omitempty"`
	Report     *index.Report     `json:"report,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a dataset without serving queries",
		Long: `Load the dataset, check every record against the schema, and build the
index once to catch integrity problems.

Invalid records never stop a build (they are skipped), but validate
reports them and exits 1 so they can be fixed at the source.

Exit codes:
  0 - Every record valid, index built
  1 - Some records were rejected
  2 - Dataset unreadable or index integrity violated`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	ld, err := opts.loadDataset(cmd.Context())
	if err != nil {
		return reportError(f, err)
	}
	f.VerboseLog("Loaded %d node(s) and %d technology record(s) from %s",
		len(ld.Dataset.Nodes), len(ld.Dataset.Technologies), ld.Source)

	ix := index.New(index.WithLogger(opts.logger()))
	snap, err := ix.Build(ld.Dataset)
	if err != nil {
		return reportError(f, err)
	}

	result := ValidationResult{
		Source:   ld.Source,
		Issues:   append(append([]catalog.RecordIssue{}, ld.Issues...), snap.Report.Rejected...),
		Warnings: ld.Warnings,
	}
	stats := snap.Statistics()
	result.Statistics = &stats
	result.Report = &snap.Report
	result.Valid = len(result.Issues) == 0

	if result.Valid {
		return outputValidateSuccess(f, result)
	}
	return outputValidationErrors(f, result)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(f *OutputFormatter, result ValidationResult) error {
	return f.SuccessWith(result, "", func(w io.Writer) error {
		fmt.Fprintf(w, "✓ Dataset valid: %d nodes, %d technologies (%d synthetic), %d edges\n",
			result.Statistics.TotalNodes, result.Statistics.TotalTechnologies,
			result.Statistics.SyntheticTechnologies, result.Statistics.TotalEdges)
		writeWarnings(w, result.Warnings)
		return nil
	})
}

// outputValidationErrors outputs the rejected records.
func outputValidationErrors(f *OutputFormatter, result ValidationResult) error {
	failure := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d issue(s)", len(result.Issues)))
	failure.Reported = true

	if f.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    ErrCodeInvalidRecords,
				Message: failure.Message,
			},
		}

		encoder := json.NewEncoder(f.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		return failure
	}

	w := f.Writer
	fmt.Fprintln(w, "✗ Validation failed")
	fmt.Fprintln(w)
	for _, issue := range result.Issues {
		fmt.Fprintf(w, "  %s\n", issue)
	}
	writeWarnings(w, result.Warnings)
	return failure
}

func writeWarnings(w io.Writer, warnings []catalog.RecordIssue) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%d warning(s):\n", len(warnings))
	for _, warning := range warnings {
		fmt.Fprintf(w, "  %s\n", warning)
	}
}

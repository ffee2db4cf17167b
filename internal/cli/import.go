package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/bioindex/internal/index"
	"github.com/roach88/bioindex/internal/store"
)

// ImportResult is the payload of the import command.
type ImportResult struct {
	Database     string    `json:"database"`
	Source       string    `json:"source"`
	Nodes        int       `json:"nodes"`
	Technologies int       `json:"technologies"`
	Skipped      int       `json:"skipped"`
	ImportedAt   time.Time `json:"imported_at"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Load dataset files into a SQLite database",
		Long: `Read --nodes and --technologies, check that they build, and replace the
contents of --db with them. Later commands given --db read the dataset from
the database instead of the files. With --sample the built-in sample
dataset is imported instead.

Records the schema rejects are not imported.

Example:
  bioindex import --nodes nodes.json --technologies technologies.json --db catalog.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(rootOpts, cmd)
		},
	}
}

func runImport(opts *RootOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	ctx := cmd.Context()

	if opts.Database == "" {
		return reportError(f, &sourceError{Code: ErrCodeNoSource, Err: errors.New("import requires --db")})
	}

	ld, err := opts.loadFromFiles()
	if err != nil {
		return reportError(f, err)
	}

	// Refuse to store a dataset that cannot be served.
	ix := index.New(index.WithLogger(opts.logger()))
	if _, err := ix.Build(ld.Dataset); err != nil {
		return reportError(f, err)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return reportError(f, &sourceError{Code: ErrCodeStore, Err: err})
	}
	defer st.Close()

	if err := st.Ping(ctx); err != nil {
		return reportError(f, &sourceError{Code: ErrCodeStore, Err: fmt.Errorf("database %s unreachable: %w", opts.Database, err)})
	}
	if err := st.SaveDataset(ctx, ld.Dataset, ld.Source); err != nil {
		return reportError(f, &sourceError{Code: ErrCodeStore, Err: err})
	}
	info, err := st.DatasetInfo(ctx)
	if err != nil {
		return reportError(f, &sourceError{Code: ErrCodeStore, Err: err})
	}
	opts.logger().Info("dataset imported", "database", opts.Database, "nodes", info.Nodes, "technologies", info.Technologies)

	result := ImportResult{
		Database:     opts.Database,
		Source:       info.Source,
		Nodes:        info.Nodes,
		Technologies: info.Technologies,
		Skipped:      len(ld.Issues),
		ImportedAt:   info.ImportedAt,
	}
	return f.SuccessWith(result, "", func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "✓ Imported %d nodes and %d technologies into %s (%d record issue(s) skipped)\n",
			result.Nodes, result.Technologies, result.Database, result.Skipped)
		return err
	})
}

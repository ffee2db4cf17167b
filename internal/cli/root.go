package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/bioindex/internal/config"
)

// RootOptions holds global flags for all commands, merged with the config
// file in PersistentPreRunE.
type RootOptions struct {
	Verbose          bool
	Format           string // "json" | "text"
	ConfigPath       string
	NodesFile        string
	TechnologiesFile string
	Database         string
	LogLevel         string
	Sample           bool

	// DefaultLimit applies to search and list when --limit is not given.
	DefaultLimit int

	// Logger is configured from LogLevel and Verbose. Nil until the root
	// command's pre-run has executed.
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the bioindex CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "bioindex",
		Short: "Query imaging nodes and the technologies they offer",
		Long: `bioindex builds an in-memory, bidirectional index between imaging
facilities (nodes) and imaging technologies, and answers lookups in both
directions.

The dataset comes from the built-in sample with --sample, from --db when
set, otherwise from --nodes and --technologies (JSON or YAML). Settings may also be given in bioindex.yaml.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.prepare(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	flags.StringVar(&opts.ConfigPath, "config", "", "config file (default ./"+config.DefaultFileName+" if present)")
	flags.StringVar(&opts.NodesFile, "nodes", "", "nodes dataset file (.json, .yaml, .yml)")
	flags.StringVar(&opts.TechnologiesFile, "technologies", "", "technologies dataset file (.json, .yaml, .yml)")
	flags.StringVar(&opts.Database, "db", "", "SQLite database written by 'bioindex import'")
	flags.BoolVar(&opts.Sample, "sample", false, "use the built-in Euro-BioImaging sample dataset")
	flags.StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error, default info)")

	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewRelatedCommand(opts))
	cmd.AddCommand(NewNodesOfCommand(opts))
	cmd.AddCommand(NewTechnologiesOfCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewLookupCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// Execute runs the CLI with args and returns the process exit code.
// Errors not already written by a command are printed to stderr.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) || !exitErr.Reported {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return GetExitCode(err)
}

// prepare validates flags, merges the config file and sets up logging.
// Flags win over config values.
func (o *RootOptions) prepare(cmd *cobra.Command) error {
	if !isValidFormat(o.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}

	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	o.merge(cfg)

	level, err := config.ParseLevel(o.LogLevel)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --log-level", err)
	}
	if o.Verbose && level > slog.LevelDebug {
		level = slog.LevelDebug
	}
	o.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

func (o *RootOptions) merge(cfg *config.Config) {
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&o.NodesFile, cfg.NodesFile)
	fill(&o.TechnologiesFile, cfg.TechnologiesFile)
	fill(&o.Database, cfg.Database)
	fill(&o.LogLevel, cfg.LogLevel)
	o.DefaultLimit = cfg.DefaultLimit
}

// logger returns the configured logger, or a discarding one for commands
// run without the root pre-run.
func (o *RootOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

// formatter builds the output formatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

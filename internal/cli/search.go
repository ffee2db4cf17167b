package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/bioindex/internal/catalog"
	"github.com/roach88/bioindex/internal/index"
)

// entityQuery runs one of the per-kind queries shared by search, lookup
// and list. Only the slice matching the command's kind is used.
type entityQuery func(ix *index.Index, arg string, limit int) ([]catalog.Node, []catalog.Technology, error)

// newKindCommand builds a "<verb> nodes|technologies" subcommand.
func newKindCommand(opts *RootOptions, kind catalog.EntityKind, use, short string, args cobra.PositionalArgs, withLimit bool, q entityQuery) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		Args:          args,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)

			if withLimit && !cmd.Flags().Changed("limit") {
				limit = opts.DefaultLimit
			}
			if limit < 0 {
				return reportError(f, fmt.Errorf("--limit must be >= 0, got %d", limit))
			}

			var arg string
			if len(args) > 0 {
				arg = args[0]
			}

			ix, snap, err := opts.buildIndex(cmd.Context())
			if err != nil {
				return reportError(f, err)
			}
			nodes, techs, err := q(ix, arg, limit)
			if err != nil {
				return reportError(f, err)
			}

			if kind == catalog.EntityNode {
				return f.SuccessWith(nodes, snap.BuildID, func(w io.Writer) error {
					return writeNodes(w, nodes)
				})
			}
			return f.SuccessWith(techs, snap.BuildID, func(w io.Writer) error {
				return writeTechnologies(w, techs)
			})
		},
	}

	if withLimit {
		cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of results (0 = no limit; default from config)")
	}
	return cmd
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find nodes or technologies whose name contains a query",
		Long: `Case-insensitive substring search over display names, in dataset order.
An empty query matches everything.

Example:
  bioindex search nodes italian
  bioindex search technologies microscopy --limit 5`,
	}

	cmd.AddCommand(newKindCommand(rootOpts, catalog.EntityNode, "nodes [query]", "Search nodes by name", cobra.MaximumNArgs(1), true,
		func(ix *index.Index, q string, limit int) ([]catalog.Node, []catalog.Technology, error) {
			nodes, err := ix.SearchNodes(q, limit)
			return nodes, nil, err
		}))
	cmd.AddCommand(newKindCommand(rootOpts, catalog.EntityTechnology, "technologies [query]", "Search technologies by name", cobra.MaximumNArgs(1), true,
		func(ix *index.Index, q string, limit int) ([]catalog.Node, []catalog.Technology, error) {
			techs, err := ix.SearchTechnologies(q, limit)
			return nil, techs, err
		}))
	return cmd
}

// NewLookupCommand creates the lookup command.
func NewLookupCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Find a node or technology by exact name",
		Long: `Exact, case-insensitive name lookup. Technologies also match by
abbreviation. When several records share a name, the last one in the
dataset wins.`,
	}

	cmd.AddCommand(newKindCommand(rootOpts, catalog.EntityNode, "nodes <name>", "Look a node up by name", cobra.ExactArgs(1), false,
		func(ix *index.Index, name string, _ int) ([]catalog.Node, []catalog.Technology, error) {
			n, err := ix.LookupNode(name)
			if err != nil {
				return nil, nil, err
			}
			return []catalog.Node{n}, nil, nil
		}))
	cmd.AddCommand(newKindCommand(rootOpts, catalog.EntityTechnology, "technologies <name>", "Look a technology up by name or abbreviation", cobra.ExactArgs(1), false,
		func(ix *index.Index, name string, _ int) ([]catalog.Node, []catalog.Technology, error) {
			t, err := ix.LookupTechnology(name)
			if err != nil {
				return nil, nil, err
			}
			return nil, []catalog.Technology{t}, nil
		}))
	return cmd
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List nodes or technologies in dataset order",
		Long: `List records in dataset order. Technologies are listed formal ones
first, then synthetic ones in the order they were created.`,
	}

	cmd.AddCommand(newKindCommand(rootOpts, catalog.EntityNode, "nodes", "List nodes", cobra.NoArgs, true,
		func(ix *index.Index, _ string, limit int) ([]catalog.Node, []catalog.Technology, error) {
			nodes, err := ix.ListNodes(limit)
			return nodes, nil, err
		}))
	cmd.AddCommand(newKindCommand(rootOpts, catalog.EntityTechnology, "technologies", "List technologies", cobra.NoArgs, true,
		func(ix *index.Index, _ string, limit int) ([]catalog.Node, []catalog.Technology, error) {
			techs, err := ix.ListTechnologies(limit)
			return nil, techs, err
		}))
	return cmd
}

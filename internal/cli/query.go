package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/bioindex/internal/catalog"
	"github.com/roach88/bioindex/internal/index"
)

// StatsResult is the payload of the stats command.
type StatsResult struct {
	BuildID    string           `json:"build_id"`
	BuiltAt    time.Time        `json:"built_at"`
	Source     string           `json:"source,omitempty"`
	Statistics index.Statistics `json:"statistics"`
	Report     index.Report     `json:"report"`
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show index statistics",
		Long: `Build the index and print record and edge counts, plus what the build
skipped (invalid records, blank references) and how many synthetic
technologies it created.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(rootOpts, cmd)
		},
	}
}

func runStats(opts *RootOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	ld, err := opts.loadDataset(cmd.Context())
	if err != nil {
		return reportError(f, err)
	}
	ix := index.New(index.WithLogger(opts.logger()))
	snap, err := ix.Build(ld.Dataset)
	if err != nil {
		return reportError(f, err)
	}
	stats, err := ix.Statistics()
	if err != nil {
		return reportError(f, err)
	}

	result := StatsResult{
		BuildID:    snap.BuildID,
		BuiltAt:    snap.BuiltAt,
		Source:     ld.Source,
		Statistics: stats,
		Report:     snap.Report,
	}
	return f.SuccessWith(result, snap.BuildID, func(w io.Writer) error {
		fmt.Fprintf(w, "Build:              %s (%s)\n", result.BuildID, result.BuiltAt.Format(time.RFC3339))
		fmt.Fprintf(w, "Source:             %s\n", result.Source)
		fmt.Fprintf(w, "Nodes:              %d (%d with technologies)\n", stats.TotalNodes, stats.NodesWithTechnologies)
		fmt.Fprintf(w, "Technologies:       %d (%d formal, %d synthetic, %d with nodes)\n",
			stats.TotalTechnologies, stats.FormalTechnologies, stats.SyntheticTechnologies, stats.TechnologiesWithNodes)
		fmt.Fprintf(w, "Edges:              %d\n", stats.TotalEdges)
		fmt.Fprintf(w, "Rejected records:   %d\n", len(snap.Report.Rejected))
		_, err := fmt.Fprintf(w, "Dropped references: %d\n", snap.Report.DroppedReferences)
		return err
	})
}

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show the record for a node or technology ID",
		Long: `Look an ID up among nodes and technologies and print its record.

Example:
  bioindex get 7409a98f-1bdb-47d2-80e7-c89db73efedd
  bioindex get synthetic-116caed3a315ac6e546293bdac78b37b30ee729ef32002ff4734c2e20eb0f4ec --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(rootOpts, args[0], cmd)
		},
	}
}

func runGet(opts *RootOptions, id string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	ix, snap, err := opts.buildIndex(cmd.Context())
	if err != nil {
		return reportError(f, err)
	}
	entity, err := ix.EntityDetails(id)
	if err != nil {
		return reportError(f, err)
	}

	return f.SuccessWith(entity, snap.BuildID, func(w io.Writer) error {
		if entity.Node != nil {
			return writeNodeDetails(w, *entity.Node)
		}
		return writeTechnologyDetails(w, *entity.Technology)
	})
}

// NewRelatedCommand creates the related command.
func NewRelatedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "related <id>",
		Short: "List the entities linked to a node or technology",
		Long: `For a node ID, list the technologies it offers. For a technology ID,
list the nodes offering it.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelated(rootOpts, args[0], cmd)
		},
	}
}

func runRelated(opts *RootOptions, id string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	ix, snap, err := opts.buildIndex(cmd.Context())
	if err != nil {
		return reportError(f, err)
	}
	rel, err := ix.Related(id)
	if err != nil {
		return reportError(f, err)
	}

	return f.SuccessWith(rel, snap.BuildID, func(w io.Writer) error {
		fmt.Fprintf(w, "%s %s %s (%d)\n\n", rel.Type, rel.ID, rel.Relation, rel.Count())
		if rel.Type == catalog.EntityNode {
			return writeTechnologies(w, rel.Technologies)
		}
		return writeNodes(w, rel.Nodes)
	})
}

// NewNodesOfCommand creates the nodes-of command.
func NewNodesOfCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "nodes-of <technology-id>",
		Short:         "List the nodes offering a technology",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)

			ix, snap, err := rootOpts.buildIndex(cmd.Context())
			if err != nil {
				return reportError(f, err)
			}
			tn, err := ix.NodesByTechnology(args[0])
			if err != nil {
				return reportError(f, err)
			}
			return f.SuccessWith(tn, snap.BuildID, func(w io.Writer) error {
				fmt.Fprintf(w, "%s (%s)\n\n", tn.Technology.Name, tn.Technology.ID)
				return writeNodes(w, tn.Nodes)
			})
		},
	}
}

// NewTechnologiesOfCommand creates the technologies-of command.
func NewTechnologiesOfCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "technologies-of <node-id>",
		Short:         "List the technologies a node offers",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)

			ix, snap, err := rootOpts.buildIndex(cmd.Context())
			if err != nil {
				return reportError(f, err)
			}
			nt, err := ix.TechnologiesByNode(args[0])
			if err != nil {
				return reportError(f, err)
			}
			return f.SuccessWith(nt, snap.BuildID, func(w io.Writer) error {
				fmt.Fprintf(w, "%s (%s)\n\n", nt.Node.Name, nt.Node.ID)
				return writeTechnologies(w, nt.Technologies)
			})
		},
	}
}

package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/roach88/bioindex/internal/catalog"
)

// writeNodes prints nodes as an aligned table.
func writeNodes(w io.Writer, nodes []catalog.Node) error {
	if len(nodes) == 0 {
		_, err := fmt.Fprintln(w, "(no nodes)")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCOUNTRY")
	for _, n := range nodes {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", n.ID, n.Name, countryLabel(n.Country))
	}
	return tw.Flush()
}

// writeTechnologies prints technologies as an aligned table. Synthetic
// technologies are marked with "*".
func writeTechnologies(w io.Writer, techs []catalog.Technology) error {
	if len(techs) == 0 {
		_, err := fmt.Fprintln(w, "(no technologies)")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY")
	for _, t := range techs {
		name := t.Name
		if t.Synthetic {
			name += " *"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t.ID, name, t.Category.Name)
	}
	return tw.Flush()
}

func writeNodeDetails(w io.Writer, n catalog.Node) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Node:\t%s\n", n.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", n.Name)
	if c := countryLabel(n.Country); c != "" {
		fmt.Fprintf(tw, "Country:\t%s\n", c)
	}
	if n.Description != "" {
		fmt.Fprintf(tw, "Description:\t%s\n", n.Description)
	}
	fmt.Fprintf(tw, "References:\t%s\n", strings.Join(n.Technologies, ", "))
	return tw.Flush()
}

func writeTechnologyDetails(w io.Writer, t catalog.Technology) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Technology:\t%s\n", t.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", t.Name)
	if t.Abbreviation != "" {
		fmt.Fprintf(tw, "Abbreviation:\t%s\n", t.Abbreviation)
	}
	if t.Category.Name != "" {
		fmt.Fprintf(tw, "Category:\t%s\n", t.Category.Name)
	}
	if t.Description != "" {
		fmt.Fprintf(tw, "Description:\t%s\n", t.Description)
	}
	if t.Synthetic {
		fmt.Fprintf(tw, "Synthetic:\tyes (no formal record)\n")
	}
	return tw.Flush()
}

func countryLabel(c catalog.Country) string {
	if c.ISOA2 != "" {
		return fmt.Sprintf("%s (%s)", c.Name, c.ISOA2)
	}
	return c.Name
}

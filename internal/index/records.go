package index

import (
	"slices"
	"strings"

	"github.com/roach88/bioindex/internal/catalog"
)

// recordStore maps entity IDs to their full records. Slices keep insertion
// order; the maps index into them. After a snapshot is published nothing
// writes to a recordStore.
type recordStore struct {
	nodes    []catalog.Node
	nodeByID map[string]int

	technologies []catalog.Technology
	techByID     map[string]int

	// formal is the number of leading technologies that came from the
	// dataset. Synthetic technologies are appended after them.
	formal int
}

// newRecordStore loads a dataset, quarantining invalid records.
//
// Policy is skip-and-warn: a record missing a required field, repeating an
// ID seen earlier in its sequence, or (for technologies) using the reserved
// synthetic prefix is left out and reported. The first record with a given
// ID wins.
func newRecordStore(ds catalog.Dataset) (*recordStore, []catalog.RecordIssue) {
	rs := &recordStore{
		nodes:        make([]catalog.Node, 0, len(ds.Nodes)),
		nodeByID:     make(map[string]int, len(ds.Nodes)),
		technologies: make([]catalog.Technology, 0, len(ds.Technologies)),
		techByID:     make(map[string]int, len(ds.Technologies)),
	}
	var issues []catalog.RecordIssue

	for i, t := range ds.Technologies {
		if issue, ok := checkTechnology(i, t); !ok {
			issues = append(issues, issue)
			continue
		}
		if _, dup := rs.techByID[t.ID]; dup {
			issues = append(issues, catalog.RecordIssue{
				Kind: catalog.EntityTechnology, Index: i, ID: t.ID, Field: "id",
				Message: "duplicate technology id",
			})
			continue
		}
		t.Synthetic = false
		rs.addTechnology(t)
	}
	rs.formal = len(rs.technologies)

	for i, n := range ds.Nodes {
		if issue, ok := checkNode(i, n); !ok {
			issues = append(issues, issue)
			continue
		}
		if _, dup := rs.nodeByID[n.ID]; dup {
			issues = append(issues, catalog.RecordIssue{
				Kind: catalog.EntityNode, Index: i, ID: n.ID, Field: "id",
				Message: "duplicate node id",
			})
			continue
		}
		n.Technologies = slices.Clone(n.Technologies)
		rs.nodeByID[n.ID] = len(rs.nodes)
		rs.nodes = append(rs.nodes, n)
	}

	return rs, issues
}

func checkNode(i int, n catalog.Node) (catalog.RecordIssue, bool) {
	issue := catalog.RecordIssue{Kind: catalog.EntityNode, Index: i, ID: n.ID}
	switch {
	case strings.TrimSpace(n.ID) == "":
		issue.Field, issue.Message = "id", "id is required"
	case strings.TrimSpace(n.Name) == "":
		issue.Field, issue.Message = "name", "name is required"
	default:
		return issue, true
	}
	return issue, false
}

func checkTechnology(i int, t catalog.Technology) (catalog.RecordIssue, bool) {
	issue := catalog.RecordIssue{Kind: catalog.EntityTechnology, Index: i, ID: t.ID}
	switch {
	case strings.TrimSpace(t.ID) == "":
		issue.Field, issue.Message = "id", "id is required"
	case catalog.IsSyntheticID(t.ID):
		issue.Field, issue.Message = "id", "id uses the reserved prefix "+catalog.SyntheticPrefix
	case strings.TrimSpace(t.Name) == "":
		issue.Field, issue.Message = "name", "name is required"
	default:
		return issue, true
	}
	return issue, false
}

// addTechnology appends without overwriting. Callers check for an existing
// ID first.
func (rs *recordStore) addTechnology(t catalog.Technology) {
	rs.techByID[t.ID] = len(rs.technologies)
	rs.technologies = append(rs.technologies, t)
}

func (rs *recordStore) node(id string) (catalog.Node, bool) {
	i, ok := rs.nodeByID[id]
	if !ok {
		return catalog.Node{}, false
	}
	return cloneNode(rs.nodes[i]), true
}

func (rs *recordStore) technology(id string) (catalog.Technology, bool) {
	i, ok := rs.techByID[id]
	if !ok {
		return catalog.Technology{}, false
	}
	return rs.technologies[i], true
}

func (rs *recordStore) hasNode(id string) bool {
	_, ok := rs.nodeByID[id]
	return ok
}

func (rs *recordStore) hasTechnology(id string) bool {
	_, ok := rs.techByID[id]
	return ok
}

// cloneNode copies the reference slice so callers cannot mutate the store.
func cloneNode(n catalog.Node) catalog.Node {
	n.Technologies = slices.Clone(n.Technologies)
	return n
}

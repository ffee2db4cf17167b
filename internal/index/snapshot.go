package index

import (
	"log/slog"
	"time"

	"github.com/roach88/bioindex/internal/catalog"
)

// Report summarizes what a build left out or created.
type Report struct {
	// Rejected lists records quarantined for invalid input.
	Rejected []catalog.RecordIssue `json:"rejected"`

	// DroppedReferences counts blank technology references skipped.
	DroppedReferences int `json:"dropped_references"`

	// SyntheticCreated counts synthetic technologies the resolver created.
	SyntheticCreated int `json:"synthetic_created"`
}

// Snapshot is one complete, immutable build of the Record Store and its
// indexes. All query methods are pure reads and safe for concurrent use.
type Snapshot struct {
	BuildID string    `json:"build_id"`
	BuiltAt time.Time `json:"built_at"`
	Report  Report    `json:"report"`

	records   *recordStore
	edges     *edges
	nodeNames *nameIndex
	techNames *nameIndex
	abbrevs   map[string]string
}

// buildSnapshot runs the full build pipeline: Record Store load, resolver,
// Bidirectional Index (with verification), Name Index. It returns an error
// only for integrity violations; invalid records are reported, not fatal.
func buildSnapshot(ds catalog.Dataset, logger *slog.Logger) (*Snapshot, error) {
	rs, issues := newRecordStore(ds)
	for _, issue := range issues {
		logger.Warn("record rejected",
			"kind", issue.Kind,
			"index", issue.Index,
			"id", issue.ID,
			"field", issue.Field,
			"reason", issue.Message,
		)
	}
	if issues == nil {
		issues = []catalog.RecordIssue{}
	}

	res := newResolver(rs, logger)
	resolved := res.resolveAll()

	// Synthetic IDs can only collide with a node, never a formal technology.
	for _, t := range rs.technologies {
		if rs.hasNode(t.ID) {
			return nil, newIDCollisionError(t.ID)
		}
	}

	e, err := buildEdges(rs, resolved)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Report: Report{
			Rejected:          issues,
			DroppedReferences: res.dropped,
			SyntheticCreated:  res.created,
		},
		records:   rs,
		edges:     e,
		nodeNames: buildNodeNames(rs),
		techNames: buildTechnologyNames(rs),
		abbrevs:   buildAbbreviations(rs),
	}, nil
}

package index

import (
	"log/slog"
	"strings"

	"github.com/roach88/bioindex/internal/catalog"
)

// resolvedNode is one node's technology references after resolution:
// canonical technology IDs, deduplicated, in first-reference order.
type resolvedNode struct {
	nodeID  string
	techIDs []string
}

// resolver turns raw technology references into canonical technology IDs.
//
// It is the only build step with a side effect: a reference that names no
// formal technology materializes a synthetic record, appended to the
// technology Record Store. It must finish for every node before edges are
// built.
type resolver struct {
	records *recordStore
	logger  *slog.Logger

	// formalNames maps exact, case-sensitive display names of formal
	// technologies to their IDs. Built before any synthetic record exists.
	// Duplicate names resolve last-write-wins.
	formalNames map[string]string

	// created counts synthetic records materialized by this resolver.
	created int
	// dropped counts blank references skipped.
	dropped int
}

func newResolver(rs *recordStore, logger *slog.Logger) *resolver {
	names := make(map[string]string, rs.formal)
	for _, t := range rs.technologies[:rs.formal] {
		names[t.Name] = t.ID
	}
	return &resolver{records: rs, logger: logger, formalNames: names}
}

// classify tags a raw reference. Returns false for blank references. An
// exact ID match covers synthetic records already materialized.
func (r *resolver) classify(raw string) (catalog.Reference, bool) {
	if strings.TrimSpace(raw) == "" {
		return catalog.Reference{}, false
	}
	if r.records.hasTechnology(raw) {
		return catalog.Canonical(raw), true
	}
	if id, ok := r.formalNames[raw]; ok {
		return catalog.Canonical(id), true
	}
	return catalog.Named(raw), true
}

// resolve maps a classified reference to a technology ID, creating the
// synthetic record on first encounter of a name.
func (r *resolver) resolve(ref catalog.Reference) string {
	if ref.Kind == catalog.RefCanonical {
		return ref.Value
	}

	id := catalog.SyntheticID(ref.Value)
	if r.records.hasTechnology(id) {
		return id
	}
	r.records.addTechnology(catalog.Technology{
		ID:        id,
		Name:      ref.Value,
		Synthetic: true,
	})
	r.created++
	r.logger.Debug("synthetic technology created", "id", id, "name", ref.Value)
	return id
}

// resolveNode resolves one node's references, collapsing duplicates.
func (r *resolver) resolveNode(n catalog.Node) resolvedNode {
	out := resolvedNode{nodeID: n.ID, techIDs: make([]string, 0, len(n.Technologies))}
	seen := make(map[string]struct{}, len(n.Technologies))

	for _, raw := range n.Technologies {
		ref, ok := r.classify(raw)
		if !ok {
			r.dropped++
			r.logger.Warn("blank technology reference dropped", "node_id", n.ID)
			continue
		}
		id := r.resolve(ref)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out.techIDs = append(out.techIDs, id)
	}
	return out
}

// resolveAll runs the resolver over every node in Record Store order.
//
// Name-derived synthetic records are materialized in a first pass, so a
// node that references a synthetic ID directly links to the same record
// whatever the node order.
func (r *resolver) resolveAll() []resolvedNode {
	for _, n := range r.records.nodes {
		for _, raw := range n.Technologies {
			ref, ok := r.classify(raw)
			if ok && ref.Kind == catalog.RefName && !catalog.IsSyntheticID(raw) {
				r.resolve(ref)
			}
		}
	}

	out := make([]resolvedNode, 0, len(r.records.nodes))
	for _, n := range r.records.nodes {
		out = append(out, r.resolveNode(n))
	}
	return out
}

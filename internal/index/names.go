package index

import (
	"strings"

	"github.com/roach88/bioindex/internal/catalog"
)

// nameIndex answers case-insensitive exact and substring lookups over one
// Record Store. Keys and search haystacks are stored in NormalizeName form.
type nameIndex struct {
	// exact maps normalized names to IDs. When two records share a name the
	// later one in insertion order wins.
	exact map[string]string

	// ids and folded are parallel, in Record Store insertion order.
	ids    []string
	folded []string
}

func newNameIndex(n int) *nameIndex {
	return &nameIndex{
		exact:  make(map[string]string, n),
		ids:    make([]string, 0, n),
		folded: make([]string, 0, n),
	}
}

func (ni *nameIndex) add(id, name string) {
	key := catalog.NormalizeName(name)
	ni.exact[key] = id
	ni.ids = append(ni.ids, id)
	ni.folded = append(ni.folded, key)
}

func (ni *nameIndex) lookup(name string) (string, bool) {
	id, ok := ni.exact[catalog.NormalizeName(name)]
	return id, ok
}

// search returns IDs whose normalized name contains the normalized query,
// in insertion order. An empty (or blank) query matches every entry.
// limit <= 0 means no limit.
func (ni *nameIndex) search(query string, limit int) []string {
	q := catalog.NormalizeName(query)
	out := []string{}
	for i, name := range ni.folded {
		if limit > 0 && len(out) >= limit {
			break
		}
		if strings.Contains(name, q) {
			out = append(out, ni.ids[i])
		}
	}
	return out
}

func buildNodeNames(rs *recordStore) *nameIndex {
	ni := newNameIndex(len(rs.nodes))
	for _, n := range rs.nodes {
		ni.add(n.ID, n.Name)
	}
	return ni
}

func buildTechnologyNames(rs *recordStore) *nameIndex {
	ni := newNameIndex(len(rs.technologies))
	for _, t := range rs.technologies {
		ni.add(t.ID, t.Name)
	}
	return ni
}

// buildAbbreviations maps normalized technology abbreviations to IDs,
// last-write-wins. Only a lookup aid; the resolver never consults it.
func buildAbbreviations(rs *recordStore) map[string]string {
	out := make(map[string]string)
	for _, t := range rs.technologies {
		if strings.TrimSpace(t.Abbreviation) == "" {
			continue
		}
		out[catalog.NormalizeName(t.Abbreviation)] = t.ID
	}
	return out
}

package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bioindex/internal/catalog"
)

func newTestResolver(t *testing.T, ds catalog.Dataset) (*resolver, *recordStore) {
	t.Helper()
	rs, issues := newRecordStore(ds)
	require.Empty(t, issues)
	return newResolver(rs, discardLogger()), rs
}

func TestResolver_Classify(t *testing.T) {
	r, _ := newTestResolver(t, ebiDataset())

	tests := []struct {
		name string
		raw  string
		want catalog.Reference
	}{
		{"formal id", fourPiID, catalog.Canonical(fourPiID)},
		{"formal display name", "Super-resolution microscopy", catalog.Canonical(srmTechID)},
		{"name match is case-sensitive", "super-resolution microscopy", catalog.Named("super-resolution microscopy")},
		{"abbreviation is not a name", "3D-CLEM", catalog.Named("3D-CLEM")},
		{"free-form", "live_cell_imaging", catalog.Named("live_cell_imaging")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.classify(tt.raw)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_ClassifyBlank(t *testing.T) {
	r, _ := newTestResolver(t, ebiDataset())

	for _, raw := range []string{"", "   ", "\t\n"} {
		_, ok := r.classify(raw)
		assert.False(t, ok, "blank reference %q should not classify", raw)
	}
}

func TestResolver_SyntheticCreatedOnce(t *testing.T) {
	r, rs := newTestResolver(t, ebiDataset())
	formal := len(rs.technologies)

	first := r.resolve(catalog.Named("super_resolution"))
	second := r.resolve(catalog.Named("  SUPER_RESOLUTION"))

	assert.Equal(t, first, second)
	assert.Equal(t, catalog.SyntheticID("super_resolution"), first)
	assert.Len(t, rs.technologies, formal+1)
	assert.Equal(t, 1, r.created)

	tech, ok := rs.technology(first)
	require.True(t, ok)
	assert.True(t, tech.Synthetic)
	assert.Equal(t, "super_resolution", tech.Name, "name is the text of the first encounter")
	assert.Empty(t, tech.Description)
	assert.Empty(t, tech.Category.Name)
}

func TestResolver_NeverOverwritesFormal(t *testing.T) {
	r, rs := newTestResolver(t, ebiDataset())
	before, _ := rs.technology(fourPiID)

	id := r.resolve(catalog.Canonical(fourPiID))

	after, _ := rs.technology(fourPiID)
	assert.Equal(t, fourPiID, id)
	assert.Equal(t, before, after)
	assert.Zero(t, r.created)
}

func TestResolver_ResolveNodeDeduplicates(t *testing.T) {
	r, _ := newTestResolver(t, ebiDataset())

	got := r.resolveNode(catalog.Node{
		ID: "n",
		Technologies: []string{
			srmTechID,
			"Super-resolution microscopy", // same formal record by name
			"clem",
			"CLEM", // same synthetic after normalization
			"",
		},
	})

	assert.Equal(t, []string{srmTechID, catalog.SyntheticID("clem")}, got.techIDs)
	assert.Equal(t, 1, r.dropped)
}

func TestResolver_DuplicateFormalNamesLastWriteWins(t *testing.T) {
	r, _ := newTestResolver(t, catalog.Dataset{
		Technologies: []catalog.Technology{
			{ID: "t-old", Name: "Light sheet"},
			{ID: "t-new", Name: "Light sheet"},
		},
	})

	ref, ok := r.classify("Light sheet")
	require.True(t, ok)
	assert.Equal(t, catalog.Canonical("t-new"), ref)
}

func TestResolver_ResolveAllFollowsNodeOrder(t *testing.T) {
	r, rs := newTestResolver(t, ebiDataset())

	resolved := r.resolveAll()

	require.Len(t, resolved, 3)
	assert.Equal(t, italianNodeID, resolved[0].nodeID)
	assert.Equal(t, polishNodeID, resolved[1].nodeID)
	assert.Equal(t, germanNodeID, resolved[2].nodeID)

	// Synthetic technologies appended in first-encounter order.
	synthetic := technologyIDs(rs.technologies[rs.formal:])
	assert.Equal(t, []string{
		catalog.SyntheticID("correlative_microscopy"),
		catalog.SyntheticID("super_resolution"),
		catalog.SyntheticID("electron_microscopy"),
		catalog.SyntheticID("live_cell_imaging"),
	}, synthetic)
}

func TestResolver_SyntheticIDReferenceLinksToNamedRecord(t *testing.T) {
	clemID := catalog.SyntheticID("3D-CLEM")

	tests := []struct {
		name  string
		nodes []catalog.Node
	}{
		{"name first", []catalog.Node{
			{ID: "n1", Name: "N1", Technologies: []string{"3D-CLEM"}},
			{ID: "n2", Name: "N2", Technologies: []string{clemID}},
		}},
		{"id first", []catalog.Node{
			{ID: "n2", Name: "N2", Technologies: []string{clemID}},
			{ID: "n1", Name: "N1", Technologies: []string{"3D-CLEM"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix := buildTestIndex(t, catalog.Dataset{Nodes: tt.nodes})

			stats, err := ix.Statistics()
			require.NoError(t, err)
			assert.Equal(t, 1, stats.SyntheticTechnologies)

			tn, err := ix.NodesByTechnology(clemID)
			require.NoError(t, err)
			assert.Equal(t, "3D-CLEM", tn.Technology.Name)
			assert.ElementsMatch(t, []string{"n1", "n2"}, nodeIDs(tn.Nodes))
		})
	}
}

func TestResolver_UnknownSyntheticIDBecomesName(t *testing.T) {
	r, rs := newTestResolver(t, catalog.Dataset{
		Nodes: []catalog.Node{{ID: "n1", Name: "N1", Technologies: []string{"synthetic-unknown"}}},
	})

	resolved := r.resolveAll()

	require.Len(t, resolved, 1)
	want := catalog.SyntheticID("synthetic-unknown")
	assert.Equal(t, []string{want}, resolved[0].techIDs)
	assert.Equal(t, []string{want}, technologyIDs(rs.technologies))
}

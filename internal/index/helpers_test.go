package index

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/bioindex/internal/catalog"
)

const (
	italianNodeID = "7409a98f-1bdb-47d2-80e7-c89db73efedd"
	polishNodeID  = "099e48ff-7204-46ea-8828-10025e945081"
	germanNodeID  = "bc123456-789a-bcde-f012-3456789abcde"

	clemTechID = "f0acc857-fc72-4094-bf14-c36ac40801c5"
	fourPiID   = "68a3b6c4-9c19-4446-9617-22e7d37e0f2c"
	srmTechID  = "abc12345-6789-abcd-ef01-23456789abcd"
)

// discardLogger suppresses build logs in tests.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixedClock returns a clock frozen at a known instant.
func fixedClock() func() time.Time {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	return func() time.Time { return ts }
}

// newTestIndex creates an Unbuilt index with quiet logs and fixed build IDs.
func newTestIndex(ids ...string) *Index {
	if len(ids) == 0 {
		ids = []string{"build-1", "build-2", "build-3", "build-4"}
	}
	return New(
		WithLogger(discardLogger()),
		WithIDGenerator(NewFixedGenerator(ids...)),
		WithClock(fixedClock()),
	)
}

// buildTestIndex builds ds and fails the test on error.
func buildTestIndex(t *testing.T, ds catalog.Dataset) *Index {
	t.Helper()
	ix := newTestIndex()
	_, err := ix.Build(ds)
	require.NoError(t, err)
	return ix
}

// exampleDataset is the minimal Italian Node example: one formal technology
// referenced by ID and one free-form name with no formal record.
func exampleDataset() catalog.Dataset {
	return catalog.Dataset{
		Nodes: []catalog.Node{
			{
				ID:           italianNodeID,
				Name:         "Italian Node",
				Country:      catalog.Country{Name: "Italy", ISOA2: "IT"},
				Technologies: []string{"3D-CLEM", fourPiID},
			},
		},
		Technologies: []catalog.Technology{
			{ID: fourPiID, Name: "4Pi microscopy", Abbreviation: "4Pi"},
		},
	}
}

// ebiDataset is a three-node dataset mixing ID, name and free-form
// references, including one free-form name shared by two nodes.
func ebiDataset() catalog.Dataset {
	return catalog.Dataset{
		Nodes: []catalog.Node{
			{
				ID:          italianNodeID,
				Name:        "Advanced Light Microscopy Italian Node",
				Description: "Five imaging facilities in Naples, Genoa, Padua, Florence and Milan.",
				Country:     catalog.Country{Name: "Italy", ISOA2: "IT"},
				Technologies: []string{
					clemTechID,
					fourPiID,
					"correlative_microscopy",
					"super_resolution",
				},
			},
			{
				ID:          polishNodeID,
				Name:        "Advanced Light Microscopy Node Poland",
				Country:     catalog.Country{Name: "Poland", ISOA2: "PL"},
				Technologies: []string{
					clemTechID,
					"Super-resolution microscopy",
					"electron_microscopy",
				},
			},
			{
				ID:           germanNodeID,
				Name:         "German BioImaging Node",
				Country:      catalog.Country{Name: "Germany", ISOA2: "DE"},
				Technologies: []string{fourPiID, "Super_Resolution ", "live_cell_imaging"},
			},
		},
		Technologies: []catalog.Technology{
			{
				ID:           clemTechID,
				Name:         "3D Correlative Light and Electron Microscopy (3D-CLEM)",
				Abbreviation: "3D-CLEM",
				Category:     catalog.Category{Name: "Correlative Light Microscopy and Electron Microscopy"},
			},
			{
				ID:           fourPiID,
				Name:         "4Pi microscopy",
				Abbreviation: "4Pi",
				Category:     catalog.Category{Name: "Fluorescence Nanoscopy"},
			},
			{
				ID:           srmTechID,
				Name:         "Super-resolution microscopy",
				Abbreviation: "SRM",
				Category:     catalog.Category{Name: "Fluorescence Nanoscopy"},
			},
		},
	}
}

func nodeIDs(nodes []catalog.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func technologyIDs(techs []catalog.Technology) []string {
	out := make([]string, len(techs))
	for i, t := range techs {
		out[i] = t.ID
	}
	return out
}

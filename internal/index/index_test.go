package index

import (
	"bytes"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bioindex/internal/catalog"
	"github.com/roach88/bioindex/internal/testutil"
)

func TestIndex_UnbuiltRejectsQueries(t *testing.T) {
	ix := newTestIndex()

	assert.False(t, ix.Ready())

	_, err := ix.Snapshot()
	assert.ErrorIs(t, err, ErrNotInitialized)
	_, err = ix.NodesByTechnology(fourPiID)
	assert.ErrorIs(t, err, ErrNotInitialized)
	_, err = ix.TechnologiesByNode(italianNodeID)
	assert.ErrorIs(t, err, ErrNotInitialized)
	_, err = ix.EntityDetails(italianNodeID)
	assert.ErrorIs(t, err, ErrNotInitialized)
	_, err = ix.Related(italianNodeID)
	assert.ErrorIs(t, err, ErrNotInitialized)
	_, err = ix.SearchNodes("", 0)
	assert.ErrorIs(t, err, ErrNotInitialized)
	_, err = ix.SearchTechnologies("", 0)
	assert.ErrorIs(t, err, ErrNotInitialized)
	_, err = ix.LookupNode("Italian Node")
	assert.ErrorIs(t, err, ErrNotInitialized)
	_, err = ix.LookupTechnology("4Pi")
	assert.ErrorIs(t, err, ErrNotInitialized)
	_, err = ix.ListNodes(0)
	assert.ErrorIs(t, err, ErrNotInitialized)
	_, err = ix.ListTechnologies(0)
	assert.ErrorIs(t, err, ErrNotInitialized)
	_, err = ix.Statistics()
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestIndex_BuildPublishes(t *testing.T) {
	ix := newTestIndex("build-abc")

	snap, err := ix.Build(exampleDataset())
	require.NoError(t, err)

	assert.True(t, ix.Ready())
	assert.Equal(t, "build-abc", snap.BuildID)
	assert.Equal(t, fixedClock()(), snap.BuiltAt)

	current, err := ix.Snapshot()
	require.NoError(t, err)
	assert.Same(t, snap, current)
}

func TestIndex_FailedBuildStaysUnbuilt(t *testing.T) {
	ix := newTestIndex()

	// A node whose ID equals the synthetic ID its own reference produces.
	collision := catalog.Dataset{
		Nodes: []catalog.Node{{
			ID:           catalog.SyntheticID("clem"),
			Name:         "Odd Node",
			Technologies: []string{"clem"},
		}},
	}

	_, err := ix.Build(collision)
	require.Error(t, err)
	assert.True(t, IsIntegrityError(err))
	var ie *IntegrityError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, ErrCodeIDCollision, ie.Code)

	assert.False(t, ix.Ready())
	_, err = ix.Statistics()
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestIndex_FailedReloadKeepsPreviousSnapshot(t *testing.T) {
	ix := newTestIndex()
	first, err := ix.Build(ebiDataset())
	require.NoError(t, err)

	_, err = ix.Reload(catalog.Dataset{
		Nodes: []catalog.Node{{ID: catalog.SyntheticID("x"), Name: "X", Technologies: []string{"x"}}},
	})
	require.Error(t, err)

	current, err := ix.Snapshot()
	require.NoError(t, err)
	assert.Same(t, first, current)
}

func TestIndex_ReloadSwapsSnapshot(t *testing.T) {
	ix := newTestIndex()
	old, err := ix.Build(ebiDataset())
	require.NoError(t, err)

	fresh, err := ix.Reload(exampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "build-2", fresh.BuildID)

	// The old snapshot still answers from the old data.
	assert.Equal(t, 3, old.Statistics().TotalNodes)

	stats, err := ix.Statistics()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalNodes)
}

func TestIndex_ReloadAdvancesBuiltAt(t *testing.T) {
	clock := testutil.NewStepClock(time.Minute)
	ix := New(WithLogger(discardLogger()), WithClock(clock.Now))

	first, err := ix.Build(exampleDataset())
	require.NoError(t, err)
	_, err = ix.Reload(catalog.Dataset{
		Nodes:        []catalog.Node{{ID: fourPiID, Name: "Node"}},
		Technologies: []catalog.Technology{{ID: fourPiID, Name: "Technology"}},
	})
	require.Error(t, err)
	second, err := ix.Reload(ebiDataset())
	require.NoError(t, err)

	assert.Equal(t, testutil.Epoch, first.BuiltAt)
	assert.Equal(t, testutil.Epoch.Add(time.Minute), second.BuiltAt, "failed reloads do not read the clock")
	assert.Equal(t, int64(2), clock.Calls())
	assert.NotEqual(t, first.BuildID, second.BuildID)
}

func TestIndex_StableUnderReload(t *testing.T) {
	ix := newTestIndex()
	first, err := ix.Build(ebiDataset())
	require.NoError(t, err)
	second, err := ix.Reload(ebiDataset())
	require.NoError(t, err)

	assert.Equal(t, first.Statistics(), second.Statistics())
	assert.Equal(t, first.ListNodes(0), second.ListNodes(0))
	assert.Equal(t, first.ListTechnologies(0), second.ListTechnologies(0))

	for _, n := range first.ListNodes(0) {
		a, err := first.TechnologiesByNode(n.ID)
		require.NoError(t, err)
		b, err := second.TechnologiesByNode(n.ID)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
	for _, tech := range first.ListTechnologies(0) {
		a, err := first.NodesByTechnology(tech.ID)
		require.NoError(t, err)
		b, err := second.NodesByTechnology(tech.ID)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
	for _, q := range []string{"", "node", "micro", "super"} {
		assert.Equal(t, first.SearchNodes(q, 0), second.SearchNodes(q, 0))
		assert.Equal(t, first.SearchTechnologies(q, 0), second.SearchTechnologies(q, 0))
	}
}

func TestIndex_ConcurrentReadersDuringReload(t *testing.T) {
	ix := New(WithLogger(discardLogger()))
	_, err := ix.Build(ebiDataset())
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 64)

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				snap, err := ix.Snapshot()
				if err != nil {
					errs <- err
					return
				}
				// Within one snapshot the counts must agree with the lists.
				st := snap.Statistics()
				if st.TotalNodes != len(snap.ListNodes(0)) {
					errs <- errors.New("node count disagrees with listing")
					return
				}
				if st.TotalTechnologies != len(snap.ListTechnologies(0)) {
					errs <- errors.New("technology count disagrees with listing")
					return
				}
			}
		}()
	}

	for i := 0; i < 20; i++ {
		ds := ebiDataset()
		if i%2 == 1 {
			ds = exampleDataset()
		}
		_, err := ix.Reload(ds)
		require.NoError(t, err)
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestIndex_LogsRejectedRecords(t *testing.T) {
	var buf bytes.Buffer
	ix := New(
		WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
		WithIDGenerator(NewFixedGenerator("b1")),
	)

	ds := exampleDataset()
	ds.Nodes = append(ds.Nodes, catalog.Node{ID: "no-name"})

	snap, err := ix.Build(ds)
	require.NoError(t, err)

	require.Len(t, snap.Report.Rejected, 1)
	assert.Equal(t, "no-name", snap.Report.Rejected[0].ID)
	assert.Contains(t, buf.String(), "record rejected")
	assert.Contains(t, buf.String(), "index build published")
	assert.Contains(t, buf.String(), "build_id=b1")
}

func TestIndex_BuildDoesNotAliasInput(t *testing.T) {
	ds := exampleDataset()
	ix := buildTestIndex(t, ds)

	ds.Nodes[0].Name = "Renamed"
	ds.Nodes[0].Technologies[0] = "changed"

	n, err := ix.LookupNode("Italian Node")
	require.NoError(t, err)
	assert.Equal(t, "Italian Node", n.Name)
	assert.Equal(t, "3D-CLEM", n.Technologies[0])
}

func TestFixedGenerator_Exhausted(t *testing.T) {
	g := NewFixedGenerator("only")
	assert.Equal(t, "only", g.Generate())
	assert.Panics(t, func() { g.Generate() })
}

func TestUUIDv7Generator(t *testing.T) {
	g := UUIDv7Generator{}
	a, b := g.Generate(), g.Generate()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

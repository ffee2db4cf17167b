package index

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/roach88/bioindex/internal/catalog"
)

// Index owns the published snapshot and its build/reload lifecycle.
//
// An Index starts Unbuilt: every query returns ErrNotInitialized. A
// successful Build publishes a snapshot with one atomic pointer swap and the
// Index is Ready. Reload builds a replacement off to the side and swaps it
// in only on success, so a query never sees a mix of two builds and a failed
// reload leaves the previous snapshot serving.
//
// Thread-safety: queries never lock. Builds are serialized by buildMu.
type Index struct {
	current atomic.Pointer[Snapshot]
	buildMu sync.Mutex

	logger *slog.Logger
	ids    IDGenerator
	now    func() time.Time
}

// Option configures an Index.
type Option func(*Index)

// WithLogger sets the logger used during builds.
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Index) {
		if logger != nil {
			ix.logger = logger
		}
	}
}

// WithIDGenerator overrides the build ID generator (default UUIDv7).
func WithIDGenerator(g IDGenerator) Option {
	return func(ix *Index) {
		if g != nil {
			ix.ids = g
		}
	}
}

// WithClock overrides the clock used to stamp BuiltAt.
func WithClock(now func() time.Time) Option {
	return func(ix *Index) {
		if now != nil {
			ix.now = now
		}
	}
}

// New creates an Unbuilt index.
func New(opts ...Option) *Index {
	ix := &Index{
		logger: slog.Default(),
		ids:    UUIDv7Generator{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Build builds a snapshot from ds and publishes it.
func (ix *Index) Build(ds catalog.Dataset) (*Snapshot, error) {
	return ix.publish(ds, "build")
}

// Reload replaces the published snapshot with one built from ds. On error
// the previous snapshot, if any, keeps serving.
func (ix *Index) Reload(ds catalog.Dataset) (*Snapshot, error) {
	return ix.publish(ds, "reload")
}

func (ix *Index) publish(ds catalog.Dataset, op string) (*Snapshot, error) {
	ix.buildMu.Lock()
	defer ix.buildMu.Unlock()

	snap, err := buildSnapshot(ds, ix.logger)
	if err != nil {
		ix.logger.Error("index "+op+" aborted", "error", err)
		return nil, fmt.Errorf("%s index: %w", op, err)
	}
	snap.BuildID = ix.ids.Generate()
	snap.BuiltAt = ix.now().UTC()

	ix.current.Store(snap)

	stats := snap.Statistics()
	ix.logger.Info("index "+op+" published",
		"build_id", snap.BuildID,
		"nodes", stats.TotalNodes,
		"technologies", stats.TotalTechnologies,
		"synthetic", stats.SyntheticTechnologies,
		"edges", stats.TotalEdges,
		"rejected", len(snap.Report.Rejected),
	)
	return snap, nil
}

// Ready reports whether a snapshot has been published.
func (ix *Index) Ready() bool {
	return ix.current.Load() != nil
}

// Snapshot returns the published snapshot. Callers that issue several
// queries and need them to agree should query one Snapshot directly.
func (ix *Index) Snapshot() (*Snapshot, error) {
	s := ix.current.Load()
	if s == nil {
		return nil, ErrNotInitialized
	}
	return s, nil
}

// NodesByTechnology returns a technology and every node offering it.
func (ix *Index) NodesByTechnology(techID string) (TechnologyNodes, error) {
	s, err := ix.Snapshot()
	if err != nil {
		return TechnologyNodes{}, err
	}
	return s.NodesByTechnology(techID)
}

// TechnologiesByNode returns a node and every technology it offers.
func (ix *Index) TechnologiesByNode(nodeID string) (NodeTechnologies, error) {
	s, err := ix.Snapshot()
	if err != nil {
		return NodeTechnologies{}, err
	}
	return s.TechnologiesByNode(nodeID)
}

// EntityDetails returns the node or technology with the given ID.
func (ix *Index) EntityDetails(id string) (Entity, error) {
	s, err := ix.Snapshot()
	if err != nil {
		return Entity{}, err
	}
	return s.EntityDetails(id)
}

// Related returns the entities related to id, whatever its type.
func (ix *Index) Related(id string) (Related, error) {
	s, err := ix.Snapshot()
	if err != nil {
		return Related{}, err
	}
	return s.Related(id)
}

// SearchNodes returns nodes whose name contains query.
func (ix *Index) SearchNodes(query string, limit int) ([]catalog.Node, error) {
	s, err := ix.Snapshot()
	if err != nil {
		return nil, err
	}
	return s.SearchNodes(query, limit), nil
}

// SearchTechnologies returns technologies whose name contains query.
func (ix *Index) SearchTechnologies(query string, limit int) ([]catalog.Technology, error) {
	s, err := ix.Snapshot()
	if err != nil {
		return nil, err
	}
	return s.SearchTechnologies(query, limit), nil
}

// LookupNode finds a node by exact, case-insensitive name.
func (ix *Index) LookupNode(name string) (catalog.Node, error) {
	s, err := ix.Snapshot()
	if err != nil {
		return catalog.Node{}, err
	}
	return s.LookupNode(name)
}

// LookupTechnology finds a technology by exact, case-insensitive name or
// abbreviation.
func (ix *Index) LookupTechnology(name string) (catalog.Technology, error) {
	s, err := ix.Snapshot()
	if err != nil {
		return catalog.Technology{}, err
	}
	return s.LookupTechnology(name)
}

// ListNodes returns up to limit nodes in insertion order.
func (ix *Index) ListNodes(limit int) ([]catalog.Node, error) {
	s, err := ix.Snapshot()
	if err != nil {
		return nil, err
	}
	return s.ListNodes(limit), nil
}

// ListTechnologies returns up to limit technologies in insertion order.
func (ix *Index) ListTechnologies(limit int) ([]catalog.Technology, error) {
	s, err := ix.Snapshot()
	if err != nil {
		return nil, err
	}
	return s.ListTechnologies(limit), nil
}

// Statistics returns counts over the published snapshot.
func (ix *Index) Statistics() (Statistics, error) {
	s, err := ix.Snapshot()
	if err != nil {
		return Statistics{}, err
	}
	return s.Statistics(), nil
}

package index

import (
	"maps"
	"slices"
)

// adjacency is an insertion-ordered ID set.
type adjacency struct {
	order []string
	set   map[string]struct{}
}

func newAdjacency() *adjacency {
	return &adjacency{order: []string{}, set: make(map[string]struct{})}
}

func (a *adjacency) add(id string) bool {
	if _, ok := a.set[id]; ok {
		return false
	}
	a.set[id] = struct{}{}
	a.order = append(a.order, id)
	return true
}

func (a *adjacency) has(id string) bool {
	_, ok := a.set[id]
	return ok
}

// edges is the Bidirectional Index. Every node and every technology in the
// Record Store has an entry, possibly empty, so "exists without relations"
// and "unknown" stay distinguishable.
type edges struct {
	nodeTechs map[string]*adjacency
	techNodes map[string]*adjacency
	count     int
}

// buildEdges inserts every resolved (node, technology) pair in both
// directions. An edge naming an ID absent from the Record Store aborts the
// build with an IntegrityError; it means the resolver is defective.
func buildEdges(rs *recordStore, resolved []resolvedNode) (*edges, error) {
	e := &edges{
		nodeTechs: make(map[string]*adjacency, len(rs.nodes)),
		techNodes: make(map[string]*adjacency, len(rs.technologies)),
	}
	for _, n := range rs.nodes {
		e.nodeTechs[n.ID] = newAdjacency()
	}
	for _, t := range rs.technologies {
		e.techNodes[t.ID] = newAdjacency()
	}

	for _, rn := range resolved {
		fwd, ok := e.nodeTechs[rn.nodeID]
		if !ok {
			return nil, newMissingNodeError(rn.nodeID, dirNodeToTech)
		}
		for _, techID := range rn.techIDs {
			rev, ok := e.techNodes[techID]
			if !ok {
				return nil, newMissingTechnologyError(techID, dirTechToNode)
			}
			if fwd.add(techID) {
				rev.add(rn.nodeID)
				e.count++
			}
		}
	}

	if err := e.verify(rs); err != nil {
		return nil, err
	}
	return e, nil
}

// verify checks that both mappings cover exactly the Record Store and agree
// on every edge. Keys are visited in sorted order so the first violation
// reported is the same on every run.
func (e *edges) verify(rs *recordStore) error {
	for _, nodeID := range slices.Sorted(maps.Keys(e.nodeTechs)) {
		techs := e.nodeTechs[nodeID]
		if !rs.hasNode(nodeID) {
			return newMissingNodeError(nodeID, dirNodeToTech)
		}
		for _, techID := range techs.order {
			rev, ok := e.techNodes[techID]
			if !ok {
				return newMissingTechnologyError(techID, dirNodeToTech)
			}
			if !rev.has(nodeID) {
				return newAsymmetricEdgeError(nodeID, techID, dirNodeToTech)
			}
		}
	}
	for _, techID := range slices.Sorted(maps.Keys(e.techNodes)) {
		nodes := e.techNodes[techID]
		if !rs.hasTechnology(techID) {
			return newMissingTechnologyError(techID, dirTechToNode)
		}
		for _, nodeID := range nodes.order {
			fwd, ok := e.nodeTechs[nodeID]
			if !ok {
				return newMissingNodeError(nodeID, dirTechToNode)
			}
			if !fwd.has(techID) {
				return newAsymmetricEdgeError(techID, nodeID, dirTechToNode)
			}
		}
	}
	return nil
}

// technologiesOf returns a copy of the node's technology IDs in first
// reference order. False if the node is unknown.
func (e *edges) technologiesOf(nodeID string) ([]string, bool) {
	a, ok := e.nodeTechs[nodeID]
	if !ok {
		return nil, false
	}
	return slices.Clone(a.order), true
}

// nodesOf returns a copy of the technology's node IDs in node insertion
// order. False if the technology is unknown.
func (e *edges) nodesOf(techID string) ([]string, bool) {
	a, ok := e.techNodes[techID]
	if !ok {
		return nil, false
	}
	return slices.Clone(a.order), true
}

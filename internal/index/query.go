package index

import (
	"fmt"

	"github.com/roach88/bioindex/internal/catalog"
)

// Relation names used by Related, matching the direction of the lookup.
const (
	RelationHasTechnologies = "has_technologies"
	RelationExistsInNodes   = "exists_in_nodes"
)

// NodeTechnologies is a node with the full records of its technologies.
type NodeTechnologies struct {
	Node         catalog.Node         `json:"node"`
	Technologies []catalog.Technology `json:"technologies"`
}

// TechnologyNodes is a technology with the full records of its nodes.
type TechnologyNodes struct {
	Technology catalog.Technology `json:"technology"`
	Nodes      []catalog.Node     `json:"nodes"`
}

// Entity is a record tagged with its kind. Exactly one of Node and
// Technology is set.
type Entity struct {
	ID         string              `json:"entity_id"`
	Type       catalog.EntityKind  `json:"entity_type"`
	Node       *catalog.Node       `json:"node,omitempty"`
	Technology *catalog.Technology `json:"technology,omitempty"`
}

// Name returns the display name of whichever record is set.
func (e Entity) Name() string {
	if e.Node != nil {
		return e.Node.Name
	}
	if e.Technology != nil {
		return e.Technology.Name
	}
	return ""
}

// Related is the entity-agnostic relation lookup result. For a node,
// Technologies is set; for a technology, Nodes is set.
type Related struct {
	ID           string               `json:"entity_id"`
	Type         catalog.EntityKind   `json:"entity_type"`
	Relation     string               `json:"relation"`
	Nodes        []catalog.Node       `json:"nodes,omitempty"`
	Technologies []catalog.Technology `json:"technologies,omitempty"`
}

// Count returns the number of related entities.
func (r Related) Count() int {
	return len(r.Nodes) + len(r.Technologies)
}

// TechnologiesOf returns the technology IDs of a node.
func (s *Snapshot) TechnologiesOf(nodeID string) ([]string, error) {
	ids, ok := s.edges.technologiesOf(nodeID)
	if !ok {
		return nil, nodeNotFound(nodeID)
	}
	return ids, nil
}

// NodesOf returns the node IDs offering a technology.
func (s *Snapshot) NodesOf(techID string) ([]string, error) {
	ids, ok := s.edges.nodesOf(techID)
	if !ok {
		return nil, technologyNotFound(techID)
	}
	return ids, nil
}

// NodesByTechnology returns the technology record plus full node records.
func (s *Snapshot) NodesByTechnology(techID string) (TechnologyNodes, error) {
	tech, ok := s.records.technology(techID)
	if !ok {
		return TechnologyNodes{}, technologyNotFound(techID)
	}
	ids, err := s.NodesOf(techID)
	if err != nil {
		return TechnologyNodes{}, err
	}
	nodes, err := s.nodeRecords(ids)
	if err != nil {
		return TechnologyNodes{}, err
	}
	return TechnologyNodes{Technology: tech, Nodes: nodes}, nil
}

// TechnologiesByNode returns the node record plus full technology records.
func (s *Snapshot) TechnologiesByNode(nodeID string) (NodeTechnologies, error) {
	node, ok := s.records.node(nodeID)
	if !ok {
		return NodeTechnologies{}, nodeNotFound(nodeID)
	}
	ids, err := s.TechnologiesOf(nodeID)
	if err != nil {
		return NodeTechnologies{}, err
	}
	techs, err := s.technologyRecords(ids)
	if err != nil {
		return NodeTechnologies{}, err
	}
	return NodeTechnologies{Node: node, Technologies: techs}, nil
}

// EntityDetails looks the ID up in both Record Stores. Presence in both is
// reported as an IntegrityError rather than picking one.
func (s *Snapshot) EntityDetails(id string) (Entity, error) {
	node, isNode := s.records.node(id)
	tech, isTech := s.records.technology(id)

	switch {
	case isNode && isTech:
		return Entity{}, newIDCollisionError(id)
	case isNode:
		return Entity{ID: id, Type: catalog.EntityNode, Node: &node}, nil
	case isTech:
		return Entity{ID: id, Type: catalog.EntityTechnology, Technology: &tech}, nil
	default:
		return Entity{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
}

// Related resolves the kind of id and returns the entities on the other
// side of its edges. An entity without relations yields an empty result,
// not an error.
func (s *Snapshot) Related(id string) (Related, error) {
	entity, err := s.EntityDetails(id)
	if err != nil {
		return Related{}, err
	}

	out := Related{ID: id, Type: entity.Type}
	if entity.Type == catalog.EntityNode {
		nt, err := s.TechnologiesByNode(id)
		if err != nil {
			return Related{}, err
		}
		out.Relation = RelationHasTechnologies
		out.Technologies = nt.Technologies
		return out, nil
	}

	tn, err := s.NodesByTechnology(id)
	if err != nil {
		return Related{}, err
	}
	out.Relation = RelationExistsInNodes
	out.Nodes = tn.Nodes
	return out, nil
}

// SearchNodes returns nodes whose name contains query, case-insensitively,
// in insertion order. An empty query matches every node; limit <= 0 means
// no limit.
func (s *Snapshot) SearchNodes(query string, limit int) []catalog.Node {
	ids := s.nodeNames.search(query, limit)
	out := make([]catalog.Node, 0, len(ids))
	for _, id := range ids {
		n, _ := s.records.node(id)
		out = append(out, n)
	}
	return out
}

// SearchTechnologies is SearchNodes for technologies, synthetic included.
func (s *Snapshot) SearchTechnologies(query string, limit int) []catalog.Technology {
	ids := s.techNames.search(query, limit)
	out := make([]catalog.Technology, 0, len(ids))
	for _, id := range ids {
		t, _ := s.records.technology(id)
		out = append(out, t)
	}
	return out
}

// LookupNode finds a node by exact name, ignoring case. If several nodes
// share the name, the last one loaded wins.
func (s *Snapshot) LookupNode(name string) (catalog.Node, error) {
	if id, ok := s.nodeNames.lookup(name); ok {
		n, _ := s.records.node(id)
		return n, nil
	}
	return catalog.Node{}, fmt.Errorf("%w: node named %q", ErrNotFound, name)
}

// LookupTechnology finds a technology by exact name, ignoring case, and
// falls back to its abbreviation.
//
// Names tie last-write-wins in Record Store order, and synthetic records
// come after every formal one. A reference that differs from a formal name
// only in case ("3d-clem" next to formal "3D-CLEM") therefore yields a
// synthetic record that takes over the lookup for that name. The formal
// record is still reachable by ID, by abbreviation, and through search.
func (s *Snapshot) LookupTechnology(name string) (catalog.Technology, error) {
	id, ok := s.techNames.lookup(name)
	if !ok {
		id, ok = s.abbrevs[catalog.NormalizeName(name)]
	}
	if !ok {
		return catalog.Technology{}, fmt.Errorf("%w: technology named %q", ErrNotFound, name)
	}
	t, _ := s.records.technology(id)
	return t, nil
}

// ListNodes returns up to limit nodes in insertion order.
func (s *Snapshot) ListNodes(limit int) []catalog.Node {
	n := capped(len(s.records.nodes), limit)
	out := make([]catalog.Node, 0, n)
	for _, node := range s.records.nodes[:n] {
		out = append(out, cloneNode(node))
	}
	return out
}

// ListTechnologies returns up to limit technologies: formal ones in dataset
// order, then synthetic ones in creation order.
func (s *Snapshot) ListTechnologies(limit int) []catalog.Technology {
	n := capped(len(s.records.technologies), limit)
	out := make([]catalog.Technology, n)
	copy(out, s.records.technologies[:n])
	return out
}

func (s *Snapshot) nodeRecords(ids []string) ([]catalog.Node, error) {
	out := make([]catalog.Node, 0, len(ids))
	for _, id := range ids {
		n, ok := s.records.node(id)
		if !ok {
			return nil, newMissingNodeError(id, dirTechToNode)
		}
		out = append(out, n)
	}
	return out, nil
}

func (s *Snapshot) technologyRecords(ids []string) ([]catalog.Technology, error) {
	out := make([]catalog.Technology, 0, len(ids))
	for _, id := range ids {
		t, ok := s.records.technology(id)
		if !ok {
			return nil, newMissingTechnologyError(id, dirNodeToTech)
		}
		out = append(out, t)
	}
	return out, nil
}

func capped(n, limit int) int {
	if limit > 0 && limit < n {
		return limit
	}
	return n
}

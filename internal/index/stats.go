package index

// Statistics is a read-only diagnostic over one snapshot. It is computed by
// traversal on every call, never cached.
type Statistics struct {
	TotalNodes            int `json:"total_nodes"`
	TotalTechnologies     int `json:"total_technologies"`
	FormalTechnologies    int `json:"formal_technologies"`
	SyntheticTechnologies int `json:"synthetic_technologies"`
	TotalEdges            int `json:"total_edges"`
	NodesWithTechnologies int `json:"nodes_with_technologies"`
	TechnologiesWithNodes int `json:"technologies_with_nodes"`
}

// Statistics counts records and edges in the snapshot.
func (s *Snapshot) Statistics() Statistics {
	var st Statistics

	st.TotalNodes = len(s.records.nodes)
	for _, t := range s.records.technologies {
		st.TotalTechnologies++
		if t.Synthetic {
			st.SyntheticTechnologies++
		} else {
			st.FormalTechnologies++
		}
	}

	for _, techs := range s.edges.nodeTechs {
		st.TotalEdges += len(techs.order)
		if len(techs.order) > 0 {
			st.NodesWithTechnologies++
		}
	}
	for _, nodes := range s.edges.techNodes {
		if len(nodes.order) > 0 {
			st.TechnologiesWithNodes++
		}
	}
	return st
}

package model

import (
	"fmt"

	"taro_model/pkg/idmap"
)

// Model is the immutable aggregate serialized to and opened from a single
// binary buffer. It owns exactly one Topology, at most one id-mapping
// variant, and optional landmark and turn-cost tables.
//
// A model is assembled once from finalized parts and never partially
// updated; any graph change requires building and serializing a new model.
type Model struct {
	Topology  *Topology
	Mapping   *idmap.Mapping      // string-keyed external ids, or nil
	SortedIDs *idmap.SortedIndex  // sorted int64 external ids, or nil
	Landmarks *LandmarkSet        // optional
	TurnCosts *TurnCostTable      // optional
}

// Validate checks the cross-component structural invariants that are
// cheap to verify: one mapping variant at most, mapping size equal to the
// node count, landmark arrays sized to the node count, and turn-cost edge
// ids inside the edge index space. Expensive semantic properties (landmark
// distance correctness) are never re-checked here.
func (m *Model) Validate() error {
	if m.Topology == nil {
		return fmt.Errorf("%w: missing topology", ErrCorrupt)
	}
	if err := m.Topology.Validate(); err != nil {
		return err
	}
	if m.Mapping != nil && m.SortedIDs != nil {
		return fmt.Errorf("%w: both id-mapping variants present", ErrCorrupt)
	}
	if m.Mapping != nil && uint32(m.Mapping.Size()) != m.Topology.NumNodes {
		return fmt.Errorf("%w: mapping size %d != node count %d", ErrCorrupt, m.Mapping.Size(), m.Topology.NumNodes)
	}
	if m.SortedIDs != nil && uint32(m.SortedIDs.Len()) != m.Topology.NumNodes {
		return fmt.Errorf("%w: sorted index size %d != node count %d", ErrCorrupt, m.SortedIDs.Len(), m.Topology.NumNodes)
	}
	if m.Landmarks != nil && m.Landmarks.NodeCount() != m.Topology.NumNodes {
		return fmt.Errorf("%w: landmark node count %d != node count %d", ErrCorrupt, m.Landmarks.NodeCount(), m.Topology.NumNodes)
	}
	if m.TurnCosts != nil {
		for _, e := range m.TurnCosts.Entries() {
			if e.FromEdge >= m.Topology.NumEdges || e.ToEdge >= m.Topology.NumEdges {
				return fmt.Errorf("%w: turn cost (%d,%d) outside edge range [0,%d)", ErrCorrupt, e.FromEdge, e.ToEdge, m.Topology.NumEdges)
			}
		}
	}
	return nil
}

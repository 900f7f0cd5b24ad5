package model

import (
	"fmt"

	"taro_model/pkg/idmap"
)

// UnionFind implements a disjoint-set structure with path halving and
// union by rank, used for weakly-connected-component extraction.
type UnionFind struct {
	parent []uint32
	rank   []byte // max rank ~30 for realistic graphs
	size   []uint32
}

// NewUnionFind creates a UnionFind for n elements.
func NewUnionFind(n uint32) *UnionFind {
	parent := make([]uint32, n)
	size := make([]uint32, n)
	for i := uint32(0); i < n; i++ {
		parent[i] = i
		size[i] = 1
	}
	return &UnionFind{
		parent: parent,
		rank:   make([]byte, n),
		size:   size,
	}
}

// Find returns the representative of the set containing x.
func (uf *UnionFind) Find(x uint32) uint32 {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]] // path halving
		x = uf.parent[x]
	}
	return x
}

// Union merges the sets containing x and y. Returns false if already merged.
func (uf *UnionFind) Union(x, y uint32) bool {
	rx := uf.Find(x)
	ry := uf.Find(y)
	if rx == ry {
		return false
	}
	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
	return true
}

// LargestComponent returns the node ids of the largest weakly connected
// component, treating the directed topology as undirected. The result is
// in ascending node order.
func LargestComponent(t *Topology) []uint32 {
	if t.NumNodes == 0 {
		return nil
	}

	uf := NewUnionFind(t.NumNodes)
	for u := uint32(0); u < t.NumNodes; u++ {
		start, end := t.EdgesFrom(u)
		for e := start; e < end; e++ {
			uf.Union(u, t.EdgeTarget[e])
		}
	}

	bestRoot := uint32(0)
	bestSize := uint32(0)
	for i := uint32(0); i < t.NumNodes; i++ {
		root := uf.Find(i)
		if uf.size[root] > bestSize {
			bestRoot = root
			bestSize = uf.size[root]
		}
	}

	nodes := make([]uint32, 0, bestSize)
	for i := uint32(0); i < t.NumNodes; i++ {
		if uf.Find(i) == bestRoot {
			nodes = append(nodes, i)
		}
	}
	return nodes
}

// FilterToComponent produces a new topology containing only the given
// nodes, renumbered densely in the order they appear in nodes. Edges with
// either endpoint outside the set are dropped. Callers that carry an id
// mapping must re-derive it for the new numbering.
func FilterToComponent(t *Topology, nodes []uint32) (*Topology, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: empty node set", ErrCorrupt)
	}
	oldToNew := make(map[uint32]uint32, len(nodes))
	for newIdx, oldIdx := range nodes {
		oldToNew[oldIdx] = uint32(newIdx)
	}

	b := NewTopologyBuilder(uint32(len(nodes)))
	for newIdx, oldIdx := range nodes {
		lat, lon := t.Coordinate(oldIdx)
		if err := b.SetCoordinate(uint32(newIdx), lat, lon); err != nil {
			return nil, err
		}
	}
	for _, oldU := range nodes {
		start, end := t.EdgesFrom(oldU)
		for e := start; e < end; e++ {
			newV, ok := oldToNew[t.EdgeTarget[e]]
			if !ok {
				continue
			}
			if err := b.AddEdge(oldToNew[oldU], newV, t.BaseWeight[e]); err != nil {
				return nil, err
			}
		}
	}
	return b.Build()
}

// FilterModel restricts m to the given nodes (in the given order) and
// re-derives the id mapping for the new numbering. Landmark and turn-cost
// tables are not carried over: both are keyed to the old node and edge
// index spaces and must be rebuilt against the filtered topology.
func FilterModel(m *Model, nodes []uint32) (*Model, error) {
	top, err := FilterToComponent(m.Topology, nodes)
	if err != nil {
		return nil, err
	}

	out := &Model{Topology: top}
	switch {
	case m.SortedIDs != nil:
		ids := make([]int64, len(nodes))
		for newIdx, oldIdx := range nodes {
			ids[newIdx], err = m.SortedIDs.ExternalID(int(oldIdx))
			if err != nil {
				return nil, err
			}
		}
		// Ascending input order keeps the filtered ids ascending; any
		// other order fails the sorted-index precondition here.
		out.SortedIDs, err = idmap.NewSortedIndex(ids)
		if err != nil {
			return nil, err
		}
	case m.Mapping != nil:
		kept := make(map[string]uint32, len(nodes))
		for newIdx, oldIdx := range nodes {
			kept[m.Mapping.External(int(oldIdx))] = uint32(newIdx)
		}
		out.Mapping, err = idmap.NewMapping(kept)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

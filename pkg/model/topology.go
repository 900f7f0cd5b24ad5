// Package model holds the immutable binary routing-graph model: CSR
// topology with per-node coordinates, landmark distance tables, turn
// penalties, and the id mapping, all serializable to a single buffer.
//
// Everything in this package is frozen once built. Query operations are
// direct array reads (plus a hash probe for turn costs) and are safe for
// any number of concurrent readers. Changing the graph means building and
// serializing a new model from scratch.
package model

import (
	"errors"
	"fmt"
	"math"
)

// ErrCorrupt is returned when a structural invariant is violated, either
// by a builder input or by a serialized model at load time. A corrupt
// model must not be queried.
var ErrCorrupt = errors.New("corrupt model")

// Topology is a directed graph in CSR (Compressed Sparse Row) form.
type Topology struct {
	NumNodes uint32
	NumEdges uint32
	FirstEdge  []uint32  // len: NumNodes + 1; FirstEdge[n]..FirstEdge[n+1] are edges from node n
	EdgeTarget []uint32  // len: NumEdges; target node for each edge
	BaseWeight []float32 // len: NumEdges; non-negative traversal cost
	NodeLat    []float32 // len: NumNodes
	NodeLon    []float32 // len: NumNodes
}

// EdgesFrom returns the half-open range of edge indices for edges
// originating from node n. A node with no outgoing edges yields an empty
// range (start == end), never an error.
func (t *Topology) EdgesFrom(n uint32) (start, end uint32) {
	return t.FirstEdge[n], t.FirstEdge[n+1]
}

// Target returns the destination node of edge e.
func (t *Topology) Target(e uint32) uint32 {
	return t.EdgeTarget[e]
}

// Weight returns the base traversal cost of edge e.
func (t *Topology) Weight(e uint32) float32 {
	return t.BaseWeight[e]
}

// Coordinate returns the latitude and longitude of node n.
func (t *Topology) Coordinate(n uint32) (lat, lon float32) {
	return t.NodeLat[n], t.NodeLon[n]
}

// Degree returns the out-degree of node n.
func (t *Topology) Degree(n uint32) uint32 {
	return t.FirstEdge[n+1] - t.FirstEdge[n]
}

// Validate checks the CSR structural invariants. It is cheap (one pass
// over the arrays) and runs on every model load.
func (t *Topology) Validate() error {
	if uint32(len(t.FirstEdge)) != t.NumNodes+1 {
		return fmt.Errorf("%w: FirstEdge length %d != NumNodes+1 %d", ErrCorrupt, len(t.FirstEdge), t.NumNodes+1)
	}
	if t.FirstEdge[0] != 0 {
		return fmt.Errorf("%w: FirstEdge[0] = %d, want 0", ErrCorrupt, t.FirstEdge[0])
	}
	if t.FirstEdge[t.NumNodes] != t.NumEdges {
		return fmt.Errorf("%w: FirstEdge[%d] = %d != NumEdges %d", ErrCorrupt, t.NumNodes, t.FirstEdge[t.NumNodes], t.NumEdges)
	}
	for n := uint32(1); n <= t.NumNodes; n++ {
		if t.FirstEdge[n] < t.FirstEdge[n-1] {
			return fmt.Errorf("%w: FirstEdge not monotonic at %d: %d < %d", ErrCorrupt, n, t.FirstEdge[n], t.FirstEdge[n-1])
		}
	}
	if uint32(len(t.EdgeTarget)) != t.NumEdges {
		return fmt.Errorf("%w: EdgeTarget length %d != NumEdges %d", ErrCorrupt, len(t.EdgeTarget), t.NumEdges)
	}
	if uint32(len(t.BaseWeight)) != t.NumEdges {
		return fmt.Errorf("%w: BaseWeight length %d != NumEdges %d", ErrCorrupt, len(t.BaseWeight), t.NumEdges)
	}
	for e, target := range t.EdgeTarget {
		if target >= t.NumNodes {
			return fmt.Errorf("%w: EdgeTarget[%d] = %d >= NumNodes %d", ErrCorrupt, e, target, t.NumNodes)
		}
	}
	for e, w := range t.BaseWeight {
		if w < 0 || math.IsNaN(float64(w)) {
			return fmt.Errorf("%w: BaseWeight[%d] = %v, want >= 0", ErrCorrupt, e, w)
		}
	}
	if uint32(len(t.NodeLat)) != t.NumNodes || uint32(len(t.NodeLon)) != t.NumNodes {
		return fmt.Errorf("%w: coordinate lengths %d/%d != NumNodes %d", ErrCorrupt, len(t.NodeLat), len(t.NodeLon), t.NumNodes)
	}
	for n := uint32(0); n < t.NumNodes; n++ {
		if !finite(t.NodeLat[n]) || !finite(t.NodeLon[n]) {
			return fmt.Errorf("%w: node %d has non-finite coordinate (%v, %v)", ErrCorrupt, n, t.NodeLat[n], t.NodeLon[n])
		}
	}
	return nil
}

func finite(f float32) bool {
	f64 := float64(f)
	return !math.IsNaN(f64) && !math.IsInf(f64, 0)
}

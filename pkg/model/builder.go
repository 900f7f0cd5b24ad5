package model

import (
	"fmt"
	"math"
)

// edgeRecord buffers one edge during accumulation, before CSR placement.
type edgeRecord struct {
	from   uint32
	to     uint32
	weight float32
}

// TopologyBuilder accumulates outgoing edges and node coordinates during a
// single construction pass, then materializes the CSR arrays in Build.
// Single-writer, like the rest of the construction phase.
type TopologyBuilder struct {
	numNodes uint32
	edges    []edgeRecord
	lat      []float32
	lon      []float32
}

// NewTopologyBuilder creates a builder for a graph with a fixed number of
// nodes. Node ids are the dense internal ids assigned by the id mapping.
func NewTopologyBuilder(numNodes uint32) *TopologyBuilder {
	return &TopologyBuilder{
		numNodes: numNodes,
		lat:      make([]float32, numNodes),
		lon:      make([]float32, numNodes),
	}
}

// AddEdge records a directed edge. Endpoints must be valid internal ids
// and the weight must be finite and non-negative.
func (b *TopologyBuilder) AddEdge(from, to uint32, weight float32) error {
	if from >= b.numNodes {
		return fmt.Errorf("edge source %d out of range [0,%d)", from, b.numNodes)
	}
	if to >= b.numNodes {
		return fmt.Errorf("edge target %d out of range [0,%d)", to, b.numNodes)
	}
	if weight < 0 || math.IsNaN(float64(weight)) || math.IsInf(float64(weight), 0) {
		return fmt.Errorf("edge weight %v must be finite and >= 0", weight)
	}
	b.edges = append(b.edges, edgeRecord{from: from, to: to, weight: weight})
	return nil
}

// SetCoordinate records the position of a node.
func (b *TopologyBuilder) SetCoordinate(node uint32, lat, lon float32) error {
	if node >= b.numNodes {
		return fmt.Errorf("node %d out of range [0,%d)", node, b.numNodes)
	}
	b.lat[node] = lat
	b.lon[node] = lon
	return nil
}

// NumEdges returns the number of edges recorded so far.
func (b *TopologyBuilder) NumEdges() int {
	return len(b.edges)
}

// Build materializes the CSR arrays: FirstEdge is a prefix sum over
// per-node out-degree, and edges are placed into each node's contiguous
// range preserving insertion order.
func (b *TopologyBuilder) Build() (*Topology, error) {
	numEdges := uint32(len(b.edges))

	firstEdge := make([]uint32, b.numNodes+1)
	target := make([]uint32, numEdges)
	weight := make([]float32, numEdges)

	// Count edges per node.
	for _, e := range b.edges {
		firstEdge[e.from+1]++
	}
	// Prefix sum.
	for n := uint32(1); n <= b.numNodes; n++ {
		firstEdge[n] += firstEdge[n-1]
	}

	// Place edges into CSR order.
	pos := make([]uint32, b.numNodes)
	copy(pos, firstEdge[:b.numNodes])
	for _, e := range b.edges {
		idx := pos[e.from]
		target[idx] = e.to
		weight[idx] = e.weight
		pos[e.from]++
	}

	t := &Topology{
		NumNodes:   b.numNodes,
		NumEdges:   numEdges,
		FirstEdge:  firstEdge,
		EdgeTarget: target,
		BaseWeight: weight,
		NodeLat:    b.lat,
		NodeLon:    b.lon,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

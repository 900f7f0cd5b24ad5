package model

import (
	"errors"
	"testing"
)

// Fixed CSR fixture: 0->[1,2], 1->[2], 2->[3], 3->[].
func testTopology(t *testing.T) *Topology {
	t.Helper()
	topo := &Topology{
		NumNodes:   4,
		NumEdges:   4,
		FirstEdge:  []uint32{0, 2, 3, 4, 4},
		EdgeTarget: []uint32{1, 2, 2, 3},
		BaseWeight: []float32{10, 15, 5, 8},
		NodeLat:    []float32{1.0, 1.1, 1.2, 1.3},
		NodeLon:    []float32{103.0, 103.1, 103.2, 103.3},
	}
	if err := topo.Validate(); err != nil {
		t.Fatalf("fixture invalid: %v", err)
	}
	return topo
}

func TestTopologyEdgesFrom(t *testing.T) {
	topo := testTopology(t)

	start, end := topo.EdgesFrom(0)
	if start != 0 || end != 2 {
		t.Fatalf("EdgesFrom(0) = (%d,%d), want (0,2)", start, end)
	}
	targets := topo.EdgeTarget[start:end]
	if targets[0] != 1 || targets[1] != 2 {
		t.Errorf("node 0 targets = %v, want [1 2]", targets)
	}

	// A node with an in-range id but no edges yields an empty range, not
	// an error.
	start, end = topo.EdgesFrom(3)
	if start != 4 || end != 4 {
		t.Errorf("EdgesFrom(3) = (%d,%d), want (4,4)", start, end)
	}
	if topo.Degree(3) != 0 {
		t.Errorf("Degree(3) = %d, want 0", topo.Degree(3))
	}
}

func TestTopologyAccessors(t *testing.T) {
	topo := testTopology(t)

	if got := topo.Target(2); got != 2 {
		t.Errorf("Target(2) = %d, want 2", got)
	}
	if got := topo.Weight(3); got != 8 {
		t.Errorf("Weight(3) = %v, want 8", got)
	}
	lat, lon := topo.Coordinate(1)
	if lat != 1.1 || lon != 103.1 {
		t.Errorf("Coordinate(1) = (%v,%v), want (1.1,103.1)", lat, lon)
	}
}

func TestTopologyValidateRejectsCorruption(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Topology)
	}{
		{"non-monotonic FirstEdge", func(topo *Topology) { topo.FirstEdge[2] = 1 }},
		{"FirstEdge end mismatch", func(topo *Topology) { topo.FirstEdge[4] = 3 }},
		{"FirstEdge wrong length", func(topo *Topology) { topo.FirstEdge = topo.FirstEdge[:4] }},
		{"FirstEdge nonzero start", func(topo *Topology) { topo.FirstEdge[0] = 1 }},
		{"target out of range", func(topo *Topology) { topo.EdgeTarget[0] = 99 }},
		{"negative weight", func(topo *Topology) { topo.BaseWeight[1] = -1 }},
		{"coordinate length mismatch", func(topo *Topology) { topo.NodeLat = topo.NodeLat[:2] }},
		{"NaN coordinate", func(topo *Topology) { topo.NodeLon[0] = nan32() }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			topo := testTopology(t)
			tc.mutate(topo)
			err := topo.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrCorrupt) {
				t.Errorf("error %v does not wrap ErrCorrupt", err)
			}
		})
	}
}

func nan32() float32 {
	f := float32(0)
	return f / f
}

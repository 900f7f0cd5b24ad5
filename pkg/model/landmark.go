package model

import (
	"fmt"
	"math"
)

// Landmark holds one landmark node and its precomputed shortest distances
// to and from every node. Forward[v] is the distance landmark -> v over
// the forward graph; Backward[v] is the distance v -> landmark. On a
// directed graph the two are generally unequal and the asymmetry must be
// preserved, not collapsed.
type Landmark struct {
	NodeIdx  uint32
	Forward  []float32
	Backward []float32
}

// LandmarkSet is the immutable collection of landmarks owned by a model.
type LandmarkSet struct {
	nodeCount uint32
	landmarks []Landmark
}

// NewLandmarkSet validates and freezes a set of landmarks. Every distance
// array must have exactly nodeCount entries; distances must be
// non-negative and non-NaN (+Inf marks unreachable nodes).
func NewLandmarkSet(nodeCount uint32, landmarks []Landmark) (*LandmarkSet, error) {
	for i, lm := range landmarks {
		if lm.NodeIdx >= nodeCount {
			return nil, fmt.Errorf("%w: landmark %d node %d >= node count %d", ErrCorrupt, i, lm.NodeIdx, nodeCount)
		}
		if uint32(len(lm.Forward)) != nodeCount {
			return nil, fmt.Errorf("%w: landmark %d forward length %d != node count %d", ErrCorrupt, i, len(lm.Forward), nodeCount)
		}
		if uint32(len(lm.Backward)) != nodeCount {
			return nil, fmt.Errorf("%w: landmark %d backward length %d != node count %d", ErrCorrupt, i, len(lm.Backward), nodeCount)
		}
		for v := uint32(0); v < nodeCount; v++ {
			if err := checkDistance(lm.Forward[v]); err != nil {
				return nil, fmt.Errorf("%w: landmark %d forward[%d]: %v", ErrCorrupt, i, v, err)
			}
			if err := checkDistance(lm.Backward[v]); err != nil {
				return nil, fmt.Errorf("%w: landmark %d backward[%d]: %v", ErrCorrupt, i, v, err)
			}
		}
	}
	return &LandmarkSet{nodeCount: nodeCount, landmarks: landmarks}, nil
}

func checkDistance(d float32) error {
	if math.IsNaN(float64(d)) || d < 0 {
		return fmt.Errorf("distance %v must be >= 0 or +Inf", d)
	}
	return nil
}

// Count returns the number of landmarks.
func (s *LandmarkSet) Count() int {
	return len(s.landmarks)
}

// NodeCount returns the per-landmark distance array length.
func (s *LandmarkSet) NodeCount() uint32 {
	return s.nodeCount
}

// NodeIdx returns the graph node of landmark i.
func (s *LandmarkSet) NodeIdx(i int) uint32 {
	return s.landmarks[i].NodeIdx
}

// ForwardDistance returns the precomputed distance from landmark i to node.
func (s *LandmarkSet) ForwardDistance(i int, node uint32) float32 {
	return s.landmarks[i].Forward[node]
}

// BackwardDistance returns the precomputed distance from node to landmark i.
func (s *LandmarkSet) BackwardDistance(i int, node uint32) float32 {
	return s.landmarks[i].Backward[node]
}

// LowerBound returns the best triangle-inequality lower bound on the
// shortest distance from one node to another, maximized over all
// landmarks. Non-finite table entries contribute nothing.
func (s *LandmarkSet) LowerBound(from, to uint32) float64 {
	best := 0.0
	for i := range s.landmarks {
		lm := &s.landmarks[i]
		c1 := finiteDiff(lm.Forward[to], lm.Forward[from])
		c2 := finiteDiff(lm.Backward[from], lm.Backward[to])
		if c1 > best {
			best = c1
		}
		if c2 > best {
			best = c2
		}
	}
	return best
}

// finiteDiff returns max(0, a-b) when both values are finite, else 0.
func finiteDiff(a, b float32) float64 {
	fa, fb := float64(a), float64(b)
	if math.IsInf(fa, 0) || math.IsInf(fb, 0) {
		return 0
	}
	return math.Max(0, fa-fb)
}

// landmarkAt exposes the raw landmark record for serialization.
func (s *LandmarkSet) landmarkAt(i int) Landmark {
	return s.landmarks[i]
}

// Package landmark precomputes per-landmark shortest-path distance tables
// over a directed topology. The tables feed the triangle-inequality lower
// bound used to guide goal-directed searches.
package landmark

import (
	"fmt"
	"math/rand"

	"taro_model/pkg/model"
)

// Config controls landmark selection and preprocessing.
type Config struct {
	// Count is the number of landmarks to select. Must be in [1, 256].
	Count int
	// Seed drives landmark selection. The same seed over the same topology
	// yields the same landmarks and therefore the same distance tables.
	Seed int64
	// MaxSettled caps the number of nodes each Dijkstra run settles.
	// Zero means no cap. Nodes beyond the cap keep +Inf distances.
	MaxSettled int
}

// Preprocess selects cfg.Count landmark nodes and runs a full forward and
// backward Dijkstra from each, producing the distance tables for the set.
// Nodes unreachable in a direction are recorded as +Inf.
func Preprocess(t *model.Topology, cfg Config) (*model.LandmarkSet, error) {
	if t == nil {
		return nil, fmt.Errorf("landmark: nil topology")
	}
	if cfg.Count < 1 || cfg.Count > 256 {
		return nil, fmt.Errorf("landmark: count %d out of range [1, 256]", cfg.Count)
	}
	if t.NumNodes == 0 {
		return nil, fmt.Errorf("landmark: empty topology")
	}
	if uint32(cfg.Count) > t.NumNodes {
		return nil, fmt.Errorf("landmark: count %d exceeds node count %d", cfg.Count, t.NumNodes)
	}

	rev := transpose(t)
	nodes := selectNodes(t, cfg.Count, cfg.Seed)

	landmarks := make([]model.Landmark, 0, cfg.Count)
	pq := &minHeap{items: make([]pqItem, 0, 256)}
	for _, node := range nodes {
		landmarks = append(landmarks, model.Landmark{
			NodeIdx:  node,
			Forward:  oneToAll(t.FirstEdge, t.EdgeTarget, t.BaseWeight, t.NumNodes, node, cfg.MaxSettled, pq),
			Backward: oneToAll(rev.firstEdge, rev.edgeTarget, rev.baseWeight, t.NumNodes, node, cfg.MaxSettled, pq),
		})
	}
	return model.NewLandmarkSet(t.NumNodes, landmarks)
}

// selectNodes picks count distinct landmark nodes via a seeded shuffle,
// preferring nodes with outgoing edges so landmarks sit inside the
// reachable graph rather than on isolated vertices.
func selectNodes(t *model.Topology, count int, seed int64) []uint32 {
	connected := make([]uint32, 0, t.NumNodes)
	isolated := make([]uint32, 0)
	for n := uint32(0); n < t.NumNodes; n++ {
		if t.Degree(n) > 0 {
			connected = append(connected, n)
		} else {
			isolated = append(isolated, n)
		}
	}

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(connected), func(i, j int) {
		connected[i], connected[j] = connected[j], connected[i]
	})
	if len(connected) < count {
		rng.Shuffle(len(isolated), func(i, j int) {
			isolated[i], isolated[j] = isolated[j], isolated[i]
		})
		connected = append(connected, isolated...)
	}
	return connected[:count]
}

// reverseCSR holds the transposed adjacency of a topology.
type reverseCSR struct {
	firstEdge  []uint32
	edgeTarget []uint32
	baseWeight []float32
}

// transpose builds the reverse adjacency with the usual counting sort:
// count in-degrees, prefix-sum, then place each reversed edge.
func transpose(t *model.Topology) *reverseCSR {
	firstEdge := make([]uint32, t.NumNodes+1)
	for _, target := range t.EdgeTarget {
		firstEdge[target+1]++
	}
	for i := uint32(1); i <= t.NumNodes; i++ {
		firstEdge[i] += firstEdge[i-1]
	}

	edgeTarget := make([]uint32, t.NumEdges)
	baseWeight := make([]float32, t.NumEdges)
	pos := make([]uint32, t.NumNodes)
	copy(pos, firstEdge[:t.NumNodes])
	for from := uint32(0); from < t.NumNodes; from++ {
		start, end := t.EdgesFrom(from)
		for e := start; e < end; e++ {
			to := t.EdgeTarget[e]
			p := pos[to]
			edgeTarget[p] = from
			baseWeight[p] = t.BaseWeight[e]
			pos[to]++
		}
	}
	return &reverseCSR{firstEdge: firstEdge, edgeTarget: edgeTarget, baseWeight: baseWeight}
}

// oneToAll runs a single-source Dijkstra over the given CSR arrays and
// returns the full distance vector, +Inf for unreached nodes. The heap is
// reset and reused across runs.
func oneToAll(firstEdge, edgeTarget []uint32, baseWeight []float32, numNodes, source uint32, maxSettled int, pq *minHeap) []float32 {
	dist := make([]float32, numNodes)
	for i := range dist {
		dist[i] = inf32
	}
	settled := make([]bool, numNodes)

	pq.Reset()
	dist[source] = 0
	pq.Push(source, 0)

	settledCount := 0
	capped := false
	for pq.Len() > 0 {
		item := pq.Pop()
		if settled[item.node] {
			continue
		}
		settled[item.node] = true
		settledCount++
		if maxSettled > 0 && settledCount >= maxSettled {
			capped = true
			break
		}

		for e := firstEdge[item.node]; e < firstEdge[item.node+1]; e++ {
			to := edgeTarget[e]
			if settled[to] {
				continue
			}
			d := item.dist + baseWeight[e]
			if d < dist[to] {
				dist[to] = d
				pq.Push(to, d)
			}
		}
	}

	// Tentative distances on unsettled nodes are upper bounds, not exact.
	// Keeping them would let LowerBound overestimate, so drop them.
	if capped {
		for i := range dist {
			if !settled[i] {
				dist[i] = inf32
			}
		}
	}
	return dist
}

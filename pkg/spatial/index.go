// Package spatial maps geographic coordinates to graph nodes. It keeps an
// in-memory R-tree over node positions and answers nearest-node queries
// for geocoded inputs.
package spatial

import (
	"errors"
	"math"

	"github.com/tidwall/rtree"

	"taro_model/pkg/geo"
	"taro_model/pkg/model"
)

// ErrNoNode is returned when the index holds no nodes to match against.
var ErrNoNode = errors.New("spatial: no node found")

// metersPerDegree is the length of one degree of latitude.
const metersPerDegree = math.Pi / 180 * 6_371_000.0

// Index answers nearest-node queries over a topology's node coordinates.
type Index struct {
	tree rtree.RTreeG[uint32]
	size int
}

// NewIndex builds an index over every node in t. The topology must carry
// coordinate arrays.
func NewIndex(t *model.Topology) (*Index, error) {
	if t == nil {
		return nil, errors.New("spatial: nil topology")
	}
	if t.NumNodes == 0 {
		return nil, errors.New("spatial: empty topology")
	}
	if uint32(len(t.NodeLat)) != t.NumNodes || uint32(len(t.NodeLon)) != t.NumNodes {
		return nil, errors.New("spatial: topology has no coordinates")
	}

	idx := &Index{size: int(t.NumNodes)}
	for n := uint32(0); n < t.NumNodes; n++ {
		p := [2]float64{float64(t.NodeLon[n]), float64(t.NodeLat[n])}
		idx.tree.Insert(p, p, n)
	}
	return idx, nil
}

// Len returns the number of indexed nodes.
func (idx *Index) Len() int { return idx.size }

// Nearest returns the node closest to (lat, lon) along with its
// great-circle distance in meters.
//
// The R-tree orders candidates by degree-space distance, which compresses
// longitude relative to latitude. Candidates are re-ranked with Haversine
// and the scan stops once the degree-space bound proves no closer node
// remains.
func (idx *Index) Nearest(lat, lon float64) (node uint32, meters float64, err error) {
	if idx.size == 0 {
		return 0, 0, ErrNoNode
	}

	p := [2]float64{lon, lat}
	cosLat := math.Cos(lat * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01
	}

	best := math.Inf(1)
	var bestNode uint32
	found := false

	idx.tree.Nearby(
		rtree.BoxDist[float64, uint32](p, p, nil),
		func(min, _ [2]float64, data uint32, dist float64) bool {
			// BoxDist yields squared degree distance. Its square root
			// scaled by cos(lat) lower-bounds the meter distance of this
			// and every later candidate.
			if found && math.Sqrt(dist)*metersPerDegree*cosLat > best {
				return false
			}
			d := geo.Haversine(lat, lon, min[1], min[0])
			if d < best {
				best = d
				bestNode = data
				found = true
			}
			return true
		},
	)

	if !found {
		return 0, 0, ErrNoNode
	}
	return bestNode, best, nil
}

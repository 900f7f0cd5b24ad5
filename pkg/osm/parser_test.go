package osm

import (
	"testing"

	"github.com/paulmach/osm"
)

func TestIsCarAccessible(t *testing.T) {
	tests := []struct {
		name string
		tags osm.Tags
		want bool
	}{
		{
			name: "residential road",
			tags: osm.Tags{{Key: "highway", Value: "residential"}},
			want: true,
		},
		{
			name: "motorway",
			tags: osm.Tags{{Key: "highway", Value: "motorway"}},
			want: true,
		},
		{
			name: "footway (not car accessible)",
			tags: osm.Tags{{Key: "highway", Value: "footway"}},
			want: false,
		},
		{
			name: "cycleway",
			tags: osm.Tags{{Key: "highway", Value: "cycleway"}},
			want: false,
		},
		{
			name: "private access",
			tags: osm.Tags{
				{Key: "highway", Value: "residential"},
				{Key: "access", Value: "private"},
			},
			want: false,
		},
		{
			name: "no access",
			tags: osm.Tags{
				{Key: "highway", Value: "residential"},
				{Key: "access", Value: "no"},
			},
			want: false,
		},
		{
			name: "motor_vehicle=no",
			tags: osm.Tags{
				{Key: "highway", Value: "residential"},
				{Key: "motor_vehicle", Value: "no"},
			},
			want: false,
		},
		{
			name: "area=yes (pedestrian plaza)",
			tags: osm.Tags{
				{Key: "highway", Value: "service"},
				{Key: "area", Value: "yes"},
			},
			want: false,
		},
		{
			name: "service road",
			tags: osm.Tags{{Key: "highway", Value: "service"}},
			want: true,
		},
		{
			name: "living_street",
			tags: osm.Tags{{Key: "highway", Value: "living_street"}},
			want: true,
		},
		{
			name: "no highway tag",
			tags: osm.Tags{{Key: "name", Value: "Some Street"}},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isCarAccessible(tt.tags)
			if got != tt.want {
				t.Errorf("isCarAccessible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDirectionFlags(t *testing.T) {
	tests := []struct {
		name        string
		tags        osm.Tags
		wantForward bool
		wantBackward bool
	}{
		{
			name:        "default bidirectional",
			tags:        osm.Tags{{Key: "highway", Value: "residential"}},
			wantForward: true,
			wantBackward: true,
		},
		{
			name:        "motorway implied oneway",
			tags:        osm.Tags{{Key: "highway", Value: "motorway"}},
			wantForward: true,
			wantBackward: false,
		},
		{
			name:        "motorway_link implied oneway",
			tags:        osm.Tags{{Key: "highway", Value: "motorway_link"}},
			wantForward: true,
			wantBackward: false,
		},
		{
			name:        "roundabout implied oneway",
			tags:        osm.Tags{
				{Key: "highway", Value: "residential"},
				{Key: "junction", Value: "roundabout"},
			},
			wantForward: true,
			wantBackward: false,
		},
		{
			name:        "explicit oneway=yes",
			tags:        osm.Tags{
				{Key: "highway", Value: "primary"},
				{Key: "oneway", Value: "yes"},
			},
			wantForward: true,
			wantBackward: false,
		},
		{
			name:        "explicit oneway=true",
			tags:        osm.Tags{
				{Key: "highway", Value: "primary"},
				{Key: "oneway", Value: "true"},
			},
			wantForward: true,
			wantBackward: false,
		},
		{
			name:        "explicit oneway=1",
			tags:        osm.Tags{
				{Key: "highway", Value: "primary"},
				{Key: "oneway", Value: "1"},
			},
			wantForward: true,
			wantBackward: false,
		},
		{
			name:        "explicit oneway=-1 (reverse)",
			tags:        osm.Tags{
				{Key: "highway", Value: "primary"},
				{Key: "oneway", Value: "-1"},
			},
			wantForward: false,
			wantBackward: true,
		},
		{
			name:        "explicit oneway=reverse",
			tags:        osm.Tags{
				{Key: "highway", Value: "primary"},
				{Key: "oneway", Value: "reverse"},
			},
			wantForward: false,
			wantBackward: true,
		},
		{
			name:        "explicit oneway=no overrides implied",
			tags:        osm.Tags{
				{Key: "highway", Value: "motorway"},
				{Key: "oneway", Value: "no"},
			},
			wantForward: true,
			wantBackward: true,
		},
		{
			name:        "oneway=reversible skips entirely",
			tags:        osm.Tags{
				{Key: "highway", Value: "primary"},
				{Key: "oneway", Value: "reversible"},
			},
			wantForward: false,
			wantBackward: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fwd, bwd := directionFlags(tt.tags)
			if fwd != tt.wantForward || bwd != tt.wantBackward {
				t.Errorf("directionFlags() = (%v, %v), want (%v, %v)", fwd, bwd, tt.wantForward, tt.wantBackward)
			}
		})
	}
}

func TestBBoxContains(t *testing.T) {
	box := BBox{MinLat: 1.2, MaxLat: 1.5, MinLng: 103.6, MaxLng: 104.1}

	if box.IsZero() {
		t.Fatal("non-zero bbox reported as zero")
	}
	if (BBox{}).IsZero() != true {
		t.Fatal("zero bbox not reported as zero")
	}
	if !box.Contains(1.35, 103.85) {
		t.Error("interior point reported outside")
	}
	if !box.Contains(1.2, 103.6) {
		t.Error("boundary point reported outside")
	}
	if box.Contains(1.6, 103.85) {
		t.Error("point north of box reported inside")
	}
	if box.Contains(1.35, 104.2) {
		t.Error("point east of box reported inside")
	}
}

func TestBuildModel(t *testing.T) {
	// Three nodes with deliberately unsorted OSM ids; edges reference them
	// by external id. Internal ids must come out dense and sorted.
	res := &ParseResult{
		Edges: []RawEdge{
			{FromNodeID: 900, ToNodeID: 100, Weight: 10},
			{FromNodeID: 100, ToNodeID: 500, Weight: 20},
			{FromNodeID: 500, ToNodeID: 900, Weight: 30},
		},
		NodeLat: map[osm.NodeID]float64{100: 1.30, 500: 1.31, 900: 1.32},
		NodeLon: map[osm.NodeID]float64{100: 103.80, 500: 103.81, 900: 103.82},
	}

	m, err := BuildModel(res)
	if err != nil {
		t.Fatalf("BuildModel: %v", err)
	}
	if m.Topology.NumNodes != 3 || m.Topology.NumEdges != 3 {
		t.Fatalf("got %d nodes / %d edges, want 3/3", m.Topology.NumNodes, m.Topology.NumEdges)
	}
	if m.SortedIDs == nil {
		t.Fatal("model missing sorted id index")
	}

	// External ids sorted ascending: 100 -> 0, 500 -> 1, 900 -> 2.
	for i, want := range []int64{100, 500, 900} {
		got, err := m.SortedIDs.ExternalID(i)
		if err != nil {
			t.Fatalf("ExternalID(%d): %v", i, err)
		}
		if got != want {
			t.Errorf("ExternalID(%d) = %d, want %d", i, got, want)
		}
	}

	// Edge 900 -> 100 becomes internal 2 -> 0.
	start, end := m.Topology.EdgesFrom(2)
	if end-start != 1 || m.Topology.Target(start) != 0 {
		t.Errorf("edge from node 2 not mapped to target 0")
	}
	if m.Topology.Weight(start) != 10 {
		t.Errorf("edge 2->0 weight = %v, want 10", m.Topology.Weight(start))
	}

	// Coordinates follow the sorted external order.
	lat, lon := m.Topology.Coordinate(1)
	if lat != 1.31 || lon != 103.81 {
		t.Errorf("node 1 coordinate = (%v, %v), want (1.31, 103.81)", lat, lon)
	}

	if err := m.Validate(); err != nil {
		t.Fatalf("built model fails validation: %v", err)
	}
}

func TestBuildModelNoEdges(t *testing.T) {
	if _, err := BuildModel(&ParseResult{}); err == nil {
		t.Fatal("expected error for empty parse result")
	}
	if _, err := BuildModel(nil); err == nil {
		t.Fatal("expected error for nil parse result")
	}
}

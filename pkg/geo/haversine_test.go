package geo

import (
	"math"
	"testing"
)

func TestHaversine(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64 // meters
		tolerance              float64 // meters
	}{
		{
			name: "same point",
			lat1: 1.3521, lon1: 103.8198,
			lat2: 1.3521, lon2: 103.8198,
			want:      0,
			tolerance: 0.001,
		},
		{
			name: "one degree of latitude",
			lat1: 0, lon1: 0,
			lat2: 1, lon2: 0,
			want:      111_195,
			tolerance: 200,
		},
		{
			name: "short urban hop",
			lat1: 1.3521, lon1: 103.8198,
			lat2: 1.3530, lon2: 103.8210,
			want:      166,
			tolerance: 5,
		},
		{
			name: "cross equator",
			lat1: -0.5, lon1: 100,
			lat2: 0.5, lon2: 100,
			want:      111_195,
			tolerance: 200,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Haversine(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("Haversine() = %.1f m, want %.1f m (±%.1f)", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestHaversineSymmetry(t *testing.T) {
	d1 := Haversine(1.30, 103.80, 1.35, 103.95)
	d2 := Haversine(1.35, 103.95, 1.30, 103.80)
	if math.Abs(d1-d2) > 1e-9 {
		t.Errorf("Haversine not symmetric: %.9f vs %.9f", d1, d2)
	}
}

func TestEquirectangularDist(t *testing.T) {
	// The approximation should stay within 1% of Haversine over the short
	// distances used for candidate comparisons at low latitudes.
	pairs := []struct {
		lat1, lon1, lat2, lon2 float64
	}{
		{1.3521, 103.8198, 1.3530, 103.8210},
		{1.30, 103.80, 1.32, 103.85},
		{1.35, 103.95, 1.35, 103.96},
	}
	for _, p := range pairs {
		exact := Haversine(p.lat1, p.lon1, p.lat2, p.lon2)
		approx := EquirectangularDist(p.lat1, p.lon1, p.lat2, p.lon2)
		if exact == 0 {
			continue
		}
		relErr := math.Abs(approx-exact) / exact
		if relErr > 0.01 {
			t.Errorf("EquirectangularDist relative error %.4f for (%v,%v)-(%v,%v)",
				relErr, p.lat1, p.lon1, p.lat2, p.lon2)
		}
	}
}

func BenchmarkHaversine(b *testing.B) {
	var sink float64
	for i := 0; i < b.N; i++ {
		sink = Haversine(1.3521, 103.8198, 1.3530, 103.8210)
	}
	_ = sink
}

func BenchmarkEquirectangularDist(b *testing.B) {
	var sink float64
	for i := 0; i < b.N; i++ {
		sink = EquirectangularDist(1.3521, 103.8198, 1.3530, 103.8210)
	}
	_ = sink
}

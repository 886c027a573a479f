package haversine_test

import (
	"math"
	"testing"

	"github.com/transitlog/transitlog/pkg/haversine"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		wantKm                 float64
		toleranceKm            float64
	}{
		{
			name: "same point",
			lat1: 48.8566, lon1: 2.3522,
			lat2: 48.8566, lon2: 2.3522,
			wantKm:      0,
			toleranceKm: 0.001,
		},
		{
			name: "paris to lyon",
			lat1: 48.8566, lon1: 2.3522,
			lat2: 45.7640, lon2: 4.8357,
			wantKm:      391.5,
			toleranceKm: 2.0,
		},
		{
			name: "one degree of latitude",
			lat1: 0, lon1: 0,
			lat2: 1, lon2: 0,
			wantKm:      111.19,
			toleranceKm: 0.05,
		},
		{
			name: "across the equator",
			lat1: -0.5, lon1: 10,
			lat2: 0.5, lon2: 10,
			wantKm:      111.19,
			toleranceKm: 0.05,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := haversine.Distance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.wantKm) > tt.toleranceKm {
				t.Errorf("Distance() = %.3f km, want %.3f km (±%.3f)", got, tt.wantKm, tt.toleranceKm)
			}
		})
	}
}

func TestDistance_Symmetry(t *testing.T) {
	pairs := [][4]float64{
		{48.8566, 2.3522, 45.7640, 4.8357},
		{52.3702, 4.8952, 51.9244, 4.4777},
		{-33.8688, 151.2093, 35.6762, 139.6503},
	}

	for _, p := range pairs {
		forward := haversine.Distance(p[0], p[1], p[2], p[3])
		backward := haversine.Distance(p[2], p[3], p[0], p[1])
		if math.Abs(forward-backward) > 1e-9 {
			t.Errorf("Distance not symmetric: %.9f vs %.9f", forward, backward)
		}
	}
}

func TestDistance_NonNegative(t *testing.T) {
	coords := [][4]float64{
		{0, 0, 0, 0},
		{90, 0, -90, 0},
		{10, -170, 10, 170},
	}

	for _, c := range coords {
		if d := haversine.Distance(c[0], c[1], c[2], c[3]); d < 0 {
			t.Errorf("Distance(%v) = %f, want non-negative", c, d)
		}
	}
}

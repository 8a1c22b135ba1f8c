package spatial

import (
	"math"
	"testing"
)

func TestHaversineDistance(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
	}{
		{"same point", 47.5, 19.04, 47.5, 19.04, 0},
		{"one millidegree of longitude on the equator", 0, 0, 0, 0.001, 111.19},
		{"one degree of latitude", 10, 20, 11, 20, 111194.93},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineDistance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > 0.01 {
				t.Errorf("HaversineDistance() = %.4f, want %.2f", got, tt.want)
			}
		})
	}
}

func TestValidCoordinate(t *testing.T) {
	tests := []struct {
		lat, lon float64
		want     bool
	}{
		{0, 0, true},
		{90, 180, true},
		{-90, -180, true},
		{95, 0, false},
		{0, -180.5, false},
		{math.NaN(), 0, false},
		{0, math.Inf(1), false},
	}

	for _, tt := range tests {
		if got := ValidCoordinate(tt.lat, tt.lon); got != tt.want {
			t.Errorf("ValidCoordinate(%v, %v) = %v, want %v", tt.lat, tt.lon, got, tt.want)
		}
	}
}

func TestShoelaceDegrees_Square(t *testing.T) {
	square := []Point{{0, 0}, {0, 2}, {2, 2}, {2, 0}}

	if got := ShoelaceDegrees(square, true); got != 4 {
		t.Errorf("closed area = %v, want 4", got)
	}
	// The closing edge of this square starts and ends on lon 0, so it adds nothing.
	if got := ShoelaceDegrees(square, false); got != 4 {
		t.Errorf("open area = %v, want 4", got)
	}
}

func TestShoelaceDegrees_OpenRingUnderMeasures(t *testing.T) {
	triangle := []Point{{0.01, 0}, {0.02, 0.01}, {0, 0.01}}

	closed := ShoelaceDegrees(triangle, true)
	open := ShoelaceDegrees(triangle, false)

	if math.Abs(closed-1e-4) > 1e-12 {
		t.Errorf("closed area = %v, want 1e-4", closed)
	}
	if math.Abs(open-1.5e-4) > 1e-12 {
		t.Errorf("open area = %v, want 1.5e-4", open)
	}
}

func TestPlanarAreaKm2(t *testing.T) {
	square := []Point{{0, 0}, {0, 2}, {2, 2}, {2, 0}}
	want := 4 * KmPerDegree * KmPerDegree

	if got := PlanarAreaKm2(square, true); math.Abs(got-want) > 1e-6 {
		t.Errorf("PlanarAreaKm2() = %v, want %v", got, want)
	}
}

func TestSphericalAreaKm2(t *testing.T) {
	// 0.1° square at the equator: side is about 11.12 km
	square := []Point{{0, 0}, {0, 0.1}, {0.1, 0.1}, {0.1, 0}}
	want := math.Pow(0.1*math.Pi/180*EarthRadiusKm, 2)

	got := SphericalAreaKm2(square)
	if math.Abs(got-want)/want > 0.01 {
		t.Errorf("SphericalAreaKm2() = %v, want about %v", got, want)
	}

	// Winding order and an explicit closing vertex do not matter
	reversed := []Point{{0.1, 0}, {0.1, 0.1}, {0, 0.1}, {0, 0}, {0.1, 0}}
	if r := SphericalAreaKm2(reversed); math.Abs(r-got) > 1e-6 {
		t.Errorf("reversed closed ring = %v, want %v", r, got)
	}
}

func TestSphericalAreaKm2_Degenerate(t *testing.T) {
	if got := SphericalAreaKm2([]Point{{1, 1}, {1, 1}, {2, 2}}); got != 0 {
		t.Errorf("two distinct vertices gave %v, want 0", got)
	}
}

func TestBoundingBoxAndPathLength(t *testing.T) {
	pts := []Point{{47.1, 19.2}, {47.3, 19.0}, {47.2, 19.4}}

	minLat, minLon, maxLat, maxLon := BoundingBox(pts)
	if minLat != 47.1 || minLon != 19.0 || maxLat != 47.3 || maxLon != 19.4 {
		t.Errorf("BoundingBox() = %v %v %v %v", minLat, minLon, maxLat, maxLon)
	}

	want := HaversineDistance(47.1, 19.2, 47.3, 19.0) + HaversineDistance(47.3, 19.0, 47.2, 19.4)
	if got := PathLength(pts); math.Abs(got-want) > 1e-9 {
		t.Errorf("PathLength() = %v, want %v", got, want)
	}
	if PathLength(pts[:1]) != 0 {
		t.Error("PathLength of one point should be 0")
	}
}

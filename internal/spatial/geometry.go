package spatial

import (
	"math"

	"github.com/golang/geo/s2"
)

// Point represents a 2D point with latitude and longitude
type Point struct {
	Lat float64
	Lon float64
}

// BoundingBox calculates the bounding box of a set of points
// Returns (minLat, minLon, maxLat, maxLon)
func BoundingBox(points []Point) (float64, float64, float64, float64) {
	if len(points) == 0 {
		return 0, 0, 0, 0
	}

	minLat, maxLat := points[0].Lat, points[0].Lat
	minLon, maxLon := points[0].Lon, points[0].Lon

	for _, p := range points[1:] {
		if p.Lat < minLat {
			minLat = p.Lat
		}
		if p.Lat > maxLat {
			maxLat = p.Lat
		}
		if p.Lon < minLon {
			minLon = p.Lon
		}
		if p.Lon > maxLon {
			maxLon = p.Lon
		}
	}

	return minLat, minLon, maxLat, maxLon
}

// PathLength calculates the total length of a path (sequence of points) in meters
func PathLength(points []Point) float64 {
	if len(points) < 2 {
		return 0
	}

	var totalDist float64
	for i := 1; i < len(points); i++ {
		totalDist += HaversineDistance(points[i-1].Lat, points[i-1].Lon, points[i].Lat, points[i].Lon)
	}

	return totalDist
}

// ShoelaceDegrees returns the unsigned planar area of a polygon in square degrees.
// When closed is false the edge from the last vertex back to the first is left
// out of the sum.
func ShoelaceDegrees(points []Point, closed bool) float64 {
	if len(points) < 2 {
		return 0
	}

	var sum float64
	for i := 0; i < len(points)-1; i++ {
		sum += points[i].Lon*points[i+1].Lat - points[i+1].Lon*points[i].Lat
	}
	if closed {
		last, first := points[len(points)-1], points[0]
		sum += last.Lon*first.Lat - first.Lon*last.Lat
	}

	return math.Abs(sum) / 2
}

// PlanarAreaKm2 converts the shoelace area to km² with a fixed 111.32 km per degree.
// Only meaningful for small polygons away from the poles.
func PlanarAreaKm2(points []Point, closed bool) float64 {
	return ShoelaceDegrees(points, closed) * KmPerDegree * KmPerDegree
}

// SphericalAreaKm2 returns the area of the polygon on a sphere of the mean Earth
// radius. Repeated consecutive vertices and an explicit closing vertex are ignored.
// Fewer than three distinct vertices give 0.
func SphericalAreaKm2(points []Point) float64 {
	var pts []s2.Point
	for _, p := range points {
		sp := s2.PointFromLatLng(s2.LatLngFromDegrees(p.Lat, p.Lon))
		if n := len(pts); n > 0 && pts[n-1].ApproxEqual(sp) {
			continue
		}
		pts = append(pts, sp)
	}
	if n := len(pts); n > 1 && pts[0].ApproxEqual(pts[n-1]) {
		pts = pts[:n-1]
	}
	if len(pts) < 3 {
		return 0
	}

	loop := s2.LoopFromPoints(pts)
	loop.Normalize()
	return loop.Area() * EarthRadiusKm * EarthRadiusKm
}

// Package analysis derives scalar measurements from feature geometries: area,
// perimeter or length, centroid, bounds and point-to-point distance.
//
// The package-level functions use a spherical earth of radius 6371 km. Area is
// the spherical-excess approximation and centroids are vertex averages; both
// are approximations suited to small and regional extents.
package analysis

import (
	"math"

	"github.com/paulmach/orb"

	"webgis/internal/geom"
)

// EarthRadiusKm is the mean earth radius used by the spherical formulas.
const EarthRadiusKm = 6371.0

func rad(deg float64) float64 { return deg * math.Pi / 180 }

// Distance returns the great-circle (haversine) distance between a and b in
// kilometres.
func Distance(a, b orb.Point) float64 {
	phi1, phi2 := rad(a.Lat()), rad(b.Lat())
	dPhi := phi2 - phi1
	dLambda := rad(b.Lon() - a.Lon())
	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// ringArea is |Σ Δλ (2 + sin φ_i + sin φ_i+1)| R²/2 over the ring, wrapping
// from the last vertex to the first.
func ringArea(ring []orb.Point) float64 {
	n := len(ring)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := range ring {
		p1, p2 := ring[i], ring[(i+1)%n]
		sum += rad(p2.Lon()-p1.Lon()) * (2 + math.Sin(rad(p1.Lat())) + math.Sin(rad(p2.Lat())))
	}
	return math.Abs(sum) * EarthRadiusKm * EarthRadiusKm / 2
}

// Area returns the area in square kilometres of a Polygon (outer ring) or a
// MultiPolygon (sum of outer rings). Other geometries have no area.
func Area(g orb.Geometry) (float64, bool) {
	switch v := g.(type) {
	case orb.Polygon:
		if len(v) == 0 {
			return 0, true
		}
		return ringArea(v[0]), true
	case orb.MultiPolygon:
		var total float64
		for _, p := range v {
			if len(p) > 0 {
				total += ringArea(p[0])
			}
		}
		return total, true
	}
	return 0, false
}

// PerimeterOrLength returns the length in kilometres of a LineString or the
// closed outer-ring perimeter of a Polygon or MultiPolygon. A collection sums
// the members that have one. Points have none.
func PerimeterOrLength(g orb.Geometry) (float64, bool) {
	return perimeterOrLength(g, Distance)
}

func pathLength(pts []orb.Point, closed bool, dist func(a, b orb.Point) float64) float64 {
	var total float64
	for i := 1; i < len(pts); i++ {
		total += dist(pts[i-1], pts[i])
	}
	if closed && len(pts) > 1 {
		total += dist(pts[len(pts)-1], pts[0])
	}
	return total
}

func perimeterOrLength(g orb.Geometry, dist func(a, b orb.Point) float64) (float64, bool) {
	switch v := g.(type) {
	case orb.Point:
		return 0, false
	case orb.LineString:
		return pathLength(v, false, dist), true
	case orb.Polygon:
		if len(v) == 0 {
			return 0, true
		}
		return pathLength(v[0], true, dist), true
	case orb.MultiPolygon:
		var total float64
		for _, p := range v {
			if len(p) > 0 {
				total += pathLength(p[0], true, dist)
			}
		}
		return total, true
	case orb.Collection:
		var (
			total float64
			found bool
		)
		for _, m := range v {
			if l, ok := perimeterOrLength(m, dist); ok {
				total += l
				found = true
			}
		}
		return total, found
	}
	return 0, false
}

// Centroid returns a representative point: the point itself, the vertex
// average of a polygon's outer ring (not the area-weighted centroid), the
// distance midpoint of a line, or the centroid of a multi-geometry's first
// member.
func Centroid(g orb.Geometry) (orb.Point, bool) {
	switch v := g.(type) {
	case orb.Point:
		return v, true
	case orb.LineString:
		return lineMidpoint(v)
	case orb.Polygon:
		if len(v) == 0 || len(v[0]) == 0 {
			return orb.Point{}, false
		}
		var sumLon, sumLat float64
		for _, p := range v[0] {
			sumLon += p.Lon()
			sumLat += p.Lat()
		}
		n := float64(len(v[0]))
		return orb.Point{sumLon / n, sumLat / n}, true
	case orb.MultiPolygon, orb.Collection:
		first := geom.First(v)
		if first == nil {
			return orb.Point{}, false
		}
		return Centroid(first)
	}
	return orb.Point{}, false
}

// lineMidpoint walks the line to half its haversine length and interpolates
// linearly in lon/lat within that segment.
func lineMidpoint(ls orb.LineString) (orb.Point, bool) {
	if len(ls) == 0 {
		return orb.Point{}, false
	}
	half := pathLength(ls, false, Distance) / 2
	if half == 0 {
		return ls[0], true
	}
	var walked float64
	for i := 1; i < len(ls); i++ {
		seg := Distance(ls[i-1], ls[i])
		if walked+seg >= half && seg > 0 {
			t := (half - walked) / seg
			a, b := ls[i-1], ls[i]
			return orb.Point{a.Lon() + t*(b.Lon()-a.Lon()), a.Lat() + t*(b.Lat()-a.Lat())}, true
		}
		walked += seg
	}
	return ls[len(ls)-1], true
}

// Bounds returns the bounding box of coords, false when there are none.
func Bounds(coords []orb.Point) (orb.Bound, bool) {
	if len(coords) == 0 {
		return orb.Bound{}, false
	}
	return orb.MultiPoint(coords).Bound(), true
}

// Package geom reads geography documents (GeoJSON, KML, CSV and WKT text) into
// a normalized list of features.
//
// Geometries are orb values restricted to a closed set: orb.Point,
// orb.LineString, orb.Polygon, orb.MultiPolygon and orb.Collection. Every switch
// over a geometry in this module handles exactly these five.
package geom

import "github.com/paulmach/orb"

// Supported reports whether g belongs to the geometry set handled by the
// extractor and analyzer.
func Supported(g orb.Geometry) bool {
	switch g.(type) {
	case orb.Point, orb.LineString, orb.Polygon, orb.MultiPolygon, orb.Collection:
		return true
	}
	return false
}

// Walk calls fn for g and, for collections and multi-polygons, for each member
// with its nesting depth. Returning false from fn stops descent below that
// geometry.
func Walk(g orb.Geometry, fn func(depth int, g orb.Geometry) bool) {
	walk(g, 0, fn)
}

func walk(g orb.Geometry, depth int, fn func(int, orb.Geometry) bool) {
	if g == nil || !fn(depth, g) {
		return
	}
	switch v := g.(type) {
	case orb.MultiPolygon:
		for _, p := range v {
			walk(p, depth+1, fn)
		}
	case orb.Collection:
		for _, m := range v {
			walk(m, depth+1, fn)
		}
	}
}

// Coordinates flattens g into its vertices. Polygon inner rings are included.
func Coordinates(g orb.Geometry) []orb.Point {
	var out []orb.Point
	Walk(g, func(_ int, g orb.Geometry) bool {
		switch v := g.(type) {
		case orb.Point:
			out = append(out, v)
		case orb.LineString:
			out = append(out, v...)
		case orb.Polygon:
			for _, r := range v {
				out = append(out, r...)
			}
		}
		return true
	})
	return out
}

// First returns the first member of a multi-geometry, or g itself.
func First(g orb.Geometry) orb.Geometry {
	switch v := g.(type) {
	case orb.MultiPolygon:
		if len(v) == 0 {
			return nil
		}
		return v[0]
	case orb.Collection:
		if len(v) == 0 {
			return nil
		}
		return v[0]
	}
	return g
}

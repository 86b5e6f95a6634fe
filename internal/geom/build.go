package geom

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Kind names a geometry shape using its GeoJSON type name.
type Kind string

const (
	KindPoint              Kind = "Point"
	KindLineString         Kind = "LineString"
	KindPolygon            Kind = "Polygon"
	KindMultiPolygon       Kind = "MultiPolygon"
	KindGeometryCollection Kind = "GeometryCollection"
)

// Minimum vertex counts below which no geometry is produced.
const (
	minLineVertices = 2
	minRingVertices = 3
)

// Build assembles a single-part geometry of the given kind from coords.
// It returns nil when coords has too few vertices for the kind, or when kind is
// a multi-part kind, which has its own builder.
func Build(kind Kind, coords []orb.Point) orb.Geometry {
	var g orb.Geometry
	switch kind {
	case KindPoint:
		g = BuildPoint(coords)
	case KindLineString:
		g = BuildLineString(coords)
	case KindPolygon:
		g = BuildPolygon(coords)
	}
	if isNil(g) {
		return nil
	}
	return g
}

// BuildPoint returns the first coordinate as a point.
func BuildPoint(coords []orb.Point) orb.Geometry {
	if len(coords) == 0 {
		return nil
	}
	return coords[0]
}

// BuildLineString needs at least two vertices.
func BuildLineString(coords []orb.Point) orb.Geometry {
	if len(coords) < minLineVertices {
		return nil
	}
	return orb.LineString(coords)
}

// BuildPolygon builds a polygon from its outer ring. Ring closure and winding
// are not checked.
func BuildPolygon(outer []orb.Point, holes ...[]orb.Point) orb.Geometry {
	if len(outer) < minRingVertices {
		return nil
	}
	p := orb.Polygon{orb.Ring(outer)}
	for _, h := range holes {
		if len(h) >= minRingVertices {
			p = append(p, orb.Ring(h))
		}
	}
	return p
}

// BuildMultiPolygon keeps the polygons that have a usable outer ring.
func BuildMultiPolygon(rings [][]orb.Point) orb.Geometry {
	var mp orb.MultiPolygon
	for _, r := range rings {
		if p, ok := BuildPolygon(r).(orb.Polygon); ok {
			mp = append(mp, p)
		}
	}
	if len(mp) == 0 {
		return nil
	}
	return mp
}

// BuildCollection drops nil members and returns nil when none remain.
func BuildCollection(members ...orb.Geometry) orb.Geometry {
	var c orb.Collection
	for _, m := range members {
		if !isNil(m) {
			c = append(c, m)
		}
	}
	if len(c) == 0 {
		return nil
	}
	return c
}

// Normalize checks an already typed geometry against the builder rules.
// Members of multi-geometries that fail are dropped.
func Normalize(g orb.Geometry) (orb.Geometry, error) {
	out, _, err := NormalizeMembers(g)
	return out, err
}

// NormalizeMembers is Normalize plus a record of every dropped member. Index
// and Name of the records are left for the caller to fill in. Nothing is
// recorded when the geometry as a whole fails.
func NormalizeMembers(g orb.Geometry) (orb.Geometry, []DroppedMember, error) {
	var dropped []DroppedMember
	out, err := normalize(g, &dropped)
	if err != nil {
		return nil, nil, err
	}
	return out, dropped, nil
}

func normalize(g orb.Geometry, dropped *[]DroppedMember) (orb.Geometry, error) {
	switch v := g.(type) {
	case nil:
		return nil, ErrNoGeometry
	case orb.Point:
		return v, nil
	case orb.LineString:
		if out := BuildLineString(v); out != nil {
			return out, nil
		}
	case orb.Polygon:
		if len(v) > 0 {
			holes := make([][]orb.Point, 0, len(v)-1)
			for _, r := range v[1:] {
				holes = append(holes, r)
			}
			if out := BuildPolygon(v[0], holes...); out != nil {
				return out, nil
			}
		}
	case orb.MultiPolygon:
		var mp orb.MultiPolygon
		for i, p := range v {
			out, err := normalize(p, dropped)
			if err != nil {
				*dropped = append(*dropped, DroppedMember{Member: i, Type: p.GeoJSONType(), Reason: err})
				continue
			}
			mp = append(mp, out.(orb.Polygon))
		}
		if len(mp) > 0 {
			return mp, nil
		}
	case orb.Collection:
		var c orb.Collection
		for i, m := range v {
			out, err := normalize(m, dropped)
			if err != nil {
				*dropped = append(*dropped, DroppedMember{Member: i, Type: geometryType(m), Reason: err})
				continue
			}
			c = append(c, out)
		}
		if len(c) > 0 {
			return c, nil
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGeometry, g.GeoJSONType())
	}
	return nil, ErrEmptyGeometry
}

func geometryType(g orb.Geometry) string {
	if g == nil {
		return ""
	}
	return g.GeoJSONType()
}

// isNil catches both a nil interface and typed nil slices.
func isNil(g orb.Geometry) bool {
	switch v := g.(type) {
	case nil:
		return true
	case orb.LineString:
		return v == nil
	case orb.Polygon:
		return v == nil
	case orb.MultiPolygon:
		return v == nil
	case orb.Collection:
		return v == nil
	}
	return false
}

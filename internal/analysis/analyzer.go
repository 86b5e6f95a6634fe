package analysis

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"webgis/internal/geom"
)

// Method selects how areas and lengths are measured.
type Method string

const (
	// MethodSpherical uses the package formulas on a 6371 km sphere.
	MethodSpherical Method = "spherical"
	// MethodGeodesic delegates to orb/geo, which works on the WGS84 equatorial
	// radius and subtracts polygon holes.
	MethodGeodesic Method = "geodesic"
)

// ParseMethod validates a method name; the empty string selects spherical.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case "", MethodSpherical:
		return MethodSpherical, nil
	case MethodGeodesic:
		return MethodGeodesic, nil
	}
	return "", fmt.Errorf("unknown analysis method %q", s)
}

const hectaresPerKm2 = 100

// Result holds the measurements of one feature. Nil fields do not apply to the
// feature's geometry.
type Result struct {
	AreaKm2             *float64   `json:"area_km2" yaml:"area_km2"`
	PerimeterOrLengthKm *float64   `json:"perimeter_or_length_km" yaml:"perimeter_or_length_km"`
	Centroid            *orb.Point `json:"centroid" yaml:"centroid"`
}

// Box is a lat/lng bounding box.
type Box struct {
	MinLat float64 `json:"min_lat" yaml:"min_lat"`
	MaxLat float64 `json:"max_lat" yaml:"max_lat"`
	MinLng float64 `json:"min_lng" yaml:"min_lng"`
	MaxLng float64 `json:"max_lng" yaml:"max_lng"`
}

// BoxOf converts an orb bound.
func BoxOf(b orb.Bound) Box {
	return Box{MinLat: b.Min.Lat(), MaxLat: b.Max.Lat(), MinLng: b.Min.Lon(), MaxLng: b.Max.Lon()}
}

// AreaEntry is the area of one polygonal feature.
type AreaEntry struct {
	Index        int     `json:"index" yaml:"index"`
	Name         string  `json:"name" yaml:"name"`
	Type         string  `json:"type" yaml:"type"`
	AreaKm2      float64 `json:"area_km2" yaml:"area_km2"`
	AreaHectares float64 `json:"area_hectares" yaml:"area_hectares"`
}

// FeatureReport pairs a feature with its measurements.
type FeatureReport struct {
	Index  int    `json:"index" yaml:"index"`
	Name   string `json:"name" yaml:"name"`
	Type   string `json:"type" yaml:"type"`
	Result `yaml:",inline"`
}

// Summary describes a whole feature list.
type Summary struct {
	Type              string          `json:"type" yaml:"type"`
	Method            Method          `json:"method" yaml:"method"`
	TotalFeatures     int             `json:"total_features" yaml:"total_features"`
	FeatureTypes      map[string]int  `json:"feature_types" yaml:"feature_types"`
	Areas             []AreaEntry     `json:"areas" yaml:"areas"`
	TotalAreaKm2      float64         `json:"total_area_km2" yaml:"total_area_km2"`
	TotalAreaHectares float64         `json:"total_area_hectares" yaml:"total_area_hectares"`
	Centroids         []orb.Point     `json:"centroids" yaml:"centroids"`
	Bounds            *Box            `json:"bounds" yaml:"bounds"` // over the centroids
	Extent            *Box            `json:"extent" yaml:"extent"` // over every vertex
	Features          []FeatureReport `json:"features" yaml:"features"`
}

// Analyzer measures features with a fixed method. It holds no mutable state
// and is safe for concurrent use.
type Analyzer struct {
	method Method
}

// New returns an Analyzer for method; unknown methods fall back to spherical.
func New(method Method) *Analyzer {
	if method != MethodGeodesic {
		method = MethodSpherical
	}
	return &Analyzer{method: method}
}

// Method reports the measuring method.
func (a *Analyzer) Method() Method { return a.method }

// Area is the area in km² of a Polygon or MultiPolygon.
func (a *Analyzer) Area(g orb.Geometry) (float64, bool) {
	if a.method != MethodGeodesic {
		return Area(g)
	}
	switch g.(type) {
	case orb.Polygon, orb.MultiPolygon:
		return math.Abs(geo.Area(g)) / 1e6, true
	}
	return 0, false
}

// PerimeterOrLength is the length in km of a line or polygon boundary.
func (a *Analyzer) PerimeterOrLength(g orb.Geometry) (float64, bool) {
	if a.method != MethodGeodesic {
		return PerimeterOrLength(g)
	}
	return perimeterOrLength(g, func(p, q orb.Point) float64 {
		return geo.DistanceHaversine(p, q) / 1000
	})
}

// Analyze measures one feature. Geometries outside the supported set yield an
// empty Result.
func (a *Analyzer) Analyze(f geom.Feature) Result {
	var r Result
	if !geom.Supported(f.Geometry) {
		return r
	}
	if v, ok := a.Area(f.Geometry); ok {
		r.AreaKm2 = &v
	}
	if v, ok := a.PerimeterOrLength(f.Geometry); ok {
		r.PerimeterOrLengthKm = &v
	}
	if c, ok := Centroid(f.Geometry); ok {
		r.Centroid = &c
	}
	return r
}

// Summarize measures every feature of fl and aggregates the results.
func (a *Analyzer) Summarize(fl geom.FeatureList) Summary {
	s := Summary{
		Type:          "FeatureCollection",
		Method:        a.method,
		TotalFeatures: len(fl),
		FeatureTypes:  fl.Counts(),
	}
	for i, f := range fl {
		r := a.Analyze(f)
		s.Features = append(s.Features, FeatureReport{Index: i, Name: f.Name, Type: f.Type(), Result: r})
		if r.AreaKm2 != nil {
			s.Areas = append(s.Areas, AreaEntry{
				Index:        i,
				Name:         f.Name,
				Type:         f.Type(),
				AreaKm2:      *r.AreaKm2,
				AreaHectares: *r.AreaKm2 * hectaresPerKm2,
			})
			s.TotalAreaKm2 += *r.AreaKm2
		}
		if r.Centroid != nil {
			s.Centroids = append(s.Centroids, *r.Centroid)
		}
	}
	s.TotalAreaHectares = s.TotalAreaKm2 * hectaresPerKm2
	if b, ok := Bounds(s.Centroids); ok {
		box := BoxOf(b)
		s.Bounds = &box
	}
	if b, ok := Bounds(fl.Coordinates()); ok {
		box := BoxOf(b)
		s.Extent = &box
	}
	return s
}

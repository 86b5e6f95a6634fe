package geom

import "github.com/paulmach/orb"

// UnnamedFeature is the name given to features whose source carries none.
const UnnamedFeature = "Unnamed"

// Format identifies the text format a document was read from.
type Format string

const (
	FormatUnknown Format = ""
	FormatGeoJSON Format = "geojson"
	FormatKML     Format = "kml"
	FormatCSV     Format = "csv"
	FormatWKT     Format = "wkt"
)

// Feature is a named geometry read from a document.
type Feature struct {
	Name        string
	Description string
	Geometry    orb.Geometry
	Properties  map[string]any
}

// Type returns the GeoJSON type name of the feature geometry.
func (f Feature) Type() string {
	if f.Geometry == nil {
		return ""
	}
	return f.Geometry.GeoJSONType()
}

// FeatureList holds features in document order.
type FeatureList []Feature

// Coordinates returns every vertex of every feature, in order.
func (fl FeatureList) Coordinates() []orb.Point {
	var out []orb.Point
	for _, f := range fl {
		out = append(out, Coordinates(f.Geometry)...)
	}
	return out
}

// Counts returns the number of features per geometry type.
func (fl FeatureList) Counts() map[string]int {
	counts := make(map[string]int)
	for _, f := range fl {
		counts[f.Type()]++
	}
	return counts
}

// Skipped records a document entry that produced no feature.
type Skipped struct {
	Index  int
	Name   string
	Reason error
}

// DroppedMember records a part of a multi-part geometry left out of a feature
// that was otherwise kept.
type DroppedMember struct {
	Index  int    // entry index in the document
	Name   string // entry name
	Member int    // position within the parent geometry
	Type   string
	Reason error
}

// Document is the result of loading one geography document.
type Document struct {
	Name     string
	Format   Format
	Features FeatureList
	Skipped  []Skipped
	Members  []DroppedMember
	// Dropped counts coordinate tuples that failed to parse.
	Dropped int
}

package geom

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

var (
	// ErrMalformedDocument matches any MalformedDocumentError.
	ErrMalformedDocument = errors.New("malformed document")
	// ErrUnsupportedGeometry marks a geometry outside the supported set.
	ErrUnsupportedGeometry = errors.New("unsupported geometry")
	// ErrEmptyGeometry marks a geometry below its minimum vertex count.
	ErrEmptyGeometry = errors.New("empty geometry")
	// ErrNoGeometry marks an entry carrying no geometry at all.
	ErrNoGeometry = errors.New("no geometry")
	// ErrUnknownFormat is returned when a document format cannot be detected.
	ErrUnknownFormat = errors.New("unknown document format")
)

// MalformedDocumentError is returned when a document is not well-formed
// markup or JSON. Err is the parser error.
type MalformedDocumentError struct {
	Format Format
	Err    error
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Format, ErrMalformedDocument, e.Err)
}

func (e *MalformedDocumentError) Unwrap() error { return e.Err }

func (e *MalformedDocumentError) Is(target error) bool { return target == ErrMalformedDocument }

func malformed(f Format, err error) error {
	return &MalformedDocumentError{Format: f, Err: err}
}

// Extractor turns document text into features. Entries that yield no feature
// are logged and recorded, never returned as errors. The zero value discards
// its diagnostics.
type Extractor struct {
	log zerolog.Logger
}

// NewExtractor returns an Extractor logging skipped entries to log.
func NewExtractor(log zerolog.Logger) *Extractor {
	return &Extractor{log: log.With().Str("component", "extractor").Logger()}
}

// readResult is what a format reader hands back to the Extractor.
type readResult struct {
	features FeatureList
	skipped  []Skipped
	members  []DroppedMember
	dropped  int
}

// addMembers files the dropped members of the entry at index under its name.
func (r *readResult) addMembers(index int, name string, members []DroppedMember) {
	for _, m := range members {
		m.Index, m.Name = index, name
		r.members = append(r.members, m)
	}
}

// Load detects the format of data and extracts it into a Document.
func (e *Extractor) Load(name string, data []byte) (*Document, error) {
	format := DetectFormat(name, data)
	if format == FormatUnknown {
		return nil, fmt.Errorf("%s: %w", name, ErrUnknownFormat)
	}
	res, err := e.extract(format, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	e.log.Debug().
		Str("document", name).
		Str("format", string(format)).
		Int("features", len(res.features)).
		Int("skipped", len(res.skipped)).
		Msg("document loaded")
	return &Document{
		Name:     name,
		Format:   format,
		Features: res.features,
		Skipped:  res.skipped,
		Members:  res.members,
		Dropped:  res.dropped,
	}, nil
}

// Extract reads data in the given format.
func (e *Extractor) Extract(format Format, data []byte) (FeatureList, error) {
	res, err := e.extract(format, data)
	return res.features, err
}

// ExtractKML reads the Placemarks of a KML document.
func (e *Extractor) ExtractKML(data []byte) (FeatureList, error) {
	return e.Extract(FormatKML, data)
}

// ExtractGeoJSON reads the features of a GeoJSON document.
func (e *Extractor) ExtractGeoJSON(data []byte) (FeatureList, error) {
	return e.Extract(FormatGeoJSON, data)
}

// ExtractCSV reads point rows from a CSV document.
func (e *Extractor) ExtractCSV(data []byte) (FeatureList, error) {
	return e.Extract(FormatCSV, data)
}

// ExtractWKT reads WKT geometries, one per line.
func (e *Extractor) ExtractWKT(data []byte) (FeatureList, error) {
	return e.Extract(FormatWKT, data)
}

func (e *Extractor) extract(format Format, data []byte) (readResult, error) {
	var (
		res readResult
		err error
	)
	switch format {
	case FormatKML:
		res, err = readKML(data)
	case FormatGeoJSON:
		res, err = readGeoJSON(data)
	case FormatCSV:
		res, err = readCSV(data)
	case FormatWKT:
		res, err = readWKT(data)
	default:
		return readResult{}, fmt.Errorf("%q: %w", format, ErrUnknownFormat)
	}
	if err != nil {
		return readResult{}, err
	}
	for _, s := range res.skipped {
		e.log.Warn().
			Str("format", string(format)).
			Int("index", s.Index).
			Str("name", s.Name).
			AnErr("reason", s.Reason).
			Msg("entry skipped")
	}
	for _, m := range res.members {
		e.log.Warn().
			Str("format", string(format)).
			Int("index", m.Index).
			Str("name", m.Name).
			Int("member", m.Member).
			Str("type", m.Type).
			AnErr("reason", m.Reason).
			Msg("member dropped")
	}
	if res.dropped > 0 {
		e.log.Debug().
			Str("format", string(format)).
			Int("dropped", res.dropped).
			Msg("unparseable coordinate tuples dropped")
	}
	return res, nil
}

// DetectFormat guesses the format from the file extension, falling back to the
// first non-blank byte of data.
func DetectFormat(name string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".geojson", ".json":
		return FormatGeoJSON
	case ".kml":
		return FormatKML
	case ".csv":
		return FormatCSV
	case ".wkt":
		return FormatWKT
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return FormatUnknown
	}
	switch trimmed[0] {
	case '{':
		return FormatGeoJSON
	case '<':
		return FormatKML
	}
	upper := strings.ToUpper(string(trimmed[:min(len(trimmed), 20)]))
	for _, prefix := range []string{"POINT", "LINESTRING", "POLYGON", "MULTI", "GEOMETRYCOLLECTION"} {
		if strings.HasPrefix(upper, prefix) {
			return FormatWKT
		}
	}
	return FormatUnknown
}

// Package session holds the state of one viewing session: the loaded
// document, user markers and the selected basemap.
package session

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog"

	"webgis/internal/analysis"
	"webgis/internal/config"
	"webgis/internal/geom"
)

// ErrInvalidCoordinate is returned for marker positions off the globe.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// SampleName is the document name of the bundled sample.
const SampleName = "exemplo.geojson"

//go:embed sample.geojson
var sample []byte

// Session is not safe for concurrent use; it belongs to one UI loop.
type Session struct {
	cfg       *config.Config
	log       zerolog.Logger
	extractor *geom.Extractor
	analyzer  *analysis.Analyzer

	doc     *geom.Document
	markers geom.FeatureList
	basemap int
}

// New creates a session from cfg.
func New(cfg *config.Config, log zerolog.Logger) (*Session, error) {
	method, err := analysis.ParseMethod(cfg.Analysis.Method)
	if err != nil {
		return nil, err
	}
	s := &Session{
		cfg:       cfg,
		log:       log.With().Str("component", "session").Logger(),
		extractor: geom.NewExtractor(log),
		analyzer:  analysis.New(method),
	}
	for i, b := range cfg.Basemaps {
		if b.Key == cfg.Map.Basemap {
			s.basemap = i
		}
	}
	return s, nil
}

// Load reads and extracts the file at path, replacing the current document.
// On error the current document is kept.
func (s *Session) Load(path string) (*geom.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return s.load(filepath.Base(path), data)
}

// LoadText extracts pasted text. The name drives format detection when it
// carries an extension.
func (s *Session) LoadText(name, text string) (*geom.Document, error) {
	return s.load(name, []byte(text))
}

// LoadSample loads the bundled sample polygon in central São Paulo.
func (s *Session) LoadSample() (*geom.Document, error) {
	return s.load(SampleName, sample)
}

func (s *Session) load(name string, data []byte) (*geom.Document, error) {
	doc, err := s.extractor.Load(name, data)
	if err != nil {
		s.log.Error().Err(err).Str("document", name).Msg("load failed")
		return nil, err
	}
	s.doc = doc
	s.log.Info().
		Str("document", name).
		Str("format", string(doc.Format)).
		Int("features", len(doc.Features)).
		Int("skipped", len(doc.Skipped)).
		Int("dropped_members", len(doc.Members)).
		Msg("document loaded")
	return doc, nil
}

// Document returns the loaded document, nil when none.
func (s *Session) Document() *geom.Document { return s.doc }

// AddMarker drops a named point at lon/lat.
func (s *Session) AddMarker(lon, lat float64, description string) (geom.Feature, error) {
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return geom.Feature{}, fmt.Errorf("%w: lat %.6f lng %.6f", ErrInvalidCoordinate, lat, lon)
	}
	f := geom.Feature{
		Name:        fmt.Sprintf("Marker %d", len(s.markers)+1),
		Description: description,
		Geometry:    orb.Point{lon, lat},
	}
	s.markers = append(s.markers, f)
	s.log.Debug().Float64("lat", lat).Float64("lng", lon).Msg("marker added")
	return f, nil
}

// Markers returns the user markers in insertion order.
func (s *Session) Markers() geom.FeatureList { return s.markers }

// LastLeg is the distance in km between the two most recent markers.
func (s *Session) LastLeg() (float64, bool) {
	n := len(s.markers)
	if n < 2 {
		return 0, false
	}
	a := s.markers[n-2].Geometry.(orb.Point)
	b := s.markers[n-1].Geometry.(orb.Point)
	return analysis.Distance(a, b), true
}

// Clear drops the document and every marker.
func (s *Session) Clear() {
	s.doc = nil
	s.markers = nil
	s.log.Debug().Msg("session cleared")
}

// Features returns the document features followed by the markers.
func (s *Session) Features() geom.FeatureList {
	var out geom.FeatureList
	if s.doc != nil {
		out = append(out, s.doc.Features...)
	}
	return append(out, s.markers...)
}

// Analyzer returns the session analyzer.
func (s *Session) Analyzer() *analysis.Analyzer { return s.analyzer }

// Summary measures every feature of the session.
func (s *Session) Summary() analysis.Summary {
	return s.analyzer.Summarize(s.Features())
}

// Basemap returns the selected basemap.
func (s *Session) Basemap() config.Basemap {
	if len(s.cfg.Basemaps) == 0 {
		return config.Basemap{}
	}
	return s.cfg.Basemaps[s.basemap]
}

// CycleBasemap selects the next configured basemap and returns it.
func (s *Session) CycleBasemap() config.Basemap {
	if len(s.cfg.Basemaps) > 0 {
		s.basemap = (s.basemap + 1) % len(s.cfg.Basemaps)
	}
	b := s.Basemap()
	s.log.Debug().Str("basemap", b.Key).Msg("basemap changed")
	return b
}

// Center is the configured initial view centre.
func (s *Session) Center() orb.Point {
	return orb.Point{s.cfg.Map.Center[1], s.cfg.Map.Center[0]}
}

// Zoom is the configured initial zoom level.
func (s *Session) Zoom() int { return s.cfg.Map.Zoom }

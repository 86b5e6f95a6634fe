package tui

import (
	"fmt"
	"slices"
	"strings"

	"webgis/internal/analysis"
)

const summaryTitle = "summary"

// inspect describes the vertex nearest to the view centre.
func (m Model) inspect() (popup, status string) {
	lo := m.layout()
	p := m.projection(lo.mapW, lo.mapH)
	if !p.valid() || len(m.features) == 0 {
		return "no feature nearby", "no feature nearby"
	}
	vertex, idx, _, _, ok := m.nearestVertex(p, lo.mapW, lo.mapH*2)
	if !ok {
		return "no feature nearby", "no feature nearby"
	}
	center := p.lonLat(lo.mapW/2, lo.mapH/2)
	f := m.features[idx]

	source := "<pasted>"
	if doc := m.sess.Document(); doc != nil {
		source = fmt.Sprintf("%s (%s)", doc.Name, doc.Format)
	}
	if idx >= len(m.features)-len(m.sess.Markers()) {
		source = "marker"
	}
	meta := []string{
		fmt.Sprintf("feature: %s", f.Name),
		fmt.Sprintf("type: %s", f.Type()),
		fmt.Sprintf("source: %s", source),
		fmt.Sprintf("nearest: lat=%.6f lng=%.6f", vertex.Lat(), vertex.Lon()),
		fmt.Sprintf("to centre: %.3f km", analysis.Distance(vertex, center)),
	}
	if f.Description != "" {
		meta = append(meta, "description: "+f.Description)
	}
	meta = append(meta, "crs: EPSG:4326")
	return strings.Join(meta, "\n"), "inspect popup"
}

// summary renders the session summary.
func (m Model) summary() string {
	s := m.sess.Summary()
	out := []string{
		fmt.Sprintf("%s (%s)", summaryTitle, s.Method),
		fmt.Sprintf("features: %d", s.TotalFeatures),
	}
	types := make([]string, 0, len(s.FeatureTypes))
	for t := range s.FeatureTypes {
		types = append(types, t)
	}
	slices.Sort(types)
	for _, t := range types {
		out = append(out, fmt.Sprintf("  %s: %d", t, s.FeatureTypes[t]))
	}
	if len(s.Areas) > 0 {
		out = append(out, fmt.Sprintf("total area: %.3f km² (%.1f ha)", s.TotalAreaKm2, s.TotalAreaHectares))
		for _, a := range s.Areas {
			out = append(out, fmt.Sprintf("  %s: %.3f km²", a.Name, a.AreaKm2))
		}
	}
	if s.Extent != nil {
		out = append(out, fmt.Sprintf("extent: lat %.5f..%.5f lng %.5f..%.5f",
			s.Extent.MinLat, s.Extent.MaxLat, s.Extent.MinLng, s.Extent.MaxLng))
	}
	if km, ok := m.sess.LastLeg(); ok {
		out = append(out, fmt.Sprintf("last marker leg: %.3f km", km))
	}
	if doc := m.sess.Document(); doc != nil && len(doc.Skipped) > 0 {
		out = append(out, fmt.Sprintf("skipped entries: %d", len(doc.Skipped)))
	}
	return strings.Join(out, "\n")
}

package geom

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/paulmach/orb/geojson"
)

type geoJSONRoot struct {
	Type     string            `json:"type"`
	Features []json.RawMessage `json:"features"`
}

// geoJSONHead looks at a feature before handing it to the orb decoder, which
// rejects the whole feature on a missing or unknown geometry type.
type geoJSONHead struct {
	Geometry *struct {
		Type string `json:"type"`
	} `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

func supportedType(t string) bool {
	switch Kind(t) {
	case KindPoint, KindLineString, KindPolygon, KindMultiPolygon, KindGeometryCollection:
		return true
	}
	return false
}

func readGeoJSON(data []byte) (readResult, error) {
	var root geoJSONRoot
	if err := json.Unmarshal(data, &root); err != nil {
		return readResult{}, malformed(FormatGeoJSON, err)
	}
	var raws []json.RawMessage
	switch root.Type {
	case "FeatureCollection":
		raws = root.Features
	case "Feature":
		raws = []json.RawMessage{data}
	case "":
		return readResult{}, malformed(FormatGeoJSON, errors.New("missing type member"))
	default:
		// a bare geometry
		var res readResult
		if !supportedType(root.Type) {
			res.skipped = append(res.skipped, Skipped{
				Index:  0,
				Name:   UnnamedFeature,
				Reason: fmt.Errorf("%w: %s", ErrUnsupportedGeometry, root.Type),
			})
			return res, nil
		}
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return readResult{}, malformed(FormatGeoJSON, err)
		}
		ng, members, err := NormalizeMembers(g.Geometry())
		if err != nil {
			res.skipped = append(res.skipped, Skipped{Index: 0, Name: UnnamedFeature, Reason: err})
			return res, nil
		}
		res.features = FeatureList{{Name: UnnamedFeature, Geometry: ng}}
		res.addMembers(0, UnnamedFeature, members)
		return res, nil
	}

	var res readResult
	for i, raw := range raws {
		f, members, err := geoJSONFeature(raw)
		if err != nil {
			res.skipped = append(res.skipped, Skipped{Index: i, Name: f.Name, Reason: err})
			continue
		}
		res.features = append(res.features, f)
		res.addMembers(i, f.Name, members)
	}
	return res, nil
}

// geoJSONFeature decodes one feature and reports the collection members it
// dropped. The returned Feature carries its name even on error, for
// diagnostics.
func geoJSONFeature(raw json.RawMessage) (Feature, []DroppedMember, error) {
	out := Feature{Name: UnnamedFeature}
	var head geoJSONHead
	if err := json.Unmarshal(raw, &head); err != nil {
		return out, nil, err
	}
	if name, ok := head.Properties["name"].(string); ok && name != "" {
		out.Name = name
	}
	if head.Geometry == nil || head.Geometry.Type == "" {
		return out, nil, fmt.Errorf("%w: missing geometry.type", ErrNoGeometry)
	}
	if !supportedType(head.Geometry.Type) {
		return out, nil, fmt.Errorf("%w: %s", ErrUnsupportedGeometry, head.Geometry.Type)
	}
	f, err := geojson.UnmarshalFeature(raw)
	if err != nil {
		return out, nil, err
	}
	g, members, err := NormalizeMembers(f.Geometry)
	if err != nil {
		return out, nil, err
	}
	out.Geometry = g
	out.Description, _ = f.Properties["description"].(string)
	if len(f.Properties) > 0 {
		out.Properties = map[string]any(f.Properties)
	}
	return out, members, nil
}

// MarshalGeoJSON writes the list as a FeatureCollection. Name and description
// are stored as properties.
func (fl FeatureList) MarshalGeoJSON() ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, f := range fl {
		gf := geojson.NewFeature(f.Geometry)
		for k, v := range f.Properties {
			gf.Properties[k] = v
		}
		if f.Name != UnnamedFeature {
			gf.Properties["name"] = f.Name
		}
		if f.Description != "" {
			gf.Properties["description"] = f.Description
		}
		fc.Append(gf)
	}
	return fc.MarshalJSON()
}

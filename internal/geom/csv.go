package geom

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	"github.com/paulmach/orb"
)

// readCSV reads one point per row. Column detection is case-insensitive:
// lat|latitude|y and lon|lng|long|longitude|x, plus optional name and
// description. Other columns become string properties.
func readCSV(data []byte) (readResult, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	recs, err := r.ReadAll()
	if err != nil {
		return readResult{}, malformed(FormatCSV, err)
	}
	if len(recs) == 0 {
		return readResult{}, malformed(FormatCSV, errors.New("empty csv"))
	}
	header := recs[0]
	idxLat, idxLon, idxName, idxDesc := -1, -1, -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "lat", "latitude", "y":
			if idxLat == -1 {
				idxLat = i
			}
		case "lon", "lng", "long", "longitude", "x":
			if idxLon == -1 {
				idxLon = i
			}
		case "name":
			idxName = i
		case "description":
			idxDesc = i
		}
	}
	if idxLat == -1 || idxLon == -1 {
		return readResult{}, malformed(FormatCSV, errors.New("latitude/longitude columns not found"))
	}

	var res readResult
	for n, row := range recs[1:] {
		f := Feature{Name: UnnamedFeature}
		if idxName >= 0 && idxName < len(row) && row[idxName] != "" {
			f.Name = row[idxName]
		}
		if idxLon >= len(row) || idxLat >= len(row) {
			res.skipped = append(res.skipped, Skipped{Index: n, Name: f.Name, Reason: fmt.Errorf("%w: short row", ErrNoGeometry)})
			continue
		}
		lon, err := parseFinite(row[idxLon])
		if err != nil {
			res.skipped = append(res.skipped, Skipped{Index: n, Name: f.Name, Reason: err})
			continue
		}
		lat, err := parseFinite(row[idxLat])
		if err != nil {
			res.skipped = append(res.skipped, Skipped{Index: n, Name: f.Name, Reason: err})
			continue
		}
		f.Geometry = orb.Point{lon, lat}
		if idxDesc >= 0 && idxDesc < len(row) {
			f.Description = row[idxDesc]
		}
		for i, h := range header {
			if i == idxLat || i == idxLon || i == idxName || i == idxDesc || i >= len(row) {
				continue
			}
			if f.Properties == nil {
				f.Properties = make(map[string]any)
			}
			f.Properties[h] = row[i]
		}
		res.features = append(res.features, f)
	}
	return res, nil
}

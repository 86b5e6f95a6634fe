package geom

import (
	"errors"
	"strings"

	"github.com/paulmach/orb/encoding/wkt"
)

// readWKT accepts one geometry per line, or a single geometry wrapped over
// several lines.
func readWKT(data []byte) (readResult, error) {
	text := strings.TrimSpace(string(data))
	if text == "" {
		return readResult{}, malformed(FormatWKT, errors.New("empty wkt"))
	}
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) > 1 {
		if res, err := readWKTEntries(lines); err == nil {
			return res, nil
		}
	}
	res, err := readWKTEntries([]string{text})
	if err != nil {
		return readResult{}, malformed(FormatWKT, err)
	}
	return res, nil
}

func readWKTEntries(entries []string) (readResult, error) {
	var res readResult
	for i, s := range entries {
		g, err := wkt.Unmarshal(s)
		if err != nil {
			return readResult{}, err
		}
		g, members, err := NormalizeMembers(g)
		if err != nil {
			res.skipped = append(res.skipped, Skipped{Index: i, Name: UnnamedFeature, Reason: err})
			continue
		}
		res.features = append(res.features, Feature{Name: UnnamedFeature, Geometry: g})
		res.addMembers(i, UnnamedFeature, members)
	}
	return res, nil
}

// MarshalWKT writes one WKT geometry per line.
func (fl FeatureList) MarshalWKT() []byte {
	var b strings.Builder
	for _, f := range fl {
		b.WriteString(wkt.MarshalString(f.Geometry))
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

package geom

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// ParseCoordinates parses whitespace separated "lng,lat[,alt]" tuples, as found
// in KML <coordinates> elements. Altitude is dropped and tuples that do not
// start with two finite numbers are skipped.
func ParseCoordinates(text string) []orb.Point {
	pts, _ := parseCoordinates(text)
	return pts
}

// parseCoordinates is ParseCoordinates plus the number of dropped tuples.
func parseCoordinates(text string) (pts []orb.Point, dropped int) {
	// Fields splits on newlines too; KML wraps long coordinate lists
	for _, tuple := range strings.Fields(text) {
		vals := strings.Split(tuple, ",")
		if len(vals) < 2 {
			dropped++
			continue
		}
		lon, err1 := parseFinite(vals[0])
		lat, err2 := parseFinite(vals[1])
		if err1 != nil || err2 != nil {
			dropped++
			continue
		}
		pts = append(pts, orb.Point{lon, lat})
	}
	return pts, dropped
}

// parseFinite is strconv.ParseFloat restricted to finite values; NaN and
// infinities parse as numbers but are not positions.
func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: non-finite coordinate %q", ErrNoGeometry, s)
	}
	return v, nil
}

package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/paulmach/orb"

	"webgis/internal/analysis"
	"webgis/internal/geom"
)

// fitBound returns the extent the view is fitted to: the padded bounds of fl,
// or a window around center sized by the web map zoom level when fl is empty.
func fitBound(fl geom.FeatureList, center orb.Point, zoom int) orb.Bound {
	b, ok := analysis.Bounds(fl.Coordinates())
	if !ok {
		half := 180 / math.Pow(2, float64(max(zoom, 0)))
		return orb.Bound{
			Min: orb.Point{center.Lon() - half, center.Lat() - half/2},
			Max: orb.Point{center.Lon() + half, center.Lat() + half/2},
		}
	}
	pad := math.Max(b.Right()-b.Left(), b.Top()-b.Bottom()) * 0.05
	if pad == 0 {
		pad = 0.01
	}
	return b.Pad(pad)
}

// projection maps lon/lat onto braille dots of a w x h cell map, applying
// zoom around the centre and a pan offset in cells.
type projection struct {
	bound      orb.Bound
	zoom       float64
	offX, offY int
	w, h       int
}

func (m Model) projection(w, h int) projection {
	return projection{bound: m.bound, zoom: m.zoom, offX: m.offsetX, offY: m.offsetY, w: w, h: h}
}

func (p projection) valid() bool {
	return p.bound.Max.X() > p.bound.Min.X() && p.bound.Max.Y() > p.bound.Min.Y() && p.w > 1 && p.h > 1
}

// dot projects pt to dot coordinates.
func (p projection) dot(pt orb.Point) (int, int) {
	nx := (pt.Lon() - p.bound.Min.X()) / (p.bound.Max.X() - p.bound.Min.X())
	ny := (pt.Lat() - p.bound.Min.Y()) / (p.bound.Max.Y() - p.bound.Min.Y())
	zx := 0.5 + (nx-0.5)*p.zoom
	zy := 0.5 + (ny-0.5)*p.zoom
	x := int(zx*float64(p.w*2-1)) + p.offX*2
	y := int((1-zy)*float64(p.h*4-1)) + p.offY*4
	return x, y
}

// lonLat inverts dot for the top-left dot of a cell.
func (p projection) lonLat(cx, cy int) orb.Point {
	zx := float64(cx*2-p.offX*2) / float64(p.w*2-1)
	zy := 1 - float64(cy*4-p.offY*4)/float64(p.h*4-1)
	nx := 0.5 + (zx-0.5)/p.zoom
	ny := 0.5 + (zy-0.5)/p.zoom
	return orb.Point{
		p.bound.Min.X() + nx*(p.bound.Max.X()-p.bound.Min.X()),
		p.bound.Min.Y() + ny*(p.bound.Max.Y()-p.bound.Min.Y()),
	}
}

func (p projection) dots(pts []orb.Point) [][2]int {
	out := make([][2]int, 0, len(pts))
	for _, pt := range pts {
		x, y := p.dot(pt)
		out = append(out, [2]int{x, y})
	}
	return out
}

// draw rasterizes g, honouring the layer toggles.
func (m Model) draw(c *canvas, p projection, g orb.Geometry, k ink) {
	switch v := g.(type) {
	case orb.Point:
		if m.showPoints || k == inkMarker {
			x, y := p.dot(v)
			c.dot(x, y, k)
		}
	case orb.LineString:
		if m.showLines {
			c.path(p.dots(v), false, k)
		}
	case orb.Polygon:
		if !m.showPolys || len(v) == 0 {
			return
		}
		// holes are outlined, not cut out of the fill
		c.fill(p.dots(v[0]), k)
		for _, r := range v {
			c.path(p.dots(r), true, k)
		}
	case orb.MultiPolygon:
		for _, poly := range v {
			m.draw(c, p, poly, k)
		}
	case orb.Collection:
		for _, member := range v {
			m.draw(c, p, member, k)
		}
	}
}

func (m Model) renderMap(w, h int) string {
	c := newCanvas(w, h)
	p := m.projection(w, h)
	if p.valid() {
		markers := len(m.features) - len(m.sess.Markers())
		for i, f := range m.features {
			k := inkFeature
			if i >= markers {
				k = inkMarker
			}
			m.draw(c, p, f.Geometry, k)
		}
	}
	lines := c.rows(inkStyles(m.sess.Basemap().Key))

	if m.hover.active && m.hover.vertex {
		cx, cy := m.hover.dotX/2, m.hover.dotY/4
		if cy >= 0 && cy < h && cx >= 0 && cx < w {
			lines[cy] = overlayCell(c, cy, cx, hoverStyle.Render("◯"), inkStyles(m.sess.Basemap().Key))
		}
	}
	return strings.Join(lines, "\n")
}

// overlayCell re-renders row y of c with cell x replaced by glyph.
func overlayCell(c *canvas, y, x int, glyph string, styles map[ink]lipgloss.Style) string {
	left := &canvas{w: x, h: 1, dots: [][]uint8{c.dots[y][:x]}, ink: [][]ink{c.ink[y][:x]}}
	right := &canvas{w: c.w - x - 1, h: 1, dots: [][]uint8{c.dots[y][x+1:]}, ink: [][]ink{c.ink[y][x+1:]}}
	return left.rows(styles)[0] + glyph + right.rows(styles)[0]
}

// nearestVertex finds the vertex closest to the dot (x, y) on screen.
func (m Model) nearestVertex(p projection, x, y int) (vertex orb.Point, feature, dotX, dotY int, ok bool) {
	best := math.MaxInt
	for i, f := range m.features {
		for _, pt := range geom.Coordinates(f.Geometry) {
			vx, vy := p.dot(pt)
			d := (vx-x)*(vx-x) + (vy-y)*(vy-y)
			if d < best {
				best = d
				vertex, feature, dotX, dotY, ok = pt, i, vx, vy, true
			}
		}
	}
	return vertex, feature, dotX, dotY, ok
}

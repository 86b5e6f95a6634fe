package tui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ink identifies what was drawn into a cell; the highest value wins.
type ink uint8

const (
	inkNone ink = iota
	inkFeature
	inkMarker
)

// brailleDots maps a 2x4 sub-cell position to its bit in the braille block.
var brailleDots = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// canvas is a braille raster with 2x4 dots per terminal cell.
type canvas struct {
	w, h int // cells
	dots [][]uint8
	ink  [][]ink
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, dots: make([][]uint8, h), ink: make([][]ink, h)}
	for y := 0; y < h; y++ {
		c.dots[y] = make([]uint8, w)
		c.ink[y] = make([]ink, w)
	}
	return c
}

// set lights the dot at dot coordinates (x, y).
func (c *canvas) set(x, y int, k ink) {
	if x < 0 || y < 0 {
		return
	}
	cx, cy := x/2, y/4
	if cx >= c.w || cy >= c.h {
		return
	}
	c.dots[cy][cx] |= brailleDots[y%4][x%2]
	c.ink[cy][cx] = max(c.ink[cy][cx], k)
}

// dot draws a 2x2 blob so single points stay visible.
func (c *canvas) dot(x, y int, k ink) {
	c.set(x, y, k)
	c.set(x+1, y, k)
	c.set(x, y+1, k)
	c.set(x+1, y+1, k)
}

// line is Bresenham between two dot coordinates.
func (c *canvas) line(x0, y0, x1, y1 int, k ink) {
	dx, sx := x1-x0, 1
	if dx < 0 {
		dx, sx = -dx, -1
	}
	dy, sy := y1-y0, 1
	if dy < 0 {
		dy, sy = -dy, -1
	}
	dy = -dy
	err := dx + dy
	for {
		c.set(x0, y0, k)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// path draws the segments of pts, closing it when closed is set.
func (c *canvas) path(pts [][2]int, closed bool, k ink) {
	for i := 1; i < len(pts); i++ {
		c.line(pts[i-1][0], pts[i-1][1], pts[i][0], pts[i][1], k)
	}
	if closed && len(pts) > 2 {
		last := pts[len(pts)-1]
		c.line(last[0], last[1], pts[0][0], pts[0][1], k)
	}
}

// fill paints the inside of ring with the even-odd rule, one scanline per dot
// row.
func (c *canvas) fill(ring [][2]int, k ink) {
	if len(ring) < 3 {
		return
	}
	minY, maxY := ring[0][1], ring[0][1]
	for _, p := range ring {
		minY, maxY = min(minY, p[1]), max(maxY, p[1])
	}
	minY, maxY = max(minY, 0), min(maxY, c.h*4-1)

	var xs []int
	for y := minY; y <= maxY; y++ {
		xs = xs[:0]
		for i := range ring {
			a, b := ring[i], ring[(i+1)%len(ring)]
			if a[1] == b[1] {
				continue
			}
			if (y >= a[1] && y < b[1]) || (y >= b[1] && y < a[1]) {
				t := float64(y-a[1]) / float64(b[1]-a[1])
				xs = append(xs, a[0]+int(t*float64(b[0]-a[0])))
			}
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := max(xs[i], 0); x <= min(xs[i+1], c.w*2-1); x++ {
				c.set(x, y, k)
			}
		}
	}
}

// rows renders the canvas, styling each run of cells by its ink.
func (c *canvas) rows(styles map[ink]lipgloss.Style) []string {
	out := make([]string, c.h)
	var (
		row strings.Builder
		run []rune
	)
	for y := 0; y < c.h; y++ {
		row.Reset()
		cur := inkNone
		flush := func() {
			if len(run) == 0 {
				return
			}
			if st, ok := styles[cur]; ok && cur != inkNone {
				row.WriteString(st.Render(string(run)))
			} else {
				row.WriteString(string(run))
			}
			run = run[:0]
		}
		for x := 0; x < c.w; x++ {
			k := c.ink[y][x]
			if k != cur {
				flush()
				cur = k
			}
			r := ' '
			if mask := c.dots[y][x]; mask != 0 {
				r = rune(0x2800 + int(mask))
			}
			run = append(run, r)
		}
		flush()
		out[y] = row.String()
	}
	return out
}

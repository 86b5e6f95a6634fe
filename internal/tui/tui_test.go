package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webgis/internal/config"
	"webgis/internal/session"
)

const squareGeoJSON = `{"type":"FeatureCollection","features":[
 {"type":"Feature","properties":{"name":"Quadra","zona":"A"},"geometry":{"type":"Polygon","coordinates":[[[0,0],[0.01,0],[0.01,0.01],[0,0.01],[0,0]]]}},
 {"type":"Feature","properties":{"name":"Trilha"},"geometry":{"type":"LineString","coordinates":[[0,0],[0.01,0.01]]}}
]}`

func newModel(t *testing.T) (Model, *session.Session) {
	t.Helper()
	sess, err := session.New(config.Default(), zerolog.Nop())
	require.NoError(t, err)
	m := New(sess)
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, sess
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loaded(t *testing.T) (Model, *session.Session) {
	t.Helper()
	m, sess := newModel(t)
	path := filepath.Join(t.TempDir(), "quadra.geojson")
	require.NoError(t, os.WriteFile(path, []byte(squareGeoJSON), 0o600))
	m.loadPath(path)
	return m, sess
}

func TestLoadPath(t *testing.T) {
	m, _ := loaded(t)
	assert.Len(t, m.features, 2)
	assert.True(t, m.showPolys)
	assert.True(t, m.showLines)
	assert.Contains(t, m.status, "features=2")
	assert.Less(t, m.bound.Min.X(), 0.0)
	assert.Greater(t, m.bound.Max.Y(), 0.01)

	m.loadPath(filepath.Join(t.TempDir(), "missing.kml"))
	assert.Contains(t, m.status, "load error")
	assert.Len(t, m.features, 2, "failed load keeps the features")
}

func TestViewRendersFeatures(t *testing.T) {
	m, _ := loaded(t)
	v := m.View()
	assert.Contains(t, v, "webgis")
	assert.Contains(t, v, "OpenStreetMap")
	hasBraille := strings.ContainsFunc(v, func(r rune) bool { return r > 0x2800 && r <= 0x28FF })
	assert.True(t, hasBraille)
}

func TestLayerToggles(t *testing.T) {
	m, _ := loaded(t)
	assert.False(t, m.showPoints, "no points in the document")
	m = send(t, m, key("1"))
	assert.Equal(t, "points: true", m.status)
	m = send(t, m, key("l"))
	assert.False(t, m.showPoints || m.showLines || m.showPolys)
	m = send(t, m, key("l"))
	assert.True(t, m.showPoints && m.showLines && m.showPolys)
}

func TestZoomAndPan(t *testing.T) {
	m, _ := newModel(t)
	m = send(t, m, key("+"))
	assert.InDelta(t, 1.2, m.zoom, 1e-9)
	m = send(t, m, key("-"))
	assert.InDelta(t, 1.0, m.zoom, 1e-9)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, m.offsetX)
	assert.Equal(t, 1, m.offsetY)
}

func TestSummaryPopup(t *testing.T) {
	m, _ := loaded(t)
	m = send(t, m, key("s"))
	assert.True(t, strings.HasPrefix(m.popup, "summary (spherical)"))
	assert.Contains(t, m.popup, "features: 2")
	assert.Contains(t, m.popup, "Quadra: 1.236 km²")

	m = send(t, m, key("s"))
	assert.Empty(t, m.popup)
}

func TestInspect(t *testing.T) {
	m, _ := newModel(t)
	m = send(t, m, key("i"))
	assert.Equal(t, "no feature nearby", m.popup)

	m, _ = loaded(t)
	m = send(t, m, key("i"))
	assert.Contains(t, m.popup, "source: quadra.geojson (geojson)")
	assert.Contains(t, m.popup, "to centre:")

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, m.popup)
}

func TestMarkersBasemapAndClear(t *testing.T) {
	m, sess := loaded(t)
	bound := m.bound

	m = send(t, m, key("m"))
	m = send(t, m, key("m"))
	require.Len(t, sess.Markers(), 2)
	assert.Len(t, m.features, 4)
	assert.Equal(t, bound, m.bound, "markers do not refit a populated view")
	assert.Contains(t, m.status, "Marker 2")
	assert.Contains(t, m.status, "leg=0.000 km")

	m = send(t, m, key("b"))
	assert.Equal(t, "satellite", sess.Basemap().Key)
	assert.Contains(t, m.status, "Satélite")

	m = send(t, m, key("c"))
	assert.Empty(t, m.features)
	assert.Nil(t, sess.Document())
	assert.Equal(t, "map cleared", m.status)
}

func TestHoverDropsMarkerUnderCursor(t *testing.T) {
	m, sess := loaded(t)
	m = send(t, m, tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionMotion})
	require.True(t, m.hover.active)
	require.True(t, m.hover.hasLonLat)
	assert.True(t, m.hover.vertex)

	m = send(t, m, key("m"))
	require.Len(t, sess.Markers(), 1)
	assert.Equal(t, m.hover.lonLat, sess.Markers()[0].Geometry)

	m = send(t, m, tea.MouseMsg{X: 10, Y: 0})
	assert.False(t, m.hover.active)
}

func TestMarkerPrompt(t *testing.T) {
	m, sess := newModel(t)
	m = send(t, m, key("M"))
	require.True(t, m.markerMode)
	lat, lng, desc, err := parseMarker(m.ti.Value())
	require.NoError(t, err, "prompt starts at the view centre")
	assert.InDelta(t, sess.Center().Lat(), lat, 0.01)
	assert.InDelta(t, sess.Center().Lon(), lng, 0.01)
	assert.Empty(t, desc)

	m = send(t, m, key("q"))
	assert.True(t, m.markerMode, "keys go to the prompt")

	m.ti.SetValue("-22.9068, -43.1729, Rio, RJ")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.markerMode)
	require.Len(t, sess.Markers(), 1)
	assert.Equal(t, orb.Point{-43.1729, -22.9068}, sess.Markers()[0].Geometry)
	assert.Equal(t, "Rio, RJ", sess.Markers()[0].Description)
	assert.Contains(t, m.status, `"Rio, RJ"`)

	for _, bad := range []string{"abc", "1", "95,0", "1,x"} {
		m = send(t, m, key("M"))
		m.ti.SetValue(bad)
		m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		assert.True(t, m.markerMode, bad)
		assert.Contains(t, m.status, "marker error", bad)
		m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
		assert.False(t, m.markerMode)
	}
	assert.Len(t, sess.Markers(), 1)
}

func TestLoadSampleKey(t *testing.T) {
	m, sess := newModel(t)
	m = send(t, m, key("e"))
	require.Len(t, m.features, 1)
	assert.Equal(t, "Área de Exemplo", m.features[0].Name)
	assert.Equal(t, session.SampleName, sess.Document().Name)
	assert.True(t, m.showPolys)
	assert.Contains(t, m.status, "loaded: exemplo.geojson")
}

func TestPasteMode(t *testing.T) {
	m, sess := newModel(t)
	m = send(t, m, key("p"))
	require.True(t, m.pasteMode)

	m.ta.SetValue("LINESTRING(-46.64 -23.55,-46.63 -23.54)")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.pasteMode)
	require.Len(t, m.features, 1)
	assert.Equal(t, "LineString", m.features[0].Type())
	assert.Equal(t, "pasted", sess.Document().Name)

	m = send(t, m, key("p"))
	m.ta.SetValue("not a geometry")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.pasteMode)
	assert.Contains(t, m.status, "paste error")

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.pasteMode)
}

func TestAttributes(t *testing.T) {
	m, _ := loaded(t)
	m = send(t, m, key("a"))
	require.True(t, m.showAttrs)

	cols := m.tbl.Columns()
	require.Len(t, cols, len(fixedAttrCols)+1)
	assert.Equal(t, "zona", cols[len(cols)-1].Title)

	rows := m.tbl.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "Quadra", rows[0][1])
	assert.Equal(t, "1.236", rows[0][3])
	assert.Equal(t, "A", rows[0][6])
	assert.Equal(t, "-", rows[1][3])
	assert.Equal(t, "", rows[1][6])

	m, _ = newModel(t)
	m = send(t, m, key("a"))
	assert.False(t, m.showAttrs)
	assert.Equal(t, "no attributes for current dataset", m.status)
}

func TestQuit(t *testing.T) {
	m, _ := newModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestCanvas(t *testing.T) {
	c := newCanvas(2, 1)
	c.set(0, 0, inkFeature)
	c.set(3, 3, inkMarker)
	c.set(-1, 0, inkFeature)
	c.set(4, 0, inkFeature)
	assert.Equal(t, uint8(0x01), c.dots[0][0])
	assert.Equal(t, uint8(0x80), c.dots[0][1])
	assert.Equal(t, inkMarker, c.ink[0][1])
	assert.Equal(t, []string{"⠁⢀"}, c.rows(nil))

	c = newCanvas(4, 2)
	c.fill([][2]int{{0, 0}, {7, 0}, {7, 7}, {0, 7}}, inkFeature)
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			assert.NotZero(t, c.dots[y][x], "cell %d,%d", x, y)
		}
	}
}

func TestProjectionRoundTrip(t *testing.T) {
	p := projection{bound: orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}}, zoom: 1, w: 11, h: 6}
	require.True(t, p.valid())
	x, y := p.dot(orb.Point{0, 10})
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)
	assert.Equal(t, orb.Point{0, 10}, p.lonLat(0, 0))

	x, y = p.dot(orb.Point{10, 0})
	assert.Equal(t, 21, x)
	assert.Equal(t, 23, y)
}

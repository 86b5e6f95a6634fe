package tui

import (
	"fmt"
	"strconv"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.showSidebar {
			m.l.SetSize(sidebarWidth-2, m.layout().contentH-2)
		}
	case tea.KeyMsg:
		// while the file list filters, it owns the keyboard
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.pasteMode {
			return m.updatePaste(msg)
		}
		if m.markerMode {
			return m.updateMarker(msg)
		}
		if done, cmd := m.handleKey(msg.String()); done {
			return m, cmd
		}
	case tea.MouseMsg:
		m.trackHover(msg.X, msg.Y)
	}
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updatePaste(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pasteMode = false
		m.ta.Blur()
		m.status = "view mode"
		return m, nil
	case "enter":
		text := strings.TrimSpace(m.ta.Value())
		if text == "" {
			m.status = "paste: empty"
			return m, nil
		}
		doc, err := m.sess.LoadText("pasted", text)
		if err != nil {
			m.status = "paste error: " + err.Error()
			return m, nil
		}
		m.selPath = ""
		m.showDocument(doc)
		m.pasteMode = false
		m.ta.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

func (m Model) updateMarker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.markerMode = false
		m.ti.Blur()
		m.status = "view mode"
		return m, nil
	case "enter":
		lat, lng, desc, err := parseMarker(m.ti.Value())
		if err != nil {
			m.status = "marker error: " + err.Error()
			return m, nil
		}
		if m.addMarker(orb.Point{lng, lat}, desc) {
			m.markerMode = false
			m.ti.Blur()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

// parseMarker reads "lat,lng[,description]". The description may itself
// contain commas.
func parseMarker(s string) (lat, lng float64, desc string, err error) {
	parts := strings.SplitN(s, ",", 3)
	if len(parts) < 2 {
		return 0, 0, "", fmt.Errorf("want lat,lng[,description], got %q", s)
	}
	if lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64); err != nil {
		return 0, 0, "", fmt.Errorf("lat: %w", err)
	}
	if lng, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err != nil {
		return 0, 0, "", fmt.Errorf("lng: %w", err)
	}
	if len(parts) == 3 {
		desc = strings.TrimSpace(parts[2])
	}
	return lat, lng, desc, nil
}

// handleKey runs a view-mode command. done reports that the key must not
// reach the file list.
func (m *Model) handleKey(key string) (done bool, cmd tea.Cmd) {
	switch key {
	case "ctrl+c", "q":
		return true, tea.Quit
	case "1":
		m.showPoints = !m.showPoints
		m.status = fmt.Sprintf("points: %v", m.showPoints)
	case "2":
		m.showLines = !m.showLines
		m.status = fmt.Sprintf("lines: %v", m.showLines)
	case "3":
		m.showPolys = !m.showPolys
		m.status = fmt.Sprintf("polys: %v", m.showPolys)
	case "l":
		all := m.showPoints && m.showLines && m.showPolys
		m.showPoints, m.showLines, m.showPolys = !all, !all, !all
		m.status = fmt.Sprintf("layers: pts=%v ls=%v poly=%v", m.showPoints, m.showLines, m.showPolys)
	case "+", "=":
		if m.zoom < 64 {
			m.zoom *= 1.2
			m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
		}
	case "-", "_":
		if m.zoom > 0.05 {
			m.zoom /= 1.2
			m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
		}
	case "tab":
		m.showSidebar = !m.showSidebar
		if m.showSidebar {
			m.refreshDir()
			m.l.SetSize(sidebarWidth-2, m.layout().contentH-2)
		}
	case "p":
		m.pasteMode = true
		m.ta.SetValue("")
		m.ta.Focus()
		m.status = "paste mode"
		return true, nil
	case "h":
		m.helpVisible = !m.helpVisible
	case "a":
		m.showAttrs = !m.showAttrs
		if m.showAttrs {
			m.refreshAttrs()
		}
	case "i":
		m.popup, m.status = m.inspect()
	case "s":
		if strings.HasPrefix(m.popup, summaryTitle) {
			m.popup = ""
		} else {
			m.popup = m.summary()
		}
		m.status = "summary"
	case "m":
		m.addMarker(m.cursorLonLat(), "")
	case "M":
		at := m.cursorLonLat()
		m.markerMode = true
		m.ti.SetValue(fmt.Sprintf("%.5f,%.5f,", at.Lat(), at.Lon()))
		m.ti.CursorEnd()
		m.ti.Focus()
		m.status = "marker: lat,lng[,description]  Enter to add, Esc to cancel"
		return true, nil
	case "e":
		doc, err := m.sess.LoadSample()
		if err != nil {
			m.status = "sample error: " + err.Error()
			break
		}
		m.selPath = ""
		m.showDocument(doc)
	case "b":
		b := m.sess.CycleBasemap()
		m.status = fmt.Sprintf("basemap: %s (%s)", b.Name, b.Attribution)
	case "c":
		m.sess.Clear()
		m.selPath = ""
		m.popup = ""
		m.showAttrs = false
		m.resetView()
		m.syncFeatures(true)
		m.status = "map cleared"
	case "esc":
		m.popup = ""
	case "enter":
		if m.showSidebar {
			if it, ok := m.l.SelectedItem().(fileItem); ok {
				m.loadPath(it.path)
			}
			return true, nil
		}
	case "up":
		m.offsetY--
	case "down":
		m.offsetY++
	case "left":
		m.offsetX -= 2
	case "right":
		m.offsetX += 2
	}
	return false, nil
}

// cursorLonLat is the hovered position, or the view centre without a mouse.
func (m *Model) cursorLonLat() orb.Point {
	if m.hover.hasLonLat {
		return m.hover.lonLat
	}
	lo := m.layout()
	return m.projection(lo.mapW, lo.mapH).lonLat(lo.mapW/2, lo.mapH/2)
}

// addMarker adds a session marker at the given position and reports whether
// it was accepted.
func (m *Model) addMarker(at orb.Point, desc string) bool {
	f, err := m.sess.AddMarker(at.Lon(), at.Lat(), desc)
	if err != nil {
		m.status = "marker error: " + err.Error()
		return false
	}
	m.syncFeatures(len(m.features) == 0)
	m.status = fmt.Sprintf("%s at lat=%.5f lng=%.5f", f.Name, at.Lat(), at.Lon())
	if desc != "" {
		m.status += " " + strconv.Quote(desc)
	}
	if km, ok := m.sess.LastLeg(); ok {
		m.status += fmt.Sprintf("  leg=%.3f km", km)
	}
	return true
}

func (m *Model) trackHover(x, y int) {
	lo := m.layout()
	if x < lo.mapX || x >= lo.mapX+lo.mapW || y < lo.mapY || y >= lo.mapY+lo.mapH {
		m.hover.active = false
		return
	}
	p := m.projection(lo.mapW, lo.mapH)
	h := hoverState{active: true, cellX: x - lo.mapX, cellY: y - lo.mapY}
	if p.valid() {
		h.hasLonLat = true
		h.lonLat = p.lonLat(h.cellX, h.cellY)
		if _, _, dx, dy, ok := m.nearestVertex(p, h.cellX*2, h.cellY*4); ok {
			h.vertex, h.dotX, h.dotY = true, dx, dy
		}
	}
	m.hover = h
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// layout is the screen geometry shared by View and mouse handling.
type layout struct {
	contentW, contentH int
	mapX, mapY         int
	mapW, mapH         int
}

func (m Model) layout() layout {
	const headerHeight, footerHeight = 1, 2
	lo := layout{
		contentW: max(10, m.width),
		contentH: max(4, m.height-headerHeight-footerHeight),
		mapY:     headerHeight,
	}
	if m.showSidebar {
		lo.mapX = sidebarWidth + 1
	}
	lo.mapW = max(10, lo.contentW-lo.mapX-1)
	lo.mapH = lo.contentH
	return lo
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	lo := m.layout()

	header := titleStyle.Render(" webgis ─ terminal feature viewer ")
	if b := m.sess.Basemap(); b.Name != "" {
		header += dimStyle.Render(" " + b.Name)
	}
	header = lipgloss.NewStyle().Width(lo.contentW).Render(header)

	var mapView string
	switch {
	case m.showAttrs:
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		boxW := min(lo.mapW, max(32, colW))
		m.tbl.SetWidth(boxW - 4)
		m.tbl.SetHeight(min(lo.mapH-2, 20))
		mapView = lipgloss.Place(lo.mapW, lo.mapH, lipgloss.Center, lipgloss.Center, boxStyle.Width(boxW).Render(m.tbl.View()))
	case m.pasteMode:
		m.ta.SetWidth(lo.mapW)
		m.ta.SetHeight(min(lo.mapH, 12))
		mapView = lipgloss.NewStyle().Width(lo.mapW).Height(lo.mapH).Render(m.ta.View())
	default:
		mapView = lipgloss.NewStyle().Width(lo.mapW).Height(lo.mapH).Render(m.renderMap(lo.mapW, lo.mapH))
	}

	popup := ""
	if m.popup != "" && !m.showAttrs {
		box := boxStyle.MaxWidth(max(20, min(52, lo.contentW/2))).Render(m.popup)
		popup = lipgloss.Place(lo.contentW, lo.contentH, lipgloss.Left, lipgloss.Center, box)
	}

	body := mapView
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, lo.contentH-2)
		sidebar := lipgloss.NewStyle().Width(sidebarWidth).Render(m.l.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	}

	status := dimStyle.Render(" " + m.status + " ")
	if strings.Contains(m.status, "error") {
		status = errStyle.Render(" " + m.status + " ")
	}
	if m.markerMode {
		status = m.ti.View() + " "
	}
	coords := ""
	if m.hover.hasLonLat {
		coords = dimStyle.Render(fmt.Sprintf("  lat=%.5f lng=%.5f  ", m.hover.lonLat.Lat(), m.hover.lonLat.Lon()))
	}
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, status, m.renderHelp())
	spacerW := max(0, lo.contentW-lipgloss.Width(left)-lipgloss.Width(coords))
	right := lipgloss.Place(spacerW+lipgloss.Width(coords), 1, lipgloss.Right, lipgloss.Center, coords)
	footer := lipgloss.NewStyle().Width(lo.contentW).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, left, right))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, popup, body, footer)
	return appStyle.Width(lo.contentW).Height(m.height).Render(ui)
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"↑↓←→ pan",
		"+/- zoom",
		"Tab files",
		"p paste",
		"a attrs",
		"i inspect",
		"s summary",
		"m marker",
		"M marker at…",
		"e sample",
		"b basemap",
		"c clear",
		"1/2/3/l layers",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}

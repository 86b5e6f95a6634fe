package tui

import "github.com/charmbracelet/lipgloss"

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	borderCol = lipgloss.Color("#243141")
	markerFg  = lipgloss.Color("#EF4444")
	hoverFg   = lipgloss.Color("#FFA500")

	appStyle   = lipgloss.NewStyle().Foreground(baseFg)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(baseDimFg)
	hoverStyle = lipgloss.NewStyle().Foreground(hoverFg)
	errStyle   = lipgloss.NewStyle().Foreground(markerFg)
)

// basemapInk tints feature strokes per basemap, standing in for the tiles a
// terminal cannot draw.
var basemapInk = map[string]lipgloss.TerminalColor{
	"osm":       lipgloss.Color("#60A5FA"),
	"satellite": lipgloss.Color("#FACC15"),
	"terrain":   lipgloss.Color("#4ADE80"),
	"dark":      lipgloss.Color("#E6E6E6"),
}

func inkStyles(basemap string) map[ink]lipgloss.Style {
	fg, ok := basemapInk[basemap]
	if !ok {
		fg = baseFg
	}
	return map[ink]lipgloss.Style{
		inkFeature: lipgloss.NewStyle().Foreground(fg),
		inkMarker:  lipgloss.NewStyle().Foreground(markerFg).Bold(true),
	}
}

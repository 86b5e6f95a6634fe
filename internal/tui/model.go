// Package tui is the terminal map viewer.
package tui

import (
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	textinput "github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"

	"webgis/internal/geom"
	"webgis/internal/session"
)

const sidebarWidth = 28

type hoverState struct {
	active       bool
	cellX, cellY int
	// dot coordinates of the nearest vertex
	vertex    bool
	dotX      int
	dotY      int
	hasLonLat bool
	lonLat    orb.Point
}

type Model struct {
	sess *session.Session

	width  int
	height int

	showSidebar bool
	helpVisible bool

	zoom    float64
	offsetX int
	offsetY int

	status string

	// File explorer
	cwd     string
	l       list.Model
	selPath string

	// features currently on screen and the extent they are fitted to
	features geom.FeatureList
	bound    orb.Bound

	pasteMode bool
	ta        textarea.Model

	// marker prompt: "lat,lng[,description]"
	markerMode bool
	ti         textinput.Model

	showPoints bool
	showLines  bool
	showPolys  bool

	// inspect or summary popup
	popup string

	hover hoverState

	showAttrs bool
	tbl       table.Model
}

// New returns a viewer over sess listing files of the working directory.
func New(sess *session.Session) Model {
	m := Model{
		sess:        sess,
		helpVisible: true,
		zoom:        1.0,
		status:      "webgis ready",
		showPoints:  true,
		showLines:   true,
		showPolys:   true,
	}
	m.cwd, _ = os.Getwd()
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)

	m.ta = textarea.New()
	m.ta.Placeholder = "Paste WKT, GeoJSON or KML here. Enter to render, Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)

	m.ti = textinput.New()
	m.ti.Prompt = "marker> "
	m.ti.Placeholder = "lat,lng[,description]"
	m.ti.Width = 48

	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	m.syncFeatures(true)
	return m
}

// NewWithPath preloads a file at launch.
func NewWithPath(sess *session.Session, path string) Model {
	m := New(sess)
	m.loadPath(path)
	return m
}

func (m Model) Init() tea.Cmd { return nil }

// syncFeatures refreshes the on-screen features from the session, refitting
// the view to them when refit is set.
func (m *Model) syncFeatures(refit bool) {
	m.features = m.sess.Features()
	if refit {
		m.bound = fitBound(m.features, m.sess.Center(), m.sess.Zoom())
		m.hover = hoverState{}
	}
	if m.showAttrs {
		m.refreshAttrs()
	}
}

func (m *Model) resetView() {
	m.zoom = 1.0
	m.offsetX, m.offsetY = 0, 0
}

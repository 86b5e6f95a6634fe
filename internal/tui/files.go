package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	list "github.com/charmbracelet/bubbles/list"

	"webgis/internal/geom"
)

var supportedExt = []string{".geojson", ".json", ".kml", ".csv", ".wkt"}

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var items []list.Item
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if slices.Contains(supportedExt, ext) {
			items = append(items, fileItem{title: e.Name(), desc: ext, path: filepath.Join(m.cwd, e.Name())})
		}
	}
	// os.ReadDir is already sorted by name
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no supported files in current directory"
	}
}

// loadPath loads a file into the session and fits the view to it.
func (m *Model) loadPath(p string) {
	doc, err := m.sess.Load(p)
	if err != nil {
		m.status = "load error: " + err.Error()
		return
	}
	m.selPath = p
	m.showDocument(doc)
}

// showDocument fits the view to a freshly loaded document and turns on the
// layers it has.
func (m *Model) showDocument(doc *geom.Document) {
	m.resetView()
	m.popup = ""
	m.syncFeatures(true)

	counts := doc.Features.Counts()
	m.showPolys = counts["Polygon"]+counts["MultiPolygon"]+counts["GeometryCollection"] > 0
	m.showLines = counts["LineString"]+counts["GeometryCollection"] > 0
	m.showPoints = counts["Point"]+counts["GeometryCollection"] > 0 || !m.showPolys && !m.showLines
	m.status = fmt.Sprintf("loaded: %s  %s  features=%d skipped=%d", doc.Name, doc.Format, len(doc.Features), len(doc.Skipped))
	if doc.Dropped > 0 {
		m.status += fmt.Sprintf(" dropped=%d", doc.Dropped)
	}
	if len(doc.Members) > 0 {
		m.status += fmt.Sprintf(" members_dropped=%d", len(doc.Members))
	}
}

package tui

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strconv"

	table "github.com/charmbracelet/bubbles/table"

	"webgis/internal/analysis"
	"webgis/internal/geom"
)

const maxColWidth = 24

var fixedAttrCols = []table.Column{
	{Title: "#", Width: 4},
	{Title: "name", Width: 18},
	{Title: "type", Width: 12},
	{Title: "area km²", Width: 10},
	{Title: "len km", Width: 10},
	{Title: "centroid", Width: 22},
}

// refreshAttrs rebuilds the attribute table from the on-screen features.
func (m *Model) refreshAttrs() {
	if len(m.features) == 0 {
		m.showAttrs = false
		m.status = "no attributes for current dataset"
		return
	}
	cols, rows := buildAttributes(m.features, m.sess.Analyzer())
	// clear rows first so the table never sees rows wider than its columns
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(cols)
	m.tbl.SetRows(rows)
}

// buildAttributes returns one row per feature: the measurements followed by
// the union of property keys in first-seen order.
func buildAttributes(fl geom.FeatureList, a *analysis.Analyzer) ([]table.Column, []table.Row) {
	var keys []string
	for _, f := range fl {
		own := make([]string, 0, len(f.Properties))
		for k := range f.Properties {
			if k != "name" && k != "description" && !slices.Contains(keys, k) {
				own = append(own, k)
			}
		}
		sort.Strings(own)
		keys = append(keys, own...)
	}

	cols := slices.Clone(fixedAttrCols)
	for _, k := range keys {
		cols = append(cols, table.Column{Title: k, Width: min(len(k)+2, maxColWidth)})
	}

	rows := make([]table.Row, 0, len(fl))
	for i, f := range fl {
		r := a.Analyze(f)
		row := table.Row{
			strconv.Itoa(i + 1),
			f.Name,
			f.Type(),
			formatKm(r.AreaKm2),
			formatKm(r.PerimeterOrLengthKm),
			"",
		}
		if r.Centroid != nil {
			row[5] = fmt.Sprintf("%.5f, %.5f", r.Centroid.Lat(), r.Centroid.Lon())
		}
		for _, k := range keys {
			row = append(row, formatProperty(f.Properties[k]))
		}
		rows = append(rows, row)
	}
	return cols, rows
}

func formatKm(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 3, 64)
}

func formatProperty(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		bs, _ := json.Marshal(t)
		return string(bs)
	}
}

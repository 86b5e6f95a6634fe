package geom

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/paulmach/orb"
)

// kmlNode is a generic element tree; KML nests Placemarks at arbitrary depth
// under Document and Folder elements.
type kmlNode struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Text    string     `xml:",chardata"`
	Nodes   []kmlNode  `xml:",any"`
}

func (n *kmlNode) child(local string) *kmlNode {
	for i := range n.Nodes {
		if n.Nodes[i].XMLName.Local == local {
			return &n.Nodes[i]
		}
	}
	return nil
}

// find returns the first descendant (or n itself) with the given name.
func (n *kmlNode) find(local string) *kmlNode {
	if n.XMLName.Local == local {
		return n
	}
	for i := range n.Nodes {
		if f := n.Nodes[i].find(local); f != nil {
			return f
		}
	}
	return nil
}

func (n *kmlNode) attr(local string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func (n *kmlNode) childText(local string) string {
	if c := n.child(local); c != nil {
		return strings.TrimSpace(c.Text)
	}
	return ""
}

// placemarkGeometries is the detection order for a Placemark's geometry.
var placemarkGeometries = []string{"Polygon", "LineString", "Point", "MultiGeometry"}

// kmlUnsupported lists KML geometry elements that are recognized but not read.
var kmlUnsupported = map[string]bool{
	"Model":      true,
	"Track":      true,
	"MultiTrack": true,
	"LinearRing": true,
}

// kmlReader accumulates coordinate tuples dropped while reading, and the
// MultiGeometry members dropped from the current Placemark.
type kmlReader struct {
	dropped int
	members []DroppedMember
}

func readKML(data []byte) (readResult, error) {
	var root kmlNode
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = true
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return readResult{}, malformed(FormatKML, err)
	}
	if err := trailingContent(dec); err != nil {
		return readResult{}, malformed(FormatKML, err)
	}
	var placemarks []*kmlNode
	collectPlacemarks(&root, &placemarks)

	var (
		r   kmlReader
		res readResult
	)
	for i, pm := range placemarks {
		name := pm.childText("name")
		if name == "" {
			name = UnnamedFeature
		}
		r.members = nil
		g, err := r.placemarkGeometry(pm)
		if err != nil {
			res.skipped = append(res.skipped, Skipped{Index: i, Name: name, Reason: err})
			continue
		}
		res.features = append(res.features, Feature{
			Name:        name,
			Description: pm.childText("description"),
			Geometry:    g,
			Properties:  extendedData(pm),
		})
		res.addMembers(i, name, r.members)
	}
	res.dropped = r.dropped
	return res, nil
}

// trailingContent fails on anything but comments, processing instructions and
// whitespace after the root element.
func trailingContent(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		line, _ := dec.InputPos()
		switch t := tok.(type) {
		case xml.Comment, xml.ProcInst:
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return fmt.Errorf("line %d: text after root element", line)
			}
		case xml.StartElement:
			return fmt.Errorf("line %d: element <%s> after root element", line, t.Name.Local)
		default:
			return fmt.Errorf("line %d: unexpected %T after root element", line, t)
		}
	}
}

func collectPlacemarks(n *kmlNode, out *[]*kmlNode) {
	if n.XMLName.Local == "Placemark" {
		*out = append(*out, n)
		return
	}
	for i := range n.Nodes {
		collectPlacemarks(&n.Nodes[i], out)
	}
}

// placemarkGeometry takes the first geometry element present, in detection
// order. Siblings of lower precedence are ignored.
func (r *kmlReader) placemarkGeometry(pm *kmlNode) (orb.Geometry, error) {
	for _, kind := range placemarkGeometries {
		if el := pm.child(kind); el != nil {
			if g := r.geometry(el); g != nil {
				return g, nil
			}
			return nil, ErrEmptyGeometry
		}
	}
	for _, c := range pm.Nodes {
		if kmlUnsupported[c.XMLName.Local] {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedGeometry, c.XMLName.Local)
		}
	}
	return nil, ErrNoGeometry
}

func (r *kmlReader) geometry(el *kmlNode) orb.Geometry {
	switch el.XMLName.Local {
	case "Point":
		return BuildPoint(r.coordinates(el))
	case "LineString":
		return BuildLineString(r.coordinates(el))
	case "Polygon":
		// inner boundaries are not read
		outer := el.child("outerBoundaryIs")
		if outer == nil {
			return nil
		}
		return BuildPolygon(r.coordinates(outer))
	case "MultiGeometry":
		var members []orb.Geometry
		for i := range el.Nodes {
			child := &el.Nodes[i]
			mark := len(r.members)
			g := r.geometry(child)
			if g == nil {
				// a member that fails as a whole is reported once
				r.members = append(r.members[:mark], DroppedMember{
					Member: i,
					Type:   child.XMLName.Local,
					Reason: memberReason(child),
				})
				continue
			}
			members = append(members, g)
		}
		return BuildCollection(members...)
	}
	return nil
}

func memberReason(el *kmlNode) error {
	switch el.XMLName.Local {
	case "Point", "LineString", "Polygon", "MultiGeometry":
		return ErrEmptyGeometry
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedGeometry, el.XMLName.Local)
}

func (r *kmlReader) coordinates(el *kmlNode) []orb.Point {
	c := el.find("coordinates")
	if c == nil {
		return nil
	}
	pts, dropped := parseCoordinates(c.Text)
	r.dropped += dropped
	return pts
}

// extendedData reads <Data name=""><value/></Data> and <SimpleData name="">
// pairs into properties.
func extendedData(pm *kmlNode) map[string]any {
	ed := pm.child("ExtendedData")
	if ed == nil {
		return nil
	}
	props := make(map[string]any)
	var visit func(n *kmlNode)
	visit = func(n *kmlNode) {
		switch n.XMLName.Local {
		case "Data":
			if key := n.attr("name"); key != "" {
				props[key] = n.childText("value")
			}
			return
		case "SimpleData":
			if key := n.attr("name"); key != "" {
				props[key] = strings.TrimSpace(n.Text)
			}
			return
		}
		for i := range n.Nodes {
			visit(&n.Nodes[i])
		}
	}
	visit(ed)
	if len(props) == 0 {
		return nil
	}
	return props
}

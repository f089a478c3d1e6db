// Package render draws a mind map onto a 2D surface.
//
// Every draw is a full redraw: the surface is cleared and the whole visible
// tree is painted again, connections first and nodes on top. Surfaces exist
// for raster images (gg), SVG documents (svgo) and terminal cell grids.
package render

import (
	"image/color"

	"github.com/vanderheijden86/mindcanvas/pkg/metrics"
	"github.com/vanderheijden86/mindcanvas/pkg/mindmap"
)

// Surface is a 2D drawing target in canvas pixel coordinates.
type Surface interface {
	Size() (w, h float64)
	Clear()
	Line(x1, y1, x2, y2 float64, c color.Color, width float64)
	Circle(cx, cy, r float64, fill, stroke color.Color, strokeWidth float64)
	// Text draws s centred on (cx, cy).
	Text(s string, cx, cy, size float64, c color.Color)
}

var (
	colorHighlight = color.RGBA{0xff, 0x57, 0x22, 0xff}
	colorEdge      = color.RGBA{0x66, 0x66, 0x66, 0xff}
	colorOutline   = color.RGBA{0x33, 0x33, 0x33, 0xff}
	colorLabel     = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

const (
	edgeWidth    = 2.0
	outlineWidth = 2.0
)

// Renderer paints maps with a fixed palette.
type Renderer struct {
	Highlight color.Color // fill of the selected node
	Edge      color.Color
	Outline   color.Color
	Label     color.Color
}

// New returns a Renderer with the default palette.
func New() *Renderer {
	return &Renderer{
		Highlight: colorHighlight,
		Edge:      colorEdge,
		Outline:   colorOutline,
		Label:     colorLabel,
	}
}

// Redraw clears s and paints m. selected is the ID of the highlighted node,
// or mindmap.NoParent for none.
func (r *Renderer) Redraw(s Surface, m *mindmap.Map, selected int) {
	defer metrics.Timer(metrics.Redraw)()
	s.Clear()
	root := m.Root()
	if root == nil {
		return
	}
	r.drawConnections(s, m, root)
	r.drawNode(s, m, root, selected)
}

func (r *Renderer) drawConnections(s Surface, m *mindmap.Map, n *mindmap.Node) {
	if !n.IsExpanded {
		return
	}
	for _, child := range m.ChildrenOf(n) {
		s.Line(n.X, n.Y, child.X, child.Y, r.Edge, edgeWidth)
		r.drawConnections(s, m, child)
	}
}

func (r *Renderer) drawNode(s Surface, m *mindmap.Map, n *mindmap.Node, selected int) {
	fill := ParseColor(n.Color)
	if n.ID == selected {
		fill = r.Highlight
	}
	s.Circle(n.X, n.Y, mindmap.NodeRadius, fill, r.Outline, outlineWidth)
	s.Text(n.Text, n.X, n.Y, n.FontSize, r.Label)

	if !n.IsExpanded {
		return
	}
	for _, child := range m.ChildrenOf(n) {
		r.drawNode(s, m, child, selected)
	}
}

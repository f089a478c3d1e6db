package render

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
)

// SVGSurface renders into an SVG document held in memory. Clear starts a
// new document, so only the last full redraw is written out.
type SVGSurface struct {
	width, height int
	background    color.Color
	buf           bytes.Buffer
	canvas        *svg.SVG
}

// NewSVGSurface returns a w x h vector surface.
func NewSVGSurface(w, h int, background color.Color) *SVGSurface {
	s := &SVGSurface{width: w, height: h, background: background}
	s.Clear()
	return s
}

func (s *SVGSurface) Size() (float64, float64) {
	return float64(s.width), float64(s.height)
}

func (s *SVGSurface) Clear() {
	s.buf.Reset()
	s.canvas = svg.New(&s.buf)
	s.canvas.Start(s.width, s.height)
	if s.background != nil {
		s.canvas.Rect(0, 0, s.width, s.height, fmt.Sprintf("fill:%s", css(s.background)))
	}
}

func (s *SVGSurface) Line(x1, y1, x2, y2 float64, c color.Color, width float64) {
	s.canvas.Line(px(x1), px(y1), px(x2), px(y2),
		fmt.Sprintf("stroke:%s;stroke-width:%g", css(c), width))
}

func (s *SVGSurface) Circle(cx, cy, r float64, fill, stroke color.Color, strokeWidth float64) {
	s.canvas.Circle(px(cx), px(cy), px(r),
		fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%g", css(fill), css(stroke), strokeWidth))
}

func (s *SVGSurface) Text(str string, cx, cy, size float64, c color.Color) {
	s.canvas.Text(px(cx), px(cy), str,
		fmt.Sprintf("fill:%s;font-size:%gpx;font-family:Arial,sans-serif;text-anchor:middle;dominant-baseline:central", css(c), size))
}

// WriteTo closes the document and copies it to w.
func (s *SVGSurface) WriteTo(w io.Writer) (int64, error) {
	s.canvas.End()
	return io.Copy(w, &s.buf)
}

func px(v float64) int {
	return int(math.Round(v))
}

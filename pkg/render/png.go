package render

import (
	"image"
	"image/color"
	"io"
	"sync"

	"git.sr.ht/~sbinet/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	fontOnce sync.Once
	fontTTF  *truetype.Font
)

func regularFont() *truetype.Font {
	fontOnce.Do(func() {
		f, err := truetype.Parse(goregular.TTF)
		if err == nil {
			fontTTF = f
		}
	})
	return fontTTF
}

// PNGSurface draws onto an in-memory RGBA image.
type PNGSurface struct {
	dc         *gg.Context
	background color.Color
	faces      map[float64]font.Face
}

// MaxSide is the largest width or height NewPNGSurface allocates.
const MaxSide = 16384

// NewPNGSurface returns a w x h raster surface, each side clamped to
// [1, MaxSide]. A nil background clears to transparent.
func NewPNGSurface(w, h int, background color.Color) *PNGSurface {
	w = min(max(w, 1), MaxSide)
	h = min(max(h, 1), MaxSide)
	return &PNGSurface{
		dc:         gg.NewContext(w, h),
		background: background,
		faces:      make(map[float64]font.Face),
	}
}

func (s *PNGSurface) Size() (float64, float64) {
	return float64(s.dc.Width()), float64(s.dc.Height())
}

func (s *PNGSurface) Clear() {
	if s.background == nil {
		s.dc.SetColor(color.Transparent)
	} else {
		s.dc.SetColor(s.background)
	}
	s.dc.Clear()
}

func (s *PNGSurface) Line(x1, y1, x2, y2 float64, c color.Color, width float64) {
	s.dc.SetColor(c)
	s.dc.SetLineWidth(width)
	s.dc.DrawLine(x1, y1, x2, y2)
	s.dc.Stroke()
}

func (s *PNGSurface) Circle(cx, cy, r float64, fill, stroke color.Color, strokeWidth float64) {
	s.dc.DrawCircle(cx, cy, r)
	s.dc.SetColor(fill)
	s.dc.FillPreserve()
	s.dc.SetColor(stroke)
	s.dc.SetLineWidth(strokeWidth)
	s.dc.Stroke()
}

func (s *PNGSurface) Text(str string, cx, cy, size float64, c color.Color) {
	s.dc.SetFontFace(s.face(size))
	s.dc.SetColor(c)
	s.dc.DrawStringAnchored(str, cx, cy, 0.5, 0.5)
}

// face returns a cached face for size px, falling back to the fixed 7x13
// bitmap font when the TrueType font is unavailable.
func (s *PNGSurface) face(size float64) font.Face {
	if f, ok := s.faces[size]; ok {
		return f
	}
	var f font.Face = basicfont.Face7x13
	if ttf := regularFont(); ttf != nil && size > 0 {
		f = truetype.NewFace(ttf, &truetype.Options{Size: size, DPI: 72})
	}
	s.faces[size] = f
	return f
}

// Image returns the drawn image.
func (s *PNGSurface) Image() image.Image {
	return s.dc.Image()
}

// EncodePNG writes the image as PNG.
func (s *PNGSurface) EncodePNG(w io.Writer) error {
	return s.dc.EncodePNG(w)
}

// SavePNG writes the image to path.
func (s *PNGSurface) SavePNG(path string) error {
	return s.dc.SavePNG(path)
}

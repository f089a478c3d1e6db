package render

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/vanderheijden86/mindcanvas/pkg/mindmap"
)

var fallbackFill = mustHex(mindmap.DefaultColor)

func mustHex(s string) color.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(fmt.Sprintf("render: bad builtin colour %q: %v", s, err))
	}
	return c
}

// ParseColor converts a "#rrggbb" (or "#rgb") node colour. Anything
// unparseable falls back to the default node colour.
func ParseColor(s string) color.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return fallbackFill
	}
	return c
}

// Hex formats c as "#rrggbb". ok is false for fully transparent colours.
func Hex(c color.Color) (string, bool) {
	if c == nil {
		return "", false
	}
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return "", false
	}
	return cf.Clamped().Hex(), true
}

// css formats c for SVG style attributes.
func css(c color.Color) string {
	if h, ok := Hex(c); ok {
		return h
	}
	return "none"
}

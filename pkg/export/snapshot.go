package export

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/mindcanvas/pkg/debug"
	"github.com/vanderheijden86/mindcanvas/pkg/metrics"
	"github.com/vanderheijden86/mindcanvas/pkg/mindmap"
	"github.com/vanderheijden86/mindcanvas/pkg/render"
)

// SnapshotOptions controls picture export.
type SnapshotOptions struct {
	// Paths to write; the extension (.png or .svg) picks the format. A path
	// without an extension gets .svg.
	Paths []string
	// Width and Height of the picture. Zero fits the visible tree plus
	// Padding on every side.
	Width, Height int
	Padding       float64
	// Background fill; nil leaves PNGs transparent and SVGs unfilled.
	Background color.Color
	// Selected node to highlight, or mindmap.NoParent.
	Selected int
	Renderer *render.Renderer
}

const defaultPadding = 40.0

// SaveSnapshot renders m once per path. Formats are rendered concurrently,
// each on its own surface. It returns the written paths in input order.
func SaveSnapshot(ctx context.Context, m *mindmap.Map, opts SnapshotOptions) ([]string, error) {
	defer metrics.Timer(metrics.PictureExport)()
	if m.Empty() {
		return nil, fmt.Errorf("no mind map to export")
	}
	if len(opts.Paths) == 0 {
		return nil, fmt.Errorf("output path is required")
	}
	if opts.Renderer == nil {
		opts.Renderer = render.New()
	}

	paths := make([]string, len(opts.Paths))
	formats := make([]string, len(opts.Paths))
	for i, p := range opts.Paths {
		path, format, err := resolveFormat(p)
		if err != nil {
			return nil, err
		}
		paths[i], formats[i] = path, format
	}

	v, err := frame(m, opts)
	if err != nil {
		return nil, err
	}
	debug.Log("export: %d picture(s) at %dx%d, offset (%.0f,%.0f), scale %g", len(paths), v.w, v.h, v.dx, v.dy, v.scale)

	g, ctx := errgroup.WithContext(ctx)
	for i := range paths {
		path, format := paths[i], formats[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("create parent dir: %w", err)
			}
			switch format {
			case "png":
				return renderPNG(path, m, opts, v)
			default:
				return renderSVG(path, m, opts, v)
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func resolveFormat(path string) (string, string, error) {
	if path == "" {
		return "", "", fmt.Errorf("output path is required")
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return path, "png", nil
	case ".svg":
		return path, "svg", nil
	case "":
		return path + ".svg", "svg", nil
	default:
		return "", "", fmt.Errorf("unsupported format %q (want svg or png)", strings.TrimPrefix(ext, "."))
	}
}

// MaxPictureSide bounds both picture dimensions. Fitted frames larger than
// this are scaled down; explicit sizes above it are rejected.
const MaxPictureSide = render.MaxSide

// ErrPictureTooLarge is returned for explicit sizes above MaxPictureSide or
// trees whose extent cannot be measured.
var ErrPictureTooLarge = errors.New("picture too large")

// view maps canvas coordinates to picture pixels: p = (c + d) * scale.
type view struct {
	w, h   int
	dx, dy float64
	scale  float64
}

// frame returns the picture size and the transform applied to canvas
// coordinates. Explicit sizes draw the canvas as is.
func frame(m *mindmap.Map, opts SnapshotOptions) (view, error) {
	if opts.Width > 0 && opts.Height > 0 {
		if opts.Width > MaxPictureSide || opts.Height > MaxPictureSide {
			return view{}, fmt.Errorf("%w: %dx%d exceeds %d", ErrPictureTooLarge, opts.Width, opts.Height, MaxPictureSide)
		}
		return view{w: opts.Width, h: opts.Height, scale: 1}, nil
	}
	pad := opts.Padding
	if pad <= 0 {
		pad = defaultPadding
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	m.Walk(func(n *mindmap.Node, _ int) bool {
		minX, maxX = math.Min(minX, n.X), math.Max(maxX, n.X)
		minY, maxY = math.Min(minY, n.Y), math.Max(maxY, n.Y)
		return n.IsExpanded
	})
	r := mindmap.NodeRadius + pad
	spanW := maxX - minX + 2*r
	spanH := maxY - minY + 2*r
	if math.IsInf(spanW, 0) || math.IsInf(spanH, 0) || math.IsNaN(spanW) || math.IsNaN(spanH) {
		return view{}, fmt.Errorf("%w: tree extent out of range", ErrPictureTooLarge)
	}

	scale := 1.0
	if longest := math.Max(spanW, spanH); longest > MaxPictureSide {
		scale = MaxPictureSide / longest
	}
	v := view{
		w:     min(int(math.Ceil(spanW*scale)), MaxPictureSide),
		h:     min(int(math.Ceil(spanH*scale)), MaxPictureSide),
		dx:    r - minX,
		dy:    r - minY,
		scale: scale,
	}
	return v, nil
}

func renderPNG(path string, m *mindmap.Map, opts SnapshotOptions, v view) error {
	s := render.NewPNGSurface(v.w, v.h, opts.Background)
	opts.Renderer.Redraw(transform(s, v), m, opts.Selected)
	if err := s.SavePNG(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func renderSVG(path string, m *mindmap.Map, opts SnapshotOptions, v view) error {
	s := render.NewSVGSurface(v.w, v.h, opts.Background)
	opts.Renderer.Redraw(transform(s, v), m, opts.Selected)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	bw := bufio.NewWriter(f)
	if _, err := s.WriteTo(bw); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// scaled translates then scales every drawing call.
type scaled struct {
	render.Surface
	v view
}

func transform(s render.Surface, v view) render.Surface {
	if v.dx == 0 && v.dy == 0 && v.scale == 1 {
		return s
	}
	return scaled{Surface: s, v: v}
}

func (t scaled) x(x float64) float64 { return (x + t.v.dx) * t.v.scale }
func (t scaled) y(y float64) float64 { return (y + t.v.dy) * t.v.scale }

func (t scaled) Line(x1, y1, x2, y2 float64, c color.Color, width float64) {
	t.Surface.Line(t.x(x1), t.y(y1), t.x(x2), t.y(y2), c, math.Max(width*t.v.scale, 0.5))
}

func (t scaled) Circle(cx, cy, r float64, fill, stroke color.Color, strokeWidth float64) {
	t.Surface.Circle(t.x(cx), t.y(cy), math.Max(r*t.v.scale, 1), fill, stroke, math.Max(strokeWidth*t.v.scale, 0.5))
}

func (t scaled) Text(s string, cx, cy, size float64, c color.Color) {
	// Labels below one pixel are unreadable.
	if size*t.v.scale < 1 {
		return
	}
	t.Surface.Text(s, t.x(cx), t.y(cy), size*t.v.scale, c)
}

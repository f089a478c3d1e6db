package render

import (
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Default terminal cell geometry in canvas pixels.
const (
	DefaultCellWidth  = 8.0
	DefaultCellHeight = 16.0
)

type cell struct {
	r      rune // 0 marks the right half of a wide rune
	fg, bg string
}

// CellSurface rasterises onto a grid of terminal cells. Canvas pixels map to
// cells by a fixed cell size, so the same map can be hit-tested in pixels
// and shown in a terminal.
type CellSurface struct {
	cols, rows int
	cellW      float64
	cellH      float64
	grid       [][]cell
}

// NewCellSurface returns a cols x rows grid. Non-positive cell sizes use
// the defaults.
func NewCellSurface(cols, rows int, cellW, cellH float64) *CellSurface {
	if cellW <= 0 {
		cellW = DefaultCellWidth
	}
	if cellH <= 0 {
		cellH = DefaultCellHeight
	}
	s := &CellSurface{cellW: cellW, cellH: cellH}
	s.Resize(cols, rows)
	return s
}

// Resize changes the grid dimensions and clears it.
func (s *CellSurface) Resize(cols, rows int) {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	s.cols, s.rows = cols, rows
	s.grid = make([][]cell, rows)
	for i := range s.grid {
		s.grid[i] = make([]cell, cols)
	}
	s.Clear()
}

// Dims returns the grid size in cells.
func (s *CellSurface) Dims() (cols, rows int) {
	return s.cols, s.rows
}

// CellToCanvas maps a cell to the canvas position of its centre.
func (s *CellSurface) CellToCanvas(col, row int) (x, y float64) {
	return (float64(col) + 0.5) * s.cellW, (float64(row) + 0.5) * s.cellH
}

func (s *CellSurface) toCell(x, y float64) (int, int) {
	return clampCell(x / s.cellW), clampCell(y / s.cellH)
}

func clampCell(v float64) int {
	const limit = 2 * maxCellSpan
	switch {
	case math.IsNaN(v) || v > limit:
		return limit
	case v < -limit:
		return -limit
	}
	return int(math.Floor(v))
}

func (s *CellSurface) inside(col, row int) bool {
	return col >= 0 && row >= 0 && col < s.cols && row < s.rows
}

func (s *CellSurface) Size() (float64, float64) {
	return float64(s.cols) * s.cellW, float64(s.rows) * s.cellH
}

func (s *CellSurface) Clear() {
	for r := range s.grid {
		for c := range s.grid[r] {
			s.grid[r][c] = cell{r: ' '}
		}
	}
}

// Line draws with Bresenham's algorithm in cell space, picking a glyph that
// follows the overall slope.
func (s *CellSurface) Line(x1, y1, x2, y2 float64, c color.Color, _ float64) {
	fg, _ := Hex(c)
	c0, r0 := s.toCell(x1, y1)
	c1, r1 := s.toCell(x2, y2)
	if tooFar(c0, r0) || tooFar(c1, r1) {
		return
	}
	glyph := lineGlyph((x2-x1)/s.cellW, (y2-y1)/s.cellH)

	dx := abs(c1 - c0)
	dy := -abs(r1 - r0)
	sx, sy := 1, 1
	if c0 > c1 {
		sx = -1
	}
	if r0 > r1 {
		sy = -1
	}
	e := dx + dy
	for {
		if s.inside(c0, r0) {
			cur := &s.grid[r0][c0]
			if cur.r == ' ' && cur.bg == "" {
				cur.r = glyph
				cur.fg = fg
			}
		}
		if c0 == c1 && r0 == r1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			c0 += sx
		}
		if e2 <= dx {
			e += dx
			r0 += sy
		}
	}
}

func lineGlyph(dx, dy float64) rune {
	switch {
	case dx == 0 && dy == 0:
		return '·'
	case math.Abs(dy) < math.Abs(dx)/2:
		return '─'
	case math.Abs(dx) < math.Abs(dy)/2:
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

// Circle fills every cell whose centre lies within r of (cx, cy), always at
// least the centre cell. Terminal cells have no sub-cell outline, so stroke
// is ignored.
func (s *CellSurface) Circle(cx, cy, r float64, fill, _ color.Color, _ float64) {
	bg, _ := Hex(fill)
	col0, row0 := s.toCell(cx-r, cy-r)
	col1, row1 := s.toCell(cx+r, cy+r)
	for row := row0; row <= row1; row++ {
		for col := col0; col <= col1; col++ {
			if !s.inside(col, row) {
				continue
			}
			x, y := s.CellToCanvas(col, row)
			if math.Hypot(x-cx, y-cy) <= r {
				s.grid[row][col] = cell{r: ' ', bg: bg}
			}
		}
	}
	if col, row := s.toCell(cx, cy); s.inside(col, row) {
		s.grid[row][col] = cell{r: ' ', bg: bg}
	}
}

// Text writes str centred on the cell containing (cx, cy). Label cells take
// the background of the centre cell so a label reads as part of its node.
// Font size has no meaning in a cell grid.
func (s *CellSurface) Text(str string, cx, cy, _ float64, c color.Color) {
	fg, _ := Hex(c)
	col, row := s.toCell(cx, cy)
	if row < 0 || row >= s.rows {
		return
	}
	bg := ""
	if s.inside(col, row) {
		bg = s.grid[row][col].bg
	}

	start := col - runewidth.StringWidth(str)/2
	for _, r := range str {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if s.inside(start, row) && s.inside(start+w-1, row) {
			s.grid[row][start] = cell{r: r, fg: fg, bg: bg}
			for i := 1; i < w; i++ {
				s.grid[row][start+i] = cell{r: 0, fg: fg, bg: bg}
			}
		}
		start += w
	}
}

// Lines returns the grid as plain text, one string per row.
func (s *CellSurface) Lines() []string {
	out := make([]string, s.rows)
	var b strings.Builder
	for r, row := range s.grid {
		b.Reset()
		for _, c := range row {
			if c.r != 0 {
				b.WriteRune(c.r)
			}
		}
		out[r] = b.String()
	}
	return out
}

// Render returns the grid styled with lipgloss, grouping runs of cells that
// share colours. A nil renderer uses the default one.
func (s *CellSurface) Render(lr *lipgloss.Renderer) string {
	if lr == nil {
		lr = lipgloss.DefaultRenderer()
	}
	var out strings.Builder
	var run strings.Builder
	for r, row := range s.grid {
		if r > 0 {
			out.WriteByte('\n')
		}
		var fg, bg string
		flush := func() {
			if run.Len() == 0 {
				return
			}
			st := lr.NewStyle()
			if fg != "" {
				st = st.Foreground(lipgloss.Color(fg))
			}
			if bg != "" {
				st = st.Background(lipgloss.Color(bg))
			}
			if fg == "" && bg == "" {
				out.WriteString(run.String())
			} else {
				out.WriteString(st.Render(run.String()))
			}
			run.Reset()
		}
		for _, c := range row {
			if c.r == 0 {
				continue
			}
			if c.fg != fg || c.bg != bg {
				flush()
				fg, bg = c.fg, c.bg
			}
			run.WriteRune(c.r)
		}
		flush()
	}
	return out.String()
}

// maxCellSpan bounds Bresenham walks for nodes dragged or imported far off
// the grid.
const maxCellSpan = 1 << 16

func tooFar(col, row int) bool {
	return abs(col) > maxCellSpan || abs(row) > maxCellSpan
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

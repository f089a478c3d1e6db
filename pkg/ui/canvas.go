package ui

import (
	"math"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// doubleClickWindow is the longest gap between two presses on the same cell
// that still counts as a double-click.
const doubleClickWindow = 400 * time.Millisecond

type click struct {
	at       time.Time
	col, row int
}

// layout sizes the canvas from the terminal. The controller works in canvas
// pixels; each terminal cell covers CellWidth x CellHeight of them.
func (m *Model) layout() {
	cw, ch := m.cfg.Canvas.CellWidth, m.cfg.Canvas.CellHeight
	m.ctl.Resize(float64(m.width)*cw, float64(m.height)*ch)

	m.canvasTop = 1
	if m.cfg.UI.ShowToolbar {
		m.canvasTop++
	}
	w, h := m.ctl.Size()
	cols := min(int(math.Floor(w/cw)), m.width)
	rows := min(int(math.Floor(h/ch)), m.height-m.canvasTop-1)
	m.surface.Resize(max(cols, 1), max(rows, 1))
	m.sess.touch()
}

// cellAt converts a terminal position to canvas pixels. ok is false outside
// the canvas.
func (m *Model) cellAt(x, y int) (px, py float64, col, row int, ok bool) {
	col, row = x, y-m.canvasTop
	px, py = m.surface.CellToCanvas(col, row)
	cols, rows := m.surface.Dims()
	ok = col >= 0 && row >= 0 && col < cols && row < rows
	return px, py, col, row, ok
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	px, py, col, row, inside := m.cellAt(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inside {
			return nil
		}
		now := m.now()
		double := m.lastClick.col == col && m.lastClick.row == row &&
			now.Sub(m.lastClick.at) <= doubleClickWindow
		m.ctl.PointerDown(px, py)
		if double {
			m.lastClick = click{}
			if req, ok := m.ctl.DoubleClick(px, py); ok {
				m.ctl.PointerUp()
				p := newRenamePrompt(req)
				m.prompt = &p
				return textinput.Blink
			}
			return nil
		}
		m.lastClick = click{at: now, col: col, row: row}

	case tea.MouseActionMotion:
		// Dragging may leave the visible canvas.
		if m.ctl.Dragging() {
			m.ctl.PointerMove(px, py)
		}

	case tea.MouseActionRelease:
		m.ctl.PointerUp()
	}
	return nil
}

// redraw repaints the canvas when the tree, selection or size changed since
// the last paint.
func (m *Model) redraw() bool {
	if m.sess.rev == m.drawnRev {
		return false
	}
	m.rend.Redraw(m.surface, m.ctl.Map(), m.ctl.SelectedID())
	m.drawnRev = m.sess.rev
	return true
}

package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

var toolbarItems = []struct{ key, label string }{
	{"r", "root"},
	{"a", "add"},
	{"⏎", "rename"},
	{"d", "delete"},
	{"␣", "fold"},
	{"e", "export"},
	{"p", "picture"},
	{"i", "import"},
	{"c", "clear"},
	{"t", "theme"},
	{"?", "help"},
}

// View renders the screen.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	lines := []string{m.headerView()}
	if m.showHelp {
		body := m.help.View()
		lines = append(lines, strings.Split(body, "\n")...)
		return m.fill(lines)
	}
	if m.cfg.UI.ShowToolbar {
		lines = append(lines, m.toolbarView())
	}

	_, rows := m.surface.Dims()
	switch {
	case m.prompt != nil:
		lines = append(lines, m.overlay(m.prompt.View(m.theme, m.width), rows))
	case m.confirm != nil:
		lines = append(lines, m.overlay(m.confirm.View(m.theme, m.width), rows))
	default:
		lines = append(lines, m.surface.Render(m.theme.Renderer))
	}

	for _, t := range m.toasts.items {
		lines = append(lines, m.theme.ToastStyle(t.Kind).Render(m.clip1(t.Kind.Icon()+" "+t.Message)))
	}
	return m.fill(lines)
}

// fill pads or trims to the terminal height, putting the status bar last.
func (m Model) fill(parts []string) string {
	var lines []string
	for _, p := range parts {
		lines = append(lines, strings.Split(p, "\n")...)
	}
	limit := max(m.height-1, 0)
	if len(lines) > limit {
		lines = lines[:limit]
	}
	for len(lines) < limit {
		lines = append(lines, "")
	}
	lines = append(lines, m.statusView())
	return strings.Join(lines, "\n")
}

func (m Model) overlay(box string, rows int) string {
	return lipgloss.Place(m.width, max(rows, lipgloss.Height(box)), lipgloss.Center, lipgloss.Center, box)
}

func (m Model) headerView() string {
	name := "untitled"
	if m.filePath != "" {
		name = filepath.Base(m.filePath)
	}
	title := m.clip1(fmt.Sprintf("mindcanvas · %s", name))
	return m.theme.Header.Width(max(m.width, 1)).Render(title)
}

func (m Model) toolbarView() string {
	var b strings.Builder
	for i, it := range toolbarItems {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(m.theme.ToolKey.Render(it.key))
		b.WriteByte(' ')
		b.WriteString(m.theme.Toolbar.Render(it.label))
	}
	return b.String()
}

func (m Model) statusView() string {
	left := "no selection"
	if n := m.ctl.Selected(); n != nil {
		left = fmt.Sprintf("selected: %s (#%d)", n.Text, n.ID)
		if !n.IsExpanded && n.HasChildren() {
			left += " [collapsed]"
		}
	}

	st := m.ctl.Map().Stats()
	right := fmt.Sprintf("%d nodes · depth %d", st.Nodes, st.Depth)
	if !m.savedAt.IsZero() {
		right += " · saved " + humanize.RelTime(m.savedAt, m.now(), "ago", "from now")
	}

	gap := m.width - runewidth.StringWidth(left) - runewidth.StringWidth(right)
	if gap < 1 {
		left = runewidth.Truncate(left, max(m.width-runewidth.StringWidth(right)-1, 0), "…")
		gap = max(m.width-runewidth.StringWidth(left)-runewidth.StringWidth(right), 1)
	}
	return m.theme.StatusBar.Render(left + strings.Repeat(" ", gap) + right)
}

// clip1 truncates a single line to the terminal width.
func (m Model) clip1(s string) string {
	return runewidth.Truncate(s, max(m.width, 1), "…")
}

package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/mindcanvas/pkg/config"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given hex color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals keep their own
// background.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

// Palette pairs, light first.
var (
	paletteBg      = [2]string{"#FFFFFF", "#282A36"}
	paletteText    = [2]string{"#1A1A1A", "#F8F8F2"}
	paletteMuted   = [2]string{"#555555", "#6272A4"}
	palettePrimary = [2]string{"#6B47D9", "#BD93F9"}
	paletteBorder  = [2]string{"#AAAAAA", "#44475A"}
	paletteSuccess = [2]string{"#007700", "#50FA7B"}
	paletteWarning = [2]string{"#B06800", "#FFB86C"}
	paletteDanger  = [2]string{"#CC0000", "#FF5555"}
	paletteInfo    = [2]string{"#006080", "#8BE9FD"}
)

// Theme is the chrome around the canvas. The canvas itself always uses the
// mind-map palette.
type Theme struct {
	Renderer *lipgloss.Renderer
	Name     string

	Primary lipgloss.TerminalColor
	Muted   lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Danger  lipgloss.TerminalColor
	Info    lipgloss.TerminalColor

	Base      lipgloss.Style
	Header    lipgloss.Style
	Toolbar   lipgloss.Style
	ToolKey   lipgloss.Style
	StatusBar lipgloss.Style
	MutedText lipgloss.Style
	Modal     lipgloss.Style
	Title     lipgloss.Style
}

// NewTheme builds the named theme (config.ThemeDark or config.ThemeLight).
func NewTheme(r *lipgloss.Renderer, name string) Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	i := 1
	if name == config.ThemeLight {
		i = 0
	} else {
		name = config.ThemeDark
	}
	pick := func(p [2]string) lipgloss.TerminalColor { return ThemeFg(p[i]) }

	t := Theme{
		Renderer: r,
		Name:     name,
		Primary:  pick(palettePrimary),
		Muted:    pick(paletteMuted),
		Border:   pick(paletteBorder),
		Success:  pick(paletteSuccess),
		Warning:  pick(paletteWarning),
		Danger:   pick(paletteDanger),
		Info:     pick(paletteInfo),
	}

	t.Base = r.NewStyle().Foreground(pick(paletteText))
	t.Header = r.NewStyle().
		Background(ThemeBg(palettePrimary[i])).
		Foreground(ThemeFg(paletteBg[i])).
		Bold(true).
		Padding(0, 1)
	t.Toolbar = r.NewStyle().Foreground(pick(paletteText))
	t.ToolKey = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.StatusBar = r.NewStyle().Foreground(t.Muted)
	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.Modal = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(0, 1)
	t.Title = r.NewStyle().Foreground(t.Primary).Bold(true)
	return t
}

// ToastStyle returns the style for a toast of the given kind.
func (t Theme) ToastStyle(k ToastKind) lipgloss.Style {
	var c lipgloss.TerminalColor
	switch k {
	case ToastSuccess:
		c = t.Success
	case ToastError:
		c = t.Danger
	case ToastWarning:
		c = t.Warning
	default:
		c = t.Info
	}
	return t.Renderer.NewStyle().Foreground(c).Bold(k == ToastError)
}

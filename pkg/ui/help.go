package ui

import (
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"

	"github.com/vanderheijden86/mindcanvas/pkg/config"
	"github.com/vanderheijden86/mindcanvas/pkg/debug"
)

const helpMarkdown = `# mindcanvas

## Mouse

| Action | Effect |
|---|---|
| click | select a node |
| drag | move the node |
| double-click | rename the node |

## Keys

| Key | Action |
|---|---|
| r | new root (replaces the map) |
| a | add a child under the selection |
| enter | rename the selection |
| d / delete | delete the selection and its subtree |
| space | expand or collapse the selection |
| ↑ ↓ ← → / k j h l | parent, first child, previous, next sibling |
| shift+arrows / K J H L | nudge the selection |
| e | export JSON |
| p | export PNG and SVG pictures |
| i | import JSON |
| y | copy JSON to the clipboard |
| u | restore the last auto-save |
| ctrl+s | save now |
| c | clear the map |
| t | toggle light/dark theme |
| m | show or hide the toolbar |
| esc | close dialogs, then deselect |
| ? | this help |
| q / ctrl+c | quit |
`

// renderHelp turns the help text into styled terminal output. Rendering
// failures fall back to the raw markdown.
func renderHelp(theme string, width int) string {
	style := "dark"
	if theme == config.ThemeLight {
		style = "light"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(max(width-4, 20)),
	)
	if err != nil {
		debug.Log("help: %v", err)
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		debug.Log("help: %v", err)
		return helpMarkdown
	}
	return out
}

func newHelpViewport(theme string, width, height int) viewport.Model {
	vp := viewport.New(max(width, 1), max(height, 1))
	vp.SetContent(renderHelp(theme, width))
	return vp
}

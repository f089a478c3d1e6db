package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/mindcanvas/pkg/controller"
)

// promptKind says what a submitted prompt does.
type promptKind int

const (
	promptRoot promptKind = iota
	promptChild
	promptRename
	promptImport
)

// Prompt is a one-line text modal. It answers a rename request or collects
// a label or path for a toolbar command.
type Prompt struct {
	kind  promptKind
	title string
	input textinput.Model
	req   *controller.TextRequest
	err   string

	submitted bool
	cancelled bool
}

func newPrompt(kind promptKind, title, value, placeholder string) Prompt {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 200
	ti.Width = 40
	ti.SetValue(value)
	ti.CursorEnd()
	ti.Focus()
	return Prompt{kind: kind, title: title, input: ti}
}

func newRenamePrompt(req *controller.TextRequest) Prompt {
	p := newPrompt(promptRename, req.Prompt, req.Current, "")
	p.req = req
	return p
}

// Update handles input for the prompt.
func (p Prompt) Update(msg tea.Msg) (Prompt, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			p.submitted = true
			return p, nil
		case "esc":
			p.cancelled = true
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	p.err = ""
	return p, cmd
}

// Value returns the current text.
func (p Prompt) Value() string {
	return p.input.Value()
}

// View renders the prompt box.
func (p Prompt) View(t Theme, width int) string {
	var b strings.Builder
	b.WriteString(t.Title.Render(p.title))
	b.WriteByte('\n')
	b.WriteString(p.input.View())
	if p.err != "" {
		b.WriteByte('\n')
		b.WriteString(t.ToastStyle(ToastError).Render(ToastError.Icon() + " " + p.err))
	}
	b.WriteByte('\n')
	b.WriteString(t.MutedText.Render("enter confirm • esc cancel"))
	return t.Modal.Width(min(max(width-4, 20), 60)).Render(b.String())
}

// Confirm is a yes/no modal answering a controller.ConfirmRequest.
type Confirm struct {
	req *controller.ConfirmRequest
}

// Update returns the answer once the user gives one.
func (c Confirm) Update(msg tea.KeyMsg) (answered, ok bool) {
	switch strings.ToLower(msg.String()) {
	case "y", "enter":
		return true, true
	case "n", "esc", "q":
		return true, false
	}
	return false, false
}

// View renders the confirmation box.
func (c Confirm) View(t Theme, width int) string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		t.ToastStyle(ToastWarning).Render(ToastWarning.Icon()+" "+c.req.Prompt),
		t.MutedText.Render("y confirm • n/esc cancel"),
	)
	return t.Modal.Width(min(max(width-4, 20), 70)).Render(body)
}

// Package ui is the terminal front end: a Bubble Tea program that shows the
// mind map on a cell canvas and drives the controller from mouse and keys.
package ui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vanderheijden86/mindcanvas/pkg/config"
	"github.com/vanderheijden86/mindcanvas/pkg/controller"
	"github.com/vanderheijden86/mindcanvas/pkg/debug"
	"github.com/vanderheijden86/mindcanvas/pkg/export"
	"github.com/vanderheijden86/mindcanvas/pkg/mindmap"
	"github.com/vanderheijden86/mindcanvas/pkg/render"
	"github.com/vanderheijden86/mindcanvas/pkg/store"
	"github.com/vanderheijden86/mindcanvas/pkg/watcher"
)

// untitled names auto-saves of maps that were not opened from a file.
const untitled = "untitled"

// FileChangedMsg is sent when the opened file changes on disk.
type FileChangedMsg struct{}

type fileLoadedMsg struct {
	data []byte
	err  error
}

// importLoadedMsg carries a file picked in the import prompt.
type importLoadedMsg struct {
	path string
	data []byte
	err  error
}

type fileSavedMsg struct {
	path string
	size int
	err  error
}

type picturesSavedMsg struct {
	paths []string
	err   error
}

// autosaveDueMsg fires once edits have been quiet for the auto-save delay.
type autosaveDueMsg struct{}

type autosavedMsg struct {
	body   []byte
	manual bool
	err    error
}

type restoredMsg struct {
	snap store.Snapshot
	err  error
}

// WatchFileCmd waits for the next change to the opened file.
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

func waitAutosaveCmd(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return autosaveDueMsg{}
	}
}

// session is shared by every copy of the Model; the controller bumps rev on
// each visible change.
type session struct {
	rev uint64
}

func (s *session) touch() {
	s.rev++
}

// Options configures the UI.
type Options struct {
	Config config.Config
	// FilePath is the document opened on the command line, if any. It is
	// written by ctrl+s and reloaded when it changes on disk.
	FilePath string
	// Document is imported before the first frame.
	Document []byte
	// RootLabel creates a root once the canvas size is known.
	RootLabel string
	Store     *store.Store
	Watcher   *watcher.Watcher
	// SaveConfig persists theme and toolbar toggles. Nil skips persisting.
	SaveConfig func(config.Config) error
	Clipboard  func(string) error
	Now        func() time.Time
	Renderer   *lipgloss.Renderer
}

// Model is the Bubble Tea model.
type Model struct {
	cfg     config.Config
	theme   Theme
	ctl     *controller.Controller
	rend    *render.Renderer
	surface *render.CellSurface
	sess    *session

	width, height int
	canvasTop     int
	ready         bool
	drawnRev      uint64

	prompt   *Prompt
	confirm  *Confirm
	showHelp bool
	help     viewport.Model

	toasts       toastStack
	toastTicking bool

	filePath    string
	lastDisk    []byte
	pendingRoot string

	store     *store.Store
	watcher   *watcher.Watcher
	debouncer *watcher.Debouncer
	saveCh    chan struct{}
	lastSaved []byte
	savedAt   time.Time

	lastClick  click
	now        func() time.Time
	clip       func(string) error
	saveConfig func(config.Config) error
}

// New builds the model. A Document that fails to import is an error.
func New(opts Options) (Model, error) {
	cfg := opts.Config
	rules, err := controller.NewLabelRules(cfg.Labels.MinLength, cfg.Labels.MaxLength,
		cfg.Labels.Pattern, cfg.Labels.PatternMessage)
	if err != nil {
		return Model{}, err
	}

	sess := &session{rev: 1}
	ctl := controller.New(
		controller.WithMargins(cfg.Canvas.MarginX, cfg.Canvas.MarginY),
		controller.WithLabelRules(rules),
		controller.WithOnChange(sess.touch),
	)

	m := Model{
		cfg:         cfg,
		theme:       NewTheme(opts.Renderer, cfg.UI.Theme),
		ctl:         ctl,
		rend:        render.New(),
		surface:     render.NewCellSurface(1, 1, cfg.Canvas.CellWidth, cfg.Canvas.CellHeight),
		sess:        sess,
		filePath:    opts.FilePath,
		pendingRoot: opts.RootLabel,
		store:       opts.Store,
		watcher:     opts.Watcher,
		debouncer:   watcher.NewDebouncer(cfg.Autosave.Delay),
		saveCh:      make(chan struct{}, 1),
		now:         opts.Now,
		clip:        opts.Clipboard,
		saveConfig:  opts.SaveConfig,
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.clip == nil {
		m.clip = clipboard.WriteAll
	}

	if len(opts.Document) > 0 {
		if err := ctl.Import(opts.Document); err != nil {
			return Model{}, err
		}
		m.lastDisk = opts.Document
		if body, err := ctl.Export(); err == nil {
			m.lastSaved = body
		}
	}
	return m, nil
}

// Controller exposes the controller, mainly for tests and headless use.
func (m Model) Controller() *controller.Controller {
	return m.ctl
}

// Init starts the background listeners.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.watcher != nil {
		cmds = append(cmds, WatchFileCmd(m.watcher))
	}
	if m.autosaveEnabled() {
		cmds = append(cmds, waitAutosaveCmd(m.saveCh))
	}
	return tea.Batch(cmds...)
}

func (m Model) autosaveEnabled() bool {
	return m.store != nil && m.cfg.Autosave.Enabled
}

// Update handles a message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	before := m.sess.rev

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		if m.showHelp {
			m.help = newHelpViewport(m.theme.Name, m.width, m.height-2)
		}
		m.ready = true
		if m.pendingRoot != "" {
			if err := m.ctl.CreateRoot(m.pendingRoot); err != nil {
				cmds = append(cmds, m.notifyErr(err))
			}
			m.pendingRoot = ""
		}

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))

	case tea.MouseMsg:
		if m.prompt == nil && m.confirm == nil && !m.showHelp {
			cmds = append(cmds, m.handleMouse(msg))
		}

	case toastTickMsg:
		if m.toasts.expire(m.now()) {
			cmds = append(cmds, toastTickCmd(m.cfg.UI.ToastDuration))
		} else {
			m.toastTicking = false
		}

	case FileChangedMsg:
		if m.watcher != nil {
			cmds = append(cmds, readFileCmd(m.filePath), WatchFileCmd(m.watcher))
		}

	case fileLoadedMsg:
		cmds = append(cmds, m.reload(msg))

	case importLoadedMsg:
		cmds = append(cmds, m.applyImport(msg))

	case fileSavedMsg:
		if msg.err != nil {
			cmds = append(cmds, m.notify(ToastError, fmt.Sprintf("Save failed: %v", msg.err)))
		} else {
			cmds = append(cmds, m.notify(ToastSuccess,
				fmt.Sprintf("Saved %s (%s)", filepath.Base(msg.path), humanize.Bytes(uint64(msg.size)))))
		}

	case picturesSavedMsg:
		if msg.err != nil {
			cmds = append(cmds, m.notify(ToastError, fmt.Sprintf("Picture export failed: %v", msg.err)))
		} else {
			names := make([]string, len(msg.paths))
			for i, p := range msg.paths {
				names[i] = filepath.Base(p)
			}
			cmds = append(cmds, m.notify(ToastSuccess, "Exported "+strings.Join(names, ", ")))
		}

	case autosaveDueMsg:
		cmds = append(cmds, waitAutosaveCmd(m.saveCh), m.autosave(false))

	case autosavedMsg:
		if msg.err != nil {
			debug.Log("autosave: %v", msg.err)
			if msg.manual {
				cmds = append(cmds, m.notify(ToastError, fmt.Sprintf("Auto-save failed: %v", msg.err)))
			}
		} else {
			m.lastSaved = msg.body
			m.savedAt = m.now()
			if !msg.manual {
				cmds = append(cmds, m.notify(ToastInfo, "Auto-saved"))
			}
		}

	case restoredMsg:
		cmds = append(cmds, m.restore(msg))

	default:
		if m.showHelp {
			var cmd tea.Cmd
			m.help, cmd = m.help.Update(msg)
			cmds = append(cmds, cmd)
		} else if m.prompt != nil {
			var cmd tea.Cmd
			*m.prompt, cmd = m.prompt.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if m.sess.rev != before {
		m.scheduleAutosave()
	}
	m.redraw()
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}

	switch {
	case m.showHelp:
		switch msg.String() {
		case "esc", "?", "q":
			m.showHelp = false
			return nil
		}
		var cmd tea.Cmd
		m.help, cmd = m.help.Update(msg)
		return cmd

	case m.confirm != nil:
		answered, ok := m.confirm.Update(msg)
		if !answered {
			return nil
		}
		req := m.confirm.req
		m.confirm = nil
		m.ctl.ResolveClear(req, ok)
		if ok {
			return m.notify(ToastSuccess, "Mind map cleared")
		}
		return nil

	case m.prompt != nil:
		p, cmd := m.prompt.Update(msg)
		m.prompt = &p
		switch {
		case p.cancelled:
			if p.req != nil {
				m.ctl.Resolve(p.req, "", false)
			}
			m.prompt = nil
		case p.submitted:
			return m.submitPrompt()
		}
		return cmd
	}

	switch msg.String() {
	case "q":
		return tea.Quit
	case "?":
		m.showHelp = true
		m.help = newHelpViewport(m.theme.Name, m.width, m.height-2)
	case "esc":
		if m.ctl.Selected() != nil {
			m.ctl.Deselect()
		} else if m.cfg.UI.ShowToolbar {
			m.toggleToolbar()
		}

	case "r":
		return m.openPrompt(newPrompt(promptRoot, "Root node text:", "", "Central idea"))
	case "a":
		if m.ctl.Map().Empty() {
			return m.notifyErr(controller.ErrNoRoot)
		}
		return m.openPrompt(newPrompt(promptChild, "Child node text:", "", "New idea"))
	case "enter":
		if req, ok := m.ctl.RenameSelected(); ok {
			return m.openPrompt(newRenamePrompt(req))
		}
		return m.notifyErr(controller.ErrNoSelection)
	case "d", "delete", "backspace":
		if err := m.ctl.DeleteSelected(); err != nil {
			return m.notifyErr(err)
		}
	case " ":
		if err := m.ctl.ToggleSelected(); err != nil {
			return m.notifyErr(err)
		}

	case "up", "k":
		m.ctl.Move(controller.ToParent)
	case "down", "j":
		m.ctl.Move(controller.ToFirstChild)
	case "left", "h":
		m.ctl.Move(controller.ToPrevSibling)
	case "right", "l":
		m.ctl.Move(controller.ToNextSibling)
	case "shift+up", "K":
		m.ctl.Nudge(0, -m.cfg.Canvas.CellHeight)
	case "shift+down", "J":
		m.ctl.Nudge(0, m.cfg.Canvas.CellHeight)
	case "shift+left", "H":
		m.ctl.Nudge(-m.cfg.Canvas.CellWidth, 0)
	case "shift+right", "L":
		m.ctl.Nudge(m.cfg.Canvas.CellWidth, 0)

	case "e":
		body, err := m.ctl.Export()
		if err != nil {
			return m.notifyErr(err)
		}
		return writeJSONCmd(m.cfg.ExportDir(), "", body)
	case "p":
		body, err := m.ctl.Export()
		if err != nil {
			return m.notifyErr(err)
		}
		dir := m.cfg.ExportDir()
		return savePicturesCmd(body, m.ctl.SelectedID(), []string{
			filepath.Join(dir, "mindmap.png"),
			filepath.Join(dir, "mindmap.svg"),
		})
	case "i":
		path := m.filePath
		if path == "" {
			path = filepath.Join(m.cfg.ExportDir(), export.DefaultJSONName)
		}
		return m.openPrompt(newPrompt(promptImport, "Import JSON file:", path, "mindmap.json"))
	case "y":
		body, err := m.ctl.Export()
		if err != nil {
			return m.notifyErr(err)
		}
		if err := m.clip(string(body)); err != nil {
			return m.notify(ToastError, fmt.Sprintf("Clipboard error: %v", err))
		}
		return m.notify(ToastSuccess, fmt.Sprintf("Copied %s of JSON to clipboard", humanize.Bytes(uint64(len(body)))))
	case "u":
		if m.store == nil {
			return m.notify(ToastWarning, "Auto-save is not available")
		}
		return restoreCmd(m.store, m.snapshotName())
	case "ctrl+s":
		return m.saveNow()
	case "c":
		if m.ctl.Map().Empty() {
			return nil
		}
		m.confirm = &Confirm{req: m.ctl.RequestClear()}

	case "t":
		name := m.cfg.ToggleTheme()
		m.theme = NewTheme(m.theme.Renderer, name)
		return tea.Batch(m.persistConfig(), m.notify(ToastInfo, "Theme: "+name))
	case "m":
		m.toggleToolbar()
		return m.persistConfig()
	}
	return nil
}

func (m *Model) toggleToolbar() {
	m.cfg.UI.ShowToolbar = !m.cfg.UI.ShowToolbar
	if m.ready {
		m.layout()
	}
}

func (m *Model) openPrompt(p Prompt) tea.Cmd {
	m.prompt = &p
	return textinput.Blink
}

// submitPrompt applies the prompt's text. Validation failures keep the
// prompt open with the message shown inside it.
func (m *Model) submitPrompt() tea.Cmd {
	p := m.prompt
	p.submitted = false
	value := p.Value()

	var err error
	switch p.kind {
	case promptRoot:
		err = m.ctl.CreateRoot(value)
	case promptChild:
		_, err = m.ctl.AddChild(value)
		if errors.Is(err, controller.ErrNoSelection) {
			m.prompt = nil
			return m.notify(ToastWarning, "Please select a parent node first")
		}
	case promptRename:
		err = m.ctl.Resolve(p.req, value, true)
	case promptImport:
		m.prompt = nil
		return importFileCmd(strings.TrimSpace(value))
	}

	if err != nil {
		p.err = userMessage(err)
		return nil
	}
	m.prompt = nil
	if p.kind == promptRoot {
		return m.notify(ToastSuccess, "Root node created")
	}
	return nil
}

// applyImport replaces the tree with an imported file. A file that cannot be
// read or parsed leaves the tree and selection alone.
func (m *Model) applyImport(msg importLoadedMsg) tea.Cmd {
	if msg.err != nil {
		return m.notifyErr(msg.err)
	}
	if err := m.ctl.Import(msg.data); err != nil {
		return m.notifyErr(err)
	}
	return m.notify(ToastSuccess, "Mind map imported successfully!")
}

// reload re-imports the opened file after an outside change. Our own writes
// come back through the watcher too; identical content is skipped.
func (m *Model) reload(msg fileLoadedMsg) tea.Cmd {
	if msg.err != nil {
		return m.notify(ToastWarning, fmt.Sprintf("Reload failed: %v", msg.err))
	}
	if bytes.Equal(msg.data, m.lastDisk) {
		return nil
	}
	if err := m.ctl.Import(msg.data); err != nil {
		return m.notifyErr(err)
	}
	m.lastDisk = msg.data
	return m.notify(ToastInfo, "Reloaded "+filepath.Base(m.filePath))
}

func (m *Model) restore(msg restoredMsg) tea.Cmd {
	if errors.Is(msg.err, store.ErrNoSnapshot) {
		return m.notify(ToastWarning, "Nothing auto-saved yet")
	}
	if msg.err != nil {
		return m.notify(ToastError, fmt.Sprintf("Restore failed: %v", msg.err))
	}
	if err := m.ctl.Import(msg.snap.Body); err != nil {
		return m.notifyErr(err)
	}
	m.lastSaved = msg.snap.Body
	return m.notify(ToastSuccess, fmt.Sprintf("Restored %d nodes from %s",
		msg.snap.NodeCount, humanize.Time(msg.snap.SavedAt)))
}

// saveNow writes the opened file, if any, and records a snapshot.
func (m *Model) saveNow() tea.Cmd {
	body, err := m.ctl.Export()
	if err != nil {
		return m.notifyErr(err)
	}
	var cmds []tea.Cmd
	if m.filePath != "" {
		m.lastDisk = body
		cmds = append(cmds, writeJSONCmd("", m.filePath, body))
	}
	if m.store != nil {
		m.debouncer.Cancel()
		cmds = append(cmds, m.autosave(true))
	}
	if len(cmds) == 0 {
		return m.notify(ToastWarning, "No file to save to; use e to export")
	}
	return tea.Batch(cmds...)
}

// scheduleAutosave restarts the quiet period after a change.
func (m *Model) scheduleAutosave() {
	if !m.autosaveEnabled() {
		return
	}
	ch := m.saveCh
	m.debouncer.Trigger(func() {
		select {
		case ch <- struct{}{}:
		default:
		}
	})
}

func (m *Model) autosave(manual bool) tea.Cmd {
	if m.store == nil {
		return nil
	}
	body, err := m.ctl.Export()
	if err != nil {
		return nil
	}
	if !manual && bytes.Equal(body, m.lastSaved) {
		return nil
	}
	st, name, n, keep := m.store, m.snapshotName(), m.ctl.Map().Len(), m.cfg.Autosave.Keep
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := st.Save(ctx, name, body, n); err != nil {
			return autosavedMsg{manual: manual, err: err}
		}
		if _, err := st.Prune(ctx, name, keep); err != nil {
			debug.Log("autosave prune: %v", err)
		}
		return autosavedMsg{body: body, manual: manual}
	}
}

func (m *Model) snapshotName() string {
	if m.filePath == "" {
		return untitled
	}
	if abs, err := filepath.Abs(m.filePath); err == nil {
		return abs
	}
	return m.filePath
}

func (m *Model) persistConfig() tea.Cmd {
	if m.saveConfig == nil {
		return nil
	}
	if err := m.saveConfig(m.cfg); err != nil {
		return m.notify(ToastError, fmt.Sprintf("Could not save settings: %v", err))
	}
	return nil
}

// notify shows a toast and starts the expiry ticker if it is not running.
func (m *Model) notify(kind ToastKind, message string) tea.Cmd {
	m.toasts.push(Toast{Kind: kind, Message: message, Expires: m.now().Add(m.cfg.UI.ToastDuration)})
	if m.toastTicking {
		return nil
	}
	m.toastTicking = true
	return toastTickCmd(m.cfg.UI.ToastDuration)
}

func (m *Model) notifyErr(err error) tea.Cmd {
	kind := ToastError
	switch {
	case errors.Is(err, controller.ErrNoSelection), errors.Is(err, controller.ErrNoRoot),
		errors.Is(err, controller.ErrEmptyMap), errors.Is(err, controller.ErrDeleteRoot):
		kind = ToastWarning
	}
	return m.notify(kind, userMessage(err))
}

// userMessage turns an error into a sentence for the status area.
func userMessage(err error) string {
	var le *controller.LabelError
	switch {
	case errors.As(err, &le):
		return le.Message
	case errors.Is(err, mindmap.ErrMalformed):
		return fmt.Sprintf("Invalid JSON file (%v)", err)
	case errors.Is(err, export.ErrNotJSON):
		return "Please select a valid JSON file"
	}
	s := err.Error()
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func importFileCmd(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := export.ReadJSON(path)
		return importLoadedMsg{path: path, data: data, err: err}
	}
}

func readFileCmd(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := export.ReadJSON(path)
		return fileLoadedMsg{data: data, err: err}
	}
}

// writeJSONCmd writes body to path, or to dir/mindmap.json when path is empty.
func writeJSONCmd(dir, path string, body []byte) tea.Cmd {
	return func() tea.Msg {
		var err error
		if path == "" {
			path, err = export.WriteJSON(dir, body)
		} else {
			err = export.WriteJSONTo(path, body)
		}
		return fileSavedMsg{path: path, size: len(body), err: err}
	}
}

// savePicturesCmd renders from a private copy so the UI can keep editing.
func savePicturesCmd(body []byte, selected int, paths []string) tea.Cmd {
	return func() tea.Msg {
		mm := mindmap.New()
		if err := mm.Import(body); err != nil {
			return picturesSavedMsg{err: err}
		}
		out, err := export.SaveSnapshot(context.Background(), mm, export.SnapshotOptions{
			Paths:      paths,
			Background: color.White,
			Selected:   selected,
		})
		return picturesSavedMsg{paths: out, err: err}
	}
}

func restoreCmd(st *store.Store, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		snap, err := st.Latest(ctx, name)
		return restoredMsg{snap: snap, err: err}
	}
}

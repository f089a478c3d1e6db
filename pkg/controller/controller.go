// Package controller turns pointer events and toolbar commands into
// mind-map mutations.
//
// A Controller is owned by whatever shell hosts it. Every method runs to
// completion on the caller's goroutine; after any change that affects
// appearance the OnChange hook fires so the host can redraw.
//
// Text input is a request/response exchange: DoubleClick hands back a
// TextRequest and the host answers with Resolve. Clearing the map follows
// the same pattern with RequestClear and ResolveClear.
package controller

import (
	"errors"
	"fmt"

	"github.com/vanderheijden86/mindcanvas/pkg/debug"
	"github.com/vanderheijden86/mindcanvas/pkg/mindmap"
)

const none = mindmap.NoParent

// Default margins subtracted from the window to size the drawing surface.
const (
	DefaultMarginX = 20.0
	DefaultMarginY = 100.0
)

// TextRequest asks the host for replacement text for a node.
type TextRequest struct {
	NodeID  int
	Prompt  string
	Current string
}

// ConfirmRequest asks the host for a yes/no answer.
type ConfirmRequest struct {
	Prompt string
}

// Option configures a Controller.
type Option func(*Controller)

// WithMargins sets the window margins used by Resize.
func WithMargins(x, y float64) Option {
	return func(c *Controller) {
		c.marginX, c.marginY = x, y
	}
}

// WithLabelRules replaces the default label validation.
func WithLabelRules(r LabelRules) Option {
	return func(c *Controller) {
		c.rules = r
	}
}

// WithOnChange sets the redraw hook.
func WithOnChange(fn func()) Option {
	return func(c *Controller) {
		c.onChange = fn
	}
}

// WithMap starts the controller on an existing map.
func WithMap(m *mindmap.Map) Option {
	return func(c *Controller) {
		c.m = m
	}
}

// Controller holds the tree plus the selection and drag state.
type Controller struct {
	m        *mindmap.Map
	selected int
	dragged  int
	dragging bool

	width, height    float64
	marginX, marginY float64
	rules            LabelRules
	onChange         func()
}

// New returns a controller on an empty map.
func New(opts ...Option) *Controller {
	c := &Controller{
		m:        mindmap.New(),
		selected: none,
		dragged:  none,
		marginX:  DefaultMarginX,
		marginY:  DefaultMarginY,
		rules:    DefaultLabelRules(),
		onChange: func() {},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Map returns the tree. Callers must not mutate it behind the controller.
func (c *Controller) Map() *mindmap.Map {
	return c.m
}

// Selected returns the selected node or nil.
func (c *Controller) Selected() *mindmap.Node {
	if c.selected == none {
		return nil
	}
	return c.m.FindByID(c.selected)
}

// SelectedID returns the selected node ID or mindmap.NoParent.
func (c *Controller) SelectedID() int {
	return c.selected
}

// Dragging reports whether a drag is in progress.
func (c *Controller) Dragging() bool {
	return c.dragging
}

// Size returns the drawing surface size in canvas pixels.
func (c *Controller) Size() (w, h float64) {
	return c.width, c.height
}

func (c *Controller) changed() {
	c.onChange()
}

// --- pointer events --------------------------------------------------------

// PointerDown selects the node under (x, y), if any, and starts dragging it.
func (c *Controller) PointerDown(x, y float64) {
	n := c.m.FindAt(x, y)
	if n == nil {
		return
	}
	c.selected = n.ID
	c.dragged = n.ID
	c.dragging = true
	c.changed()
}

// PointerMove moves the dragged node to (x, y). Nodes may be placed anywhere.
func (c *Controller) PointerMove(x, y float64) {
	if !c.dragging || c.dragged == none {
		return
	}
	if c.m.MoveTo(c.dragged, x, y) {
		c.changed()
	}
}

// PointerUp ends a drag. The selection stays.
func (c *Controller) PointerUp() {
	c.dragging = false
	c.dragged = none
}

// DoubleClick returns a rename request for the node under (x, y).
func (c *Controller) DoubleClick(x, y float64) (*TextRequest, bool) {
	n := c.m.FindAt(x, y)
	if n == nil {
		return nil, false
	}
	return &TextRequest{NodeID: n.ID, Prompt: "Edit node text:", Current: n.Text}, true
}

// Resolve answers a TextRequest. A cancelled or blank answer leaves the
// label alone; a label breaking the rules is returned as an error.
func (c *Controller) Resolve(req *TextRequest, text string, ok bool) error {
	if req == nil || !ok {
		return nil
	}
	label, err := c.rules.Check(text)
	if errors.Is(err, ErrEmptyLabel) {
		return nil
	}
	if err != nil {
		return err
	}
	if !c.m.SetText(req.NodeID, label) {
		debug.Log("rename: node %d no longer exists", req.NodeID)
		return nil
	}
	c.changed()
	return nil
}

// Resize sizes the drawing surface from the window, minus margins. Nodes
// keep their positions.
func (c *Controller) Resize(windowW, windowH float64) {
	c.width = max(windowW-c.marginX, 0)
	c.height = max(windowH-c.marginY, 0)
	c.changed()
}

// --- toolbar commands ------------------------------------------------------

// CreateRoot replaces the tree with a single root at the surface centre.
func (c *Controller) CreateRoot(text string) error {
	label, err := c.rules.Check(text)
	if err != nil {
		return err
	}
	c.m.CreateRoot(label, c.Center())
	c.resetPointer()
	debug.Log("create root %q", label)
	c.changed()
	return nil
}

// AddChild adds a node labelled text under the selection.
func (c *Controller) AddChild(text string) (*mindmap.Node, error) {
	label, err := c.rules.Check(text)
	if err != nil {
		return nil, err
	}
	if c.selected == none {
		return nil, ErrNoSelection
	}
	n, ok := c.m.AddChild(c.selected, label)
	if !ok {
		c.selected = none
		return nil, ErrNoSelection
	}
	debug.Log("add %d under %d", n.ID, n.Parent)
	c.changed()
	return n, nil
}

// DeleteSelected removes the selected node and its subtree, then clears
// the selection.
func (c *Controller) DeleteSelected() error {
	n := c.Selected()
	if n == nil {
		return ErrNoSelection
	}
	if n.IsRoot() {
		return ErrDeleteRoot
	}
	if !c.m.RemoveChild(n.ID) {
		return ErrNoSelection
	}
	debug.Log("delete %d", n.ID)
	c.resetPointer()
	c.changed()
	return nil
}

// ToggleSelected expands or collapses the selected node.
func (c *Controller) ToggleSelected() error {
	if c.selected == none || !c.m.ToggleExpanded(c.selected) {
		return ErrNoSelection
	}
	c.changed()
	return nil
}

// Export serializes the tree.
func (c *Controller) Export() ([]byte, error) {
	if c.m.Empty() {
		return nil, ErrEmptyMap
	}
	return c.m.Export()
}

// Import replaces the tree with data. On failure nothing changes, including
// the selection.
func (c *Controller) Import(data []byte) error {
	defer debug.LogEnterExit("Import")()
	if err := c.m.Import(data); err != nil {
		debug.Log("import rejected: %v", err)
		return fmt.Errorf("import: %w", err)
	}
	c.resetPointer()
	c.changed()
	return nil
}

// RequestClear asks for confirmation before clearing.
func (c *Controller) RequestClear() *ConfirmRequest {
	return &ConfirmRequest{Prompt: "Are you sure you want to clear the entire mind map?"}
}

// ResolveClear clears the tree, the selection and the identifier counter
// when ok is true.
func (c *Controller) ResolveClear(req *ConfirmRequest, ok bool) {
	if req == nil || !ok {
		return
	}
	c.m.Clear()
	c.resetPointer()
	c.changed()
}

func (c *Controller) resetPointer() {
	c.selected = none
	c.dragged = none
	c.dragging = false
}

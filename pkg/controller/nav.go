package controller

import "github.com/vanderheijden86/mindcanvas/pkg/mindmap"

// Direction names a keyboard selection move.
type Direction int

const (
	ToParent Direction = iota
	ToFirstChild
	ToNextSibling
	ToPrevSibling
)

// Select marks id as selected. Unknown IDs are ignored.
func (c *Controller) Select(id int) bool {
	if c.m.FindByID(id) == nil {
		return false
	}
	if c.selected != id {
		c.selected = id
		c.changed()
	}
	return true
}

// Deselect clears the selection.
func (c *Controller) Deselect() {
	if c.selected == none {
		return
	}
	c.selected = none
	c.changed()
}

// Move walks the selection through the tree for keyboard users. With no
// selection any direction selects the root. Collapsed nodes are not entered.
func (c *Controller) Move(d Direction) bool {
	cur := c.Selected()
	if cur == nil {
		root := c.m.Root()
		if root == nil {
			return false
		}
		return c.Select(root.ID)
	}

	switch d {
	case ToParent:
		if p := c.m.ParentOf(cur); p != nil {
			return c.Select(p.ID)
		}
	case ToFirstChild:
		if cur.IsExpanded && cur.HasChildren() {
			return c.Select(cur.Children[0])
		}
	case ToNextSibling, ToPrevSibling:
		p := c.m.ParentOf(cur)
		if p == nil || len(p.Children) < 2 {
			return false
		}
		step := 1
		if d == ToPrevSibling {
			step = -1
		}
		for i, id := range p.Children {
			if id == cur.ID {
				j := (i + step + len(p.Children)) % len(p.Children)
				return c.Select(p.Children[j])
			}
		}
	}
	return false
}

// Nudge moves the selected node by (dx, dy), the keyboard equivalent of a
// drag.
func (c *Controller) Nudge(dx, dy float64) bool {
	n := c.Selected()
	if n == nil {
		return false
	}
	c.m.MoveTo(n.ID, n.X+dx, n.Y+dy)
	c.changed()
	return true
}

// RenameSelected returns a rename request for the selection, like a
// double-click on it.
func (c *Controller) RenameSelected() (*TextRequest, bool) {
	n := c.Selected()
	if n == nil {
		return nil, false
	}
	return &TextRequest{NodeID: n.ID, Prompt: "Edit node text:", Current: n.Text}, true
}

// Center returns the middle of the drawing surface.
func (c *Controller) Center() mindmap.Point {
	return mindmap.Point{X: c.width / 2, Y: c.height / 2}
}

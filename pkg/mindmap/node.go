// Package mindmap holds the in-memory mind-map tree: nodes with freehand
// canvas positions, per-node styling and expand/collapse state.
//
// Nodes live in an arena keyed by ID. Parent and child links are IDs, never
// pointers, so the tree has no reference cycles and serializes directly.
package mindmap

import "math"

// NoParent is the Parent value of the root node.
const NoParent = -1

// Geometry shared by placement, hit-testing and rendering.
const (
	// ChildRadius is the distance from a parent at which new children are placed.
	ChildRadius = 150.0
	// HitRadius is the pick distance used by FindAt.
	HitRadius = 22.0
	// NodeRadius is the drawn circle radius.
	NodeRadius = 18.0
	// MinSlots is the minimum number of angular slots around a parent.
	MinSlots = 4
)

// Default styling.
const (
	DefaultColor    = "#4CAF50"
	DefaultFontSize = 14.0
	RootColor       = "#2196F3"
	RootFontSize    = 18.0
)

// Point is a position in canvas coordinates.
type Point struct {
	X, Y float64
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Node is a single labeled point in the tree.
type Node struct {
	ID         int
	Text       string
	X, Y       float64
	Children   []int // insertion order; defines angular draw order
	Parent     int   // NoParent for the root
	IsExpanded bool
	Color      string
	FontSize   float64
}

func newNode(id int, text string, x, y float64) *Node {
	return &Node{
		ID:         id,
		Text:       text,
		X:          x,
		Y:          y,
		Parent:     NoParent,
		IsExpanded: true,
		Color:      DefaultColor,
		FontSize:   DefaultFontSize,
	}
}

// Pos returns the node centre.
func (n *Node) Pos() Point {
	return Point{X: n.X, Y: n.Y}
}

// IsRoot reports whether n has no parent.
func (n *Node) IsRoot() bool {
	return n.Parent == NoParent
}

// HasChildren reports whether n has at least one child.
func (n *Node) HasChildren() bool {
	return len(n.Children) > 0
}

func (n *Node) removeChildID(id int) bool {
	for i, c := range n.Children {
		if c == id {
			n.Children = append(n.Children[:i:i], n.Children[i+1:]...)
			return true
		}
	}
	return false
}

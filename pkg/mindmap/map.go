package mindmap

import "math"

// Map is a mind-map tree. The zero value is not usable; call New.
//
// A Map is not safe for concurrent use. Callers own it from a single
// goroutine (the UI event loop).
type Map struct {
	nodes  map[int]*Node
	root   int
	nextID int
}

// New returns an empty map.
func New() *Map {
	return &Map{
		nodes: make(map[int]*Node),
		root:  NoParent,
	}
}

// Root returns the root node, or nil when the map is empty.
func (m *Map) Root() *Node {
	if m.root == NoParent {
		return nil
	}
	return m.nodes[m.root]
}

// Empty reports whether the map has no root.
func (m *Map) Empty() bool {
	return m.root == NoParent
}

// Len returns the number of nodes in the tree.
func (m *Map) Len() int {
	return len(m.nodes)
}

// NextID returns the identifier the next inserted node will receive.
func (m *Map) NextID() int {
	return m.nextID
}

// CreateRoot discards any existing tree and creates a root at center.
// The identifier counter restarts so the root is 0 and the next node is 1.
func (m *Map) CreateRoot(text string, center Point) *Node {
	m.nodes = make(map[int]*Node)
	m.nextID = 0

	root := newNode(m.allocID(), text, center.X, center.Y)
	root.Color = RootColor
	root.FontSize = RootFontSize
	m.nodes[root.ID] = root
	m.root = root.ID
	return root
}

// AddChild appends a new node under parentID and places it on the circle
// around its parent. It returns false and changes nothing if the parent is
// not part of the tree.
func (m *Map) AddChild(parentID int, text string) (*Node, bool) {
	parent := m.FindByID(parentID)
	if parent == nil {
		return nil, false
	}

	child := newNode(m.allocID(), text, 0, 0)
	child.Parent = parent.ID
	parent.Children = append(parent.Children, child.ID)
	m.nodes[child.ID] = child
	m.positionNode(child)
	return child, true
}

// RemoveChild detaches nodeID from its parent and discards its subtree.
// The root and unknown nodes are left alone and false is returned.
func (m *Map) RemoveChild(nodeID int) bool {
	n := m.FindByID(nodeID)
	if n == nil || n.IsRoot() {
		return false
	}
	parent := m.nodes[n.Parent]
	if parent == nil || !parent.removeChildID(n.ID) {
		return false
	}
	m.dropSubtree(n.ID)
	return true
}

func (m *Map) dropSubtree(id int) {
	n := m.nodes[id]
	if n == nil {
		return
	}
	for _, c := range n.Children {
		m.dropSubtree(c)
	}
	delete(m.nodes, id)
}

// FindByID searches the tree depth-first from the root.
func (m *Map) FindByID(id int) *Node {
	var found *Node
	m.Walk(func(n *Node, _ int) bool {
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// FindAt returns the first node, in parent-before-children order, whose
// centre lies within HitRadius of (x, y). Collapsed subtrees are searched too.
func (m *Map) FindAt(x, y float64) *Node {
	p := Point{X: x, Y: y}
	var found *Node
	m.Walk(func(n *Node, _ int) bool {
		if n.Pos().Dist(p) < HitRadius {
			found = n
			return false
		}
		return true
	})
	return found
}

// Walk visits the tree in pre-order, children in insertion order. Returning
// false from fn stops the walk.
func (m *Map) Walk(fn func(n *Node, depth int) bool) {
	if m.root == NoParent {
		return
	}
	m.walk(m.root, 0, fn)
}

func (m *Map) walk(id, depth int, fn func(*Node, int) bool) bool {
	n := m.nodes[id]
	if n == nil {
		return true
	}
	if !fn(n, depth) {
		return false
	}
	for _, c := range n.Children {
		if !m.walk(c, depth+1, fn) {
			return false
		}
	}
	return true
}

// ChildrenOf returns the child nodes of n in insertion order.
func (m *Map) ChildrenOf(n *Node) []*Node {
	out := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		if child := m.nodes[c]; child != nil {
			out = append(out, child)
		}
	}
	return out
}

// ParentOf returns the parent of n, or nil for the root.
func (m *Map) ParentOf(n *Node) *Node {
	if n.IsRoot() {
		return nil
	}
	return m.nodes[n.Parent]
}

// SetText replaces the label of id.
func (m *Map) SetText(id int, text string) bool {
	n := m.FindByID(id)
	if n == nil {
		return false
	}
	n.Text = text
	return true
}

// MoveTo sets the centre of id. No bounds are enforced.
func (m *Map) MoveTo(id int, x, y float64) bool {
	n := m.FindByID(id)
	if n == nil {
		return false
	}
	n.X, n.Y = x, y
	return true
}

// SetStyle updates fill colour and font size of id. Zero values keep the
// current setting.
func (m *Map) SetStyle(id int, color string, fontSize float64) bool {
	n := m.FindByID(id)
	if n == nil {
		return false
	}
	if color != "" {
		n.Color = color
	}
	if fontSize > 0 {
		n.FontSize = fontSize
	}
	return true
}

// ToggleExpanded flips whether the descendants of id are drawn.
func (m *Map) ToggleExpanded(id int) bool {
	n := m.FindByID(id)
	if n == nil {
		return false
	}
	n.IsExpanded = !n.IsExpanded
	return true
}

// Clear empties the tree and resets the identifier counter.
func (m *Map) Clear() {
	m.nodes = make(map[int]*Node)
	m.root = NoParent
	m.nextID = 0
}

// Stats summarises the shape of the tree.
type Stats struct {
	Nodes  int
	Leaves int
	Depth  int // 0 for an empty map, 1 for a lone root
}

// Stats walks the tree once and reports its size.
func (m *Map) Stats() Stats {
	var s Stats
	m.Walk(func(n *Node, depth int) bool {
		s.Nodes++
		if !n.HasChildren() {
			s.Leaves++
		}
		if depth+1 > s.Depth {
			s.Depth = depth + 1
		}
		return true
	})
	return s
}

func (m *Map) allocID() int {
	id := m.nextID
	m.nextID++
	return id
}

// positionNode places a freshly inserted child on a circle of ChildRadius
// around its parent. Slot i sits at i*2π/max(len(siblings), MinSlots), so
// fewer than MinSlots children leave gaps. Placement happens once; later
// sibling changes never move existing nodes.
func (m *Map) positionNode(n *Node) {
	parent := m.ParentOf(n)
	if parent == nil {
		return
	}

	index := 0
	for i, c := range parent.Children {
		if c == n.ID {
			index = i
			break
		}
	}
	slots := len(parent.Children)
	if slots < MinSlots {
		slots = MinSlots
	}
	angle := float64(index) * (2 * math.Pi / float64(slots))
	n.X = parent.X + math.Cos(angle)*ChildRadius
	n.Y = parent.Y + math.Sin(angle)*ChildRadius
}

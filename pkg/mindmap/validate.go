package mindmap

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/vanderheijden86/mindcanvas/pkg/metrics"
)

// ErrInvariant is wrapped by every error returned from Validate.
var ErrInvariant = errors.New("mindmap invariant violated")

// Validate checks the structural invariants of the tree: a single parentless
// root, one parent per node with a matching child link, no cycles, every
// node reachable from the root and an identifier counter ahead of all IDs.
func (m *Map) Validate() error {
	defer metrics.Timer(metrics.Validate)()
	if m.root == NoParent {
		if len(m.nodes) != 0 {
			return fmt.Errorf("%w: %d nodes without a root", ErrInvariant, len(m.nodes))
		}
		return nil
	}
	if _, ok := m.nodes[m.root]; !ok {
		return fmt.Errorf("%w: root %d missing from arena", ErrInvariant, m.root)
	}

	g := simple.NewDirectedGraph()
	for id := range m.nodes {
		g.AddNode(simple.Node(id))
	}

	roots := 0
	for id, n := range m.nodes {
		if n.ID != id {
			return fmt.Errorf("%w: node stored under %d has id %d", ErrInvariant, id, n.ID)
		}
		if id >= m.nextID {
			return fmt.Errorf("%w: id %d not below counter %d", ErrInvariant, id, m.nextID)
		}
		if n.IsRoot() {
			roots++
			continue
		}
		parent, ok := m.nodes[n.Parent]
		if !ok {
			return fmt.Errorf("%w: node %d has unknown parent %d", ErrInvariant, id, n.Parent)
		}
		links := 0
		for _, c := range parent.Children {
			if c == id {
				links++
			}
		}
		if links != 1 {
			return fmt.Errorf("%w: node %d listed %d times under parent %d", ErrInvariant, id, links, n.Parent)
		}
		if n.Parent == id {
			return fmt.Errorf("%w: node %d is its own parent", ErrInvariant, id)
		}
		g.SetEdge(g.NewEdge(simple.Node(n.Parent), simple.Node(id)))
	}
	if roots != 1 {
		return fmt.Errorf("%w: %d parentless nodes", ErrInvariant, roots)
	}

	for id, n := range m.nodes {
		for _, c := range n.Children {
			child, ok := m.nodes[c]
			if !ok {
				return fmt.Errorf("%w: node %d lists missing child %d", ErrInvariant, id, c)
			}
			if child.Parent != id {
				return fmt.Errorf("%w: child %d of %d points at parent %d", ErrInvariant, c, id, child.Parent)
			}
		}
	}

	if _, err := topo.Sort(g); err != nil {
		return fmt.Errorf("%w: cycle: %v", ErrInvariant, err)
	}

	reached := 0
	m.Walk(func(*Node, int) bool {
		reached++
		return true
	})
	if reached != len(m.nodes) {
		return fmt.Errorf("%w: %d of %d nodes unreachable from root", ErrInvariant, len(m.nodes)-reached, len(m.nodes))
	}
	return nil
}

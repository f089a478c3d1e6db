package mindmap

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/mindcanvas/pkg/metrics"
)

var (
	// ErrEmpty is returned by Export when the map has no root.
	ErrEmpty = errors.New("mind map is empty")
	// ErrMalformed wraps every Import failure.
	ErrMalformed = errors.New("malformed mind map")
)

// MaxID is the largest node ID Import accepts. It is the largest integer a
// JSON number holds exactly, and leaves the counter room to grow.
const MaxID = 1<<53 - 1

// record is the exported shape of one node and, recursively, its subtree.
type record struct {
	ID         *int      `json:"id"`
	Text       string    `json:"text"`
	X          float64   `json:"x"`
	Y          float64   `json:"y"`
	Color      string    `json:"color"`
	FontSize   float64   `json:"fontSize"`
	IsExpanded *bool     `json:"isExpanded"`
	Children   []*record `json:"children"`
}

// Export serializes the tree in pre-order starting at the root as indented
// JSON. It returns ErrEmpty when there is nothing to export.
func (m *Map) Export() ([]byte, error) {
	defer metrics.Timer(metrics.JSONEncode)()
	root := m.Root()
	if root == nil {
		return nil, ErrEmpty
	}
	data, err := json.MarshalIndent(m.toRecord(root), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode mind map: %w", err)
	}
	return data, nil
}

func (m *Map) toRecord(n *Node) *record {
	id := n.ID
	expanded := n.IsExpanded
	r := &record{
		ID:         &id,
		Text:       n.Text,
		X:          n.X,
		Y:          n.Y,
		Color:      n.Color,
		FontSize:   n.FontSize,
		IsExpanded: &expanded,
		Children:   make([]*record, 0, len(n.Children)),
	}
	for _, child := range m.ChildrenOf(n) {
		r.Children = append(r.Children, m.toRecord(child))
	}
	return r
}

// Import replaces the tree with the one encoded in data. On any failure the
// current tree is left exactly as it was and the error wraps ErrMalformed.
// A JSON null document clears the map.
//
// After a successful import the identifier counter is at least one past the
// largest imported ID, so later inserts never collide.
func (m *Map) Import(data []byte) error {
	defer metrics.Timer(metrics.JSONDecode)()
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("%w: empty document", ErrMalformed)
	}

	var top *record
	if err := json.Unmarshal(trimmed, &top); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if top == nil {
		m.Clear()
		return nil
	}

	b := &builder{nodes: make(map[int]*Node)}
	rootID, err := b.build(top, NoParent)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	next := b.maxID + 1
	if m.nextID > next {
		next = m.nextID
	}
	m.nodes = b.nodes
	m.root = rootID
	m.nextID = next
	return nil
}

type builder struct {
	nodes map[int]*Node
	maxID int
}

func (b *builder) build(r *record, parent int) (int, error) {
	if r.ID == nil {
		return 0, errors.New("node without id")
	}
	id := *r.ID
	if id < 0 {
		return 0, fmt.Errorf("negative id %d", id)
	}
	if id > MaxID {
		return 0, fmt.Errorf("id %d exceeds %d", id, MaxID)
	}
	if _, dup := b.nodes[id]; dup {
		return 0, fmt.Errorf("duplicate id %d", id)
	}
	if id > b.maxID {
		b.maxID = id
	}

	n := newNode(id, r.Text, r.X, r.Y)
	n.Parent = parent
	if r.Color != "" {
		n.Color = r.Color
	}
	if r.FontSize > 0 {
		n.FontSize = r.FontSize
	}
	if r.IsExpanded != nil {
		n.IsExpanded = *r.IsExpanded
	}
	b.nodes[id] = n

	for _, child := range r.Children {
		if child == nil {
			continue
		}
		cid, err := b.build(child, id)
		if err != nil {
			return 0, err
		}
		n.Children = append(n.Children, cid)
	}
	return id, nil
}

package mindmap

import (
	"testing"

	"pgregory.net/rapid"
)

// applyOps drives a map through a random sequence of tree operations and
// checks the structural invariants after every step.
func applyOps(t *rapid.T, m *Map) {
	steps := rapid.IntRange(1, 60).Draw(t, "steps")
	for i := 0; i < steps; i++ {
		op := rapid.IntRange(0, 5).Draw(t, "op")
		switch op {
		case 0:
			if m.Empty() || rapid.IntRange(0, 9).Draw(t, "recreate") == 0 {
				m.CreateRoot("root", Point{X: 400, Y: 300})
			}
		case 1, 2:
			parent := rapid.IntRange(-1, m.NextID()).Draw(t, "parent")
			before := m.Len()
			n, ok := m.AddChild(parent, "child")
			if ok {
				if m.Len() != before+1 || n.Parent != parent {
					t.Fatalf("AddChild(%d) produced %+v", parent, n)
				}
			} else if m.Len() != before {
				t.Fatalf("failed AddChild(%d) changed the tree", parent)
			}
		case 3:
			id := rapid.IntRange(0, m.NextID()).Draw(t, "remove")
			root := m.Root()
			removed := m.RemoveChild(id)
			if root != nil && id == root.ID && removed {
				t.Fatal("root was removed")
			}
		case 4:
			data, err := m.Export()
			if err == nil {
				if err := m.Import(data); err != nil {
					t.Fatalf("re-import failed: %v", err)
				}
			}
		case 5:
			if rapid.IntRange(0, 19).Draw(t, "clear") == 0 {
				m.Clear()
			}
		}
		if err := m.Validate(); err != nil {
			t.Fatalf("step %d op %d: %v", i, op, err)
		}
	}
}

func TestProperty_TreeInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		applyOps(t, New())
	})
}

func TestProperty_IdentifiersUnique(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := New()
		applyOps(t, m)
		seen := make(map[int]bool)
		m.Walk(func(n *Node, _ int) bool {
			if seen[n.ID] {
				t.Fatalf("duplicate id %d", n.ID)
			}
			if n.ID >= m.NextID() {
				t.Fatalf("id %d not below counter %d", n.ID, m.NextID())
			}
			seen[n.ID] = true
			return true
		})
		if m.Empty() {
			return
		}
		n, ok := m.AddChild(m.Root().ID, "fresh")
		if !ok || seen[n.ID] {
			t.Fatalf("fresh node reused id %d", n.ID)
		}
	})
}

func TestProperty_RoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		src := New()
		applyOps(rt, src)
		data, err := src.Export()
		if src.Empty() {
			if err == nil {
				rt.Fatal("export of empty map should fail")
			}
			return
		}
		if err != nil {
			rt.Fatal(err)
		}
		dst := New()
		if err := dst.Import(data); err != nil {
			rt.Fatal(err)
		}
		again, err := dst.Export()
		if err != nil {
			rt.Fatal(err)
		}
		if string(again) != string(data) {
			rt.Fatalf("round trip changed the document:\n%s\n---\n%s", data, again)
		}
		if dst.NextID() <= maxID(src) {
			rt.Fatalf("counter %d not past max id %d", dst.NextID(), maxID(src))
		}
	})
}

func maxID(m *Map) int {
	best := -1
	m.Walk(func(n *Node, _ int) bool {
		if n.ID > best {
			best = n.ID
		}
		return true
	})
	return best
}

package mindmap

import (
	"errors"
	"strings"
	"testing"
)

func sampleMap() *Map {
	m := New()
	root := m.CreateRoot("Idea", Point{X: 300, Y: 200})
	a, _ := m.AddChild(root.ID, "A")
	b, _ := m.AddChild(root.ID, "B")
	m.AddChild(a.ID, "A1")
	m.SetStyle(b.ID, "#123456", 11)
	m.MoveTo(b.ID, 10, 20)
	m.ToggleExpanded(a.ID)
	return m
}

func assertIsomorphic(t *testing.T, want, got *Map) {
	t.Helper()
	if want.Len() != got.Len() {
		t.Fatalf("node count = %d, want %d", got.Len(), want.Len())
	}
	var cmp func(w, g *Node)
	cmp = func(w, g *Node) {
		if g == nil {
			t.Fatalf("missing node for %d", w.ID)
		}
		if w.ID != g.ID || w.Text != g.Text || w.X != g.X || w.Y != g.Y ||
			w.Color != g.Color || w.FontSize != g.FontSize || w.IsExpanded != g.IsExpanded {
			t.Errorf("node mismatch:\nwant %+v\ngot  %+v", *w, *g)
		}
		if len(w.Children) != len(g.Children) {
			t.Fatalf("node %d: %d children, want %d", w.ID, len(g.Children), len(w.Children))
		}
		for i := range w.Children {
			cmp(want.nodes[w.Children[i]], got.nodes[g.Children[i]])
		}
	}
	cmp(want.Root(), got.Root())
}

func TestExport_EmptyMap(t *testing.T) {
	data, err := New().Export()
	if !errors.Is(err, ErrEmpty) || data != nil {
		t.Fatalf("Export on empty map = %q, %v", data, err)
	}
}

func TestExport_Format(t *testing.T) {
	data, err := sampleMap().Export()
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	for _, want := range []string{
		`"id": 0`,
		`"text": "Idea"`,
		`"fontSize": 18`,
		`"isExpanded": false`,
		`"color": "#123456"`,
		"\n  \"children\": [",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("export missing %q:\n%s", want, s)
		}
	}
	if !strings.HasPrefix(s, "{\n  \"id\"") {
		t.Errorf("expected pretty printed object with id first:\n%s", s)
	}
}

func TestRoundTrip(t *testing.T) {
	src := sampleMap()
	data, err := src.Export()
	if err != nil {
		t.Fatal(err)
	}

	dst := New()
	if err := dst.Import(data); err != nil {
		t.Fatal(err)
	}
	assertIsomorphic(t, src, dst)
	if err := dst.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestImport_AdvancesCounter(t *testing.T) {
	doc := `{"id": 3, "text": "r", "x": 0, "y": 0, "color": "#2196F3", "fontSize": 18, "isExpanded": true,
		"children": [{"id": 17, "text": "c", "x": 1, "y": 1, "color": "#4CAF50", "fontSize": 14, "isExpanded": true, "children": []}]}`
	m := New()
	if err := m.Import([]byte(doc)); err != nil {
		t.Fatal(err)
	}
	if m.NextID() != 18 {
		t.Errorf("next id = %d, want 18", m.NextID())
	}
	n, ok := m.AddChild(3, "new")
	if !ok || n.ID != 18 {
		t.Fatalf("AddChild after import = %+v, %v", n, ok)
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestImport_CounterNeverMovesBackwards(t *testing.T) {
	m := New()
	root := m.CreateRoot("r", Point{})
	for i := 0; i < 9; i++ {
		m.AddChild(root.ID, "c")
	}
	if err := m.Import([]byte(`{"id": 0, "text": "small", "children": []}`)); err != nil {
		t.Fatal(err)
	}
	if m.NextID() != 10 {
		t.Errorf("next id = %d, want 10", m.NextID())
	}
}

func TestImport_LargestIDKeepsCounterAhead(t *testing.T) {
	m := New()
	doc := `{"id": 9007199254740991, "text": "r", "children": [{"id": 1, "text": "c"}]}`
	if err := m.Import([]byte(doc)); err != nil {
		t.Fatal(err)
	}
	if m.NextID() != MaxID+1 {
		t.Fatalf("next id = %d, want %d", m.NextID(), MaxID+1)
	}
	a, _ := m.AddChild(MaxID, "a")
	b, _ := m.AddChild(MaxID, "b")
	if a.ID <= MaxID || b.ID <= a.ID {
		t.Errorf("new ids %d, %d reuse the imported range", a.ID, b.ID)
	}
	if m.Len() != 4 {
		t.Errorf("len = %d, want 4", m.Len())
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestImport_MalformedLeavesTreeUntouched(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"truncated", `{"id": 0, "text": "r", "children": [`},
		{"empty", ``},
		{"not an object", `[1, 2, 3]`},
		{"missing id", `{"text": "r"}`},
		{"negative id", `{"id": -4, "text": "r"}`},
		{"max int id", `{"id": 9223372036854775807, "text": "r", "children": [{"id": 1}]}`},
		{"id past max", `{"id": 0, "children": [{"id": 9007199254740992}]}`},
		{"duplicate id", `{"id": 1, "children": [{"id": 1}]}`},
		{"wrong type", `{"id": "zero"}`},
		{"trailing garbage", `{"id": 0} {`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := sampleMap()
			before, _ := m.Export()
			next := m.NextID()

			err := m.Import([]byte(tt.doc))
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("Import(%q) error = %v, want ErrMalformed", tt.doc, err)
			}
			after, _ := m.Export()
			if string(before) != string(after) || m.NextID() != next {
				t.Error("tree changed after failed import")
			}
		})
	}
}

func TestImport_DefaultsMissingStyle(t *testing.T) {
	m := New()
	if err := m.Import([]byte(`{"id": 0, "text": "r", "children": [null, {"id": 1, "text": "c"}]}`)); err != nil {
		t.Fatal(err)
	}
	root := m.Root()
	if len(root.Children) != 1 {
		t.Fatalf("null children should be skipped, got %v", root.Children)
	}
	c := m.FindByID(1)
	if c.Color != DefaultColor || c.FontSize != DefaultFontSize || !c.IsExpanded {
		t.Errorf("defaults not applied: %+v", *c)
	}
	if c.Parent != root.ID {
		t.Errorf("parent = %d, want %d", c.Parent, root.ID)
	}
}

func TestImport_NullClears(t *testing.T) {
	m := sampleMap()
	if err := m.Import([]byte("null")); err != nil {
		t.Fatal(err)
	}
	if !m.Empty() {
		t.Error("expected empty map after importing null")
	}
}

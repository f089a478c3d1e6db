package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/mindcanvas/pkg/mindmap"
)

// AssertValid fails the test if the tree breaks a structural invariant.
func AssertValid(t *testing.T, m *mindmap.Map) {
	t.Helper()
	if err := m.Validate(); err != nil {
		t.Fatalf("invalid map: %v", err)
	}
}

// AssertNodeCount verifies the expected number of nodes.
func AssertNodeCount(t *testing.T, m *mindmap.Map, expected int) {
	t.Helper()
	if got := m.Len(); got != expected {
		t.Errorf("expected %d nodes, got %d", expected, got)
	}
}

// AssertNoDuplicateIDs verifies that a walk sees every ID once.
func AssertNoDuplicateIDs(t *testing.T, m *mindmap.Map) {
	t.Helper()
	seen := make(map[int]bool)
	m.Walk(func(n *mindmap.Node, _ int) bool {
		if seen[n.ID] {
			t.Errorf("duplicate node ID: %d", n.ID)
		}
		seen[n.ID] = true
		return true
	})
}

// AssertRoundTrip exports m, imports the result into a fresh map and checks
// that the second export is byte-identical. It returns the imported map.
func AssertRoundTrip(t *testing.T, m *mindmap.Map) *mindmap.Map {
	t.Helper()
	first, err := m.Export()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	back := mindmap.New()
	if err := back.Import(first); err != nil {
		t.Fatalf("import: %v", err)
	}
	second, err := back.Export()
	if err != nil {
		t.Fatalf("re-export: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("round trip changed the document:\nfirst:  %s\nsecond: %s", first, second)
	}
	return back
}

// AssertJSONEqual compares two documents after decoding, so formatting and
// key order do not matter.
func AssertJSONEqual(t *testing.T, expected, actual []byte) {
	t.Helper()

	var want, got any
	if err := json.Unmarshal(expected, &want); err != nil {
		t.Fatalf("failed to decode expected: %v", err)
	}
	if err := json.Unmarshal(actual, &got); err != nil {
		t.Fatalf("failed to decode actual: %v", err)
	}

	wantJSON, _ := json.Marshal(want)
	gotJSON, _ := json.Marshal(got)
	if !bytes.Equal(wantJSON, gotJSON) {
		t.Errorf("JSON mismatch:\nexpected: %s\nactual:   %s", wantJSON, gotJSON)
	}
}

// WriteMapFile exports m to dir/name and returns the path.
func WriteMapFile(t *testing.T, dir, name string, m *mindmap.Map) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, Document(m), 0644); err != nil {
		t.Fatalf("failed to write map file: %v", err)
	}
	return path
}

// Labels returns node labels in pre-order.
func Labels(m *mindmap.Map) []string {
	var out []string
	m.Walk(func(n *mindmap.Node, _ int) bool {
		out = append(out, n.Text)
		return true
	})
	return out
}

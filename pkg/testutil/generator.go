// Package testutil provides test fixture generators for mind-map shapes.
// All generators produce deterministic output for reproducible tests.
package testutil

import (
	"fmt"
	"math/rand"

	"github.com/vanderheijden86/mindcanvas/pkg/mindmap"
)

// GeneratorConfig controls map generation.
type GeneratorConfig struct {
	Seed        int64         // Random seed for determinism (0 = use current time)
	LabelPrefix string        // Prefix for node labels (default: "n")
	Center      mindmap.Point // Root position (default: 400,300)
	// CollapseRate is the chance that a generated node with children is
	// collapsed. Only Random uses it.
	CollapseRate float64
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:        42, // Deterministic
		LabelPrefix: "n",
		Center:      mindmap.Point{X: 400, Y: 300},
	}
}

// Generator creates maps with various shapes. Every map is built through
// the public mindmap operations, so node placement is the real one.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	if cfg.LabelPrefix == "" {
		cfg.LabelPrefix = "n"
	}
	if cfg.Center == (mindmap.Point{}) {
		cfg.Center = mindmap.Point{X: 400, Y: 300}
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

func (g *Generator) label(id int) string {
	return fmt.Sprintf("%s%d", g.cfg.LabelPrefix, id)
}

func (g *Generator) root() *mindmap.Map {
	m := mindmap.New()
	m.CreateRoot(g.label(0), g.cfg.Center)
	return m
}

func (g *Generator) add(m *mindmap.Map, parent int) *mindmap.Node {
	n, ok := m.AddChild(parent, g.label(m.NextID()))
	if !ok {
		panic(fmt.Sprintf("testutil: parent %d missing", parent))
	}
	return n
}

// Chain creates n0 -> n1 -> ... -> n{size-1}, each node the only child of
// the previous one. Depth = size.
func (g *Generator) Chain(size int) *mindmap.Map {
	m := g.root()
	parent := m.Root().ID
	for i := 1; i < size; i++ {
		parent = g.add(m, parent).ID
	}
	return m
}

// Star creates a root with spokes leaf children.
func (g *Generator) Star(spokes int) *mindmap.Map {
	m := g.root()
	for i := 0; i < spokes; i++ {
		g.add(m, m.Root().ID)
	}
	return m
}

// Tree creates a full tree: every node above the last level has breadth
// children. Nodes are added breadth-first, so IDs follow levels.
func (g *Generator) Tree(depth, breadth int) *mindmap.Map {
	if depth < 1 {
		depth = 1
	}
	if breadth < 1 {
		breadth = 1
	}

	m := g.root()
	level := []int{m.Root().ID}
	for d := 1; d < depth; d++ {
		var next []int
		for _, parent := range level {
			for b := 0; b < breadth; b++ {
				next = append(next, g.add(m, parent).ID)
			}
		}
		level = next
	}
	return m
}

// Random creates size nodes, each under a uniformly chosen earlier node.
func (g *Generator) Random(size int) *mindmap.Map {
	m := g.root()
	ids := []int{m.Root().ID}
	for i := 1; i < size; i++ {
		parent := ids[g.rng.Intn(len(ids))]
		ids = append(ids, g.add(m, parent).ID)
	}
	if g.cfg.CollapseRate > 0 {
		for _, id := range ids {
			n := m.FindByID(id)
			if n.HasChildren() && g.rng.Float64() < g.cfg.CollapseRate {
				m.ToggleExpanded(id)
			}
		}
	}
	return m
}

// Document exports m, panicking on failure. For fixtures only.
func Document(m *mindmap.Map) []byte {
	data, err := m.Export()
	if err != nil {
		panic(fmt.Sprintf("testutil: export: %v", err))
	}
	return data
}

// QuickChain creates a chain with the default generator.
func QuickChain(size int) *mindmap.Map {
	return NewDefault().Chain(size)
}

// QuickStar creates a star with the default generator.
func QuickStar(spokes int) *mindmap.Map {
	return NewDefault().Star(spokes)
}

// QuickTree creates a tree with the default generator.
func QuickTree(depth, breadth int) *mindmap.Map {
	return NewDefault().Tree(depth, breadth)
}

// QuickRandom creates a random map with the default generator.
func QuickRandom(size int) *mindmap.Map {
	return NewDefault().Random(size)
}

// Single returns a map holding only a root.
func Single() *mindmap.Map {
	return NewDefault().root()
}

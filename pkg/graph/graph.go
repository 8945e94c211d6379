package graph

import (
	"math/rand"
)

// Bounding rectangle for freshly scattered node positions.
const (
	scatterMinX   = 100.0
	scatterMinY   = 100.0
	scatterWidth  = 600.0
	scatterHeight = 400.0
)

// Base node radius, grown by up to the same amount for the best-connected node.
const baseRadius = 25.0

// Graph owns the node store, the edge list, and the derived adjacency
// structures. Edges and adjacency reference nodes by integer index into the
// single node slice; nothing outside this package mutates topology.
type Graph struct {
	Nodes []Node
	Edges []Edge

	// weights is a dense symmetric matrix of edge weights. When multiple
	// triples hit the same node pair, the last-processed triple's weight
	// wins; weights are not combined.
	weights [][]float64

	// neighbors holds the adjacency set per node: distinct neighbor
	// indexes, self-loops excluded.
	neighbors []map[int]bool

	// version increments on every Rebuild. Derived state (ranks,
	// velocities) captured under an older version is dead.
	version uint64
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{}
}

// Rebuild replaces the entire topology from the given triples. Node indexes
// are assigned in first-seen order of distinct labels across subject and
// object fields. Self-referential triples are dropped; every other triple
// becomes one edge, duplicates included. Initial positions are drawn from
// rng so callers control reproducibility.
func (g *Graph) Rebuild(triples []Triple, rng *rand.Rand) {
	g.version++

	g.Nodes = g.Nodes[:0]
	g.Edges = g.Edges[:0]

	index := make(map[string]int)
	intern := func(label string) int {
		if i, ok := index[label]; ok {
			return i
		}
		i := len(g.Nodes)
		index[label] = i
		g.Nodes = append(g.Nodes, Node{Index: i, Label: label})
		return i
	}

	for _, t := range triples {
		intern(t.Subject)
		intern(t.Object)
	}

	n := len(g.Nodes)
	g.weights = make([][]float64, n)
	g.neighbors = make([]map[int]bool, n)
	for i := 0; i < n; i++ {
		g.weights[i] = make([]float64, n)
		g.neighbors[i] = make(map[int]bool)
	}

	g.Scatter(rng)

	for _, t := range triples {
		from := index[t.Subject]
		to := index[t.Object]
		if from == to {
			continue
		}
		g.Edges = append(g.Edges, Edge{From: from, To: to, Predicate: t.Predicate})

		w := SeverityWeight(t.Severity)
		g.weights[from][to] = w
		g.weights[to][from] = w
		g.neighbors[from][to] = true
		g.neighbors[to][from] = true
	}

	maxConnections := 0
	for i := range g.Nodes {
		g.Nodes[i].Connections = len(g.neighbors[i])
		if g.Nodes[i].Connections > maxConnections {
			maxConnections = g.Nodes[i].Connections
		}
	}

	for i := range g.Nodes {
		if maxConnections > 0 {
			g.Nodes[i].Radius = baseRadius + baseRadius*float64(g.Nodes[i].Connections)/float64(maxConnections)
		} else {
			g.Nodes[i].Radius = baseRadius
		}
	}
}

// Scatter re-randomizes every node position within the initial bounding
// rectangle. Topology is untouched; callers owning per-node simulation state
// should zero it alongside.
func (g *Graph) Scatter(rng *rand.Rand) {
	for i := range g.Nodes {
		g.Nodes[i].Position = Position{
			X: scatterMinX + rng.Float64()*scatterWidth,
			Y: scatterMinY + rng.Float64()*scatterHeight,
		}
	}
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of edges, duplicates included.
func (g *Graph) EdgeCount() int { return len(g.Edges) }

// Version identifies the current topology generation.
func (g *Graph) Version() uint64 { return g.version }

// Neighbors returns the adjacency set for a node. The returned map is the
// graph's own; callers must not mutate it. Out-of-range indexes yield nil.
func (g *Graph) Neighbors(i int) map[int]bool {
	if i < 0 || i >= len(g.neighbors) {
		return nil
	}
	return g.neighbors[i]
}

// Degree returns the adjacency-set size for a node, 0 when out of range.
func (g *Graph) Degree(i int) int {
	return len(g.Neighbors(i))
}

// Weight returns the adjacency weight between two nodes, 0 when either index
// is out of range or no edge connects them.
func (g *Graph) Weight(i, j int) float64 {
	if i < 0 || j < 0 || i >= len(g.weights) || j >= len(g.weights) {
		return 0
	}
	return g.weights[i][j]
}

// IndexOf resolves a label to its node index.
func (g *Graph) IndexOf(label string) (int, bool) {
	for i := range g.Nodes {
		if g.Nodes[i].Label == label {
			return i, true
		}
	}
	return 0, false
}

// ConnectedTo lists the edges touching a node, preserving edge order. Used by
// the presentation layer for the selection info panel.
func (g *Graph) ConnectedTo(i int) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.From == i || e.To == i {
			out = append(out, e)
		}
	}
	return out
}

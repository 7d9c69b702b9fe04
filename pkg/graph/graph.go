package graph

import (
	"sort"

	"github.com/OFFIS-RIT/coauthor/pkg/author"
)

// Edge is an undirected co-authorship link. A is always the smaller name.
type Edge struct {
	A author.Name
	B author.Name
}

// NewEdge returns the normalized edge between a and b.
func NewEdge(a, b author.Name) Edge {
	if b < a {
		a, b = b, a
	}
	return Edge{A: a, B: b}
}

// Graph is the co-authorship graph accumulated over a corpus. Nodes are
// canonical author names, edges are unweighted and undirected. Inserting an
// existing node or edge is a no-op.
//
// A Graph is not safe for concurrent mutation.
type Graph struct {
	nodes  map[author.Name]struct{}
	edges  map[Edge]struct{}
	degree map[author.Name]int
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{
		nodes:  make(map[author.Name]struct{}),
		edges:  make(map[Edge]struct{}),
		degree: make(map[author.Name]int),
	}
}

// AddNode inserts n and reports whether it was new.
func (g *Graph) AddNode(n author.Name) bool {
	if _, ok := g.nodes[n]; ok {
		return false
	}
	g.nodes[n] = struct{}{}
	return true
}

// AddEdge inserts the edge between a and b, adding missing endpoints, and
// reports whether the edge was new. Self-loops are ignored.
func (g *Graph) AddEdge(a, b author.Name) bool {
	if a == b {
		return false
	}
	e := NewEdge(a, b)
	if _, ok := g.edges[e]; ok {
		return false
	}
	g.AddNode(a)
	g.AddNode(b)
	g.edges[e] = struct{}{}
	g.degree[a]++
	g.degree[b]++
	return true
}

// Accumulate merges one document's author set into the graph: every member
// becomes a node and every pair of members becomes an edge. It returns the
// number of nodes and edges that were new.
func (g *Graph) Accumulate(set author.Set) (newNodes, newEdges int) {
	names := set.Sorted()
	for _, n := range names {
		if g.AddNode(n) {
			newNodes++
		}
	}
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			if g.AddEdge(names[i], names[j]) {
				newEdges++
			}
		}
	}
	return newNodes, newEdges
}

func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

func (g *Graph) HasNode(n author.Name) bool {
	_, ok := g.nodes[n]
	return ok
}

// HasEdge reports whether a and b are linked, in either orientation.
func (g *Graph) HasEdge(a, b author.Name) bool {
	_, ok := g.edges[NewEdge(a, b)]
	return ok
}

// Degree returns the number of distinct co-authors of n.
func (g *Graph) Degree(n author.Name) int {
	return g.degree[n]
}

// Nodes returns all nodes in ascending order.
func (g *Graph) Nodes() []author.Name {
	nodes := make([]author.Name, 0, len(g.nodes))
	for n := range g.nodes {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })
	return nodes
}

// Edges returns all edges ordered by A, then B.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, len(g.edges))
	for e := range g.edges {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].A != edges[j].A {
			return edges[i].A < edges[j].A
		}
		return edges[i].B < edges[j].B
	})
	return edges
}

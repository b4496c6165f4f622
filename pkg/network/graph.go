package network

import (
	"fmt"
)

// Graph is an unweighted undirected graph over a fixed vertex set.
// Edges are stored in a flat adjacency bitmap so that membership tests
// during motif counting are O(1).
type Graph struct {
	NumNodes int      `json:"num_nodes"`
	Labels   []string `json:"labels,omitempty"` // optional gene identifiers, len == NumNodes

	adj      []bool // row-major n*n, symmetric, zero diagonal
	degrees  []int
	numEdges int
}

// NewGraph creates an empty graph with n vertices
func NewGraph(n int) *Graph {
	return &Graph{
		NumNodes: n,
		adj:      make([]bool, n*n),
		degrees:  make([]int, n),
	}
}

// AddEdge adds an undirected edge between u and v.
// Self-loops are rejected; adding an existing edge is a no-op.
func (g *Graph) AddEdge(u, v int) error {
	if u < 0 || u >= g.NumNodes || v < 0 || v >= g.NumNodes {
		return fmt.Errorf("node index out of range: u=%d, v=%d, numNodes=%d", u, v, g.NumNodes)
	}
	if u == v {
		return fmt.Errorf("self-loops are not allowed: node %d", u)
	}
	if g.adj[u*g.NumNodes+v] {
		return nil
	}
	g.adj[u*g.NumNodes+v] = true
	g.adj[v*g.NumNodes+u] = true
	g.degrees[u]++
	g.degrees[v]++
	g.numEdges++
	return nil
}

// HasEdge reports whether an edge exists between u and v
func (g *Graph) HasEdge(u, v int) bool {
	if u < 0 || u >= g.NumNodes || v < 0 || v >= g.NumNodes {
		return false
	}
	return g.adj[u*g.NumNodes+v]
}

// Degree returns the number of neighbors of node u
func (g *Graph) Degree(u int) int {
	if u < 0 || u >= g.NumNodes {
		return 0
	}
	return g.degrees[u]
}

// NumEdges returns the number of undirected edges
func (g *Graph) NumEdges() int {
	return g.numEdges
}

// MeanDegree returns the average vertex degree
func (g *Graph) MeanDegree() float64 {
	if g.NumNodes == 0 {
		return 0
	}
	return 2.0 * float64(g.numEdges) / float64(g.NumNodes)
}

// Neighbors returns the neighbor indices of node u
func (g *Graph) Neighbors(u int) []int {
	if u < 0 || u >= g.NumNodes {
		return nil
	}
	neighbors := make([]int, 0, g.degrees[u])
	row := g.adj[u*g.NumNodes : (u+1)*g.NumNodes]
	for v, connected := range row {
		if connected {
			neighbors = append(neighbors, v)
		}
	}
	return neighbors
}

// InducedSubgraph builds the subgraph on the given vertex subset, keeping
// every edge of g whose endpoints are both in the subset. Vertex i of the
// result corresponds to vertices[i] of g.
func (g *Graph) InducedSubgraph(vertices []int) (*Graph, error) {
	sub := NewGraph(len(vertices))
	if g.Labels != nil {
		sub.Labels = make([]string, len(vertices))
	}
	for i, u := range vertices {
		if u < 0 || u >= g.NumNodes {
			return nil, fmt.Errorf("vertex %d out of range [0, %d)", u, g.NumNodes)
		}
		if g.Labels != nil {
			sub.Labels[i] = g.Labels[u]
		}
		for j := i + 1; j < len(vertices); j++ {
			if g.HasEdge(u, vertices[j]) {
				if err := sub.AddEdge(i, j); err != nil {
					return nil, err
				}
			}
		}
	}
	return sub, nil
}

// Validate checks structural consistency: symmetry, zero diagonal, degree sums
func (g *Graph) Validate() error {
	if g.NumNodes < 0 {
		return fmt.Errorf("negative node count: %d", g.NumNodes)
	}
	if g.Labels != nil && len(g.Labels) != g.NumNodes {
		return fmt.Errorf("label count %d does not match node count %d", len(g.Labels), g.NumNodes)
	}
	edgeCount := 0
	for i := 0; i < g.NumNodes; i++ {
		if g.adj[i*g.NumNodes+i] {
			return fmt.Errorf("self-loop on node %d", i)
		}
		deg := 0
		for j := 0; j < g.NumNodes; j++ {
			if g.adj[i*g.NumNodes+j] != g.adj[j*g.NumNodes+i] {
				return fmt.Errorf("asymmetric edge between %d and %d", i, j)
			}
			if g.adj[i*g.NumNodes+j] {
				deg++
			}
		}
		if deg != g.degrees[i] {
			return fmt.Errorf("degree mismatch for node %d: stored %d, actual %d", i, g.degrees[i], deg)
		}
		edgeCount += deg
	}
	if edgeCount != 2*g.numEdges {
		return fmt.Errorf("edge count mismatch: stored %d, actual %d", g.numEdges, edgeCount/2)
	}
	return nil
}

package modules

import (
	"fmt"

	"github.com/coexnet/motif-comparison-service/pkg/network"
)

// moduleGraph is the weighted adjacency-list representation used during
// modularity optimization. On levels above the first, nodes are
// aggregated modules rather than genes.
type moduleGraph struct {
	numNodes    int
	adjacency   [][]int
	weights     [][]float64
	degrees     []float64
	totalWeight float64
}

func newModuleGraph(numNodes int) *moduleGraph {
	return &moduleGraph{
		numNodes:  numNodes,
		adjacency: make([][]int, numNodes),
		weights:   make([][]float64, numNodes),
		degrees:   make([]float64, numNodes),
	}
}

// fromNetwork converts a binary co-expression graph into a weighted graph
// with unit edge weights
func fromNetwork(g *network.Graph) *moduleGraph {
	mg := newModuleGraph(g.NumNodes)
	for u := 0; u < g.NumNodes; u++ {
		for _, v := range g.Neighbors(u) {
			if v > u {
				mg.addEdge(u, v, 1.0)
			}
		}
	}
	return mg
}

func (g *moduleGraph) addEdge(u, v int, weight float64) {
	g.adjacency[u] = append(g.adjacency[u], v)
	g.weights[u] = append(g.weights[u], weight)
	g.degrees[u] += weight

	if u != v {
		g.adjacency[v] = append(g.adjacency[v], u)
		g.weights[v] = append(g.weights[v], weight)
		g.degrees[v] += weight
	} else {
		g.degrees[u] += weight
	}
	g.totalWeight += weight
}

func (g *moduleGraph) edgeWeight(u, v int) float64 {
	for i, neighbor := range g.adjacency[u] {
		if neighbor == v {
			return g.weights[u][i]
		}
	}
	return 0
}

func (g *moduleGraph) validate() error {
	if g.numNodes <= 0 {
		return fmt.Errorf("graph must have at least one node")
	}
	for i := 0; i < g.numNodes; i++ {
		if len(g.adjacency[i]) != len(g.weights[i]) {
			return fmt.Errorf("adjacency and weights inconsistent for node %d", i)
		}
		for _, neighbor := range g.adjacency[i] {
			if neighbor < 0 || neighbor >= g.numNodes {
				return fmt.Errorf("invalid neighbor %d for node %d", neighbor, i)
			}
		}
	}
	return nil
}

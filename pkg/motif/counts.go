package motif

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/coexnet/motif-comparison-service/pkg/network"
)

// Counts holds the four motif counts for one sampled subgraph. A Counts
// value is created once per sampling iteration and never mutated.
type Counts struct {
	Triangle  int `json:"triangle"`
	VShape    int `json:"v_shape"`
	ThreeStar int `json:"three_star"`
	Square    int `json:"square"`
}

// MotifNames lists the motif types in canonical output order
var MotifNames = []string{"triangle", "v_shape", "three_star", "square"}

// Vector returns the counts in MotifNames order
func (c Counts) Vector() [4]float64 {
	return [4]float64{
		float64(c.Triangle),
		float64(c.VShape),
		float64(c.ThreeStar),
		float64(c.Square),
	}
}

// Count computes the four motif counts of a graph. Graphs with fewer than
// three vertices are degenerate and yield all-zero counts; squares require
// at least four vertices.
func Count(g *network.Graph) Counts {
	n := g.NumNodes
	if n < 3 {
		return Counts{}
	}

	// Closed paths of length 2: each triangle is seen once per vertex.
	closedPaths := 0
	cherries := 0 // sum over vertices of C(degree, 2), open and closed
	stars := 0
	for v := 0; v < n; v++ {
		neighbors := g.Neighbors(v)
		d := len(neighbors)
		cherries += choose2(d)
		stars += choose3(d)
		for i := 0; i < d; i++ {
			for j := i + 1; j < d; j++ {
				if g.HasEdge(neighbors[i], neighbors[j]) {
					closedPaths++
				}
			}
		}
	}

	triangles := closedPaths / 3

	return Counts{
		Triangle:  triangles,
		VShape:    cherries - 3*triangles,
		ThreeStar: stars,
		Square:    countSquares(g),
	}
}

// countSquares counts 4-cycles via the squared-adjacency construction:
// A2[i][j] is the number of length-2 paths between i and j, so summing
// A2[i][j]^2 - A2[i][j] over i != j counts every 4-cycle exactly 8 times
// (4 corner pairs times 2 path orderings).
func countSquares(g *network.Graph) int {
	n := g.NumNodes
	if n < 4 {
		return 0
	}

	a := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if g.HasEdge(i, j) {
				a.Set(i, j, 1)
			}
		}
	}

	var a2 mat.Dense
	a2.Mul(a, a)

	sum := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			paths := a2.At(i, j)
			sum += paths*paths - paths
		}
	}

	return int(math.Round(sum / 8.0))
}

func choose2(n int) int {
	if n < 2 {
		return 0
	}
	return n * (n - 1) / 2
}

func choose3(n int) int {
	if n < 3 {
		return 0
	}
	return n * (n - 1) * (n - 2) / 6
}

package motif

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coexnet/motif-comparison-service/pkg/network"
)

func buildGraph(t *testing.T, n int, edges [][2]int) *network.Graph {
	t.Helper()
	g := network.NewGraph(n)
	for _, e := range edges {
		require.NoError(t, g.AddEdge(e[0], e[1]))
	}
	return g
}

func completeGraph(t *testing.T, n int) *network.Graph {
	t.Helper()
	g := network.NewGraph(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			require.NoError(t, g.AddEdge(i, j))
		}
	}
	return g
}

func randomGraph(t *testing.T, n int, p float64, seed int64) *network.Graph {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	g := network.NewGraph(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if rng.Float64() < p {
				require.NoError(t, g.AddEdge(i, j))
			}
		}
	}
	return g
}

func TestCountKnownGraphs(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		edges [][2]int
		want  Counts
	}{
		{
			// One triangle plus one disjoint edge: the reference scenario
			name:  "TriangleAndEdge",
			n:     6,
			edges: [][2]int{{0, 1}, {1, 2}, {0, 2}, {3, 4}},
			want:  Counts{Triangle: 1, VShape: 0, ThreeStar: 0, Square: 0},
		},
		{
			name:  "Empty",
			n:     8,
			edges: nil,
			want:  Counts{},
		},
		{
			name:  "SingleEdge",
			n:     3,
			edges: [][2]int{{0, 1}},
			want:  Counts{},
		},
		{
			name:  "Path3",
			n:     3,
			edges: [][2]int{{0, 1}, {1, 2}},
			want:  Counts{VShape: 1},
		},
		{
			name:  "FourCycle",
			n:     4,
			edges: [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}},
			want:  Counts{VShape: 4, Square: 1},
		},
		{
			name:  "Star4",
			n:     5,
			edges: [][2]int{{0, 1}, {0, 2}, {0, 3}, {0, 4}},
			want:  Counts{VShape: 6, ThreeStar: 4},
		},
		{
			name: "K4",
			n:    4,
			// Complete graph on 4 vertices: C(4,3)=4 triangles, 3 squares
			edges: [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}},
			want:  Counts{Triangle: 4, VShape: 0, ThreeStar: 4, Square: 3},
		},
		{
			name:  "Degenerate",
			n:     2,
			edges: [][2]int{{0, 1}},
			want:  Counts{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildGraph(t, tt.n, tt.edges)
			assert.Equal(t, tt.want, Count(g))
		})
	}
}

func TestCountCompleteGraph(t *testing.T) {
	// K5: C(5,3) triangles, no open cherries, 5*C(4,3) stars, 3*C(5,4) squares
	got := Count(completeGraph(t, 5))
	assert.Equal(t, Counts{Triangle: 10, VShape: 0, ThreeStar: 20, Square: 15}, got)
}

func TestCherryIdentity(t *testing.T) {
	// v_shape + 3*triangles must equal sum over vertices of C(degree, 2),
	// bit-exact, on any graph.
	for seed := int64(0); seed < 20; seed++ {
		g := randomGraph(t, 15, 0.3, seed)
		c := Count(g)

		cherrySum := 0
		for v := 0; v < g.NumNodes; v++ {
			d := g.Degree(v)
			cherrySum += d * (d - 1) / 2
		}
		assert.Equal(t, cherrySum, c.VShape+3*c.Triangle, "seed %d", seed)
	}
}

func TestCountMonotoneUnderEdgeAddition(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	g := randomGraph(t, 12, 0.2, 3)
	prev := Count(g)

	for added := 0; added < 30; added++ {
		u, v := rng.Intn(12), rng.Intn(12)
		if u == v || g.HasEdge(u, v) {
			continue
		}
		require.NoError(t, g.AddEdge(u, v))
		cur := Count(g)

		assert.GreaterOrEqual(t, cur.Triangle, prev.Triangle)
		assert.GreaterOrEqual(t, cur.VShape, prev.VShape)
		assert.GreaterOrEqual(t, cur.ThreeStar, prev.ThreeStar)
		assert.GreaterOrEqual(t, cur.Square, prev.Square)
		prev = cur
	}
}

func TestCountNonNegative(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		g := randomGraph(t, 10, 0.5, seed)
		c := Count(g)
		assert.GreaterOrEqual(t, c.Triangle, 0)
		assert.GreaterOrEqual(t, c.VShape, 0)
		assert.GreaterOrEqual(t, c.ThreeStar, 0)
		assert.GreaterOrEqual(t, c.Square, 0)

		// triangle <= C(n,3)
		n := g.NumNodes
		assert.LessOrEqual(t, c.Triangle, n*(n-1)*(n-2)/6)
	}
}

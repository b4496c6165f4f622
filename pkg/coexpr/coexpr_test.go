package coexpr

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/coexnet/motif-comparison-service/pkg/expression"
)

func testExpressionMatrix(t *testing.T) *expression.Matrix {
	t.Helper()
	m := expression.NewMatrix(
		[]string{"UP1", "UP2", "DOWN", "NOISE"},
		[]string{"s1", "s2", "s3", "s4", "s5"},
	)
	m.Data[0] = []float64{1, 2, 3, 4, 5}
	m.Data[1] = []float64{2, 4, 6, 8, 10}   // perfectly correlated with UP1
	m.Data[2] = []float64{5, 4, 3, 2, 1}    // perfectly anticorrelated
	m.Data[3] = []float64{3, 1, 4, 1, 5}
	return m
}

func TestCorrelationMatrix(t *testing.T) {
	corr, err := CorrelationMatrix(testExpressionMatrix(t))
	require.NoError(t, err)

	assert.InDelta(t, 1.0, corr.At(0, 0), 1e-12)
	assert.InDelta(t, 1.0, corr.At(0, 1), 1e-12)
	assert.InDelta(t, -1.0, corr.At(0, 2), 1e-12)
	assert.InDelta(t, corr.At(0, 3), corr.At(3, 0), 1e-12)
}

func TestCorrelationMatrixConstantGene(t *testing.T) {
	m := expression.NewMatrix([]string{"G1", "FLAT"}, []string{"s1", "s2", "s3"})
	m.Data[0] = []float64{1, 2, 3}
	m.Data[1] = []float64{7, 7, 7}

	corr, err := CorrelationMatrix(m)
	require.NoError(t, err)
	assert.Equal(t, 0.0, corr.At(0, 1), "constant genes correlate with nothing")
}

func TestCorrelationMatrixTooFewSamples(t *testing.T) {
	m := expression.NewMatrix([]string{"G1"}, []string{"s1"})
	m.Data[0] = []float64{1}
	_, err := CorrelationMatrix(m)
	require.Error(t, err)
}

func TestSignedAdjacency(t *testing.T) {
	corr, err := CorrelationMatrix(testExpressionMatrix(t))
	require.NoError(t, err)

	adj := SignedAdjacency(corr, 6.0, true)

	// Perfect positive correlation maps to weight 1, perfect negative to 0
	assert.InDelta(t, 1.0, adj.At(0, 1), 1e-12)
	assert.InDelta(t, 0.0, adj.At(0, 2), 1e-12)
	assert.Equal(t, 0.0, adj.At(0, 0), "diagonal stays zero")

	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			assert.GreaterOrEqual(t, adj.At(i, j), 0.0)
			assert.LessOrEqual(t, adj.At(i, j), 1.0)
		}
	}
}

func TestUnsignedAdjacency(t *testing.T) {
	corr, err := CorrelationMatrix(testExpressionMatrix(t))
	require.NoError(t, err)

	adj := SignedAdjacency(corr, 2.0, false)
	// |r| = 1 either way in unsigned mode
	assert.InDelta(t, 1.0, adj.At(0, 1), 1e-12)
	assert.InDelta(t, 1.0, adj.At(0, 2), 1e-12)
}

func TestTOM(t *testing.T) {
	n := 10
	rng := rand.New(rand.NewSource(3))
	adj := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			adj.SetSym(i, j, rng.Float64())
		}
	}

	tom := TOM(adj)
	for i := 0; i < n; i++ {
		assert.Equal(t, 1.0, tom.At(i, i), "TOM diagonal is 1")
		for j := 0; j < n; j++ {
			assert.GreaterOrEqual(t, tom.At(i, j), 0.0)
			assert.LessOrEqual(t, tom.At(i, j), 1.0)
			assert.Equal(t, tom.At(i, j), tom.At(j, i))
		}
	}
}

func TestTOMIdenticalNeighborhoods(t *testing.T) {
	// Two nodes fully connected to a shared neighborhood with unit weights
	// have maximal topological overlap.
	n := 5
	adj := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			adj.SetSym(i, j, 1.0)
		}
	}

	tom := TOM(adj)
	assert.InDelta(t, 1.0, tom.At(0, 1), 1e-12)
}

func TestDissimilarity(t *testing.T) {
	adj := mat.NewSymDense(2, []float64{0, 0.4, 0.4, 0})
	tom := TOM(adj)
	dist := Dissimilarity(tom)
	assert.InDelta(t, 1.0-tom.At(0, 1), dist.At(0, 1), 1e-12)
	assert.Equal(t, 0.0, dist.At(0, 0))
}

func TestScanSoftPowers(t *testing.T) {
	// Build a correlation matrix with block structure so connectivity is
	// heterogeneous enough for the histogram fit.
	rng := rand.New(rand.NewSource(8))
	n := 60
	corr := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		corr.SetSym(i, i, 1)
		for j := i + 1; j < n; j++ {
			base := 0.1
			if i/10 == j/10 {
				base = 0.8
			}
			corr.SetSym(i, j, base+0.1*rng.Float64())
		}
	}

	fits, err := ScanSoftPowers(corr, []float64{1, 2, 4, 6, 8}, true)
	require.NoError(t, err)
	require.Len(t, fits, 5)

	for _, f := range fits {
		assert.GreaterOrEqual(t, f.RSquared, 0.0)
		assert.LessOrEqual(t, f.RSquared, 1.0)
		assert.Greater(t, f.MeanConnectivity, 0.0)
		assert.False(t, math.IsNaN(f.Slope))
	}

	// Higher powers shrink mean connectivity
	assert.Greater(t, fits[0].MeanConnectivity, fits[4].MeanConnectivity)

	_, err = ScanSoftPowers(corr, nil, true)
	require.Error(t, err)
}

func TestPickSoftPower(t *testing.T) {
	fits := []PowerFit{
		{Beta: 2, RSquared: 0.5, Slope: -1},
		{Beta: 4, RSquared: 0.85, Slope: -1.2},
		{Beta: 6, RSquared: 0.9, Slope: -1.5},
	}

	picked, err := PickSoftPower(fits, 0.8)
	require.NoError(t, err)
	assert.Equal(t, 4.0, picked.Beta, "smallest qualifying power wins")

	// Nothing qualifies: fall back to the best fit
	picked, err = PickSoftPower(fits, 0.95)
	require.NoError(t, err)
	assert.Equal(t, 6.0, picked.Beta)

	_, err = PickSoftPower(nil, 0.8)
	require.Error(t, err)
}

package coexpr

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// SignedAdjacency builds a soft-thresholded adjacency matrix from a
// correlation matrix. In signed mode correlations are first mapped from
// [-1,1] to [0,1] via (r+1)/2 so that strong negative correlations do not
// masquerade as strong connections; in unsigned mode |r| is used. The
// result is a_ij = s_ij^beta with a zero diagonal.
func SignedAdjacency(corr *mat.SymDense, beta float64, signed bool) *mat.SymDense {
	n := corr.SymmetricDim()
	adj := mat.NewSymDense(n, nil)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := corr.At(i, j)
			var s float64
			if signed {
				s = (r + 1.0) / 2.0
			} else {
				s = math.Abs(r)
			}
			if s < 0 {
				s = 0
			} else if s > 1 {
				s = 1
			}
			adj.SetSym(i, j, math.Pow(s, beta))
		}
	}
	return adj
}

// Connectivity returns the weighted degree k_i of every node,
// excluding the diagonal
func Connectivity(adj *mat.SymDense) []float64 {
	n := adj.SymmetricDim()
	k := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := 0.0
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			sum += adj.At(i, j)
		}
		k[i] = sum
	}
	return k
}

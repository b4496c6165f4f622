package coexpr

import (
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// TOM computes the weighted topological overlap matrix of an adjacency
// matrix:
//
//	k_i         = sum_{u != i} a_iu
//	numerator   = sum_{u != i,j} a_iu * a_ju + a_ij
//	denominator = min(k_i, k_j) + 1 - a_ij
//	TOM_ij      = numerator / denominator, TOM_ii = 1
//
// Rows are computed in parallel; the adjacency matrix is read-only.
func TOM(adj *mat.SymDense) *mat.SymDense {
	n := adj.SymmetricDim()
	k := Connectivity(adj)
	tom := mat.NewSymDense(n, nil)

	numWorkers := runtime.NumCPU()
	rows := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range rows {
				tom.SetSym(i, i, 1.0)
				for j := i + 1; j < n; j++ {
					dot := 0.0
					for u := 0; u < n; u++ {
						if u == i || u == j {
							continue
						}
						dot += adj.At(i, u) * adj.At(j, u)
					}
					aij := adj.At(i, j)
					numerator := dot + aij

					minK := k[i]
					if k[j] < minK {
						minK = k[j]
					}
					denominator := minK + 1.0 - aij

					v := 0.0
					if denominator > 0 {
						v = numerator / denominator
					}
					if v < 0 {
						v = 0
					} else if v > 1 {
						v = 1
					}
					tom.SetSym(i, j, v)
				}
			}
		}()
	}

	for i := 0; i < n; i++ {
		rows <- i
	}
	close(rows)
	wg.Wait()

	return tom
}

// Dissimilarity converts a TOM into a distance matrix via 1 - TOM
func Dissimilarity(tom *mat.SymDense) *mat.SymDense {
	n := tom.SymmetricDim()
	dist := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			dist.SetSym(i, j, 1.0-tom.At(i, j))
		}
	}
	return dist
}

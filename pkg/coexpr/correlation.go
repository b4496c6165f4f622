package coexpr

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/coexnet/motif-comparison-service/pkg/expression"
)

// CorrelationMatrix computes the gene-gene Pearson correlation matrix of
// an expression matrix. Genes with zero variance correlate 0 with
// everything (their co-expression is undefined).
func CorrelationMatrix(m *expression.Matrix) (*mat.SymDense, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid expression matrix: %w", err)
	}
	n := m.NumGenes()
	if m.NumSamples() < 2 {
		return nil, fmt.Errorf("need at least two samples to correlate, got %d", m.NumSamples())
	}

	constant := make([]bool, n)
	for i := 0; i < n; i++ {
		constant[i] = stat.Variance(m.Data[i], nil) == 0
	}

	corr := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		corr.SetSym(i, i, 1.0)
		for j := i + 1; j < n; j++ {
			if constant[i] || constant[j] {
				continue
			}
			corr.SetSym(i, j, stat.Correlation(m.Data[i], m.Data[j], nil))
		}
	}
	return corr, nil
}

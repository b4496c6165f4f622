package diffexpr

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/coexnet/motif-comparison-service/pkg/expression"
)

// GeneResult holds the differential expression test outcome for one gene
type GeneResult struct {
	Gene      string  `json:"gene"`
	MeanA     float64 `json:"mean_a"`
	MeanB     float64 `json:"mean_b"`
	LogFC     float64 `json:"log_fc"` // meanA - meanB on already log-scaled data
	TStat     float64 `json:"t_stat"`
	DF        float64 `json:"df"`
	PValue    float64 `json:"p_value"`
	QValue    float64 `json:"q_value"` // Benjamini-Hochberg adjusted
}

// WelchTTest runs a two-sided Welch t-test on two samples. Returns the t
// statistic, the Welch-Satterthwaite degrees of freedom, and the p-value.
func WelchTTest(groupA, groupB []float64) (t, df, p float64, err error) {
	if len(groupA) < 2 || len(groupB) < 2 {
		return 0, 0, 0, fmt.Errorf("each group needs at least two observations: got %d and %d", len(groupA), len(groupB))
	}

	meanA, varA := stat.MeanVariance(groupA, nil)
	meanB, varB := stat.MeanVariance(groupB, nil)
	nA, nB := float64(len(groupA)), float64(len(groupB))

	se2 := varA/nA + varB/nB
	if se2 == 0 {
		// Both groups constant: identical means give p=1, else the
		// difference is degenerate-certain.
		if meanA == meanB {
			return 0, nA + nB - 2, 1, nil
		}
		return math.Inf(sign(meanA - meanB)), nA + nB - 2, 0, nil
	}

	t = (meanA - meanB) / math.Sqrt(se2)
	df = se2 * se2 / ((varA*varA)/(nA*nA*(nA-1)) + (varB*varB)/(nB*nB*(nB-1)))

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p = 2 * dist.CDF(-math.Abs(t))
	return t, df, p, nil
}

// Run tests every gene of the two cohort matrices. The matrices must share
// the same gene list. Results are sorted by ascending p-value and carry
// Benjamini-Hochberg adjusted q-values.
func Run(matA, matB *expression.Matrix) ([]GeneResult, error) {
	if matA.NumGenes() != matB.NumGenes() {
		return nil, fmt.Errorf("gene counts differ: %d vs %d", matA.NumGenes(), matB.NumGenes())
	}

	results := make([]GeneResult, 0, matA.NumGenes())
	for i, gene := range matA.Genes {
		if matB.Genes[i] != gene {
			return nil, fmt.Errorf("gene order mismatch at row %d: %s vs %s", i, gene, matB.Genes[i])
		}
		t, df, p, err := WelchTTest(matA.Data[i], matB.Data[i])
		if err != nil {
			return nil, fmt.Errorf("gene %s: %w", gene, err)
		}
		meanA := stat.Mean(matA.Data[i], nil)
		meanB := stat.Mean(matB.Data[i], nil)
		results = append(results, GeneResult{
			Gene:   gene,
			MeanA:  meanA,
			MeanB:  meanB,
			LogFC:  meanA - meanB,
			TStat:  t,
			DF:     df,
			PValue: p,
		})
	}

	adjustBH(results)
	sort.Slice(results, func(i, j int) bool { return results[i].PValue < results[j].PValue })
	return results, nil
}

// adjustBH fills in Benjamini-Hochberg q-values
func adjustBH(results []GeneResult) {
	n := len(results)
	if n == 0 {
		return
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return results[order[a]].PValue < results[order[b]].PValue })

	minQ := 1.0
	for rank := n - 1; rank >= 0; rank-- {
		idx := order[rank]
		q := results[idx].PValue * float64(n) / float64(rank+1)
		if q < minQ {
			minQ = q
		}
		results[idx].QValue = minQ
	}
}

func sign(x float64) int {
	if x < 0 {
		return -1
	}
	return 1
}

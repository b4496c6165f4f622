package expression

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Matrix is a gene-by-sample expression matrix with row and column labels
type Matrix struct {
	Genes   []string    `json:"genes"`
	Samples []string    `json:"samples"`
	Data    [][]float64 `json:"-"` // Data[i][j] = expression of gene i in sample j
}

// NewMatrix creates an empty matrix with the given labels
func NewMatrix(genes, samples []string) *Matrix {
	data := make([][]float64, len(genes))
	for i := range data {
		data[i] = make([]float64, len(samples))
	}
	return &Matrix{Genes: genes, Samples: samples, Data: data}
}

// NumGenes returns the number of gene rows
func (m *Matrix) NumGenes() int { return len(m.Genes) }

// NumSamples returns the number of sample columns
func (m *Matrix) NumSamples() int { return len(m.Samples) }

// Validate checks that data dimensions match the labels
func (m *Matrix) Validate() error {
	if len(m.Data) != len(m.Genes) {
		return fmt.Errorf("row count %d does not match gene count %d", len(m.Data), len(m.Genes))
	}
	for i, row := range m.Data {
		if len(row) != len(m.Samples) {
			return fmt.Errorf("gene %s has %d values, expected %d", m.Genes[i], len(row), len(m.Samples))
		}
	}
	return nil
}

// Log2Transform applies log2(x+1) in place
func (m *Matrix) Log2Transform() {
	for i := range m.Data {
		for j := range m.Data[i] {
			m.Data[i][j] = math.Log2(m.Data[i][j] + 1.0)
		}
	}
}

// FilterLowExpression drops genes whose expression is below minLevel in
// more than maxLowFraction of the samples
func (m *Matrix) FilterLowExpression(minLevel, maxLowFraction float64) *Matrix {
	keep := make([]int, 0, len(m.Genes))
	for i, row := range m.Data {
		low := 0
		for _, v := range row {
			if v < minLevel {
				low++
			}
		}
		if float64(low)/float64(len(row)) <= maxLowFraction {
			keep = append(keep, i)
		}
	}
	return m.subset(keep)
}

// FilterLowVariance drops the genes in the lowest variance percentile
// (e.g. 0.25 removes the least variable quarter)
func (m *Matrix) FilterLowVariance(percentile float64) *Matrix {
	if len(m.Genes) == 0 {
		return m.subset(nil)
	}

	variances := make([]float64, len(m.Genes))
	for i, row := range m.Data {
		variances[i] = stat.Variance(row, nil)
	}

	sorted := append([]float64(nil), variances...)
	sort.Float64s(sorted)
	cutIdx := int(percentile * float64(len(sorted)))
	if cutIdx >= len(sorted) {
		cutIdx = len(sorted) - 1
	}
	cutoff := sorted[cutIdx]

	keep := make([]int, 0, len(m.Genes))
	for i := range m.Genes {
		if variances[i] >= cutoff {
			keep = append(keep, i)
		}
	}
	return m.subset(keep)
}

// Split partitions the samples into cohorts using the given classifier.
// Genes are shared across the returned matrices.
func (m *Matrix) Split(cohortOf func(sample string) string) map[string]*Matrix {
	cohortCols := make(map[string][]int)
	order := make([]string, 0)
	for j, sample := range m.Samples {
		cohort := cohortOf(sample)
		if cohort == "" {
			continue
		}
		if _, seen := cohortCols[cohort]; !seen {
			order = append(order, cohort)
		}
		cohortCols[cohort] = append(cohortCols[cohort], j)
	}

	result := make(map[string]*Matrix, len(order))
	for _, cohort := range order {
		cols := cohortCols[cohort]
		samples := make([]string, len(cols))
		for k, j := range cols {
			samples[k] = m.Samples[j]
		}
		sub := NewMatrix(append([]string(nil), m.Genes...), samples)
		for i := range m.Data {
			for k, j := range cols {
				sub.Data[i][k] = m.Data[i][j]
			}
		}
		result[cohort] = sub
	}
	return result
}

// subset returns a new matrix keeping only the given gene rows
func (m *Matrix) subset(rows []int) *Matrix {
	genes := make([]string, len(rows))
	data := make([][]float64, len(rows))
	for k, i := range rows {
		genes[k] = m.Genes[i]
		data[k] = append([]float64(nil), m.Data[i]...)
	}
	return &Matrix{Genes: genes, Samples: m.Samples, Data: data}
}

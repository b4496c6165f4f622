package motif

import (
	"fmt"
	"math/rand"
)

// TestResult holds the outcome of the bootstrap two-sample test
type TestResult struct {
	Observed   float64 `json:"observed_statistic"`
	PValue     float64 `json:"p_value"`
	Replicates int     `json:"replicates"`
}

// BootstrapTest compares the motif count distributions of two cohorts.
// The statistic is the sum of squared per-motif mean differences. For each
// replicate the subsample indices are resampled with replacement
// independently within each group, and the p-value is the fraction of
// replicate statistics at least as large as the observed one.
// Deterministic under a fixed seed.
func BootstrapTest(groupA, groupB []Counts, replicates int, seed int64) (TestResult, error) {
	if len(groupA) == 0 || len(groupB) == 0 {
		return TestResult{}, fmt.Errorf("both groups need at least one sample: got %d and %d", len(groupA), len(groupB))
	}
	if replicates <= 0 {
		return TestResult{}, fmt.Errorf("replicates must be positive, got %d", replicates)
	}

	observed := meanDiffStatistic(groupA, groupB)

	rng := rand.New(rand.NewSource(seed))
	resampledA := make([]Counts, len(groupA))
	resampledB := make([]Counts, len(groupB))

	atLeast := 0
	for r := 0; r < replicates; r++ {
		for i := range resampledA {
			resampledA[i] = groupA[rng.Intn(len(groupA))]
		}
		for i := range resampledB {
			resampledB[i] = groupB[rng.Intn(len(groupB))]
		}
		if meanDiffStatistic(resampledA, resampledB) >= observed {
			atLeast++
		}
	}

	return TestResult{
		Observed:   observed,
		PValue:     float64(atLeast) / float64(replicates),
		Replicates: replicates,
	}, nil
}

// meanDiffStatistic is the squared Euclidean distance between the
// per-motif mean vectors of the two groups
func meanDiffStatistic(groupA, groupB []Counts) float64 {
	meansA := meanVector(groupA)
	meansB := meanVector(groupB)

	stat := 0.0
	for m := 0; m < 4; m++ {
		d := meansA[m] - meansB[m]
		stat += d * d
	}
	return stat
}

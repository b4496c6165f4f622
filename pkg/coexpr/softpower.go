package coexpr

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// PowerFit summarizes the scale-free topology fit for one candidate
// soft-thresholding power
type PowerFit struct {
	Beta             float64 `json:"beta"`
	RSquared         float64 `json:"r_squared"`
	Slope            float64 `json:"slope"`
	MeanConnectivity float64 `json:"mean_connectivity"`
}

// scaleFreeBins is the number of connectivity histogram bins used in the
// log-log regression, following the WGCNA convention.
const scaleFreeBins = 10

// ScanSoftPowers evaluates candidate soft-thresholding powers against the
// scale-free topology criterion: for each beta it builds the adjacency
// matrix and regresses log10(p(k)) on log10(k) over binned connectivities.
// A high R² with negative slope indicates an approximately scale-free
// degree distribution.
func ScanSoftPowers(corr *mat.SymDense, candidates []float64, signed bool) ([]PowerFit, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no candidate powers given")
	}

	fits := make([]PowerFit, 0, len(candidates))
	for _, beta := range candidates {
		adj := SignedAdjacency(corr, beta, signed)
		k := Connectivity(adj)

		r2, slope := scaleFreeFit(k)
		fits = append(fits, PowerFit{
			Beta:             beta,
			RSquared:         r2,
			Slope:            slope,
			MeanConnectivity: stat.Mean(k, nil),
		})
	}
	return fits, nil
}

// PickSoftPower returns the smallest candidate power whose scale-free fit
// reaches minRSquared, falling back to the best-fitting power when none
// qualifies.
func PickSoftPower(fits []PowerFit, minRSquared float64) (PowerFit, error) {
	if len(fits) == 0 {
		return PowerFit{}, fmt.Errorf("no power fits to choose from")
	}

	sorted := append([]PowerFit(nil), fits...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Beta < sorted[j].Beta })

	best := sorted[0]
	for _, f := range sorted {
		if f.RSquared >= minRSquared && f.Slope < 0 {
			return f, nil
		}
		if f.RSquared > best.RSquared {
			best = f
		}
	}
	return best, nil
}

// scaleFreeFit bins the connectivity distribution and regresses
// log-frequency on log-connectivity
func scaleFreeFit(k []float64) (r2, slope float64) {
	kMin, kMax := math.Inf(1), math.Inf(-1)
	for _, v := range k {
		if v < kMin {
			kMin = v
		}
		if v > kMax {
			kMax = v
		}
	}
	if !(kMax > kMin) {
		return 0, 0
	}

	binCounts := make([]int, scaleFreeBins)
	binSums := make([]float64, scaleFreeBins)
	width := (kMax - kMin) / float64(scaleFreeBins)
	for _, v := range k {
		bin := int((v - kMin) / width)
		if bin >= scaleFreeBins {
			bin = scaleFreeBins - 1
		}
		binCounts[bin]++
		binSums[bin] += v
	}

	var logK, logP []float64
	for b := 0; b < scaleFreeBins; b++ {
		if binCounts[b] == 0 {
			continue
		}
		meanK := binSums[b] / float64(binCounts[b])
		freq := float64(binCounts[b]) / float64(len(k))
		if meanK <= 0 || freq <= 0 {
			continue
		}
		logK = append(logK, math.Log10(meanK))
		logP = append(logP, math.Log10(freq))
	}
	if len(logK) < 3 {
		return 0, 0
	}

	alpha, beta := stat.LinearRegression(logK, logP, nil, false)
	return stat.RSquared(logK, logP, nil, alpha, beta), beta
}

package motif

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/combin"
)

// Estimates holds the normalized whole-network motif frequency estimates
// for one cohort, one scalar per motif type.
type Estimates struct {
	Triangle  float64 `json:"triangle"`
	VShape    float64 `json:"v_shape"`
	ThreeStar float64 `json:"three_star"`
	Square    float64 `json:"square"`
}

// Vector returns the estimates in MotifNames order
func (e Estimates) Vector() [4]float64 {
	return [4]float64{e.Triangle, e.VShape, e.ThreeStar, e.Square}
}

// motif arity: the number of vertices spanned by each motif type, used to
// scale subsample counts up to the whole graph.
const (
	arityTriangle  = 3
	arityVShape    = 3
	arityThreeStar = 4
	aritySquare    = 4
)

// EstimateNormalized converts per-subsample motif counts into normalized
// whole-graph frequency estimates. The subsample mean is scaled by
// C(N,k)/C(s,k) (inverse inclusion probability of a k-vertex motif) and
// divided by the maximum attainable count of that motif on N vertices.
// All combinatorial factors are computed in log space so that graphs with
// thousands of vertices do not overflow.
func EstimateNormalized(counts []Counts, numVertices, subsampleSize int) (Estimates, error) {
	if len(counts) == 0 {
		return Estimates{}, fmt.Errorf("no sample counts provided")
	}
	if numVertices <= 0 {
		return Estimates{}, fmt.Errorf("graph must have positive vertex count, got %d", numVertices)
	}
	if subsampleSize <= 0 || subsampleSize > numVertices {
		return Estimates{}, fmt.Errorf("subsample size %d out of range [1, %d]", subsampleSize, numVertices)
	}

	n := float64(numVertices)

	// Normalization denominators in log space. The v_shape and three_star
	// bounds N*C(N-1,2) and N*C(N-1,3) follow the reference analysis.
	logMax := [4]float64{
		logChoose(n, 3),
		math.Log(n) + logChoose(n-1, 2),
		math.Log(n) + logChoose(n-1, 3),
		math.Log(3) + logChoose(n, 4),
	}
	arity := [4]int{arityTriangle, arityVShape, arityThreeStar, aritySquare}

	means := meanVector(counts)

	var out [4]float64
	for m := 0; m < 4; m++ {
		if means[m] == 0 {
			continue
		}
		scalingLog := logChoose(n, float64(arity[m])) - logChoose(float64(subsampleSize), float64(arity[m]))
		out[m] = means[m] * math.Exp(scalingLog-logMax[m])
	}

	return Estimates{
		Triangle:  out[0],
		VShape:    out[1],
		ThreeStar: out[2],
		Square:    out[3],
	}, nil
}

// EstimateTotals returns the unnormalized whole-graph motif total estimates
func EstimateTotals(counts []Counts, numVertices, subsampleSize int) (Estimates, error) {
	if len(counts) == 0 {
		return Estimates{}, fmt.Errorf("no sample counts provided")
	}
	if numVertices <= 0 || subsampleSize <= 0 || subsampleSize > numVertices {
		return Estimates{}, fmt.Errorf("invalid sizes: vertices %d, subsample %d", numVertices, subsampleSize)
	}

	n := float64(numVertices)
	s := float64(subsampleSize)
	arity := [4]int{arityTriangle, arityVShape, arityThreeStar, aritySquare}
	means := meanVector(counts)

	var out [4]float64
	for m := 0; m < 4; m++ {
		if means[m] == 0 {
			continue
		}
		out[m] = means[m] * math.Exp(logChoose(n, float64(arity[m]))-logChoose(s, float64(arity[m])))
	}

	return Estimates{
		Triangle:  out[0],
		VShape:    out[1],
		ThreeStar: out[2],
		Square:    out[3],
	}, nil
}

// logChoose is log(C(n, k)), zero when the coefficient degenerates to 1 or
// is undefined because n < k (a motif that can never occur contributes a
// zero count anyway).
func logChoose(n, k float64) float64 {
	if k <= 0 || n < k {
		return 0
	}
	return combin.LogGeneralizedBinomial(n, k)
}

// meanVector returns the per-motif mean of a set of count records
func meanVector(counts []Counts) [4]float64 {
	var sums [4]float64
	for _, c := range counts {
		v := c.Vector()
		for m := 0; m < 4; m++ {
			sums[m] += v[m]
		}
	}
	for m := 0; m < 4; m++ {
		sums[m] /= float64(len(counts))
	}
	return sums
}

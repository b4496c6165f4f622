package network

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Errors reported at the binarizer boundary. Both are fatal: a malformed
// adjacency matrix is rejected before any downstream computation runs.
var (
	ErrNonSquareMatrix = errors.New("adjacency matrix is not square")
	ErrAsymmetricMatrix = errors.New("adjacency matrix is not symmetric")
)

// symmetryTolerance absorbs float rounding from upstream correlation and
// soft-thresholding; anything larger is treated as malformed input.
const symmetryTolerance = 1e-9

// Binarize thresholds a weighted adjacency matrix into an unweighted
// undirected graph: an edge (i,j), i != j, exists iff w[i,j] > threshold.
// The diagonal is always ignored. labels may be nil.
func Binarize(w mat.Matrix, labels []string, threshold float64) (*Graph, error) {
	r, c := w.Dims()
	if r != c {
		return nil, fmt.Errorf("%w: %dx%d", ErrNonSquareMatrix, r, c)
	}
	if labels != nil && len(labels) != r {
		return nil, fmt.Errorf("label count %d does not match matrix dimension %d", len(labels), r)
	}

	for i := 0; i < r; i++ {
		for j := i + 1; j < r; j++ {
			if math.Abs(w.At(i, j)-w.At(j, i)) > symmetryTolerance {
				return nil, fmt.Errorf("%w: entries (%d,%d)=%g and (%d,%d)=%g differ",
					ErrAsymmetricMatrix, i, j, w.At(i, j), j, i, w.At(j, i))
			}
		}
	}

	g := NewGraph(r)
	g.Labels = labels
	for i := 0; i < r; i++ {
		for j := i + 1; j < r; j++ {
			if w.At(i, j) > threshold {
				if err := g.AddEdge(i, j); err != nil {
					return nil, err
				}
			}
		}
	}
	return g, nil
}

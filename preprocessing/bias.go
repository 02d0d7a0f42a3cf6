package preprocessing

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gradreg/core/parallel"
	"github.com/YuminosukeSato/gradreg/pkg/errors"
)

// AddBias returns [1 | X]: a copy of X with a leading column of ones.
func AddBias(X mat.Matrix) (*mat.Dense, error) {
	r, c := X.Dims()
	if r == 0 {
		return nil, errors.NewModelError("AddBias", "empty data", errors.ErrEmptyData)
	}

	out := mat.NewDense(r, c+1, nil)
	parallel.ParallelizeWithThreshold(r, parallel.DefaultThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			out.Set(i, 0, 1.0)
			for j := 0; j < c; j++ {
				out.Set(i, j+1, X.At(i, j))
			}
		}
	})
	return out, nil
}

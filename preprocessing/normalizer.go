// Package preprocessing prepares feature matrices for gradient descent:
// per-column standardization and the bias column of ones.
package preprocessing

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/gradreg/core/model"
	"github.com/YuminosukeSato/gradreg/core/parallel"
	"github.com/YuminosukeSato/gradreg/pkg/errors"
)

// zeroVarianceTol is the standard deviation below which the guard treats a
// column as constant.
const zeroVarianceTol = 1e-8

// Normalizer rescales every column to zero mean and unit variance,
// (x - mean_j) / std_j, where std_j is the population standard deviation.
//
// A constant column has std_j = 0 and transforms to NaN/±Inf unless the
// normalizer was built WithZeroVarianceGuard.
type Normalizer struct {
	model.BaseEstimator

	// Mean は各列の平均値
	Mean []float64

	// Std は各列の母標準偏差
	Std []float64

	// NFeatures は列数
	NFeatures int

	guardZeroVariance bool
}

var _ model.InverseTransformer = (*Normalizer)(nil)

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*Normalizer)

// WithZeroVarianceGuard makes constant columns use a scale of 1, so they
// transform to zeros instead of NaN.
func WithZeroVarianceGuard() NormalizerOption {
	return func(n *Normalizer) {
		n.guardZeroVariance = true
	}
}

// NewNormalizer returns an unfitted Normalizer.
func NewNormalizer(opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NewNormalizerFromStats rebuilds a fitted Normalizer from stored statistics.
func NewNormalizerFromStats(mean, std []float64) (*Normalizer, error) {
	if len(mean) == 0 {
		return nil, errors.NewModelError("Normalizer", "empty statistics", errors.ErrEmptyData)
	}
	if len(mean) != len(std) {
		return nil, errors.NewDimensionError("NewNormalizerFromStats", len(mean), len(std), 1)
	}
	n := &Normalizer{
		Mean:      append([]float64(nil), mean...),
		Std:       append([]float64(nil), std...),
		NFeatures: len(mean),
	}
	n.SetFitted()
	return n, nil
}

// Fit computes per-column mean and population standard deviation of X.
func (n *Normalizer) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("Normalizer.Fit", "empty data", errors.ErrEmptyData)
	}

	n.NFeatures = c
	n.Mean = make([]float64, c)
	n.Std = make([]float64, c)

	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		n.Mean[j], n.Std[j] = stat.PopMeanStdDev(col, nil)
		if n.guardZeroVariance && n.Std[j] < zeroVarianceTol {
			n.Std[j] = 1.0
		}
	}

	n.SetFitted()
	return nil
}

// Transform returns a new matrix with the fitted statistics applied.
// X is not modified.
func (n *Normalizer) Transform(X mat.Matrix) (mat.Matrix, error) {
	out, err := n.transform("Normalizer.Transform", X, func(v float64, j int) float64 {
		return (v - n.Mean[j]) / n.Std[j]
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FitTransform fits on X and transforms it.
func (n *Normalizer) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := n.Fit(X); err != nil {
		return nil, err
	}
	return n.Transform(X)
}

// InverseTransform maps normalized values back to the original scale.
func (n *Normalizer) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	out, err := n.transform("Normalizer.InverseTransform", X, func(v float64, j int) float64 {
		return v*n.Std[j] + n.Mean[j]
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (n *Normalizer) transform(op string, X mat.Matrix, f func(v float64, j int) float64) (*mat.Dense, error) {
	if !n.IsFitted() {
		return nil, errors.NewNotFittedError("Normalizer", op)
	}
	r, c := X.Dims()
	if r == 0 {
		return nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if c != n.NFeatures {
		return nil, errors.NewDimensionError(op, n.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	parallel.ParallelizeWithThreshold(r, parallel.DefaultThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			for j := 0; j < c; j++ {
				result.Set(i, j, f(X.At(i, j), j))
			}
		}
	})
	return result, nil
}

// String returns a short description of the normalizer.
func (n *Normalizer) String() string {
	if !n.IsFitted() {
		return fmt.Sprintf("Normalizer(zero_variance_guard=%t)", n.guardZeroVariance)
	}
	return fmt.Sprintf("Normalizer(zero_variance_guard=%t, n_features=%d)", n.guardZeroVariance, n.NFeatures)
}

// NormalizeFeatures standardizes X when it has more than one column and
// returns the fitted Normalizer. A single-column X is returned as an
// unchanged copy with a nil Normalizer. X is never modified.
func NormalizeFeatures(X mat.Matrix, opts ...NormalizerOption) (*mat.Dense, *Normalizer, error) {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, nil, errors.NewModelError("NormalizeFeatures", "empty data", errors.ErrEmptyData)
	}
	if c == 1 {
		return mat.DenseCopyOf(X), nil, nil
	}

	n := NewNormalizer(opts...)
	if err := n.Fit(X); err != nil {
		return nil, nil, err
	}
	out, err := n.transform("NormalizeFeatures", X, func(v float64, j int) float64 {
		return (v - n.Mean[j]) / n.Std[j]
	})
	if err != nil {
		return nil, nil, err
	}
	return out, n, nil
}

// Normalize is NormalizeFeatures without the fitted statistics.
func Normalize(X mat.Matrix, opts ...NormalizerOption) (*mat.Dense, error) {
	out, _, err := NormalizeFeatures(X, opts...)
	return out, err
}

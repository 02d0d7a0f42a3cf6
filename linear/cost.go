package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gradreg/pkg/errors"
)

// CostFunction returns the mean squared error cost
//
//	J = 1/(2m) · Σ_i (X_i·θ − y_i)²
//
// X is m×n, y has length m and theta has length n. m must be positive and
// equal to the rows of X. Non-finite inputs produce a non-finite cost, not an
// error.
func CostFunction(X mat.Matrix, y, theta mat.Vector, m int) (float64, error) {
	if err := validateProblem("CostFunction", X, y, theta, m); err != nil {
		return 0, err
	}
	r := mat.NewVecDense(m, nil)
	return cost(X, y, theta, m, r), nil
}

// cost evaluates J with r as scratch space; on return r holds Xθ − y.
func cost(X mat.Matrix, y, theta mat.Vector, m int, r *mat.VecDense) float64 {
	residual(X, y, theta, r)
	return mat.Dot(r, r) / (2 * float64(m))
}

// residual stores Xθ − y in r.
func residual(X mat.Matrix, y, theta mat.Vector, r *mat.VecDense) {
	r.MulVec(X, theta)
	r.SubVec(r, y)
}

// validateProblem checks m and the shapes of X, y and theta without
// broadcasting.
func validateProblem(op string, X mat.Matrix, y, theta mat.Vector, m int) error {
	if X == nil || y == nil || theta == nil {
		return errors.NewValueError(op, "X, y and theta must not be nil")
	}
	if m <= 0 {
		return errors.NewValidationError("m", "number of training examples must be positive", m)
	}

	rows, cols := X.Dims()
	if rows != m {
		return errors.NewDimensionError(op, m, rows, 0)
	}
	if y.Len() != m {
		return errors.NewDimensionError(op, m, y.Len(), 0)
	}
	if theta.Len() != cols {
		return errors.NewDimensionError(op, cols, theta.Len(), 1)
	}
	return nil
}

// Package linear fits linear regression models by batch gradient descent.
//
// The numeric core works on a design matrix X (m×n, column 0 all ones), a
// label vector y (length m) and a parameter vector theta (length n):
//
//	J(θ) = 1/(2m) · Σ (X_i·θ − y_i)²
//	θ   ← θ − (α/m) · Xᵗ(Xθ − y)
//
// CostFunction evaluates J, GradientDescent runs a fixed number of updates
// and returns the final θ together with the cost after every update.
// GDRegressor wraps both behind Fit/Predict/Score for raw feature matrices.
package linear

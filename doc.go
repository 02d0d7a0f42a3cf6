// Package gradreg fits linear regression models by batch gradient descent,
// designed for data that is small enough to hold in memory and for callers
// who want to see how the optimizer converged.
//
// gradreg works on gonum matrices. It normalizes feature columns, evaluates
// the mean squared error cost and runs a fixed number of gradient-descent
// updates, returning the fitted parameters together with the cost after
// every iteration.
//
// # Installation
//
//	go get github.com/YuminosukeSato/gradreg
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//	    "github.com/YuminosukeSato/gradreg/linear"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    // Design matrix with a bias column of ones
//	    X := mat.NewDense(3, 2, []float64{1, 1, 1, 2, 1, 3})
//	    y := mat.NewVecDense(3, []float64{1, 2, 3})
//	    theta := mat.NewVecDense(2, nil)
//
//	    res, err := linear.GradientDescent(X, y, theta, 0.1, 1000, 3)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    fmt.Println("theta:", mat.Formatted(res.Theta.T()))
//	    fmt.Println("final cost:", res.FinalCost())
//	}
//
// # Packages
//
//   - linear: CostFunction, GradientDescent and the GDRegressor estimator
//   - preprocessing: per-column normalization and the bias column
//   - dataset: headerless CSV loading into a design matrix
//   - report: cost plots (PNG via gonum/plot, HTML via go-echarts) and text summaries
//   - metrics: evaluation metrics (MSE, RMSE, MAE, R²)
//   - core/model: estimator interfaces, BaseEstimator and ModelWeights JSON
//   - core/parallel: row-parallel helpers used above a size threshold
//   - pkg/errors, pkg/log: structured errors and logging
//
// The gradreg command in cmd/gradreg wires these together: it loads a CSV,
// fits theta and writes the cost plot, chart and weights.
//
// # Convergence
//
// The optimizer never stops early and never rejects a NaN. When the final
// cost is not finite or is above the first recorded cost, a
// DivergenceWarning is raised through errors.Warn; lower alpha in that case.
package gradreg

package linear

import (
	"context"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gradreg/pkg/errors"
	"github.com/YuminosukeSato/gradreg/pkg/log"
)

const algorithmName = "GradientDescent"

// Result is the outcome of a GradientDescent run.
type Result struct {
	// Theta is the parameter vector after the last update.
	Theta *mat.VecDense

	// CostHistory[i] is J(θ) after update i+1. Its length equals the
	// requested number of iterations.
	CostHistory []float64

	// Alpha is the learning rate the run used.
	Alpha float64
}

// Iterations returns the number of updates performed.
func (r *Result) Iterations() int {
	return len(r.CostHistory)
}

// FinalCost returns the last recorded cost, or NaN when no iteration ran.
func (r *Result) FinalCost() float64 {
	if len(r.CostHistory) == 0 {
		return math.NaN()
	}
	return r.CostHistory[len(r.CostHistory)-1]
}

// GradientDescent performs exactly numIters batch updates
//
//	θ ← θ − (α/m) · Xᵗ(Xθ − y)
//
// starting from theta, and records J(θ) after each one. theta is not
// modified; the returned Result owns a fresh vector.
//
// m must be positive and match X and y, len(theta) must equal the columns of
// X, alpha must be positive and finite and numIters non-negative; otherwise an
// error is returned before any computation. Divergence is not an error: NaN
// or growing costs are returned as computed.
func GradientDescent(X mat.Matrix, y, theta mat.Vector, alpha float64, numIters, m int, opts ...Option) (res *Result, err error) {
	defer errors.Recover(&err, "linear.GradientDescent")

	if err := validateProblem(algorithmName, X, y, theta, m); err != nil {
		return nil, err
	}
	if !(alpha > 0) || math.IsInf(alpha, 0) {
		return nil, errors.NewValidationError("alpha", "learning rate must be positive and finite", alpha)
	}
	if numIters < 0 {
		return nil, errors.NewValidationError("num_iters", "number of iterations must not be negative", numIters)
	}

	cfg := newConfig(opts)
	logger := cfg.logger.With(log.ModelNameKey, algorithmName)
	_, n := X.Dims()
	logger.Debug("gradient descent started",
		log.SamplesKey, m,
		log.FeaturesKey, n,
		log.LearningRateKey, alpha,
		log.IterationsKey, numIters,
	)
	start := time.Now()

	th := mat.VecDenseCopyOf(theta)
	history := make([]float64, numIters)
	r := mat.NewVecDense(m, nil)
	g := mat.NewVecDense(n, nil)
	step := alpha / float64(m)
	progress := cfg.progressEvery > 0 && logger.Enabled(context.Background(), log.LevelDebug)

	// r holds Xθ − y for the current θ. Evaluating the cost of the new θ
	// leaves its residual in r, which is exactly the next iteration's.
	residual(X, y, th, r)
	for i := 0; i < numIters; i++ {
		g.MulVec(X.T(), r)
		th.AddScaledVec(th, -step, g)
		history[i] = cost(X, y, th, m, r)

		if cfg.callback != nil {
			cfg.callback(i+1, history[i])
		}
		if progress && (i+1)%cfg.progressEvery == 0 {
			logger.Debug("gradient descent progress",
				log.IterationKey, i+1,
				log.LossKey, history[i],
			)
		}
	}

	res = &Result{Theta: th, CostHistory: history, Alpha: alpha}
	logger.Debug("gradient descent finished",
		log.IterationsKey, numIters,
		log.LossKey, res.FinalCost(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	if cfg.warnOnDivergence && diverged(history) {
		errors.Warn(errors.NewDivergenceWarning(algorithmName, numIters, history[0], res.FinalCost(), alpha))
	}
	return res, nil
}

// diverged reports whether the last cost is non-finite or larger than the
// first.
func diverged(history []float64) bool {
	if len(history) == 0 {
		return false
	}
	last := history[len(history)-1]
	return !errors.IsFinite(last) || last > history[0]
}

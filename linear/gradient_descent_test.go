package linear

import (
	"math"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gradreg/pkg/errors"
	"github.com/YuminosukeSato/gradreg/pkg/log"
	"github.com/YuminosukeSato/gradreg/preprocessing"
)

// captureWarnings replaces the global warning handler for the duration of
// the test and returns a function reporting what was emitted.
func captureWarnings(t *testing.T) func() []error {
	t.Helper()
	var mu sync.Mutex
	var warnings []error
	errors.SetWarningHandler(func(w error) {
		mu.Lock()
		defer mu.Unlock()
		warnings = append(warnings, w)
	})
	t.Cleanup(func() { errors.SetWarningHandler(func(error) {}) })
	return func() []error {
		mu.Lock()
		defer mu.Unlock()
		return append([]error(nil), warnings...)
	}
}

func TestGradientDescentPerfectLine(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		1, 1,
		1, 2,
		1, 3,
	})
	y := mat.NewVecDense(3, []float64{1, 2, 3})
	theta := mat.NewVecDense(2, nil)

	res, err := GradientDescent(X, y, theta, 0.1, 1000, 3)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, res.Theta.AtVec(0), 1e-3)
	assert.InDelta(t, 1.0, res.Theta.AtVec(1), 1e-3)
	assert.Len(t, res.CostHistory, 1000)
	assert.Equal(t, 1000, res.Iterations())
	assert.InDelta(t, 0.0, res.FinalCost(), 1e-6)
	assert.Equal(t, 0.1, res.Alpha)
}

func TestGradientDescentRecoversInterceptAndSlope(t *testing.T) {
	// y = 2x + 1 for x = 0..3
	X := mat.NewDense(4, 2, []float64{
		1, 0,
		1, 1,
		1, 2,
		1, 3,
	})
	y := mat.NewVecDense(4, []float64{1, 3, 5, 7})

	res, err := GradientDescent(X, y, mat.NewVecDense(2, nil), 0.1, 2000, 4)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, res.Theta.AtVec(0), 1e-6)
	assert.InDelta(t, 2.0, res.Theta.AtVec(1), 1e-6)
}

func TestGradientDescentEmptyInputIsInvalidArgument(t *testing.T) {
	X := &mat.Dense{}
	y := &mat.VecDense{}
	res, err := GradientDescent(X, y, mat.NewVecDense(1, nil), 0.1, 10, 0)

	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, errors.ErrInvalidArgument), "got %v", err)
}

func TestGradientDescentZeroVarianceColumnIsNotFinite(t *testing.T) {
	warnings := captureWarnings(t)

	features := mat.NewDense(3, 2, []float64{
		5, 1,
		5, 2,
		5, 3,
	})
	norm, err := preprocessing.Normalize(features)
	require.NoError(t, err)
	X, err := preprocessing.AddBias(norm)
	require.NoError(t, err)
	y := mat.NewVecDense(3, []float64{1, 2, 3})

	res, err := GradientDescent(X, y, mat.NewVecDense(3, nil), 0.01, 50, 3)
	require.NoError(t, err)
	require.Len(t, res.CostHistory, 50)
	assert.False(t, errors.IsFinite(res.FinalCost()))
	assert.Error(t, errors.CheckNumericalStability("theta", res.Theta.RawVector().Data))

	var dw *errors.DivergenceWarning
	require.Len(t, warnings(), 1)
	assert.True(t, errors.As(warnings()[0], &dw))
}

func TestGradientDescentCostIsNonIncreasingForSmallAlpha(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	const m = 60

	raw := mat.NewDense(m, 3, nil)
	y := mat.NewVecDense(m, nil)
	for i := 0; i < m; i++ {
		a, b, c := rng.Float64()*100, rng.Float64()*10, rng.NormFloat64()
		raw.SetRow(i, []float64{a, b, c})
		y.SetVec(i, 3*a-2*b+0.5*c+4+rng.NormFloat64())
	}
	norm, err := preprocessing.Normalize(raw)
	require.NoError(t, err)
	X, err := preprocessing.AddBias(norm)
	require.NoError(t, err)

	res, err := GradientDescent(X, y, mat.NewVecDense(4, nil), 0.01, 400, m)
	require.NoError(t, err)

	initial, err := CostFunction(X, y, mat.NewVecDense(4, nil), m)
	require.NoError(t, err)
	assert.LessOrEqual(t, res.CostHistory[0], initial)
	for i := 1; i < len(res.CostHistory); i++ {
		assert.LessOrEqual(t, res.CostHistory[i], res.CostHistory[i-1]*(1+1e-12),
			"cost increased at iteration %d", i+1)
	}
}

func TestGradientDescentHistoryMatchesCostFunction(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{1, 1, 1, 2, 1, 3})
	y := mat.NewVecDense(3, []float64{2, 2.5, 4})

	var thetas []*mat.VecDense
	theta := mat.NewVecDense(2, nil)
	for k := 1; k <= 5; k++ {
		res, err := GradientDescent(X, y, theta, 0.05, k, 3)
		require.NoError(t, err)
		thetas = append(thetas, res.Theta)
	}

	full, err := GradientDescent(X, y, theta, 0.05, 5, 3)
	require.NoError(t, err)
	for i, th := range thetas {
		want, err := CostFunction(X, y, th, 3)
		require.NoError(t, err)
		assert.InDelta(t, want, full.CostHistory[i], 1e-12)
	}
}

func TestGradientDescentZeroIterations(t *testing.T) {
	X := mat.NewDense(2, 2, []float64{1, 1, 1, 2})
	y := mat.NewVecDense(2, []float64{1, 2})
	theta := mat.NewVecDense(2, []float64{0.3, -0.7})

	res, err := GradientDescent(X, y, theta, 0.1, 0, 2)
	require.NoError(t, err)

	assert.True(t, mat.Equal(theta, res.Theta))
	assert.NotSame(t, theta, res.Theta)
	assert.NotNil(t, res.CostHistory)
	assert.Empty(t, res.CostHistory)
	assert.True(t, math.IsNaN(res.FinalCost()))
}

func TestGradientDescentDoesNotMutateInputs(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{1, 1, 1, 2, 1, 3})
	y := mat.NewVecDense(3, []float64{1, 2, 3})
	theta := mat.NewVecDense(2, []float64{0.5, 0.25})

	Xc, yc, tc := mat.DenseCopyOf(X), mat.VecDenseCopyOf(y), mat.VecDenseCopyOf(theta)
	_, err := GradientDescent(X, y, theta, 0.1, 25, 3)
	require.NoError(t, err)

	assert.True(t, mat.Equal(Xc, X))
	assert.True(t, mat.Equal(yc, y))
	assert.True(t, mat.Equal(tc, theta))
}

func TestGradientDescentValidation(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{1, 1, 1, 2, 1, 3})
	y := mat.NewVecDense(3, []float64{1, 2, 3})
	theta := mat.NewVecDense(2, nil)

	tests := []struct {
		name     string
		alpha    float64
		numIters int
		m        int
		param    string
	}{
		{"zero alpha", 0, 10, 3, "alpha"},
		{"negative alpha", -0.1, 10, 3, "alpha"},
		{"NaN alpha", math.NaN(), 10, 3, "alpha"},
		{"infinite alpha", math.Inf(1), 10, 3, "alpha"},
		{"negative iterations", 0.1, -1, 3, "num_iters"},
		{"zero examples", 0.1, 10, 0, "m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GradientDescent(X, y, theta, tt.alpha, tt.numIters, tt.m)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidArgument))

			var valErr *errors.ValidationError
			require.True(t, errors.As(err, &valErr))
			assert.Equal(t, tt.param, valErr.ParamName)
		})
	}

	t.Run("theta length", func(t *testing.T) {
		_, err := GradientDescent(X, y, mat.NewVecDense(3, nil), 0.1, 10, 3)
		var dimErr *errors.DimensionError
		require.True(t, errors.As(err, &dimErr))
		assert.Equal(t, 1, dimErr.Axis)
		assert.Equal(t, 2, dimErr.Expected)
		assert.Equal(t, 3, dimErr.Got)
	})
}

func TestGradientDescentCallbackAndLogging(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{1, 1, 1, 2, 1, 3})
	y := mat.NewVecDense(3, []float64{1, 2, 3})
	logger, _ := log.NewTestLogger(log.LevelDebug)

	var iters []int
	var costs []float64
	res, err := GradientDescent(X, y, mat.NewVecDense(2, nil), 0.1, 20, 3,
		WithLogger(logger),
		WithProgressEvery(5),
		WithIterationCallback(func(iteration int, cost float64) {
			iters = append(iters, iteration)
			costs = append(costs, cost)
		}),
	)
	require.NoError(t, err)

	require.Len(t, iters, 20)
	assert.Equal(t, 1, iters[0])
	assert.Equal(t, 20, iters[19])
	assert.Equal(t, res.CostHistory, costs)

	assert.True(t, logger.ContainsMessage("gradient descent started"))
	assert.True(t, logger.ContainsMessage("gradient descent finished"))
	assert.True(t, logger.ContainsField(log.ModelNameKey, algorithmName))
	assert.True(t, logger.ContainsField(log.IterationKey, float64(15)))
	// start + 4 progress records + finish
	assert.Equal(t, 6, logger.CountLevel("DEBUG"))
}

func TestGradientDescentQuietAboveDebug(t *testing.T) {
	X := mat.NewDense(2, 2, []float64{1, 1, 1, 2})
	y := mat.NewVecDense(2, []float64{1, 2})
	logger, buf := log.NewTestLogger(log.LevelInfo)

	_, err := GradientDescent(X, y, mat.NewVecDense(2, nil), 0.1, 10, 2,
		WithLogger(logger), WithProgressEvery(1))
	require.NoError(t, err)
	assert.Zero(t, buf.Len())
}

func TestGradientDescentDivergenceWarning(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{1, 1, 1, 2, 1, 3})
	y := mat.NewVecDense(3, []float64{1, 2, 3})

	t.Run("large alpha warns", func(t *testing.T) {
		warnings := captureWarnings(t)
		res, err := GradientDescent(X, y, mat.NewVecDense(2, nil), 1.0, 30, 3)
		require.NoError(t, err)
		assert.Greater(t, res.FinalCost(), res.CostHistory[0])

		require.Len(t, warnings(), 1)
		var dw *errors.DivergenceWarning
		require.True(t, errors.As(warnings()[0], &dw))
		assert.Equal(t, algorithmName, dw.Algorithm)
		assert.Equal(t, 30, dw.Iterations)
		assert.Equal(t, 1.0, dw.LearningRate)
		assert.Equal(t, res.FinalCost(), dw.FinalCost)
	})

	t.Run("disabled", func(t *testing.T) {
		warnings := captureWarnings(t)
		_, err := GradientDescent(X, y, mat.NewVecDense(2, nil), 1.0, 30, 3, WithDivergenceWarning(false))
		require.NoError(t, err)
		assert.Empty(t, warnings())
	})

	t.Run("converging run is silent", func(t *testing.T) {
		warnings := captureWarnings(t)
		_, err := GradientDescent(X, y, mat.NewVecDense(2, nil), 0.1, 30, 3)
		require.NoError(t, err)
		assert.Empty(t, warnings())
	})
}

// Package metrics provides regression error metrics over gonum vectors.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/gradreg/pkg/errors"
)

// checkPair は長さ0と長さ不一致を検出する
func checkPair(op string, yTrue, yPred mat.Vector) (int, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError(op, "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

func toSlice(v mat.Vector) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}

// MSE は平均二乗誤差 (1/n)·Σ(yTrue − yPred)² を計算する
//
// 勾配降下のコスト J は MSE/2 に等しい。
func MSE(yTrue, yPred mat.Vector) (float64, error) {
	n, err := checkPair("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	d := floats.Distance(toSlice(yTrue), toSlice(yPred), 2)
	return d * d / float64(n), nil
}

// RMSE は平方根平均二乗誤差を計算する
func RMSE(yTrue, yPred mat.Vector) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差 (1/n)·Σ|yTrue − yPred| を計算する
func MAE(yTrue, yPred mat.Vector) (float64, error) {
	n, err := checkPair("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return floats.Distance(toSlice(yTrue), toSlice(yPred), 1) / float64(n), nil
}

// R2Score は決定係数 1 − RSS/TSS を計算する
//
// yTrue の分散が0のときはエラーを返す。
func R2Score(yTrue, yPred mat.Vector) (float64, error) {
	n, err := checkPair("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	t := toSlice(yTrue)
	p := toSlice(yPred)
	yMean := stat.Mean(t, nil)

	var tss, rss float64
	for i := 0; i < n; i++ {
		tss += (t[i] - yMean) * (t[i] - yMean)
		rss += (t[i] - p[i]) * (t[i] - p[i])
	}
	if tss == 0 {
		return 0, errors.Newf("R2Score: total sum of squares is zero (no variance in yTrue)")
	}
	return 1 - rss/tss, nil
}

// ColumnVector は n×1 行列を mat.Vector として返す
func ColumnVector(op string, y mat.Matrix) (mat.Vector, error) {
	r, c := y.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewValueError(op, "empty matrix")
	}
	if c != 1 {
		return nil, errors.NewValueError(op, "must be a column vector (n×1 matrix)")
	}
	if v, ok := y.(mat.Vector); ok {
		return v, nil
	}
	return mat.NewVecDense(r, mat.Col(nil, 0, y)), nil
}

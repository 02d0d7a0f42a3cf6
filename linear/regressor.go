package linear

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gradreg/core/model"
	"github.com/YuminosukeSato/gradreg/metrics"
	"github.com/YuminosukeSato/gradreg/pkg/errors"
	"github.com/YuminosukeSato/gradreg/preprocessing"
)

const (
	// DefaultLearningRate is the alpha used when none is configured.
	DefaultLearningRate = 0.01
	// DefaultNumIters is the iteration count used when none is configured.
	DefaultNumIters = 1500

	regressorName = "GDRegressor"
)

var (
	_ model.Regressor      = (*GDRegressor)(nil)
	_ model.WeightExporter = (*GDRegressor)(nil)
)

type normalizeMode int

const (
	normalizeAuto normalizeMode = iota // only when there is more than one feature
	normalizeAlways
	normalizeNever
)

// GDRegressor は勾配降下で学習する線形回帰モデル
//
// Fit は生の特徴量を受け取り、必要なら正規化してからバイアス列を付与し、
// GradientDescent を θ = 0 から実行する。Predict は同じ正規化を再利用する。
type GDRegressor struct {
	model.BaseEstimator

	alpha     float64
	numIters  int
	normalize normalizeMode
	gdOpts    []Option

	theta       *mat.VecDense
	costHistory []float64
	normalizer  *preprocessing.Normalizer
	nFeatures   int
}

// NewGDRegressor は新しいGDRegressorを作成する
//
// 使用例:
//
//	reg := linear.NewGDRegressor(linear.WithLearningRate(0.1), linear.WithNumIters(400))
//	if err := reg.Fit(X, y); err != nil {
//	    return err
//	}
//	pred, err := reg.Predict(XTest)
func NewGDRegressor(opts ...RegressorOption) *GDRegressor {
	r := &GDRegressor{
		alpha:    DefaultLearningRate,
		numIters: DefaultNumIters,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Fit はモデルを訓練データで学習させる
//
// X は m×k の特徴量（バイアス列なし）、y は m×1 の列ベクトル。
func (r *GDRegressor) Fit(X, y mat.Matrix) error {
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewModelError("GDRegressor.Fit", "empty data", errors.ErrEmptyData)
	}
	ry, _ := y.Dims()
	if ry != rows {
		return errors.NewDimensionError("GDRegressor.Fit", rows, ry, 0)
	}
	yVec, err := metrics.ColumnVector("GDRegressor.Fit", y)
	if err != nil {
		return err
	}

	var normalizer *preprocessing.Normalizer
	features := mat.Matrix(X)
	if r.normalize == normalizeAlways || (r.normalize == normalizeAuto && cols > 1) {
		normalizer = preprocessing.NewNormalizer()
		if features, err = normalizer.FitTransform(X); err != nil {
			return err
		}
	}

	design, err := preprocessing.AddBias(features)
	if err != nil {
		return err
	}

	res, err := GradientDescent(design, yVec, mat.NewVecDense(cols+1, nil), r.alpha, r.numIters, rows, r.gdOpts...)
	if err != nil {
		return errors.Wrap(err, "GDRegressor.Fit")
	}

	r.theta = res.Theta
	r.costHistory = res.CostHistory
	r.normalizer = normalizer
	r.nFeatures = cols
	r.SetFitted()
	return nil
}

// design は予測用の [1 | 正規化済みX] を作る
func (r *GDRegressor) design(op string, X mat.Matrix) (*mat.Dense, error) {
	if !r.IsFitted() {
		return nil, errors.NewNotFittedError(regressorName, op)
	}
	_, cols := X.Dims()
	if cols != r.nFeatures {
		return nil, errors.NewDimensionError("GDRegressor."+op, r.nFeatures, cols, 1)
	}

	features := X
	if r.normalizer != nil {
		var err error
		if features, err = r.normalizer.Transform(X); err != nil {
			return nil, err
		}
	}
	return preprocessing.AddBias(features)
}

// Predict は入力データに対する予測 Xθ を m×1 行列で返す
func (r *GDRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	d, err := r.design("Predict", X)
	if err != nil {
		return nil, err
	}
	rows, _ := d.Dims()
	pred := mat.NewVecDense(rows, nil)
	pred.MulVec(d, r.theta)
	return mat.NewDense(rows, 1, pred.RawVector().Data), nil
}

// Score は決定係数（R²）を計算する
func (r *GDRegressor) Score(X, y mat.Matrix) (float64, error) {
	pred, err := r.Predict(X)
	if err != nil {
		return 0, err
	}
	yVec, err := metrics.ColumnVector("GDRegressor.Score", y)
	if err != nil {
		return 0, err
	}
	predVec, err := metrics.ColumnVector("GDRegressor.Score", pred)
	if err != nil {
		return 0, err
	}
	return metrics.R2Score(yVec, predVec)
}

// Theta は学習済みパラメータ（θ[0] が切片）のコピーを返す
func (r *GDRegressor) Theta() []float64 {
	if r.theta == nil {
		return nil
	}
	return mat.Col(nil, 0, r.theta)
}

// Intercept は θ[0] を返す。正規化した場合は正規化空間での切片。
func (r *GDRegressor) Intercept() float64 {
	if r.theta == nil {
		return 0
	}
	return r.theta.AtVec(0)
}

// Coefficients は θ[1:] を返す
func (r *GDRegressor) Coefficients() []float64 {
	theta := r.Theta()
	if theta == nil {
		return nil
	}
	return theta[1:]
}

// CostHistory は各イテレーション後のコストのコピーを返す
func (r *GDRegressor) CostHistory() []float64 {
	return append([]float64(nil), r.costHistory...)
}

// NIter は実行したイテレーション数を返す
func (r *GDRegressor) NIter() int {
	return len(r.costHistory)
}

// Normalizer は学習時に使った正規化器を返す。正規化していなければ nil。
func (r *GDRegressor) Normalizer() *preprocessing.Normalizer {
	return r.normalizer
}

// GetParams はハイパーパラメータを返す
func (r *GDRegressor) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"alpha":     r.alpha,
		"num_iters": r.numIters,
		"normalize": r.normalizeName(),
	}
}

func (r *GDRegressor) normalizeName() string {
	switch r.normalize {
	case normalizeAlways:
		return "always"
	case normalizeNever:
		return "never"
	default:
		return "auto"
	}
}

// ExportWeights は学習済みの重みを ModelWeights として書き出す
func (r *GDRegressor) ExportWeights() (*model.ModelWeights, error) {
	if !r.IsFitted() {
		return nil, errors.NewNotFittedError(regressorName, "ExportWeights")
	}
	return buildWeights(r.theta, r.costHistory, r.normalizer, r.GetParams()), nil
}

// Weights は GradientDescent の結果を GDRegressor 形式の ModelWeights にする。
// normalizer は X を作るときに使った正規化器（なければ nil）。
// 書き出した重みは GDRegressor.ImportWeights で読み込める。
func (res *Result) Weights(normalizer *preprocessing.Normalizer) *model.ModelWeights {
	mode := "never"
	if normalizer != nil {
		mode = "always"
	}
	params := map[string]interface{}{
		"alpha":     res.Alpha,
		"num_iters": res.Iterations(),
		"normalize": mode,
	}
	return buildWeights(res.Theta, res.CostHistory, normalizer, params)
}

func buildWeights(theta *mat.VecDense, history []float64, normalizer *preprocessing.Normalizer, params map[string]interface{}) *model.ModelWeights {
	coef := mat.Col(nil, 0, theta)
	mw := &model.ModelWeights{
		ModelType:       regressorName,
		Version:         model.WeightsVersion,
		Coefficients:    coef[1:],
		Intercept:       coef[0],
		Hyperparameters: params,
		CostHistory:     append([]float64(nil), history...),
		IsFitted:        true,
	}
	if normalizer != nil {
		mw.FeatureMean = append([]float64(nil), normalizer.Mean...)
		mw.FeatureStd = append([]float64(nil), normalizer.Std...)
	}
	return mw
}

// ImportWeights は ModelWeights から学習済み状態を復元する
func (r *GDRegressor) ImportWeights(mw *model.ModelWeights) error {
	if err := mw.Validate(); err != nil {
		return errors.Wrap(err, "GDRegressor.ImportWeights")
	}
	if mw.ModelType != regressorName {
		return errors.NewValueError("GDRegressor.ImportWeights", fmt.Sprintf("unexpected model type %q", mw.ModelType))
	}
	if !mw.IsFitted {
		return errors.NewValueError("GDRegressor.ImportWeights", "weights are not fitted")
	}

	var normalizer *preprocessing.Normalizer
	if len(mw.FeatureMean) > 0 {
		var err error
		if normalizer, err = preprocessing.NewNormalizerFromStats(mw.FeatureMean, mw.FeatureStd); err != nil {
			return err
		}
	}

	theta := mat.NewVecDense(len(mw.Coefficients)+1, nil)
	theta.SetVec(0, mw.Intercept)
	for i, c := range mw.Coefficients {
		theta.SetVec(i+1, c)
	}

	if alpha, ok := mw.Hyperparameters["alpha"].(float64); ok {
		r.alpha = alpha
	}
	switch mw.Hyperparameters["normalize"] {
	case "always":
		r.normalize = normalizeAlways
	case "never":
		r.normalize = normalizeNever
	}
	switch iters := mw.Hyperparameters["num_iters"].(type) {
	case int:
		r.numIters = iters
	case float64: // JSON numbers
		r.numIters = int(iters)
	}

	r.theta = theta
	r.costHistory = append([]float64(nil), mw.CostHistory...)
	r.normalizer = normalizer
	r.nFeatures = len(mw.Coefficients)
	r.SetFitted()
	return nil
}

// String はモデルの文字列表現を返す
func (r *GDRegressor) String() string {
	if !r.IsFitted() {
		return fmt.Sprintf("GDRegressor(alpha=%g, num_iters=%d, normalize=%s)", r.alpha, r.numIters, r.normalizeName())
	}
	return fmt.Sprintf("GDRegressor(alpha=%g, num_iters=%d, normalize=%s, n_features=%d)",
		r.alpha, r.numIters, r.normalizeName(), r.nFeatures)
}

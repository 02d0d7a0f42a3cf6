package model

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// WeightsVersion は現在のシリアライズ形式のバージョン
const WeightsVersion = "1.0"

// ModelWeights は学習済みパラメータのシリアライズ用構造体
type ModelWeights struct {
	// ModelType はモデルの種類（GDRegressor等）
	ModelType string `json:"model_type"`

	// Version は形式のバージョン（互換性チェック用）
	Version string `json:"version"`

	// Coefficients は特徴量の重み（バイアス項を除く）
	Coefficients []float64 `json:"coefficients"`

	// Intercept は切片（theta[0]）
	Intercept float64 `json:"intercept"`

	// FeatureMean と FeatureStd は学習時の正規化統計量（正規化しない場合は空）
	FeatureMean []float64 `json:"feature_mean,omitempty"`
	FeatureStd  []float64 `json:"feature_std,omitempty"`

	// Hyperparameters はモデルのハイパーパラメータ
	Hyperparameters map[string]interface{} `json:"hyperparameters"`

	// CostHistory は各イテレーション後のコスト
	CostHistory []float64 `json:"cost_history,omitempty"`

	// IsFitted はモデルが学習済みかどうか
	IsFitted bool `json:"is_fitted"`
}

// ToJSON はModelWeightsをインデント付きJSONにシリアライズする
func (mw *ModelWeights) ToJSON() ([]byte, error) {
	return json.MarshalIndent(mw, "", "  ")
}

// FromJSON はJSONからModelWeightsをデシリアライズし、検証する
func (mw *ModelWeights) FromJSON(data []byte) error {
	if err := json.Unmarshal(data, mw); err != nil {
		return fmt.Errorf("failed to decode weights: %w", err)
	}
	return mw.Validate()
}

// WriteTo はJSONをwに書き出す
func (mw *ModelWeights) WriteTo(w io.Writer) (int64, error) {
	data, err := mw.ToJSON()
	if err != nil {
		return 0, fmt.Errorf("failed to encode weights: %w", err)
	}
	n, err := w.Write(append(data, '\n'))
	return int64(n), err
}

// ReadWeights はrからModelWeightsを読み込む
func ReadWeights(r io.Reader) (*ModelWeights, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read weights: %w", err)
	}
	mw := &ModelWeights{}
	if err := mw.FromJSON(data); err != nil {
		return nil, err
	}
	return mw, nil
}

// Validate はModelWeightsの妥当性を検証する
func (mw *ModelWeights) Validate() error {
	if mw.ModelType == "" {
		return fmt.Errorf("model_type is required")
	}
	if mw.Version == "" {
		return fmt.Errorf("version is required")
	}
	if !mw.IsFitted && len(mw.Coefficients) > 0 {
		return fmt.Errorf("unfitted model should not have coefficients")
	}
	if mw.IsFitted && len(mw.Coefficients) == 0 {
		return fmt.Errorf("fitted model must have coefficients")
	}
	if len(mw.FeatureMean) != len(mw.FeatureStd) {
		return fmt.Errorf("feature_mean has %d entries but feature_std has %d", len(mw.FeatureMean), len(mw.FeatureStd))
	}
	if len(mw.FeatureMean) > 0 && len(mw.FeatureMean) != len(mw.Coefficients) {
		return fmt.Errorf("normalization statistics cover %d features, coefficients %d", len(mw.FeatureMean), len(mw.Coefficients))
	}
	return nil
}

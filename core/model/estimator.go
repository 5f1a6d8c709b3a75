package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う (n_samples x 1)
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Estimator は学習と予測の両方を提供するモデル
type Estimator interface {
	Fitter
	Predictor
}

// Package model provides the estimator interfaces shared by preprocessing,
// classifiers and the pipeline, plus fitted-state bookkeeping and gob
// persistence helpers.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Classifier combines interfaces for classification models.
type Classifier interface {
	Estimator
	ParameterGetter
	ParameterSetter

	// PredictProba returns probability estimates for each class
	// (n_samples x n_classes, columns ordered as Classes()).
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Classes returns the unique classes seen during fitting.
	Classes() []int
}

// ParameterGetter is the interface for models that expose their parameters.
type ParameterGetter interface {
	// GetParams returns the model's hyperparameters.
	GetParams() map[string]interface{}
}

// ParameterSetter is the interface for models that allow parameter modification.
type ParameterSetter interface {
	// SetParams sets the model's hyperparameters.
	SetParams(params map[string]interface{}) error
}

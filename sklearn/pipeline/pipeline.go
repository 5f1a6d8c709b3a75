// Package pipeline composes the preprocessing chain and the classifier into
// a single estimator that is fitted, persisted and reused as one unit.
package pipeline

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/baseline/core/model"
	"github.com/YuminosukeSato/baseline/pkg/errors"
)

// Step names, in pipeline order.
const (
	StepPreprocess = "preprocess"
	StepModel      = "model"
)

func init() {
	model.Register(&Pipeline{})
}

// Step is a named stage of the pipeline.
type Step struct {
	Name      string
	Estimator interface{}
}

// Pipeline is a preprocessing transformer followed by a classifier. Fit
// fits both on the training matrix. Predict only applies them.
//
// The fields are exported for gob; use Assemble to build one.
type Pipeline struct {
	Preprocess model.Transformer
	Model      model.Classifier
	Fitted     bool
}

// Assemble returns an unfitted pipeline. It performs no validation beyond
// wiring the two stages together.
func Assemble(transform model.Transformer, clf model.Classifier) *Pipeline {
	return &Pipeline{Preprocess: transform, Model: clf}
}

// Steps returns the stages in order.
func (p *Pipeline) Steps() []Step {
	return []Step{
		{Name: StepPreprocess, Estimator: p.Preprocess},
		{Name: StepModel, Estimator: p.Model},
	}
}

// NamedStep returns the stage called name.
func (p *Pipeline) NamedStep(name string) (interface{}, bool) {
	for _, s := range p.Steps() {
		if s.Name == name {
			return s.Estimator, true
		}
	}
	return nil, false
}

// Fit fits the preprocessing on X, transforms X and fits the classifier on
// the result. Statistics are learned from X only.
func (p *Pipeline) Fit(X, y mat.Matrix) error {
	if p.Preprocess == nil || p.Model == nil {
		return errors.NewValueError("Pipeline.Fit", "pipeline has no preprocess or model step")
	}
	p.Fitted = false

	Xt, err := p.Preprocess.FitTransform(X)
	if err != nil {
		return errors.Wrapf(err, "failed to fit step '%s'", StepPreprocess)
	}
	if err := p.Model.Fit(Xt, y); err != nil {
		return errors.Wrapf(err, "failed to fit step '%s'", StepModel)
	}

	p.Fitted = true
	return nil
}

// Transform applies the fitted preprocessing to X.
func (p *Pipeline) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !p.Fitted {
		return nil, errors.NewNotFittedError("Pipeline", "Transform")
	}
	Xt, err := p.Preprocess.Transform(X)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to transform at step '%s'", StepPreprocess)
	}
	return Xt, nil
}

// Predict transforms X with the fitted preprocessing and returns the
// classifier's labels (n_samples x 1). It never refits.
func (p *Pipeline) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !p.Fitted {
		return nil, errors.NewNotFittedError("Pipeline", "Predict")
	}
	Xt, err := p.Transform(X)
	if err != nil {
		return nil, err
	}
	return p.Model.Predict(Xt)
}

// PredictProba transforms X and returns the classifier's class
// probabilities.
func (p *Pipeline) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !p.Fitted {
		return nil, errors.NewNotFittedError("Pipeline", "PredictProba")
	}
	Xt, err := p.Transform(X)
	if err != nil {
		return nil, err
	}
	return p.Model.PredictProba(Xt)
}

// Classes returns the class labels of the fitted classifier.
func (p *Pipeline) Classes() []int {
	if p.Model == nil {
		return nil
	}
	return p.Model.Classes()
}

// IsFitted reports whether Fit has completed.
func (p *Pipeline) IsFitted() bool {
	return p.Fitted
}

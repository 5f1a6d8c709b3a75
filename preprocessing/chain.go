// Package preprocessing provides the numeric preprocessing recipe applied in
// front of the classifier: median imputation followed by standardization.
package preprocessing

import (
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/baseline/core/model"
	"github.com/YuminosukeSato/baseline/pkg/errors"
)

// Step names understood by Build.
const (
	StepImputer = "imputer"
	StepScaler  = "scaler"
)

func init() {
	model.Register(&SimpleImputer{})
	model.Register(&StandardScaler{})
	model.Register(&Chain{})
}

// NamedStep is one stage of a Chain.
type NamedStep struct {
	Name string
	Step model.Transformer
}

// Chain applies its steps in order. Each step is fitted on the output of the
// previous one.
type Chain struct {
	Steps []NamedStep
}

var stepTable = map[string]func() model.Transformer{
	StepImputer: func() model.Transformer {
		imp, _ := NewSimpleImputer(StrategyMedian)
		return imp
	},
	StepScaler: func() model.Transformer {
		return NewStandardScalerDefault()
	},
}

// BuildNumeric returns the unfitted numeric recipe: median imputation
// followed by standard scaling.
func BuildNumeric() *Chain {
	chain, _ := Build(StepImputer, StepScaler)
	return chain
}

// Build returns an unfitted chain of the named steps. Names outside the step
// table are rejected with a ConfigurationError.
func Build(names ...string) (*Chain, error) {
	if len(names) == 0 {
		return nil, errors.NewConfigurationError("preprocessing", "at least one step is required", nil)
	}
	chain := &Chain{Steps: make([]NamedStep, 0, len(names))}
	for _, name := range names {
		newStep, ok := stepTable[name]
		if !ok {
			return nil, errors.NewConfigurationError("preprocessing", "unknown step", name)
		}
		chain.Steps = append(chain.Steps, NamedStep{Name: name, Step: newStep()})
	}
	return chain, nil
}

// Fit fits every step in order, feeding each the output of its predecessor.
func (c *Chain) Fit(X mat.Matrix) error {
	_, err := c.FitTransform(X)
	return err
}

// FitTransform fits the chain on X and returns the transformed X.
func (c *Chain) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	current := X
	for _, s := range c.Steps {
		next, err := s.Step.FitTransform(current)
		if err != nil {
			return nil, errors.Wrapf(err, "fit step %s", s.Name)
		}
		current = next
	}
	return current, nil
}

// Transform applies the fitted steps to X without refitting.
func (c *Chain) Transform(X mat.Matrix) (mat.Matrix, error) {
	current := X
	for _, s := range c.Steps {
		next, err := s.Step.Transform(current)
		if err != nil {
			return nil, errors.Wrapf(err, "transform step %s", s.Name)
		}
		current = next
	}
	return current, nil
}

// Names returns the step names in order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.Steps))
	for i, s := range c.Steps {
		names[i] = s.Name
	}
	return names
}

func (c *Chain) String() string {
	return "Chain(" + strings.Join(c.Names(), " -> ") + ")"
}

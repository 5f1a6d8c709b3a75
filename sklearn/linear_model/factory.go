package linear_model

import (
	"sort"
	"strings"

	"github.com/YuminosukeSato/baseline/config"
	"github.com/YuminosukeSato/baseline/core/model"
	"github.com/YuminosukeSato/baseline/pkg/errors"
)

// ModelLogisticRegression is the configuration name of LogisticRegression.
const ModelLogisticRegression = "logistic_regression"

// defaultMaxIter applies when the configuration leaves max_iter out.
const defaultMaxIter = 100

type builder func(params map[string]interface{}) (model.Classifier, error)

// builders is the closed set of models the configuration can name. Adding a
// model means adding an entry here.
var builders = map[string]builder{
	ModelLogisticRegression: buildLogisticRegression,
}

// Available returns the model names BuildModel accepts, sorted.
func Available() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildModel returns an unfitted classifier for cfg. Unknown model names and
// rejected hyperparameters are reported as ConfigurationError.
func BuildModel(cfg config.ModelConfig) (model.Classifier, error) {
	build, ok := builders[cfg.Name]
	if !ok {
		return nil, errors.NewConfigurationError("model.name",
			"unknown model; available: "+strings.Join(Available(), ", "), cfg.Name)
	}

	clf, err := build(cfg.Hyperparameters())
	if err != nil {
		var valErr *errors.ValidationError
		if errors.As(err, &valErr) {
			return nil, errors.NewConfigurationError("model."+valErr.ParamName, valErr.Reason, valErr.Value)
		}
		return nil, err
	}
	return clf, nil
}

func buildLogisticRegression(params map[string]interface{}) (model.Classifier, error) {
	if _, ok := params["max_iter"]; !ok {
		params["max_iter"] = defaultMaxIter
	}

	lr := NewLogisticRegression()
	if err := lr.SetParams(params); err != nil {
		return nil, err
	}
	return lr, nil
}

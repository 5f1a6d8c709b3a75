package linear_model

import (
	"math"
	"strings"

	"github.com/YuminosukeSato/baseline/pkg/errors"
)

// Hyperparameter coercion for values decoded from YAML, where 1 and 1.0
// arrive as int and float64 respectively.

func asFloat(key string, value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	}
	return 0, errors.NewValidationError(key, "must be a number", value)
}

func asInt(key string, value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case int32:
		return int(v), nil
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return int(v), nil
		}
	}
	return 0, errors.NewValidationError(key, "must be an integer", value)
}

func asBool(key string, value interface{}) (bool, error) {
	if v, ok := value.(bool); ok {
		return v, nil
	}
	return false, errors.NewValidationError(key, "must be a boolean", value)
}

func asChoice(key string, value interface{}, choices ...string) (string, error) {
	if v, ok := value.(string); ok {
		for _, c := range choices {
			if v == c {
				return v, nil
			}
		}
	}
	return "", errors.NewValidationError(key, "must be one of "+strings.Join(choices, ", "), value)
}

// asPenalty accepts l2 and no penalty. l1 and elasticnet need a proximal
// solver, which the gradient descent solver is not.
func asPenalty(value interface{}) (string, error) {
	if value == nil {
		return "none", nil
	}
	v, ok := value.(string)
	if !ok {
		return "", errors.NewValidationError("penalty", "must be a string", value)
	}
	switch v {
	case "l2":
		return v, nil
	case "none", "None":
		return "none", nil
	case "l1", "elasticnet":
		return "", errors.NewValidationError("penalty", "not supported by the gradient descent solver; use l2 or none", value)
	}
	return "", errors.NewValidationError("penalty", "must be one of l2, none", value)
}

func asClassWeight(value interface{}) (string, error) {
	if value == nil {
		return "none", nil
	}
	if v, ok := value.(string); ok && (v == "balanced" || v == "none") {
		return v, nil
	}
	return "", errors.NewValidationError("class_weight", "must be balanced or null", value)
}

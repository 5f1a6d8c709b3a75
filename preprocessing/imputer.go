package preprocessing

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/baseline/core/model"
	"github.com/YuminosukeSato/baseline/pkg/errors"
)

// Imputation strategies.
const (
	StrategyMean         = "mean"
	StrategyMedian       = "median"
	StrategyMostFrequent = "most_frequent"
	StrategyConstant     = "constant"
)

// SimpleImputer replaces missing values (NaN) column by column with a
// statistic learned at fit time.
type SimpleImputer struct {
	model.StateManager

	Strategy   string
	FillValue  float64 // used by StrategyConstant
	Statistics []float64
}

// NewSimpleImputer returns an unfitted imputer using strategy.
func NewSimpleImputer(strategy string) (*SimpleImputer, error) {
	switch strategy {
	case StrategyMean, StrategyMedian, StrategyMostFrequent, StrategyConstant:
	default:
		return nil, errors.NewValidationError("strategy", "must be one of mean, median, most_frequent, constant", strategy)
	}
	return &SimpleImputer{Strategy: strategy}, nil
}

// Fit learns one fill value per column from the non-missing entries of X.
// A column with no observed value is filled with 0 and reported through a
// DataConversionWarning.
func (s *SimpleImputer) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("SimpleImputer.Fit", "empty data", errors.ErrEmptyData)
	}

	s.Reset()
	s.Statistics = make([]float64, c)

	col := make([]float64, 0, r)
	for j := 0; j < c; j++ {
		if s.Strategy == StrategyConstant {
			s.Statistics[j] = s.FillValue
			continue
		}

		col = observed(col[:0], X, j)
		if len(col) == 0 {
			errors.Warn(errors.NewDataConversionWarning("missing", "constant 0",
				fmt.Sprintf("column %d has no observed values at fit time", j)))
			continue
		}

		switch s.Strategy {
		case StrategyMean:
			s.Statistics[j] = stat.Mean(col, nil)
		case StrategyMedian:
			s.Statistics[j] = median(col)
		case StrategyMostFrequent:
			s.Statistics[j] = mostFrequent(col)
		}
	}

	s.SetDimensions(c, r)
	s.SetFitted()
	return nil
}

// Transform returns a copy of X with every NaN replaced by its column
// statistic.
func (s *SimpleImputer) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.RequireFitted("SimpleImputer", "Transform"); err != nil {
		return nil, err
	}
	if err := s.RequireFeatures("SimpleImputer.Transform", colsOf(X)); err != nil {
		return nil, err
	}

	r, c := X.Dims()
	result := mat.NewDense(r, c, nil)
	result.Apply(func(i, j int, v float64) float64 {
		if math.IsNaN(v) {
			return s.Statistics[j]
		}
		return v
	}, X)
	return result, nil
}

// FitTransform fits on X and imputes it.
func (s *SimpleImputer) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// GetParams returns the imputer's parameters.
func (s *SimpleImputer) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"strategy":   s.Strategy,
		"fill_value": s.FillValue,
	}
}

func (s *SimpleImputer) String() string {
	return fmt.Sprintf("SimpleImputer(strategy=%s)", s.Strategy)
}

// median sorts x in place and returns the midpoint, averaging the two middle
// values for even lengths.
func median(x []float64) float64 {
	sort.Float64s(x)
	n := len(x)
	if n%2 == 1 {
		return x[n/2]
	}
	return (x[n/2-1] + x[n/2]) / 2
}

// mostFrequent sorts x in place and returns its most common value, the
// smallest one on ties.
func mostFrequent(x []float64) float64 {
	sort.Float64s(x)
	best, bestCount := x[0], 0
	for i := 0; i < len(x); {
		j := i
		for j < len(x) && x[j] == x[i] {
			j++
		}
		if j-i > bestCount {
			best, bestCount = x[i], j-i
		}
		i = j
	}
	return best
}

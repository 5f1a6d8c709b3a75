// Package metrics provides classification metrics over integer label vectors.
package metrics

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/baseline/pkg/errors"
)

// Averaging modes for F1Score.
const (
	AverageMacro    = "macro"
	AverageWeighted = "weighted"
	AverageMicro    = "micro"
)

func validatePair(op string, yTrue, yPred *mat.VecDense) (int, error) {
	if yTrue == nil || yPred == nil || yTrue.Len() == 0 {
		return 0, errors.NewValueError(op, "empty vector")
	}
	n := yTrue.Len()
	if yPred.Len() != n {
		return 0, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

// ClassificationError returns the fraction of misclassified samples.
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := validatePair("ClassificationError", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	wrong := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) != yPred.AtVec(i) {
			wrong++
		}
	}
	return float64(wrong) / float64(n), nil
}

// Accuracy returns the fraction of correctly classified samples.
//
// Example:
//
//	yTrue := mat.NewVecDense(5, []float64{0, 1, 2, 1, 0})
//	yPred := mat.NewVecDense(5, []float64{0, 1, 1, 1, 0})
//	acc, _ := metrics.Accuracy(yTrue, yPred) // 0.8
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	errorRate, err := ClassificationError(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1.0 - errorRate, nil
}

// Labels returns the sorted union of the integer labels in yTrue and yPred.
func Labels(yTrue, yPred *mat.VecDense) []int {
	seen := make(map[int]struct{})
	for _, v := range []*mat.VecDense{yTrue, yPred} {
		if v == nil {
			continue
		}
		for i := 0; i < v.Len(); i++ {
			seen[int(v.AtVec(i))] = struct{}{}
		}
	}
	labels := make([]int, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	sort.Ints(labels)
	return labels
}

// ConfusionMatrix counts samples by true label (rows) and predicted label
// (columns), both ordered as labels. A nil labels uses Labels(yTrue, yPred).
// Samples whose true or predicted label is not in labels are ignored.
func ConfusionMatrix(yTrue, yPred *mat.VecDense, labels []int) (*mat.Dense, error) {
	n, err := validatePair("ConfusionMatrix", yTrue, yPred)
	if err != nil {
		return nil, err
	}
	if labels == nil {
		labels = Labels(yTrue, yPred)
	}
	if len(labels) == 0 {
		return nil, errors.NewValueError("ConfusionMatrix", "labels must not be empty")
	}

	index := make(map[int]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}

	cm := mat.NewDense(len(labels), len(labels), nil)
	for i := 0; i < n; i++ {
		r, okTrue := index[int(yTrue.AtVec(i))]
		c, okPred := index[int(yPred.AtVec(i))]
		if !okTrue || !okPred {
			continue
		}
		cm.Set(r, c, cm.At(r, c)+1)
	}
	return cm, nil
}

// PerClass holds the per-label scores computed by PrecisionRecallFSupport.
type PerClass struct {
	Labels    []int
	Precision []float64
	Recall    []float64
	F1        []float64
	Support   []int
}

// PrecisionRecallFSupport computes precision, recall, F1 and support for
// every label in Labels(yTrue, yPred). Undefined ratios are set to 0 and
// reported once per metric through an UndefinedMetricWarning.
func PrecisionRecallFSupport(yTrue, yPred *mat.VecDense) (*PerClass, error) {
	labels := Labels(yTrue, yPred)
	cm, err := ConfusionMatrix(yTrue, yPred, labels)
	if err != nil {
		return nil, err
	}

	k := len(labels)
	out := &PerClass{
		Labels:    labels,
		Precision: make([]float64, k),
		Recall:    make([]float64, k),
		F1:        make([]float64, k),
		Support:   make([]int, k),
	}

	var undefinedPrecision, undefinedRecall []int
	for c := 0; c < k; c++ {
		tp := cm.At(c, c)
		predicted := mat.Sum(cm.ColView(c))
		actual := mat.Sum(cm.RowView(c))
		out.Support[c] = int(actual)

		if predicted == 0 {
			undefinedPrecision = append(undefinedPrecision, labels[c])
		} else {
			out.Precision[c] = tp / predicted
		}
		if actual == 0 {
			undefinedRecall = append(undefinedRecall, labels[c])
		} else {
			out.Recall[c] = tp / actual
		}
		if p, r := out.Precision[c], out.Recall[c]; p+r > 0 {
			out.F1[c] = 2 * p * r / (p + r)
		}
	}

	if len(undefinedPrecision) > 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("precision",
			fmt.Sprintf("no predicted samples for labels %v", undefinedPrecision), 0))
	}
	if len(undefinedRecall) > 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("recall",
			fmt.Sprintf("no true samples for labels %v", undefinedRecall), 0))
	}
	return out, nil
}

// F1Score returns the F1 score averaged over labels with the given mode:
// macro (unweighted mean), weighted (mean weighted by support) or micro
// (global counts, equal to accuracy for single-label data).
func F1Score(yTrue, yPred *mat.VecDense, average string) (float64, error) {
	switch average {
	case AverageMicro:
		return Accuracy(yTrue, yPred)
	case AverageMacro, AverageWeighted:
	default:
		return 0, errors.NewValidationError("average", "must be one of macro, weighted, micro", average)
	}

	pc, err := PrecisionRecallFSupport(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	if average == AverageMacro {
		return mean(pc.F1), nil
	}
	return weightedMean(pc.F1, pc.Support), nil
}

func mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}

func weightedMean(x []float64, weights []int) float64 {
	sum, total := 0.0, 0
	for i, v := range x {
		sum += v * float64(weights[i])
		total += weights[i]
	}
	return errors.SafeDivide(sum, float64(total))
}

package metrics

import (
	"bytes"
	"encoding/json"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// Scores is the summary written after training.
type Scores struct {
	Accuracy float64 `json:"accuracy"`
	F1Macro  float64 `json:"f1_macro"`
}

// Score computes accuracy and macro F1 in one call.
func Score(yTrue, yPred *mat.VecDense) (Scores, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return Scores{}, err
	}
	f1, err := F1Score(yTrue, yPred, AverageMacro)
	if err != nil {
		return Scores{}, err
	}
	return Scores{Accuracy: acc, F1Macro: f1}, nil
}

// ClassScores is one row of a classification report.
type ClassScores struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1Score   float64 `json:"f1-score"`
	Support   int     `json:"support"`
}

// Report is a per-class classification report. It marshals to the layout of
// scikit-learn's classification_report(output_dict=True): one entry per
// class name in label order, then "accuracy", "macro avg" and
// "weighted avg".
type Report struct {
	ClassNames  []string
	PerClass    map[string]ClassScores
	Accuracy    float64
	MacroAvg    ClassScores
	WeightedAvg ClassScores
}

// ClassificationReport builds a Report for the labels present in yTrue or
// yPred. Label l is shown as targetNames[l] when that exists and as the
// decimal label otherwise.
func ClassificationReport(yTrue, yPred *mat.VecDense, targetNames []string) (*Report, error) {
	pc, err := PrecisionRecallFSupport(yTrue, yPred)
	if err != nil {
		return nil, err
	}
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return nil, err
	}

	r := &Report{
		ClassNames: make([]string, len(pc.Labels)),
		PerClass:   make(map[string]ClassScores, len(pc.Labels)),
		Accuracy:   acc,
	}

	total := 0
	for i, label := range pc.Labels {
		name := strconv.Itoa(label)
		if label >= 0 && label < len(targetNames) {
			name = targetNames[label]
		}
		r.ClassNames[i] = name
		r.PerClass[name] = ClassScores{
			Precision: pc.Precision[i],
			Recall:    pc.Recall[i],
			F1Score:   pc.F1[i],
			Support:   pc.Support[i],
		}
		total += pc.Support[i]
	}

	r.MacroAvg = ClassScores{
		Precision: mean(pc.Precision),
		Recall:    mean(pc.Recall),
		F1Score:   mean(pc.F1),
		Support:   total,
	}
	r.WeightedAvg = ClassScores{
		Precision: weightedMean(pc.Precision, pc.Support),
		Recall:    weightedMean(pc.Recall, pc.Support),
		F1Score:   weightedMean(pc.F1, pc.Support),
		Support:   total,
	}
	return r, nil
}

// MarshalJSON writes the report keys in report order.
func (r *Report) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	write := func(key string, value interface{}) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return nil
	}

	for _, name := range r.ClassNames {
		if err := write(name, r.PerClass[name]); err != nil {
			return nil, err
		}
	}
	if err := write("accuracy", r.Accuracy); err != nil {
		return nil, err
	}
	if err := write("macro avg", r.MacroAvg); err != nil {
		return nil, err
	}
	if err := write("weighted avg", r.WeightedAvg); err != nil {
		return nil, err
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

package metrics

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/baseline/pkg/errors"
)

func TestClassificationError(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		want    float64
		wantErr bool
	}{
		{
			name:  "Perfect classification",
			yTrue: []float64{0, 1, 2, 1, 0},
			yPred: []float64{0, 1, 2, 1, 0},
			want:  0.0,
		},
		{
			name:  "One error",
			yTrue: []float64{0, 1, 2, 1, 0},
			yPred: []float64{0, 1, 1, 1, 0},
			want:  0.2,
		},
		{
			name:  "All wrong",
			yTrue: []float64{0, 0, 0},
			yPred: []float64{1, 1, 1},
			want:  1.0,
		},
		{
			name:  "Binary classification",
			yTrue: []float64{0, 0, 1, 1},
			yPred: []float64{0, 1, 1, 0},
			want:  0.5,
		},
		{
			name:    "Empty vectors",
			yTrue:   []float64{},
			yPred:   []float64{},
			wantErr: true,
		},
		{
			name:    "Dimension mismatch",
			yTrue:   []float64{0, 1},
			yPred:   []float64{0},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var yTrue, yPred *mat.VecDense
			if len(tt.yTrue) > 0 {
				yTrue = mat.NewVecDense(len(tt.yTrue), tt.yTrue)
			}
			if len(tt.yPred) > 0 {
				yPred = mat.NewVecDense(len(tt.yPred), tt.yPred)
			}

			got, err := ClassificationError(yTrue, yPred)
			if (err != nil) != tt.wantErr {
				t.Errorf("ClassificationError() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("ClassificationError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		want    float64
		wantErr bool
	}{
		{
			name:  "Perfect accuracy",
			yTrue: []float64{0, 1, 2, 1, 0},
			yPred: []float64{0, 1, 2, 1, 0},
			want:  1.0,
		},
		{
			name:  "80% accuracy",
			yTrue: []float64{0, 1, 2, 1, 0},
			yPred: []float64{0, 1, 1, 1, 0},
			want:  0.8,
		},
		{
			name:  "Zero accuracy",
			yTrue: []float64{0, 0, 0},
			yPred: []float64{1, 1, 1},
			want:  0.0,
		},
		{
			name:    "Empty vectors",
			yTrue:   []float64{},
			yPred:   []float64{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var yTrue, yPred *mat.VecDense
			if len(tt.yTrue) > 0 {
				yTrue = mat.NewVecDense(len(tt.yTrue), tt.yTrue)
			}
			if len(tt.yPred) > 0 {
				yPred = mat.NewVecDense(len(tt.yPred), tt.yPred)
			}

			got, err := Accuracy(yTrue, yPred)
			if (err != nil) != tt.wantErr {
				t.Errorf("Accuracy() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("Accuracy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func vec(values ...float64) *mat.VecDense {
	return mat.NewVecDense(len(values), values)
}

func TestConfusionMatrix(t *testing.T) {
	yTrue := vec(0, 0, 1, 1, 2, 2)
	yPred := vec(0, 1, 1, 1, 2, 0)

	cm, err := ConfusionMatrix(yTrue, yPred, nil)
	require.NoError(t, err)

	want := mat.NewDense(3, 3, []float64{
		1, 1, 0,
		0, 2, 0,
		1, 0, 1,
	})
	assert.True(t, mat.Equal(want, cm), "rows are true labels, columns predictions")
	assert.Equal(t, 6.0, mat.Sum(cm))
}

func TestConfusionMatrix_ExplicitLabels(t *testing.T) {
	cm, err := ConfusionMatrix(vec(0, 0), vec(0, 0), []int{0, 1, 2})
	require.NoError(t, err)

	r, c := cm.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, 2.0, cm.At(0, 0))
}

func TestPrecisionRecallFSupport(t *testing.T) {
	pc, err := PrecisionRecallFSupport(vec(0, 0, 1, 1, 2, 2), vec(0, 1, 1, 1, 2, 0))
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2}, pc.Labels)
	assert.Equal(t, []int{2, 2, 2}, pc.Support)
	assert.InDeltaSlice(t, []float64{0.5, 2.0 / 3, 1}, pc.Precision, 1e-12)
	assert.InDeltaSlice(t, []float64{0.5, 1, 0.5}, pc.Recall, 1e-12)
	assert.InDeltaSlice(t, []float64{0.5, 0.8, 2.0 / 3}, pc.F1, 1e-12)
}

func TestPrecisionRecallFSupport_UndefinedPrecisionWarns(t *testing.T) {
	var warnings []error
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	defer errors.SetWarningHandler(func(error) {})

	// label 1 is never predicted
	pc, err := PrecisionRecallFSupport(vec(0, 1, 1), vec(0, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 0.0, pc.Precision[1])
	assert.Equal(t, 0.0, pc.F1[1])

	require.Len(t, warnings, 1)
	var undefined *errors.UndefinedMetricWarning
	require.True(t, errors.As(warnings[0], &undefined))
	assert.Equal(t, "precision", undefined.Metric)
}

func TestF1Score(t *testing.T) {
	yTrue := vec(0, 0, 1, 1, 2, 2)
	yPred := vec(0, 1, 1, 1, 2, 0)

	macro, err := F1Score(yTrue, yPred, AverageMacro)
	require.NoError(t, err)
	assert.InDelta(t, (0.5+0.8+2.0/3)/3, macro, 1e-12)

	weighted, err := F1Score(yTrue, yPred, AverageWeighted)
	require.NoError(t, err)
	assert.InDelta(t, macro, weighted, 1e-12, "equal supports")

	micro, err := F1Score(yTrue, yPred, AverageMicro)
	require.NoError(t, err)
	assert.InDelta(t, 4.0/6, micro, 1e-12)

	_, err = F1Score(yTrue, yPred, "samples")
	var valErr *errors.ValidationError
	assert.True(t, errors.As(err, &valErr))
}

func TestScore(t *testing.T) {
	s, err := Score(vec(0, 1, 1, 0), vec(0, 1, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 0.75, s.Accuracy)
	assert.InDelta(t, (0.8+2.0/3)/2, s.F1Macro, 1e-12)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"f1_macro"`)
}

func TestClassificationReport(t *testing.T) {
	yTrue := vec(0, 0, 1, 1, 2, 2)
	yPred := vec(0, 1, 1, 1, 2, 0)

	report, err := ClassificationReport(yTrue, yPred, []string{"setosa", "versicolor", "virginica"})
	require.NoError(t, err)

	assert.Equal(t, []string{"setosa", "versicolor", "virginica"}, report.ClassNames)
	assert.InDelta(t, 4.0/6, report.Accuracy, 1e-12)
	assert.Equal(t, 6, report.MacroAvg.Support)
	assert.InDelta(t, 0.8, report.PerClass["versicolor"].F1Score, 1e-12)

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded, 6)
	assert.Contains(t, decoded, "macro avg")
	assert.Contains(t, decoded, "weighted avg")
	setosa := decoded["setosa"].(map[string]interface{})
	assert.Equal(t, 2.0, setosa["support"])
	assert.Contains(t, setosa, "f1-score")

	s := string(data)
	assert.Less(t, indexOf(s, `"setosa"`), indexOf(s, `"virginica"`))
	assert.Less(t, indexOf(s, `"virginica"`), indexOf(s, `"accuracy"`))
	assert.Less(t, indexOf(s, `"macro avg"`), indexOf(s, `"weighted avg"`))
}

func TestClassificationReport_UnknownLabelName(t *testing.T) {
	report, err := ClassificationReport(vec(0, 3), vec(0, 3), []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "3"}, report.ClassNames)
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

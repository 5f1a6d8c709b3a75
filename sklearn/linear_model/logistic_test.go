package linear_model

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/baseline/core/model"
	"github.com/YuminosukeSato/baseline/pkg/errors"
)

// TestLogisticRegression_FitPredict_Binary tests binary classification
func TestLogisticRegression_FitPredict_Binary(t *testing.T) {
	// Create simple linearly separable data
	// Class 0: points around (1, 1)
	// Class 1: points around (3, 3)
	X := mat.NewDense(6, 2, []float64{
		0.5, 0.5,
		1.0, 1.5,
		1.5, 1.0,
		3.0, 2.5,
		2.5, 3.0,
		3.5, 3.5,
	})

	y := mat.NewDense(6, 1, []float64{
		0, 0, 0, // Class 0
		1, 1, 1, // Class 1
	})

	// Create and train model
	lr := NewLogisticRegression(
		WithLRMaxIter(1000),
		WithLRTol(1e-4),
	)

	err := lr.Fit(X, y)
	if err != nil {
		t.Fatalf("Failed to fit model: %v", err)
	}

	// Test predictions on training data
	predictions, err := lr.Predict(X)
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}

	// Check predictions
	for i := 0; i < 6; i++ {
		pred := predictions.At(i, 0)
		actual := y.At(i, 0)
		if pred != actual {
			t.Errorf("Sample %d: expected %v, got %v", i, actual, pred)
		}
	}

	// Test on new data
	XTest := mat.NewDense(2, 2, []float64{
		1.0, 1.0, // Should be class 0
		3.0, 3.0, // Should be class 1
	})

	testPreds, err := lr.Predict(XTest)
	if err != nil {
		t.Fatalf("Failed to predict on test data: %v", err)
	}

	if testPreds.At(0, 0) != 0 {
		t.Errorf("Test point (1,1) should be class 0, got %v", testPreds.At(0, 0))
	}

	if testPreds.At(1, 0) != 1 {
		t.Errorf("Test point (3,3) should be class 1, got %v", testPreds.At(1, 0))
	}
}

// TestLogisticRegression_PredictProba tests probability predictions
func TestLogisticRegression_PredictProba(t *testing.T) {
	// Simple data
	X := mat.NewDense(4, 2, []float64{
		0, 0,
		0, 1,
		1, 0,
		1, 1,
	})

	y := mat.NewDense(4, 1, []float64{
		0, 0, 1, 1,
	})

	lr := NewLogisticRegression(
		WithLRMaxIter(500),
	)

	err := lr.Fit(X, y)
	if err != nil {
		t.Fatalf("Failed to fit model: %v", err)
	}

	probas, err := lr.PredictProba(X)
	if err != nil {
		t.Fatalf("Failed to predict probabilities: %v", err)
	}

	rows, cols := probas.Dims()
	if rows != 4 || cols != 2 {
		t.Errorf("Expected probas shape (4, 2), got (%d, %d)", rows, cols)
	}

	// Check that probabilities sum to 1
	for i := 0; i < rows; i++ {
		sum := 0.0
		for j := 0; j < cols; j++ {
			prob := probas.At(i, j)
			if prob < 0 || prob > 1 {
				t.Errorf("Invalid probability at (%d, %d): %v", i, j, prob)
			}
			sum += prob
		}
		if math.Abs(sum-1.0) > 1e-6 {
			t.Errorf("Probabilities for sample %d don't sum to 1: %v", i, sum)
		}
	}

	// Check that higher probability corresponds to predicted class
	predictions, _ := lr.Predict(X)
	for i := 0; i < rows; i++ {
		pred := int(predictions.At(i, 0))
		prob0 := probas.At(i, 0)
		prob1 := probas.At(i, 1)

		if pred == 0 && prob0 <= prob1 {
			t.Errorf("Sample %d: predicted class 0 but P(0)=%v <= P(1)=%v", i, prob0, prob1)
		}
		if pred == 1 && prob1 <= prob0 {
			t.Errorf("Sample %d: predicted class 1 but P(1)=%v <= P(0)=%v", i, prob1, prob0)
		}
	}
}

// TestLogisticRegression_Score tests accuracy calculation
func TestLogisticRegression_Score(t *testing.T) {
	// Create XOR-like data (not linearly separable, but we'll use more features)
	X := mat.NewDense(8, 3, []float64{
		0, 0, 0,
		0, 0, 1,
		0, 1, 0,
		0, 1, 1,
		1, 0, 0,
		1, 0, 1,
		1, 1, 0,
		1, 1, 1,
	})

	// Simple pattern: class 1 if sum of features > 1.5
	y := mat.NewDense(8, 1, []float64{
		0, 0, 0, 1, 0, 1, 1, 1,
	})

	lr := NewLogisticRegression(
		WithLRMaxIter(1000),
		WithLRC(10.0), // Less regularization for better fit
	)

	err := lr.Fit(X, y)
	if err != nil {
		t.Fatalf("Failed to fit model: %v", err)
	}

	score := lr.Score(X, y)
	if score < 0.75 { // Should achieve at least 75% accuracy
		t.Errorf("Score too low: %v", score)
	}

	// Perfect classification test with better separated data
	XSimple := mat.NewDense(6, 2, []float64{
		0, 0,
		0, 1,
		1, 0,
		3, 3,
		3, 4,
		4, 3,
	})
	ySimple := mat.NewDense(6, 1, []float64{
		0, 0, 0, // Class 0 (lower values)
		1, 1, 1, // Class 1 (higher values)
	})

	lr2 := NewLogisticRegression(
		WithLRMaxIter(1000),
		WithLRC(10.0), // Less regularization for better fit
	)
	lr2.Fit(XSimple, ySimple)

	scoreSimple := lr2.Score(XSimple, ySimple)
	if scoreSimple != 1.0 {
		t.Errorf("Expected perfect score for linearly separable data, got %v", scoreSimple)
	}
}

// TestLogisticRegression_Regularization tests L2 regularization
func TestLogisticRegression_Regularization(t *testing.T) {
	// Create data with many features (prone to overfitting)
	X := mat.NewDense(10, 5, []float64{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, 1, 0,
		0, 0, 0, 0, 1,
		1, 1, 0, 0, 0,
		0, 1, 1, 0, 0,
		0, 0, 1, 1, 0,
		0, 0, 0, 1, 1,
		1, 0, 0, 0, 1,
	})

	y := mat.NewDense(10, 1, []float64{
		0, 0, 0, 1, 1, 0, 0, 1, 1, 1,
	})

	// Train with strong regularization
	lrStrong := NewLogisticRegression(
		WithLRC(0.01), // Strong regularization (small C)
		WithLRMaxIter(1000),
	)
	lrStrong.Fit(X, y)

	// Train with weak regularization
	lrWeak := NewLogisticRegression(
		WithLRC(100.0), // Weak regularization (large C)
		WithLRMaxIter(1000),
	)
	lrWeak.Fit(X, y)

	// Check that strong regularization produces smaller weights
	strongNorm := 0.0
	weakNorm := 0.0

	for j := 0; j < 5; j++ {
		strongNorm += lrStrong.coef_[0][j] * lrStrong.coef_[0][j]
		weakNorm += lrWeak.coef_[0][j] * lrWeak.coef_[0][j]
	}

	strongNorm = math.Sqrt(strongNorm)
	weakNorm = math.Sqrt(weakNorm)

	if strongNorm >= weakNorm {
		t.Errorf("Strong regularization should produce smaller weights: strong=%v, weak=%v",
			strongNorm, weakNorm)
	}
}

// TestLogisticRegression_Multiclass tests multiclass classification
func TestLogisticRegression_Multiclass(t *testing.T) {
	// Create 3-class data
	X := mat.NewDense(9, 2, []float64{
		0, 0,
		0, 1,
		1, 0,
		2, 2,
		2, 3,
		3, 2,
		4, 4,
		4, 5,
		5, 4,
	})

	y := mat.NewDense(9, 1, []float64{
		0, 0, 0, // Class 0
		1, 1, 1, // Class 1
		2, 2, 2, // Class 2
	})

	lr := NewLogisticRegression(
		WithLRMaxIter(1000),
		WithLRC(10.0),
	)

	err := lr.Fit(X, y)
	if err != nil {
		t.Fatalf("Failed to fit multiclass model: %v", err)
	}

	// Check that we have 3 classes
	if lr.nClasses_ != 3 {
		t.Errorf("Expected 3 classes, got %d", lr.nClasses_)
	}

	// Check predictions
	predictions, err := lr.Predict(X)
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}

	correct := 0
	for i := 0; i < 9; i++ {
		if predictions.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}

	accuracy := float64(correct) / 9.0
	if accuracy < 0.89 { // Should achieve at least 89% accuracy (8/9)
		t.Errorf("Multiclass accuracy too low: %v", accuracy)
	}

	// Test probability predictions
	probas, err := lr.PredictProba(X)
	if err != nil {
		t.Fatalf("Failed to predict probabilities: %v", err)
	}

	rows, cols := probas.Dims()
	if cols != 3 {
		t.Errorf("Expected 3 probability columns, got %d", cols)
	}

	// Check probability constraints
	for i := 0; i < rows; i++ {
		sum := 0.0
		for j := 0; j < cols; j++ {
			prob := probas.At(i, j)
			if prob < 0 || prob > 1 {
				t.Errorf("Invalid probability at (%d, %d): %v", i, j, prob)
			}
			sum += prob
		}
		if math.Abs(sum-1.0) > 1e-6 {
			t.Errorf("Probabilities for sample %d don't sum to 1: %v", i, sum)
		}
	}
}

// TestLogisticRegression_GetSetParams tests parameter management
func TestLogisticRegression_GetSetParams(t *testing.T) {
	lr := NewLogisticRegression()

	params := lr.GetParams()
	assert.Equal(t, 1.0, params["C"])
	assert.Equal(t, 100, params["max_iter"])
	assert.Equal(t, "l2", params["penalty"])

	err := lr.SetParams(map[string]interface{}{
		"C":        2,
		"max_iter": 200.0,
		"penalty":  "none",
		"tol":      1e-5,
	})
	require.NoError(t, err)

	assert.Equal(t, 2.0, lr.C)
	assert.Equal(t, 200, lr.maxIter)
	assert.Equal(t, "none", lr.penalty)
	assert.Equal(t, 1e-5, lr.tol)
}

func TestLogisticRegression_SetParamsRejects(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value interface{}
	}{
		{"unknown key", "alpha", 0.1},
		{"fractional max_iter", "max_iter", 10.5},
		{"negative C", "C", -1.0},
		{"string C", "C", "one"},
		{"l1 penalty", "penalty", "l1"},
		{"unknown solver", "solver", "adam"},
		{"bad multi_class", "multi_class", "crammer_singer"},
		{"bad class_weight", "class_weight", "auto"},
		{"l1_ratio above one", "l1_ratio", 2.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lr := NewLogisticRegression()
			err := lr.SetParams(map[string]interface{}{"max_iter": 7, tt.key: tt.value})

			var valErr *errors.ValidationError
			require.True(t, errors.As(err, &valErr), "got %v", err)
			assert.Equal(t, tt.key, valErr.ParamName)
			assert.Equal(t, 100, lr.maxIter, "a rejected call must not change the model")
		})
	}
}

// TestLogisticRegression_NotFitted tests error when predicting without fitting
func TestLogisticRegression_NotFitted(t *testing.T) {
	lr := NewLogisticRegression()

	X := mat.NewDense(2, 2, []float64{
		1, 2,
		3, 4,
	})

	var nfErr *errors.NotFittedError

	_, err := lr.Predict(X)
	require.True(t, errors.As(err, &nfErr))
	assert.Equal(t, "Predict", nfErr.Method)

	_, err = lr.PredictProba(X)
	require.True(t, errors.As(err, &nfErr))
	assert.Equal(t, "PredictProba", nfErr.Method)
}

func TestLogisticRegression_FitValidation(t *testing.T) {
	lr := NewLogisticRegression()

	err := lr.Fit(mat.NewDense(3, 1, []float64{1, 2, 3}), mat.NewVecDense(2, []float64{0, 1}))
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))

	err = lr.Fit(mat.NewDense(2, 1, []float64{1, 2}), mat.NewVecDense(2, []float64{1, 1}))
	var valueErr *errors.ValueError
	assert.True(t, errors.As(err, &valueErr), "a single class cannot be fitted")

	require.NoError(t, lr.Fit(mat.NewDense(2, 1, []float64{1, 2}), mat.NewVecDense(2, []float64{0, 1})))
	_, err = lr.Predict(mat.NewDense(1, 3, nil))
	assert.True(t, errors.As(err, &dimErr))
}

func threeBlobs() (*mat.Dense, *mat.VecDense) {
	X := mat.NewDense(12, 2, []float64{
		-2, -2, -2.5, -1.5, -1.5, -2.5, -2, -1.5,
		0, 2, 0.5, 2.5, -0.5, 2.5, 0, 1.5,
		2, -2, 2.5, -1.5, 1.5, -2.5, 2, -1.5,
	})
	y := mat.NewVecDense(12, []float64{
		0, 0, 0, 0,
		1, 1, 1, 1,
		2, 2, 2, 2,
	})
	return X, y
}

func TestLogisticRegression_MultinomialAndOVR(t *testing.T) {
	X, y := threeBlobs()

	for _, strategy := range []string{"auto", "multinomial", "ovr"} {
		t.Run(strategy, func(t *testing.T) {
			lr := NewLogisticRegression(WithLRMultiClass(strategy), WithLRMaxIter(500))
			require.NoError(t, lr.Fit(X, y))

			assert.Equal(t, strategy != "ovr", lr.multinomial_)
			assert.Equal(t, []int{0, 1, 2}, lr.Classes())
			assert.Equal(t, 1.0, lr.Score(X, y))

			proba, err := lr.PredictProba(X)
			require.NoError(t, err)
			for i := 0; i < 12; i++ {
				assert.InDelta(t, 1.0, floatsSum(mat.Row(nil, i, proba)), 1e-9)
			}
		})
	}
}

func floatsSum(x []float64) float64 {
	sum := 0.0
	for _, v := range x {
		sum += v
	}
	return sum
}

func TestLogisticRegression_BalancedClassWeight(t *testing.T) {
	X := mat.NewDense(6, 1, []float64{0, 0.2, 0.4, 0.6, 3, 3.2})
	y := mat.NewVecDense(6, []float64{0, 0, 0, 0, 1, 1})

	plain := NewLogisticRegression(WithLRMaxIter(300))
	balanced := NewLogisticRegression(WithLRMaxIter(300), WithLRClassWeight("balanced"))
	require.NoError(t, plain.Fit(X, y))
	require.NoError(t, balanced.Fit(X, y))

	point := mat.NewDense(1, 1, []float64{1.8})
	pPlain, err := plain.PredictProba(point)
	require.NoError(t, err)
	pBalanced, err := balanced.PredictProba(point)
	require.NoError(t, err)

	assert.Greater(t, pBalanced.At(0, 1), pPlain.At(0, 1), "balanced weights favour the minority class")
}

func TestLogisticRegression_ConvergenceWarning(t *testing.T) {
	var warnings []error
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	defer errors.SetWarningHandler(func(error) {})

	X, y := threeBlobs()
	for _, solver := range []string{"lbfgs", "sag"} {
		t.Run(solver, func(t *testing.T) {
			warnings = nil
			lr := NewLogisticRegression(WithLRSolver(solver), WithLRMaxIter(2), WithLRTol(1e-12))
			require.NoError(t, lr.Fit(X, y))

			require.Len(t, warnings, 1)
			var convWarn *errors.ConvergenceWarning
			require.True(t, errors.As(warnings[0], &convWarn))
			assert.Equal(t, 2, convWarn.Iterations)
			require.Len(t, lr.NIter(), 1)
			assert.LessOrEqual(t, lr.NIter()[0], 2)
		})
	}
}

func TestLogisticRegression_QuasiNewtonSolversConverge(t *testing.T) {
	var warnings []error
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	defer errors.SetWarningHandler(func(error) {})

	X, y := threeBlobs()
	for _, solver := range []string{"lbfgs", "newton-cg", "newton-cholesky"} {
		for _, multiClass := range []string{"multinomial", "ovr"} {
			t.Run(solver+"/"+multiClass, func(t *testing.T) {
				warnings = nil
				lr := NewLogisticRegression(WithLRSolver(solver), WithLRMultiClass(multiClass), WithLRMaxIter(100), WithLRTol(1e-6))
				require.NoError(t, lr.Fit(X, y))

				assert.Empty(t, warnings)
				for _, n := range lr.NIter() {
					assert.Less(t, n, 100)
				}
				assert.Equal(t, 1.0, lr.Score(X, y))
			})
		}
	}
}

func TestLogisticRegression_SolversAgree(t *testing.T) {
	X := mat.NewDense(8, 1, []float64{0, 0.5, 1, 1.5, 1.2, 2, 2.5, 3})
	y := mat.NewVecDense(8, []float64{0, 0, 0, 1, 0, 1, 1, 1})

	lbfgs := NewLogisticRegression(WithLRSolver("lbfgs"), WithLRTol(1e-8), WithLRMaxIter(500))
	descent := NewLogisticRegression(WithLRSolver("sag"), WithLRTol(1e-8), WithLRMaxIter(200000))
	require.NoError(t, lbfgs.Fit(X, y))
	require.NoError(t, descent.Fit(X, y))

	want, err := descent.PredictProba(X)
	require.NoError(t, err)
	got, err := lbfgs.PredictProba(X)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(want, got, 1e-5), "both solvers reach the same minimizer")
}

func TestLogisticRegression_FailedRefitClearsFittedState(t *testing.T) {
	X, y := threeBlobs()
	lr := NewLogisticRegression(WithLRMaxIter(200))
	require.NoError(t, lr.Fit(X, y))

	single := mat.NewVecDense(12, nil)
	for i := 0; i < 12; i++ {
		single.SetVec(i, 5)
	}
	err := lr.Fit(X, single)
	var valueErr *errors.ValueError
	require.True(t, errors.As(err, &valueErr))

	assert.False(t, lr.IsFitted())
	assert.Equal(t, []int{0, 1, 2}, lr.Classes(), "the rejected labels are not recorded")

	_, err = lr.Predict(X)
	var nfErr *errors.NotFittedError
	assert.True(t, errors.As(err, &nfErr))

	require.NoError(t, lr.Fit(X, y), "a later valid fit recovers")
	assert.Equal(t, 1.0, lr.Score(X, y))
}

func TestLogisticRegression_ParallelPredictMatchesSequential(t *testing.T) {
	X, y := threeBlobs()
	lr := NewLogisticRegression(WithLRMaxIter(200))
	require.NoError(t, lr.Fit(X, y))

	// tile the training rows past the parallel threshold
	n := parallelThreshold + 200
	big := mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		big.SetRow(i, X.RawRowView(i%12))
	}

	pred, err := lr.Predict(big)
	require.NoError(t, err)
	small, err := lr.Predict(X)
	require.NoError(t, err)

	for i := 0; i < n; i++ {
		require.Equal(t, small.At(i%12, 0), pred.At(i, 0), "row %d", i)
	}
}

func TestLogisticRegression_GobRoundTrip(t *testing.T) {
	X, y := threeBlobs()
	lr := NewLogisticRegression(WithLRMaxIter(200), WithLRC(0.5))
	require.NoError(t, lr.Fit(X, y))

	var clf model.Classifier = lr
	var buf bytes.Buffer
	require.NoError(t, model.SaveModelToWriter(&clf, &buf))

	var decoded model.Classifier
	require.NoError(t, model.LoadModelFromReader(&decoded, &buf))

	restored, ok := decoded.(*LogisticRegression)
	require.True(t, ok)
	assert.True(t, restored.IsFitted())
	assert.Equal(t, lr.GetParams(), restored.GetParams())

	want, err := lr.PredictProba(X)
	require.NoError(t, err)
	got, err := restored.PredictProba(X)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(want, got, 1e-12))
}

func TestLogisticRegression_WarmStart(t *testing.T) {
	X, y := threeBlobs()
	lr := NewLogisticRegression(WithLRSolver("sag"), WithLRMaxIter(5))
	require.NoError(t, lr.SetParams(map[string]interface{}{"warm_start": true}))

	require.NoError(t, lr.Fit(X, y))
	first := append([]float64(nil), lr.coef_[0]...)
	require.NoError(t, lr.Fit(X, y))

	assert.NotEqual(t, first, lr.coef_[0], "the second fit continues from the first solution")
}

func TestLogisticRegression_MathHelpers(t *testing.T) {
	assert.InDelta(t, 0.5, sigmoid(0), 1e-15)

	scores := []float64{1000, 1000}
	softmax(scores)
	assert.InDelta(t, 0.5, scores[0], 1e-12)
	assert.False(t, math.IsNaN(scores[1]))
}

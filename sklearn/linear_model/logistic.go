package linear_model

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/baseline/core/model"
	"github.com/YuminosukeSato/baseline/core/parallel"
	"github.com/YuminosukeSato/baseline/pkg/errors"
)

// parallelThreshold is the row count above which scoring is split across
// CPU cores.
const parallelThreshold = 1000

func init() {
	model.Register(&LogisticRegression{})
}

// LogisticRegression implements logistic regression for classification
// Compatible with scikit-learn's LogisticRegression
//
// Binary problems use a single sigmoid. With more than two classes the model
// is a multinomial softmax unless multi_class is "ovr". Every solver
// minimizes the L2-penalized log loss (1/n)·Σ loss + ||w||²/(2·C·n), which
// has the same minimizer as scikit-learn's C·Σ loss + ||w||²/2. "lbfgs"
// uses gonum's L-BFGS, "newton-cg" and "newton-cholesky" use BFGS, and
// "liblinear", "sag" and "saga" run full-batch gradient descent.
type LogisticRegression struct {
	state *model.StateManager // State management (composition)

	// Hyperparameters
	penalty          string  // Regularization: "l2", "none"
	C                float64 // Inverse regularization strength (1/alpha)
	fitIntercept     bool    // Whether to fit intercept
	interceptScaling float64 // Intercept scaling (liblinear only, recorded)
	classWeight      string  // Class weight: "balanced", "none"
	randomState      int64   // Random seed (recorded, initialization is deterministic)
	solver           string  // Solver: "lbfgs", "liblinear", "newton-cg", "newton-cholesky", "sag", "saga"
	maxIter          int     // Maximum iterations
	multiClass       string  // Multi-class: "auto", "ovr", "multinomial"
	verbose          int     // Verbosity level
	warmStart        bool    // Reuse previous solution
	l1Ratio          float64 // L1 ratio for elastic net (recorded)
	tol              float64 // Tolerance for stopping

	// Model parameters
	coef_        [][]float64 // Coefficients (n_classes x n_features or 1 x n_features for binary)
	intercept_   []float64   // Intercept terms
	classes_     []int       // Unique class labels
	nClasses_    int         // Number of classes
	nFeatures_   int         // Number of features
	nIter_       []int       // Actual iterations per fitted problem
	multinomial_ bool        // Whether coef_ holds softmax weights
}

// LogisticRegressionOption is a functional option for LogisticRegression
type LogisticRegressionOption func(*LogisticRegression)

// NewLogisticRegression creates a new LogisticRegression classifier
func NewLogisticRegression(opts ...LogisticRegressionOption) *LogisticRegression {
	lr := &LogisticRegression{
		state:            model.NewStateManager(),
		penalty:          "l2",
		C:                1.0,
		fitIntercept:     true,
		interceptScaling: 1.0,
		classWeight:      "none",
		randomState:      -1,
		solver:           "lbfgs",
		maxIter:          100,
		multiClass:       "auto",
		verbose:          0,
		warmStart:        false,
		l1Ratio:          0.5,
		tol:              1e-4,
	}

	// Apply options
	for _, opt := range opts {
		opt(lr)
	}

	return lr
}

// Option functions

// WithLRPenalty sets the regularization type
func WithLRPenalty(penalty string) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.penalty = penalty
	}
}

// WithLRC sets the inverse regularization strength
func WithLRC(c float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.C = c
	}
}

// WithLogisticFitIntercept sets whether to fit intercept
func WithLogisticFitIntercept(fit bool) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.fitIntercept = fit
	}
}

// WithLRMultiClass sets the multi-class strategy
func WithLRMultiClass(strategy string) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.multiClass = strategy
	}
}

// WithLRClassWeight sets the class weighting ("balanced" or "none")
func WithLRClassWeight(weight string) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.classWeight = weight
	}
}

// WithLRMaxIter sets the maximum number of iterations
func WithLRMaxIter(maxIter int) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.maxIter = maxIter
	}
}

// WithLRSolver sets the solver ("lbfgs", "newton-cg", "newton-cholesky",
// "liblinear", "sag" or "saga")
func WithLRSolver(solver string) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.solver = solver
	}
}

// WithLRTol sets the tolerance for stopping criteria
func WithLRTol(tol float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.tol = tol
	}
}

// Fit trains the logistic regression model. y holds integer class labels as
// an n×1 matrix or vector.
func (lr *LogisticRegression) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()

	if nSamples == 0 || nFeatures == 0 {
		return errors.NewModelError("LogisticRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if nSamples != yRows {
		return errors.NewDimensionError("LogisticRegression.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("LogisticRegression.Fit",
			fmt.Sprintf("y must be a column vector: got shape (%d, %d)", yRows, yCols))
	}

	lr.state.Reset()

	classes := uniqueClasses(y)
	if len(classes) < 2 {
		return errors.NewValueError("LogisticRegression.Fit",
			fmt.Sprintf("needs samples of at least 2 classes, got %d", len(classes)))
	}
	previous := lr.classes_
	lr.classes_ = classes
	lr.nClasses_ = len(classes)
	lr.multinomial_ = lr.nClasses_ > 2 && lr.useMultinomial()

	reuse := lr.warmStart && lr.coef_ != nil && lr.nFeatures_ == nFeatures && equalInts(previous, lr.classes_)
	lr.nFeatures_ = nFeatures
	if !reuse {
		lr.initializeWeights(nFeatures)
	}

	Xd := mat.DenseCopyOf(X)
	codes := lr.encode(y)
	sw := lr.sampleWeights(codes)

	converged := true
	switch {
	case lr.nClasses_ == 2:
		target := make([]float64, nSamples)
		for i, c := range codes {
			if c == 1 {
				target[i] = 1
			}
		}
		ok, err := lr.fitBinary(Xd, target, sw, 0)
		if err != nil {
			return err
		}
		converged = ok
	case lr.multinomial_:
		ok, err := lr.fitMultinomial(Xd, codes, sw)
		if err != nil {
			return err
		}
		converged = ok
	default:
		ok, err := lr.fitOVR(Xd, codes, sw)
		if err != nil {
			return err
		}
		converged = ok
	}

	if !converged {
		errors.Warn(errors.NewConvergenceWarning("LogisticRegression", lr.maxIter,
			"gradient norm above tol; increase max_iter or scale the data"))
	}

	lr.state.SetDimensions(nFeatures, nSamples)
	lr.state.SetFitted()
	return nil
}

func (lr *LogisticRegression) useMultinomial() bool {
	switch lr.multiClass {
	case "multinomial":
		return true
	case "ovr":
		return false
	default:
		return lr.solver != "liblinear"
	}
}

// uniqueClasses returns the sorted distinct labels of y.
func uniqueClasses(y mat.Matrix) []int {
	rows, _ := y.Dims()
	classMap := make(map[int]bool)

	for i := 0; i < rows; i++ {
		classMap[int(y.At(i, 0))] = true
	}

	classes := make([]int, 0, len(classMap))
	for class := range classMap {
		classes = append(classes, class)
	}
	sort.Ints(classes)
	return classes
}

// encode maps every label onto its index in classes_.
func (lr *LogisticRegression) encode(y mat.Matrix) []int {
	index := make(map[int]int, lr.nClasses_)
	for i, c := range lr.classes_ {
		index[c] = i
	}
	rows, _ := y.Dims()
	codes := make([]int, rows)
	for i := range codes {
		codes[i] = index[int(y.At(i, 0))]
	}
	return codes
}

// sampleWeights returns per-sample loss weights. "balanced" weights class k
// by n / (n_classes · count_k).
func (lr *LogisticRegression) sampleWeights(codes []int) []float64 {
	sw := make([]float64, len(codes))
	if lr.classWeight != "balanced" {
		for i := range sw {
			sw[i] = 1
		}
		return sw
	}

	counts := make([]float64, lr.nClasses_)
	for _, c := range codes {
		counts[c]++
	}
	n := float64(len(codes))
	for i, c := range codes {
		sw[i] = n / (float64(lr.nClasses_) * counts[c])
	}
	return sw
}

// initializeWeights allocates zeroed model weights
func (lr *LogisticRegression) initializeWeights(nFeatures int) {
	rows := lr.nClasses_
	if lr.nClasses_ == 2 {
		rows = 1
	}
	lr.coef_ = make([][]float64, rows)
	for i := range lr.coef_ {
		lr.coef_[i] = make([]float64, nFeatures)
	}
	lr.intercept_ = make([]float64, rows)

	if lr.multinomial_ {
		lr.nIter_ = make([]int, 1)
	} else {
		lr.nIter_ = make([]int, rows)
	}
}

// lambda is the L2 coefficient of the per-sample averaged objective.
func (lr *LogisticRegression) lambda(nSamples int) float64 {
	if lr.penalty != "l2" {
		return 0
	}
	return 1.0 / (lr.C * float64(nSamples))
}

// stepSize returns 1/L for an upper bound L on the Lipschitz constant of the
// gradient. curvature bounds the second derivative of the link: 1/4 for the
// sigmoid, 1/2 for the softmax.
func (lr *LogisticRegression) stepSize(X *mat.Dense, sw []float64, curvature float64) float64 {
	n, _ := X.Dims()
	sum := 0.0
	for i := 0; i < n; i++ {
		xi := X.RawRowView(i)
		sq := floats.Dot(xi, xi)
		if lr.fitIntercept {
			sq++
		}
		sum += sw[i] * sq
	}
	L := curvature*sum/float64(n) + lr.lambda(n)
	if L <= 0 {
		return 1
	}
	return 1 / L
}

// fitBinary fits one sigmoid problem into coef_[row]. target holds 0/1. It
// reports whether the tolerance was met.
func (lr *LogisticRegression) fitBinary(X *mat.Dense, target, sw []float64, row int) (bool, error) {
	nSamples, nFeatures := X.Dims()
	if method := quasiNewton(lr.solver); method != nil {
		loss := &logLoss{X: X, sw: sw, lambda: lr.lambda(nSamples), fitIntercept: lr.fitIntercept, rows: 1, target: target}
		iters, ok, err := lr.minimize(method, loss, lr.coef_[row:row+1], lr.intercept_[row:row+1])
		lr.nIter_[row] = iters
		return ok, err
	}

	// gradient descent with step 1/L
	weights := lr.coef_[row]
	intercept := &lr.intercept_[row]

	lambda := lr.lambda(nSamples)
	step := lr.stepSize(X, sw, 0.25)
	gradWeights := make([]float64, nFeatures)

	for iter := 0; iter < lr.maxIter; iter++ {
		for j := range gradWeights {
			gradWeights[j] = 0
		}
		gradIntercept := 0.0

		for i := 0; i < nSamples; i++ {
			xi := X.RawRowView(i)
			residual := sw[i] * (sigmoid(floats.Dot(xi, weights)+*intercept) - target[i])
			gradIntercept += residual
			floats.AddScaled(gradWeights, residual, xi)
		}

		floats.Scale(1/float64(nSamples), gradWeights)
		gradIntercept /= float64(nSamples)
		if lambda > 0 {
			floats.AddScaled(gradWeights, lambda, weights)
		}

		if err := errors.CheckNumericalStability("LogisticRegression.fitBinary", gradWeights, iter); err != nil {
			return false, err
		}

		lr.nIter_[row] = iter + 1

		maxGrad := floats.Norm(gradWeights, math.Inf(1))
		if lr.fitIntercept {
			maxGrad = math.Max(maxGrad, math.Abs(gradIntercept))
		}
		if maxGrad < lr.tol {
			return true, nil
		}

		floats.AddScaled(weights, -step, gradWeights)
		if lr.fitIntercept {
			*intercept -= step * gradIntercept
		}
	}

	return false, nil
}

// fitOVR fits one-vs-rest multiclass classification
func (lr *LogisticRegression) fitOVR(X *mat.Dense, codes []int, sw []float64) (bool, error) {
	converged := true
	target := make([]float64, len(codes))

	for classIdx := range lr.classes_ {
		for i, c := range codes {
			target[i] = 0
			if c == classIdx {
				target[i] = 1
			}
		}

		ok, err := lr.fitBinary(X, target, sw, classIdx)
		if err != nil {
			return false, errors.Wrapf(err, "failed to fit class %d", lr.classes_[classIdx])
		}
		converged = converged && ok
	}

	return converged, nil
}

// fitMultinomial fits all classes jointly with a softmax link.
func (lr *LogisticRegression) fitMultinomial(X *mat.Dense, codes []int, sw []float64) (bool, error) {
	nSamples, nFeatures := X.Dims()
	nClasses := lr.nClasses_

	if method := quasiNewton(lr.solver); method != nil {
		loss := &logLoss{X: X, sw: sw, lambda: lr.lambda(nSamples), fitIntercept: lr.fitIntercept, rows: nClasses, codes: codes}
		iters, ok, err := lr.minimize(method, loss, lr.coef_, lr.intercept_)
		lr.nIter_[0] = iters
		return ok, err
	}

	lambda := lr.lambda(nSamples)
	step := lr.stepSize(X, sw, 0.5)

	gradWeights := make([][]float64, nClasses)
	for k := range gradWeights {
		gradWeights[k] = make([]float64, nFeatures)
	}
	gradIntercept := make([]float64, nClasses)
	scores := make([]float64, nClasses)

	for iter := 0; iter < lr.maxIter; iter++ {
		for k := range gradWeights {
			for j := range gradWeights[k] {
				gradWeights[k][j] = 0
			}
			gradIntercept[k] = 0
		}

		for i := 0; i < nSamples; i++ {
			xi := X.RawRowView(i)
			lr.decision(xi, scores)
			softmax(scores)
			for k := 0; k < nClasses; k++ {
				indicator := 0.0
				if codes[i] == k {
					indicator = 1
				}
				residual := sw[i] * (scores[k] - indicator)
				gradIntercept[k] += residual
				floats.AddScaled(gradWeights[k], residual, xi)
			}
		}

		maxGrad := 0.0
		for k := 0; k < nClasses; k++ {
			floats.Scale(1/float64(nSamples), gradWeights[k])
			gradIntercept[k] /= float64(nSamples)
			if lambda > 0 {
				floats.AddScaled(gradWeights[k], lambda, lr.coef_[k])
			}
			if err := errors.CheckNumericalStability("LogisticRegression.fitMultinomial", gradWeights[k], iter); err != nil {
				return false, err
			}
			maxGrad = math.Max(maxGrad, floats.Norm(gradWeights[k], math.Inf(1)))
			if lr.fitIntercept {
				maxGrad = math.Max(maxGrad, math.Abs(gradIntercept[k]))
			}
		}

		lr.nIter_[0] = iter + 1
		if maxGrad < lr.tol {
			return true, nil
		}

		for k := 0; k < nClasses; k++ {
			floats.AddScaled(lr.coef_[k], -step, gradWeights[k])
			if lr.fitIntercept {
				lr.intercept_[k] -= step * gradIntercept[k]
			}
		}
	}

	return false, nil
}

// decision writes the linear score of every coefficient row into out.
func (lr *LogisticRegression) decision(xi, out []float64) {
	for k, w := range lr.coef_ {
		out[k] = floats.Dot(xi, w) + lr.intercept_[k]
	}
}

// probaRow writes the class probabilities of one sample into out, using
// scores as scratch space.
func (lr *LogisticRegression) probaRow(xi, scores, out []float64) {
	lr.decision(xi, scores)
	switch {
	case lr.nClasses_ == 2:
		p := sigmoid(scores[0])
		out[0], out[1] = 1-p, p
	case lr.multinomial_:
		softmax(scores)
		copy(out, scores)
	default:
		// one-vs-rest: normalized sigmoids
		for k, s := range scores {
			out[k] = sigmoid(s)
		}
		floats.Scale(1/floats.Sum(out), out)
	}
}

// Predict returns the most probable class label of every row (n_samples x 1).
func (lr *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := lr.state.RequireFitted("LogisticRegression", "Predict"); err != nil {
		return nil, err
	}

	probas, err := lr.PredictProba(X)
	if err != nil {
		return nil, err
	}

	proba := probas.(*mat.Dense)
	nSamples, _ := proba.Dims()
	predictions := mat.NewVecDense(nSamples, nil)
	for i := 0; i < nSamples; i++ {
		predictions.SetVec(i, float64(lr.classes_[floats.MaxIdx(proba.RawRowView(i))]))
	}

	return predictions, nil
}

// PredictProba returns probability estimates for each class, columns
// ordered as Classes().
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := lr.state.RequireFitted("LogisticRegression", "PredictProba"); err != nil {
		return nil, err
	}

	nSamples, nFeatures := X.Dims()
	if err := lr.state.RequireFeatures("LogisticRegression.PredictProba", nFeatures); err != nil {
		return nil, err
	}

	Xd := mat.DenseCopyOf(X)
	probas := mat.NewDense(nSamples, lr.nClasses_, nil)

	// rows are independent, each worker owns its rows of probas
	parallel.ParallelizeWithThreshold(nSamples, parallelThreshold, func(start, end int) {
		scores := make([]float64, len(lr.coef_))
		for i := start; i < end; i++ {
			lr.probaRow(Xd.RawRowView(i), scores, probas.RawRowView(i))
		}
	})

	return probas, nil
}

// Score returns the mean accuracy on the given test data and labels
func (lr *LogisticRegression) Score(X, y mat.Matrix) float64 {
	predictions, err := lr.Predict(X)
	if err != nil {
		return 0.0
	}

	nSamples, _ := X.Dims()
	correct := 0

	for i := 0; i < nSamples; i++ {
		if predictions.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}

	return float64(correct) / float64(nSamples)
}

// Classes returns the sorted class labels seen during Fit.
func (lr *LogisticRegression) Classes() []int {
	out := make([]int, len(lr.classes_))
	copy(out, lr.classes_)
	return out
}

// NIter returns the iterations used per fitted problem.
func (lr *LogisticRegression) NIter() []int {
	out := make([]int, len(lr.nIter_))
	copy(out, lr.nIter_)
	return out
}

// IsFitted reports whether Fit has completed.
func (lr *LogisticRegression) IsFitted() bool {
	return lr.state.IsFitted()
}

// GetParams returns the model hyperparameters
func (lr *LogisticRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"penalty":           lr.penalty,
		"C":                 lr.C,
		"fit_intercept":     lr.fitIntercept,
		"intercept_scaling": lr.interceptScaling,
		"class_weight":      lr.classWeight,
		"random_state":      lr.randomState,
		"solver":            lr.solver,
		"max_iter":          lr.maxIter,
		"multi_class":       lr.multiClass,
		"verbose":           lr.verbose,
		"warm_start":        lr.warmStart,
		"l1_ratio":          lr.l1Ratio,
		"tol":               lr.tol,
	}
}

// SetParams sets the model hyperparameters. Values decoded from YAML or JSON
// are accepted: integers where floats are expected and whole floats where
// integers are expected. Nothing is changed when any parameter is rejected.
func (lr *LogisticRegression) SetParams(params map[string]interface{}) error {
	next := *lr

	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var err error
	for _, key := range keys {
		value := params[key]
		switch key {
		case "penalty":
			next.penalty, err = asPenalty(value)
		case "C":
			next.C, err = asFloat(key, value)
			if err == nil && next.C <= 0 {
				err = errors.NewValidationError(key, "must be positive", value)
			}
		case "fit_intercept":
			next.fitIntercept, err = asBool(key, value)
		case "intercept_scaling":
			next.interceptScaling, err = asFloat(key, value)
		case "class_weight":
			next.classWeight, err = asClassWeight(value)
		case "random_state":
			if value == nil {
				next.randomState = -1
				continue
			}
			var seed int
			seed, err = asInt(key, value)
			next.randomState = int64(seed)
		case "solver":
			next.solver, err = asChoice(key, value, "lbfgs", "liblinear", "newton-cg", "newton-cholesky", "sag", "saga")
		case "max_iter":
			next.maxIter, err = asInt(key, value)
			if err == nil && next.maxIter <= 0 {
				err = errors.NewValidationError(key, "must be positive", value)
			}
		case "multi_class":
			next.multiClass, err = asChoice(key, value, "auto", "ovr", "multinomial")
		case "verbose":
			next.verbose, err = asInt(key, value)
		case "warm_start":
			next.warmStart, err = asBool(key, value)
		case "l1_ratio":
			if value == nil {
				continue
			}
			next.l1Ratio, err = asFloat(key, value)
			if err == nil && (next.l1Ratio < 0 || next.l1Ratio > 1) {
				err = errors.NewValidationError(key, "must be in [0, 1]", value)
			}
		case "tol":
			next.tol, err = asFloat(key, value)
			if err == nil && next.tol < 0 {
				err = errors.NewValidationError(key, "must not be negative", value)
			}
		default:
			err = errors.NewValidationError(key, "unknown parameter", value)
		}
		if err != nil {
			return err
		}
	}

	*lr = next
	return nil
}

// logisticState is the gob representation of a LogisticRegression.
type logisticState struct {
	Penalty          string
	C                float64
	FitIntercept     bool
	InterceptScaling float64
	ClassWeight      string
	RandomState      int64
	Solver           string
	MaxIter          int
	MultiClass       string
	Verbose          int
	WarmStart        bool
	L1Ratio          float64
	Tol              float64

	Coef        [][]float64
	Intercept   []float64
	Classes     []int
	NFeatures   int
	NIter       []int
	Multinomial bool
	Fitted      bool
}

// GobEncode implements gob.GobEncoder.
func (lr *LogisticRegression) GobEncode() ([]byte, error) {
	st := logisticState{
		Penalty:          lr.penalty,
		C:                lr.C,
		FitIntercept:     lr.fitIntercept,
		InterceptScaling: lr.interceptScaling,
		ClassWeight:      lr.classWeight,
		RandomState:      lr.randomState,
		Solver:           lr.solver,
		MaxIter:          lr.maxIter,
		MultiClass:       lr.multiClass,
		Verbose:          lr.verbose,
		WarmStart:        lr.warmStart,
		L1Ratio:          lr.l1Ratio,
		Tol:              lr.tol,
		Coef:             lr.coef_,
		Intercept:        lr.intercept_,
		Classes:          lr.classes_,
		NFeatures:        lr.nFeatures_,
		NIter:            lr.nIter_,
		Multinomial:      lr.multinomial_,
		Fitted:           lr.state != nil && lr.state.IsFitted(),
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(st); err != nil {
		return nil, errors.Wrap(err, "encode LogisticRegression")
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (lr *LogisticRegression) GobDecode(data []byte) error {
	var st logisticState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&st); err != nil {
		return errors.Wrap(err, "decode LogisticRegression")
	}

	*lr = LogisticRegression{
		state:            model.NewStateManager(),
		penalty:          st.Penalty,
		C:                st.C,
		fitIntercept:     st.FitIntercept,
		interceptScaling: st.InterceptScaling,
		classWeight:      st.ClassWeight,
		randomState:      st.RandomState,
		solver:           st.Solver,
		maxIter:          st.MaxIter,
		multiClass:       st.MultiClass,
		verbose:          st.Verbose,
		warmStart:        st.WarmStart,
		l1Ratio:          st.L1Ratio,
		tol:              st.Tol,
		coef_:            st.Coef,
		intercept_:       st.Intercept,
		classes_:         st.Classes,
		nClasses_:        len(st.Classes),
		nFeatures_:       st.NFeatures,
		nIter_:           st.NIter,
		multinomial_:     st.Multinomial,
	}
	if st.Fitted {
		lr.state.SetDimensions(st.NFeatures, 0)
		lr.state.SetFitted()
	}
	return nil
}

// sigmoid computes the sigmoid function
func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

// softmax replaces scores by their softmax in place.
func softmax(scores []float64) {
	lse := errors.LogSumExp(scores)
	for k, s := range scores {
		scores[k] = math.Exp(s - lse)
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

package linear_model

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/YuminosukeSato/baseline/pkg/errors"
)

// quasiNewton returns the optimize method behind solver, or nil for the
// solvers that run plain gradient descent (liblinear, sag, saga).
func quasiNewton(solver string) optimize.Method {
	switch solver {
	case "lbfgs":
		return &optimize.LBFGS{}
	case "newton-cg", "newton-cholesky":
		return &optimize.BFGS{}
	default:
		return nil
	}
}

// logLoss is the penalized, sample-weighted log loss
// (1/n)·Σ sw_i·loss_i + (λ/2)·||w||² over rows packed coefficient rows.
// Each packed row holds the feature weights followed by the intercept when
// fitIntercept is set. One row is a sigmoid problem on target, more rows a
// softmax problem on codes.
type logLoss struct {
	X            *mat.Dense
	sw           []float64
	lambda       float64
	fitIntercept bool
	rows         int
	target       []float64
	codes        []int
}

func (o *logLoss) stride() int {
	_, p := o.X.Dims()
	if o.fitIntercept {
		return p + 1
	}
	return p
}

// eval returns the loss at x and, when grad is non-nil, writes its gradient.
func (o *logLoss) eval(x, grad []float64) float64 {
	n, p := o.X.Dims()
	stride := o.stride()
	if grad != nil {
		for i := range grad {
			grad[i] = 0
		}
	}

	loss := 0.0
	scores := make([]float64, o.rows)
	for i := 0; i < n; i++ {
		xi := o.X.RawRowView(i)
		for k := range scores {
			scores[k] = floats.Dot(xi, x[k*stride:k*stride+p])
			if o.fitIntercept {
				scores[k] += x[k*stride+p]
			}
		}

		if o.rows == 1 {
			z := scores[0]
			loss += o.sw[i] * (logOnePlusExp(z) - o.target[i]*z)
			if grad != nil {
				r := o.sw[i] * (sigmoid(z) - o.target[i])
				floats.AddScaled(grad[:p], r, xi)
				if o.fitIntercept {
					grad[p] += r
				}
			}
			continue
		}

		lse := errors.LogSumExp(scores)
		loss += o.sw[i] * (lse - scores[o.codes[i]])
		if grad != nil {
			for k := range scores {
				r := math.Exp(scores[k] - lse)
				if o.codes[i] == k {
					r--
				}
				r *= o.sw[i]
				floats.AddScaled(grad[k*stride:k*stride+p], r, xi)
				if o.fitIntercept {
					grad[k*stride+p] += r
				}
			}
		}
	}

	inv := 1 / float64(n)
	loss *= inv
	if grad != nil {
		floats.Scale(inv, grad)
	}
	if o.lambda > 0 {
		for k := 0; k < o.rows; k++ {
			w := x[k*stride : k*stride+p]
			loss += 0.5 * o.lambda * floats.Dot(w, w)
			if grad != nil {
				floats.AddScaled(grad[k*stride:k*stride+p], o.lambda, w)
			}
		}
	}
	return loss
}

// log(1 + e^z) without overflow.
func logOnePlusExp(z float64) float64 {
	if z > 0 {
		return z + math.Log1p(math.Exp(-z))
	}
	return math.Log1p(math.Exp(z))
}

// minimize solves o with method, starting from coef and intercept, and
// writes the solution back into them. It reports the major iterations used
// and whether the largest gradient component ended below tol.
func (lr *LogisticRegression) minimize(method optimize.Method, o *logLoss, coef [][]float64, intercept []float64) (int, bool, error) {
	_, p := o.X.Dims()
	stride := o.stride()

	x0 := make([]float64, o.rows*stride)
	for k := 0; k < o.rows; k++ {
		copy(x0[k*stride:k*stride+p], coef[k])
		if o.fitIntercept {
			x0[k*stride+p] = intercept[k]
		}
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 { return o.eval(x, nil) },
		Grad: func(grad, x []float64) { o.eval(x, grad) },
	}
	settings := &optimize.Settings{
		GradientThreshold: lr.tol,
		MajorIterations:   lr.maxIter,
		Converger:         &optimize.FunctionConverge{Absolute: 1e-12, Iterations: lr.maxIter},
	}

	// A line search that stalls close to the optimum ends with an error but
	// still reports the best location, which is judged by its gradient below.
	result, err := optimize.Minimize(problem, x0, settings, method)
	if result == nil {
		return 0, false, errors.NewModelError("LogisticRegression.Fit", lr.solver, err)
	}

	grad := make([]float64, len(result.X))
	o.eval(result.X, grad)
	if err := errors.CheckNumericalStability("LogisticRegression."+lr.solver, grad, result.Stats.MajorIterations); err != nil {
		return result.Stats.MajorIterations, false, err
	}

	for k := 0; k < o.rows; k++ {
		copy(coef[k], result.X[k*stride:k*stride+p])
		if o.fitIntercept {
			intercept[k] = result.X[k*stride+p]
		}
	}
	return result.Stats.MajorIterations, floats.Norm(grad, math.Inf(1)) < lr.tol, nil
}

// Package experiment runs the training and evaluation recipes end to end:
// configuration in, artifacts out.
//
// Both orchestrators receive an already parsed *config.Config and a Logger
// through options. They never read the configuration file themselves and
// never install global loggers.
package experiment

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/baseline/pkg/errors"
	"github.com/YuminosukeSato/baseline/pkg/log"
)

// Stage is a step of a run. Stages advance linearly and are never retried.
type Stage string

// Run stages in order. Evaluation skips Split and Fitted.
const (
	StageInit       Stage = "Init"
	StageDataLoaded Stage = "DataLoaded"
	StageSplit      Stage = "Split"
	StageFitted     Stage = "Fitted"
	StageEvaluated  Stage = "Evaluated"
	StagePersisted  Stage = "Persisted"
	StageDone       Stage = "Done"
)

// Option configures a run.
type Option func(*options)

type options struct {
	logger log.Logger
	now    func() time.Time
	runID  string
}

// WithLogger routes run events to logger. Without it events are dropped.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithClock replaces time.Now for bundle timestamps and durations.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithRunID fixes the run id instead of generating a random UUID.
func WithRunID(id string) Option {
	return func(o *options) {
		o.runID = id
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		logger: log.NewZerologLogger(zerolog.Nop()),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.runID == "" {
		o.runID = uuid.NewString()
	}
	return o
}

// tracker records the current stage and logs each transition.
type tracker struct {
	stage  Stage
	logger log.Logger
}

func (t *tracker) advance(stage Stage) {
	t.stage = stage
	t.logger.Debug("Stage reached", log.StageKey, string(stage))
}

// fail logs err with the stage it happened in and wraps it with that stage.
func (t *tracker) fail(err error) error {
	t.logger.Error("Run failed", err,
		log.StageKey, string(t.stage),
		log.ErrorTypeKey, errorType(err),
	)
	return errors.Wrapf(err, "failed at stage %s", t.stage)
}

func errorType(err error) string {
	var (
		cfgErr      *errors.ConfigurationError
		dataErr     *errors.DataError
		notFound    *errors.NotFoundError
		artifactErr *errors.ArtifactNotFoundError
		ioErr       *errors.IOError
		dimErr      *errors.DimensionError
	)
	switch {
	case errors.As(err, &artifactErr):
		return "ArtifactNotFoundError"
	case errors.As(err, &cfgErr):
		return "ConfigurationError"
	case errors.As(err, &dataErr):
		return "DataError"
	case errors.As(err, &notFound):
		return "NotFoundError"
	case errors.As(err, &ioErr):
		return "IOError"
	case errors.As(err, &dimErr):
		return "DimensionError"
	default:
		return "Error"
	}
}

// labelVector returns the first column of a prediction as a vector.
func labelVector(m mat.Matrix) *mat.VecDense {
	if v, ok := m.(*mat.VecDense); ok {
		return v
	}
	r, _ := m.Dims()
	v := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		v.SetVec(i, m.At(i, 0))
	}
	return v
}

func classIndices(n int) []int {
	labels := make([]int, n)
	for i := range labels {
		labels[i] = i
	}
	return labels
}

package experiment

import (
	"github.com/YuminosukeSato/baseline/artifacts"
	"github.com/YuminosukeSato/baseline/config"
	"github.com/YuminosukeSato/baseline/dataset"
	"github.com/YuminosukeSato/baseline/metrics"
	"github.com/YuminosukeSato/baseline/pkg/log"
)

// EvalResult summarizes an evaluation run.
type EvalResult struct {
	RunID      string
	Stage      Stage
	Report     *metrics.Report
	ReportPath string
	Samples    int
}

// Evaluate loads the bundle persisted by Train, predicts the configured
// dataset in full and writes report.json next to the bundle.
//
// Labels are matched to the bundle by class name. A dataset with different
// feature names is evaluated anyway and logged as a warning; a different
// number of features fails with a DimensionError. Without a prior training
// run an ArtifactNotFoundError is returned and no report is written.
func Evaluate(cfg *config.Config, opts ...Option) (*EvalResult, error) {
	o := newOptions(opts)
	logger := o.logger.With(log.RunIDKey, o.runID, log.PhaseKey, log.PhaseEvaluation)
	t := &tracker{stage: StageInit, logger: logger}

	if err := cfg.Validate(); err != nil {
		return nil, t.fail(err)
	}

	store := artifacts.NewStore(cfg.ArtifactsDir)
	bundle, err := store.LoadBundle()
	if err != nil {
		return nil, t.fail(err)
	}
	logger = logger.With(log.ModelNameKey, bundle.ModelName)
	t.logger = logger
	logger.Info("Model bundle loaded",
		log.ArtifactPathKey, store.Path(artifacts.ModelFile),
		"bundle.run_id", bundle.RunID,
		"bundle.created_at", bundle.CreatedAt,
	)

	ds, err := dataset.Resolve(cfg.Data)
	if err != nil {
		return nil, t.fail(err)
	}
	ds = ds.Relabel(bundle.ClassNames)
	t.advance(StageDataLoaded)
	logger.Info("Dataset loaded",
		log.DatasetKindKey, cfg.Data.Kind,
		log.SamplesKey, ds.NSamples(),
		log.FeaturesKey, ds.NFeatures(),
		log.ClassesKey, ds.NClasses(),
	)
	if !sameNames(ds.FeatureNames, bundle.FeatureNames) {
		logger.Warn("Feature names differ from training",
			"features.expected", bundle.FeatureNames,
			"features.got", ds.FeatureNames,
		)
	}
	if len(ds.ClassNames) > len(bundle.ClassNames) {
		logger.Warn("Dataset has classes unseen in training",
			"classes.unseen", ds.ClassNames[len(bundle.ClassNames):],
		)
	}

	pred, err := bundle.Pipeline.Predict(ds.X)
	if err != nil {
		return nil, t.fail(err)
	}
	report, err := metrics.ClassificationReport(ds.Y, labelVector(pred), ds.ClassNames)
	if err != nil {
		return nil, t.fail(err)
	}
	t.advance(StageEvaluated)
	logger.Info("Evaluation metrics",
		log.OperationKey, log.OperationScore,
		log.AccuracyKey, report.Accuracy,
		log.F1MacroKey, report.MacroAvg.F1Score,
	)

	staging := store.Stage()
	defer staging.Discard()
	if err := staging.WriteJSON(artifacts.ReportFile, report); err != nil {
		return nil, t.fail(err)
	}
	paths, err := staging.Commit()
	if err != nil {
		return nil, t.fail(err)
	}
	t.advance(StagePersisted)
	logger.Info("Artifact written", log.ArtifactPathKey, paths[0])

	t.advance(StageDone)
	logger.Info("Evaluation completed", log.StageKey, string(StageDone))

	return &EvalResult{
		RunID:      o.runID,
		Stage:      StageDone,
		Report:     report,
		ReportPath: paths[0],
		Samples:    ds.NSamples(),
	}, nil
}

func sameNames(a, b []string) bool {
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

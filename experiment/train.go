package experiment

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/baseline/artifacts"
	"github.com/YuminosukeSato/baseline/config"
	"github.com/YuminosukeSato/baseline/dataset"
	"github.com/YuminosukeSato/baseline/metrics"
	"github.com/YuminosukeSato/baseline/pkg/log"
	"github.com/YuminosukeSato/baseline/preprocessing"
	"github.com/YuminosukeSato/baseline/sklearn/linear_model"
	"github.com/YuminosukeSato/baseline/sklearn/model_selection"
	"github.com/YuminosukeSato/baseline/sklearn/pipeline"
)

// TrainResult summarizes a training run.
type TrainResult struct {
	RunID           string
	Stage           Stage
	Scores          metrics.Scores
	ConfusionMatrix *mat.Dense
	ClassNames      []string
	TrainSamples    int
	TestSamples     int
	FitDuration     time.Duration
	// Artifacts lists the committed files.
	Artifacts []string
}

// Train fits the configured pipeline on a stratified train split, scores it
// on the test split and persists the bundle, metrics.json and the confusion
// matrix plot into cfg.ArtifactsDir.
//
// The model and preprocessing are built before any I/O, so an unknown model
// name fails without touching the filesystem. Artifacts are written with a
// staged commit: on failure nothing from this run is left behind.
func Train(cfg *config.Config, opts ...Option) (*TrainResult, error) {
	o := newOptions(opts)
	logger := o.logger.With(log.RunIDKey, o.runID, log.PhaseKey, log.PhaseTraining)
	t := &tracker{stage: StageInit, logger: logger}

	if err := cfg.Validate(); err != nil {
		return nil, t.fail(err)
	}
	clf, err := linear_model.BuildModel(cfg.Model)
	if err != nil {
		return nil, t.fail(err)
	}
	prep := preprocessing.BuildNumeric()

	logger = logger.With(log.ModelNameKey, cfg.Model.Name)
	t.logger = logger
	logger.Info("Configuration loaded",
		log.DatasetKindKey, cfg.Data.Kind,
		log.TestSizeKey, cfg.Split.TestSize,
		log.RandomSeedKey, cfg.Split.RandomState,
		log.HyperParamsKey, clf.GetParams(),
		log.ArtifactsDirKey, cfg.ArtifactsDir,
	)

	store := artifacts.NewStore(cfg.ArtifactsDir)
	if err := store.Ensure(); err != nil {
		return nil, t.fail(err)
	}

	ds, err := dataset.Resolve(cfg.Data)
	if err != nil {
		return nil, t.fail(err)
	}
	t.advance(StageDataLoaded)
	logger.Info("Dataset loaded",
		log.SamplesKey, ds.NSamples(),
		log.FeaturesKey, ds.NFeatures(),
		log.ClassesKey, ds.NClasses(),
	)

	split, err := model_selection.TrainTestSplit(ds.X, ds.Y, cfg.Split.TestSize, cfg.Split.RandomState)
	if err != nil {
		return nil, t.fail(err)
	}
	t.advance(StageSplit)
	logger.Info("Dataset split",
		log.TrainSamplesKey, split.YTrain.Len(),
		log.TestSamplesKey, split.YTest.Len(),
	)

	p := pipeline.Assemble(prep, clf)
	logger.Info("Fit started", log.OperationKey, log.OperationFit)
	start := o.now()
	if err := p.Fit(split.XTrain, split.YTrain); err != nil {
		return nil, t.fail(err)
	}
	fitDuration := o.now().Sub(start)
	t.advance(StageFitted)
	logger.Info("Fit completed",
		log.OperationKey, log.OperationFit,
		log.DurationMsKey, fitDuration.Milliseconds(),
	)

	pred, err := p.Predict(split.XTest)
	if err != nil {
		return nil, t.fail(err)
	}
	yPred := labelVector(pred)
	scores, err := metrics.Score(split.YTest, yPred)
	if err != nil {
		return nil, t.fail(err)
	}
	cm, err := metrics.ConfusionMatrix(split.YTest, yPred, classIndices(ds.NClasses()))
	if err != nil {
		return nil, t.fail(err)
	}
	t.advance(StageEvaluated)
	logger.Info("Test metrics",
		log.OperationKey, log.OperationScore,
		log.AccuracyKey, scores.Accuracy,
		log.F1MacroKey, scores.F1Macro,
	)

	bundle := &artifacts.Bundle{
		Pipeline:     p,
		FeatureNames: ds.FeatureNames,
		ClassNames:   ds.ClassNames,
		ModelName:    cfg.Model.Name,
		Hyperparams:  artifacts.FormatParams(clf.GetParams()),
		CreatedAt:    o.now().UTC(),
		RunID:        o.runID,
		Metrics:      scores,
	}

	staging := store.Stage()
	defer staging.Discard()
	if err := staging.WriteBundle(bundle); err != nil {
		return nil, t.fail(err)
	}
	if err := staging.WriteJSON(artifacts.MetricsFile, scores); err != nil {
		return nil, t.fail(err)
	}
	if err := staging.WriteConfusionMatrix(cm, ds.ClassNames); err != nil {
		return nil, t.fail(err)
	}
	paths, err := staging.Commit()
	if err != nil {
		return nil, t.fail(err)
	}
	t.advance(StagePersisted)
	for _, path := range paths {
		logger.Info("Artifact written", log.ArtifactPathKey, path)
	}

	t.advance(StageDone)
	logger.Info("Training completed", log.StageKey, string(StageDone))

	return &TrainResult{
		RunID:           o.runID,
		Stage:           StageDone,
		Scores:          scores,
		ConfusionMatrix: cm,
		ClassNames:      ds.ClassNames,
		TrainSamples:    split.YTrain.Len(),
		TestSamples:     split.YTest.Len(),
		FitDuration:     fitDuration,
		Artifacts:       paths,
	}, nil
}

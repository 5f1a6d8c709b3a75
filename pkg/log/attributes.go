// Package log defines standard attribute keys for pipeline events.
//
// Keys follow a hierarchical naming convention ("model.name",
// "data.samples") so the JSON log file can be filtered per concern.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the estimator, e.g. "logistic_regression".
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "transform", "score"
	OperationKey = "ml.operation"

	// ComponentKey identifies the package or entry point emitting the event.
	ComponentKey = "ml.component"

	// PhaseKey indicates the lifecycle phase, e.g. "training", "inference".
	PhaseKey = "ml.phase"

	// StageKey records the orchestrator stage reached (Init, DataLoaded, ...).
	StageKey = "run.stage"

	// RunIDKey identifies one execution of an entry point.
	RunIDKey = "run.id"
)

// Data Shape and Characteristics
const (
	// DatasetKindKey records the dataset source kind ("iris", "csv").
	DatasetKindKey = "data.kind"

	// DatasetPathKey records the file a csv dataset was read from.
	DatasetPathKey = "data.path"

	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"

	// ClassesKey indicates the number of label classes.
	ClassesKey = "data.classes"

	// TrainSamplesKey and TestSamplesKey record split sizes.
	TrainSamplesKey = "split.train_samples"
	TestSamplesKey  = "split.test_samples"

	// TestSizeKey records the configured test fraction.
	TestSizeKey = "split.test_size"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey records classification accuracy in [0, 1].
	AccuracyKey = "metrics.accuracy"

	// F1MacroKey records the macro-averaged F1 score in [0, 1].
	F1MacroKey = "metrics.f1_macro"

	// IterationKey records solver iterations.
	IterationKey = "training.iteration"
)

// Error and Warning Context
const (
	// ErrorTypeKey categorizes the error, e.g. "ConfigurationError".
	ErrorTypeKey = "error.type"

	// ErrorDetailKey holds the structured fields of a typed error or warning.
	ErrorDetailKey = "error.detail"

	// WarningKey holds the structured fields of a library warning.
	WarningKey = "warning"
)

// Hyperparameters, Configuration and Artifacts
const (
	// HyperParamsKey contains model hyperparameters as a structured object.
	HyperParamsKey = "model.hyperparams"

	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"

	// ConfigPathKey records the configuration file read by an entry point.
	ConfigPathKey = "config.path"

	// ArtifactsDirKey and ArtifactPathKey locate persisted outputs.
	ArtifactsDirKey = "artifacts.dir"
	ArtifactPathKey = "artifacts.path"

	// LogFileKey records the file the sink writes to.
	LogFileKey = "log.file"
)

// Standard attribute values.
const (
	OperationFit       = "fit"
	OperationPredict   = "predict"
	OperationTransform = "transform"
	OperationScore     = "score"

	PhaseTraining      = "training"
	PhaseEvaluation    = "evaluation"
	PhaseInference     = "inference"
	PhasePreprocessing = "preprocessing"
)

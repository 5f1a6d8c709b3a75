// Package baseline is a configuration-driven baseline classification
// pipeline for tabular data.
//
// A YAML file selects the dataset, the train/test split and the model. Two
// commands run the recipe:
//
//   - cmd/train fits median imputation, standard scaling and logistic
//     regression on a stratified train split and writes the fitted bundle,
//     metrics.json and confusion_matrix.png into the artifact directory.
//   - cmd/evaluate loads that bundle, predicts a dataset in full and writes
//     report.json next to it.
//
// # Quick Start
//
//	cfg, err := config.Load("config/train.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := experiment.Train(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("accuracy:", result.Scores.Accuracy)
//
// # Packages
//
//   - config: YAML configuration, defaults and validation
//   - dataset: bundled iris data and CSV loading
//   - preprocessing: SimpleImputer, StandardScaler and the step chain
//   - sklearn/linear_model: LogisticRegression and the model factory
//   - sklearn/model_selection: stratified TrainTestSplit
//   - sklearn/pipeline: preprocessing plus classifier as one estimator
//   - metrics: accuracy, F1, confusion matrix and classification report
//   - artifacts: staged artifact writes, model bundle and plots
//   - experiment: the training and evaluation orchestrators
//   - core/model: estimator interfaces, fitted state and gob persistence
//   - core/parallel: row-parallel helpers
//   - pkg/errors, pkg/log: error taxonomy and structured logging
//
// # Exit Codes
//
// Both commands exit with 0 on success, 2 for configuration errors, 3 for
// data errors and missing datasets, 4 when evaluation finds no trained
// model, 5 for I/O failures and 1 otherwise.
package baseline

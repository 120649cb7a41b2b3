// Package electnet analyzes county-level US presidential election results
// with penalized linear models.
//
// The electnet command loads a county table (geography, population, 2012
// vote counts, and binary majority indicators), renders descriptive
// figures, and tunes Lasso and Elastic Net models by k-fold cross-validated
// grid search: linear regressions of the 2012 Republican vote share ranked
// by RMSE, and logistic classifiers of the 2016 majority winner ranked by
// accuracy, with final accuracy, sensitivity, specificity, and ROC AUC
// reported on a holdout split.
//
// # Packages
//
//   - dataset: CSV loading, cleaning, schema validation, immutable tables
//   - preprocessing: standardization and one-hot encoding with an explicit
//     unseen-category placeholder
//   - linear_model: ordinary least squares, ElasticNet (coordinate
//     descent), LogisticElasticNet (proximal gradient)
//   - metrics: regression, classification, and ranking metrics
//   - modelselection: k-fold splitting, hyperparameter grids, grid search
//   - report: the staged pipeline, figures, and printed rankings
//   - core/model, core/parallel: estimator contracts and worker helpers
//   - pkg/errors, pkg/log: error taxonomy and structured logging
//
// # Quick start
//
//	electnet report --data election.csv --holdout 0.2 --seed 42
package electnet

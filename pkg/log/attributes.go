package log

// Standard attribute keys used across electnet log records. Keys follow a
// hierarchical convention ("model.name", "data.rows") so records can be
// filtered per concern.
const (
	// ModelNameKey identifies the estimator type.
	// Examples: "ElasticNet", "LogisticElasticNet", "StandardScaler"
	ModelNameKey = "model.name"

	// OperationKey names the operation being performed.
	// Standard values: "fit", "predict", "transform", "score", "search"
	OperationKey = "ml.operation"

	// StageKey names the pipeline stage emitting the record.
	// Values: "load", "describe", "regression", "classification", "summary"
	StageKey = "pipeline.stage"

	// RowsKey and ColsKey describe the table or matrix being processed.
	RowsKey = "data.rows"
	ColsKey = "data.cols"

	// DroppedRowsKey counts rows rejected during cleaning.
	DroppedRowsKey = "data.dropped_rows"

	// FoldKey and FoldsKey identify a cross-validation fold.
	FoldKey  = "cv.fold"
	FoldsKey = "cv.folds"

	// PenaltyKey and MixtureKey record the hyperparameters of a grid cell.
	PenaltyKey = "grid.penalty"
	MixtureKey = "grid.mixture"

	// CandidatesKey counts hyperparameter combinations in a search.
	CandidatesKey = "grid.candidates"

	// MetricKey and ScoreKey record a scoring outcome.
	MetricKey = "metric.name"
	ScoreKey  = "metric.score"

	// SeedKey records the PRNG seed in effect.
	SeedKey = "config.seed"

	// DurationMsKey records elapsed time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)

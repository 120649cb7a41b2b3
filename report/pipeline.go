package report

import (
	"io"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/voteworks/electnet/core/model"
	"github.com/voteworks/electnet/dataset"
	"github.com/voteworks/electnet/linear_model"
	"github.com/voteworks/electnet/metrics"
	"github.com/voteworks/electnet/modelselection"
	"github.com/voteworks/electnet/pkg/errors"
	"github.com/voteworks/electnet/pkg/log"
	"github.com/voteworks/electnet/preprocessing"
)

// Derived column added by the load stage for the descriptive scatter plot.
const colLogPopulation = "log_population"

// Pipeline runs the analysis stages in order, threading immutable tables
// between them and writing ranked tables to out.
type Pipeline struct {
	cfg *Config
	out io.Writer
}

// NewPipeline creates a pipeline with the given configuration. Results are
// printed to out.
func NewPipeline(cfg *Config, out io.Writer) *Pipeline {
	return &Pipeline{cfg: cfg, out: out}
}

// RegressionResult holds the two tuned regression searches plus the winning
// elastic net refitted on the full training set.
type RegressionResult struct {
	Lasso      *modelselection.SearchResult
	ElasticNet *modelselection.SearchResult
	FinalModel *linear_model.ElasticNet
}

// ClassMetrics are the final classification scores on the evaluation set.
type ClassMetrics struct {
	Accuracy    float64
	Sensitivity float64
	Specificity float64
	AUC         float64
	LogLoss     float64
}

// ClassificationResult holds the baseline metrics, the two tuned searches,
// and the finalized best model's metrics.
type ClassificationResult struct {
	Baseline   ClassMetrics
	Lasso      *modelselection.SearchResult
	ElasticNet *modelselection.SearchResult
	Final      ClassMetrics
	FinalModel *linear_model.LogisticElasticNet
}

// Run executes load, describe, regression, classification, and summary.
func (p *Pipeline) Run() error {
	slog.Info("pipeline started",
		slog.Int64(log.SeedKey, p.cfg.Seed),
		slog.Int(log.FoldsKey, p.cfg.Folds),
		slog.Float64("config.holdout", p.cfg.HoldoutFrac))

	table, err := p.LoadStage()
	if err != nil {
		return err
	}

	train, test, err := dataset.Split(table, p.cfg.HoldoutFrac, p.cfg.Seed)
	if err != nil {
		return err
	}
	eval := test
	if eval == nil {
		// No holdout requested: final models are scored on their own
		// training rows. Optimistic, so it is called out loudly.
		errors.Warn(errors.NewMethodologyWarning("train-set evaluation",
			"final metrics are computed on the training rows; pass a holdout fraction for honest estimates"))
		eval = train
	}

	if err := p.DescribeStage(table); err != nil {
		return err
	}

	reg, err := p.RegressionStage(train)
	if err != nil {
		return err
	}

	clf, err := p.ClassificationStage(train, eval)
	if err != nil {
		return err
	}

	return p.SummaryStage(table, reg, clf)
}

// LoadStage reads and cleans the input table and derives the log-population
// column used by the descriptive plots.
func (p *Pipeline) LoadStage() (*dataset.Table, error) {
	records, _, err := dataset.Load(p.cfg.DataPath)
	if err != nil {
		return nil, err
	}

	table, err := dataset.NewTable(records)
	if err != nil {
		return nil, err
	}

	pop, err := table.Numeric(dataset.ColPopulation)
	if err != nil {
		return nil, err
	}
	logPop := make([]float64, len(pop))
	for i, v := range pop {
		logPop[i] = math.Log10(v)
	}
	return table.WithNumeric(colLogPopulation, logPop)
}

// DescribeStage renders the descriptive figures: county counts by 2016
// winner and 2012 Republican share against log population with a fitted
// line. Skipped when no plot directory is configured.
func (p *Pipeline) DescribeStage(table *dataset.Table) error {
	if p.cfg.PlotDir == "" {
		return nil
	}
	if err := WinnerBarChart(table, p.cfg.PlotDir); err != nil {
		return err
	}
	return SharePopulationScatter(table, p.cfg.PlotDir)
}

// RegressionStage tunes a Lasso and an Elastic Net on the 2012 Republican
// vote share, ranking candidates by cross-validated RMSE.
func (p *Pipeline) RegressionStage(train *dataset.Table) (*RegressionResult, error) {
	fb := NewFeatureBuilder(dataset.RegressionSchema())
	if err := fb.Fit(train); err != nil {
		return nil, err
	}
	X, err := fb.Matrix(train)
	if err != nil {
		return nil, err
	}
	y, err := fb.Label(train)
	if err != nil {
		return nil, err
	}

	rows, cols := X.Dims()
	slog.Info("regression design matrix assembled",
		slog.String(log.StageKey, "regression"),
		slog.Int(log.RowsKey, rows),
		slog.Int(log.ColsKey, cols))

	penalties, err := modelselection.LogSpace(p.cfg.PenaltyMin, p.cfg.PenaltyMax, p.cfg.PenaltyCount)
	if err != nil {
		return nil, err
	}
	mixtures, err := modelselection.LinSpaceStep(0, 1, p.cfg.MixtureStep)
	if err != nil {
		return nil, err
	}

	result := &RegressionResult{}
	for _, task := range []struct {
		name     string
		mixtures []float64
		dest     **modelselection.SearchResult
	}{
		{"lasso", []float64{1}, &result.Lasso},
		{"elastic net", mixtures, &result.ElasticNet},
	} {
		grid, err := modelselection.NewParamGrid(penalties, task.mixtures)
		if err != nil {
			return nil, err
		}
		gs := &modelselection.GridSearchCV{
			Grid:     grid,
			CV:       modelselection.NewKFold(p.cfg.Folds, true, int(p.cfg.Seed)),
			Metric:   "rmse",
			Maximize: false,
			FitScore: regressionFitScore,
		}
		slog.Info("tuning regression model",
			slog.String(log.ModelNameKey, task.name),
			slog.String(log.StageKey, "regression"))
		res, err := gs.Run(X, y)
		if err != nil {
			return nil, err
		}
		*task.dest = res
	}

	// Refit the winning elastic net on the full training set, scaled with
	// full-training statistics.
	scaler := preprocessing.NewStandardScalerDefault()
	XScaled, err := scaler.FitTransform(X)
	if err != nil {
		return nil, err
	}
	err = result.ElasticNet.Finalize(func(c modelselection.Candidate) error {
		result.FinalModel = linear_model.NewElasticNet(
			linear_model.WithPenalty(c.Penalty),
			linear_model.WithMixture(c.Mixture),
		)
		return fitTolerateNonConvergence(result.FinalModel, XScaled, y, "final elastic net")
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ClassificationStage fits a near-unpenalized logistic baseline, tunes
// penalized logistic models by cross-validated accuracy, and scores the
// winner on the evaluation table.
func (p *Pipeline) ClassificationStage(train, eval *dataset.Table) (*ClassificationResult, error) {
	fb := NewFeatureBuilder(dataset.ClassificationSchema())
	if err := fb.Fit(train); err != nil {
		return nil, err
	}
	XTrain, err := fb.Matrix(train)
	if err != nil {
		return nil, err
	}
	yTrain, err := fb.Label(train)
	if err != nil {
		return nil, err
	}
	XEval, err := fb.Matrix(eval)
	if err != nil {
		return nil, err
	}
	yEval, err := fb.Label(eval)
	if err != nil {
		return nil, err
	}

	rows, cols := XTrain.Dims()
	slog.Info("classification design matrix assembled",
		slog.String(log.StageKey, "classification"),
		slog.Int(log.RowsKey, rows),
		slog.Int(log.ColsKey, cols))

	// Final-model scaling is fitted on the training rows only and applied
	// frozen to the evaluation rows.
	scaler := preprocessing.NewStandardScalerDefault()
	XTrainScaled, err := scaler.FitTransform(XTrain)
	if err != nil {
		return nil, err
	}
	XEvalScaled, err := scaler.Transform(XEval)
	if err != nil {
		return nil, err
	}

	result := &ClassificationResult{}

	baseline := linear_model.NewLogisticElasticNet(
		linear_model.WithLogitPenalty(1e-6),
		linear_model.WithLogitMixture(0),
	)
	if err := fitTolerateNonConvergence(baseline, XTrainScaled, yTrain, "baseline logistic"); err != nil {
		return nil, err
	}
	result.Baseline, err = p.classMetrics(baseline, XEvalScaled, yEval)
	if err != nil {
		return nil, err
	}

	penalties, err := modelselection.LogSpace(p.cfg.PenaltyMin, p.cfg.PenaltyMax, p.cfg.PenaltyCount)
	if err != nil {
		return nil, err
	}
	mixtures, err := modelselection.LinSpaceStep(0, 1, p.cfg.MixtureStep)
	if err != nil {
		return nil, err
	}

	for _, task := range []struct {
		name     string
		mixtures []float64
		dest     **modelselection.SearchResult
	}{
		{"logistic lasso", []float64{1}, &result.Lasso},
		{"logistic elastic net", mixtures, &result.ElasticNet},
	} {
		grid, err := modelselection.NewParamGrid(penalties, task.mixtures)
		if err != nil {
			return nil, err
		}
		gs := &modelselection.GridSearchCV{
			Grid:     grid,
			CV:       modelselection.NewKFold(p.cfg.Folds, true, int(p.cfg.Seed)),
			Metric:   "accuracy",
			Maximize: true,
			FitScore: classificationFitScore,
		}
		slog.Info("tuning classification model",
			slog.String(log.ModelNameKey, task.name),
			slog.String(log.StageKey, "classification"))
		res, err := gs.Run(XTrain, yTrain)
		if err != nil {
			return nil, err
		}
		*task.dest = res
	}

	// Refit the best elastic net on the full training set and score it on
	// the evaluation rows.
	var final *linear_model.LogisticElasticNet
	err = result.ElasticNet.Finalize(func(c modelselection.Candidate) error {
		final = linear_model.NewLogisticElasticNet(
			linear_model.WithLogitPenalty(c.Penalty),
			linear_model.WithLogitMixture(c.Mixture),
		)
		return fitTolerateNonConvergence(final, XTrainScaled, yTrain, "final logistic elastic net")
	})
	if err != nil {
		return nil, err
	}
	result.FinalModel = final
	result.Final, err = p.classMetrics(final, XEvalScaled, yEval)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// classMetrics scores a fitted classifier on the evaluation rows. AUC comes
// from predicted probabilities unless the thresholded variant was requested.
func (p *Pipeline) classMetrics(model *linear_model.LogisticElasticNet, X mat.Matrix, y *mat.VecDense) (ClassMetrics, error) {
	pred, err := model.Predict(X)
	if err != nil {
		return ClassMetrics{}, err
	}
	yPred := toVec(pred)

	cm, err := metrics.NewConfusionMatrix(y, yPred)
	if err != nil {
		return ClassMetrics{}, err
	}

	proba, err := model.PredictProba(X)
	if err != nil {
		return ClassMetrics{}, err
	}
	scores := mat.NewVecDense(y.Len(), nil)
	for i := 0; i < y.Len(); i++ {
		scores.SetVec(i, proba.At(i, 1))
	}
	auc, err := metrics.ROCAUC(y, scores)
	if err != nil {
		return ClassMetrics{}, err
	}
	logLoss, err := metrics.LogLoss(y, scores)
	if err != nil {
		return ClassMetrics{}, err
	}

	if p.cfg.ThresholdedAUC {
		thresholded, err := metrics.ROCAUC(y, yPred)
		if err != nil {
			return ClassMetrics{}, err
		}
		errors.Warn(errors.NewMethodologyWarning("thresholded ROC AUC",
			"AUC computed from rounded class predictions collapses the ranking information"))
		slog.Info("thresholded AUC requested",
			slog.Float64("auc.probability", auc),
			slog.Float64("auc.thresholded", thresholded),
			slog.Float64("auc.deviation", auc-thresholded))
		auc = thresholded
	}

	return ClassMetrics{
		Accuracy:    cm.Accuracy(),
		Sensitivity: cm.Sensitivity(),
		Specificity: cm.Specificity(),
		AUC:         auc,
		LogLoss:     logLoss,
	}, nil
}

// regressionFitScore fits an elastic net at the candidate's grid point with
// fold-local standardization and returns the held-out RMSE.
func regressionFitScore(c modelselection.Candidate, XTrain *mat.Dense, yTrain *mat.VecDense, XTest *mat.Dense, yTest *mat.VecDense) (float64, error) {
	scaler := preprocessing.NewStandardScalerDefault()
	XTrainScaled, err := scaler.FitTransform(XTrain)
	if err != nil {
		return 0, err
	}
	XTestScaled, err := scaler.Transform(XTest)
	if err != nil {
		return 0, err
	}

	model := linear_model.NewElasticNet(
		linear_model.WithPenalty(c.Penalty),
		linear_model.WithMixture(c.Mixture),
	)
	if err := model.Fit(XTrainScaled, yTrain); err != nil {
		return 0, err
	}
	pred, err := model.Predict(XTestScaled)
	if err != nil {
		return 0, err
	}
	return metrics.RMSE(yTest, toVec(pred))
}

// classificationFitScore fits a penalized logistic model at the candidate's
// grid point with fold-local standardization and returns the held-out
// accuracy.
func classificationFitScore(c modelselection.Candidate, XTrain *mat.Dense, yTrain *mat.VecDense, XTest *mat.Dense, yTest *mat.VecDense) (float64, error) {
	scaler := preprocessing.NewStandardScalerDefault()
	XTrainScaled, err := scaler.FitTransform(XTrain)
	if err != nil {
		return 0, err
	}
	XTestScaled, err := scaler.Transform(XTest)
	if err != nil {
		return 0, err
	}

	model := linear_model.NewLogisticElasticNet(
		linear_model.WithLogitPenalty(c.Penalty),
		linear_model.WithLogitMixture(c.Mixture),
	)
	if err := model.Fit(XTrainScaled, yTrain); err != nil {
		return 0, err
	}
	pred, err := model.Predict(XTestScaled)
	if err != nil {
		return 0, err
	}
	return metrics.Accuracy(yTest, toVec(pred))
}

// fitTolerateNonConvergence fits a model outside the grid search, where a
// convergence failure is worth a warning but the partially converged
// coefficients are still reportable.
func fitTolerateNonConvergence(fitter model.Fitter, X mat.Matrix, y *mat.VecDense, name string) error {
	err := fitter.Fit(X, y)
	if err == nil {
		return nil
	}
	var ce *errors.ConvergenceError
	if errors.As(err, &ce) {
		slog.Warn("model did not fully converge",
			slog.String(log.ModelNameKey, name),
			log.ErrAttr(err))
		return nil
	}
	return err
}

func toVec(m mat.Matrix) *mat.VecDense {
	if v, ok := m.(*mat.VecDense); ok {
		return v
	}
	rows, _ := m.Dims()
	out := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		out.SetVec(i, m.At(i, 0))
	}
	return out
}

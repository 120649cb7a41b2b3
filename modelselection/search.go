package modelselection

import (
	"log/slog"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/voteworks/electnet/core/parallel"
	"github.com/voteworks/electnet/pkg/errors"
	"github.com/voteworks/electnet/pkg/log"
)

// FitScoreFunc trains a model at one grid point on the training rows and
// scores it on the held-out rows. Callers own any preprocessing: statistics
// such as scaler means must be fitted on XTrain only and applied frozen to
// XTest, never computed on the held-out rows.
type FitScoreFunc func(c Candidate, XTrain *mat.Dense, yTrain *mat.VecDense, XTest *mat.Dense, yTest *mat.VecDense) (float64, error)

// CandidateResult records how one grid point scored across all folds.
type CandidateResult struct {
	Candidate  Candidate
	FoldScores []float64
	MeanScore  float64
	StdErr     float64
	Failed     bool
	gridIndex  int
}

// GridSearchCV evaluates every candidate of a ParamGrid with k-fold
// cross-validation. Candidates run in parallel; a panic or convergence
// failure inside FitScore marks that candidate failed instead of aborting
// the search.
type GridSearchCV struct {
	Grid     *ParamGrid
	CV       *KFold
	FitScore FitScoreFunc

	// Metric names the score for logs and reports. Maximize decides the
	// ranking direction: true for ROC AUC or accuracy, false for RMSE.
	Metric   string
	Maximize bool
}

// SearchResult holds every candidate's scores plus the ranking.
type SearchResult struct {
	Results []CandidateResult // grid enumeration order
	ranked  []int
}

// Run scores the full grid on X and y and returns the ranked results.
func (gs *GridSearchCV) Run(X *mat.Dense, y *mat.VecDense) (*SearchResult, error) {
	if gs.Grid == nil || gs.CV == nil || gs.FitScore == nil {
		return nil, errors.NewValueError("GridSearchCV.Run", "grid, cv, and fit-score function are required")
	}

	n, _ := X.Dims()
	if y.Len() != n {
		return nil, errors.NewDimensionError("GridSearchCV.Run", n, y.Len(), 0)
	}

	folds, err := gs.CV.Split(n)
	if err != nil {
		return nil, err
	}

	// Fold matrices are shared read-only across all candidates, so build
	// them once up front.
	splits := make([]foldData, len(folds))
	for i, f := range folds {
		splits[i] = foldData{
			XTrain: subsetRows(X, f.TrainIndices),
			yTrain: subsetVec(y, f.TrainIndices),
			XTest:  subsetRows(X, f.TestIndices),
			yTest:  subsetVec(y, f.TestIndices),
		}
	}

	candidates := gs.Grid.Candidates()
	results := make([]CandidateResult, len(candidates))

	start := time.Now()
	slog.Info("grid search started",
		slog.String(log.MetricKey, gs.Metric),
		slog.Int(log.CandidatesKey, len(candidates)),
		slog.Int(log.FoldsKey, len(folds)),
		slog.Int(log.RowsKey, n))

	parallel.Parallelize(len(candidates), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			results[i] = gs.evaluate(candidates[i], i, splits)
		}
	})

	res := &SearchResult{Results: results}
	res.rank(gs.Maximize)
	if res.Results[res.ranked[0]].Failed {
		return nil, errors.Newf("grid search: all %d candidates failed", len(candidates))
	}

	best := res.Best()
	slog.Info("grid search finished",
		slog.String(log.MetricKey, gs.Metric),
		slog.Float64(log.PenaltyKey, best.Candidate.Penalty),
		slog.Float64(log.MixtureKey, best.Candidate.Mixture),
		slog.Float64(log.ScoreKey, best.MeanScore),
		slog.Int64(log.DurationMsKey, time.Since(start).Milliseconds()))

	return res, nil
}

type foldData struct {
	XTrain *mat.Dense
	yTrain *mat.VecDense
	XTest  *mat.Dense
	yTest  *mat.VecDense
}

func (gs *GridSearchCV) evaluate(c Candidate, gridIndex int, splits []foldData) CandidateResult {
	result := CandidateResult{
		Candidate:  c,
		FoldScores: make([]float64, len(splits)),
		gridIndex:  gridIndex,
	}

	for k, s := range splits {
		var score float64
		err := errors.SafeExecute("GridSearchCV.evaluate", func() error {
			var ferr error
			score, ferr = gs.FitScore(c, s.XTrain, s.yTrain, s.XTest, s.yTest)
			return ferr
		})
		if err != nil {
			slog.Warn("candidate failed, continuing search",
				slog.String(log.OperationKey, "search"),
				slog.Float64(log.PenaltyKey, c.Penalty),
				slog.Float64(log.MixtureKey, c.Mixture),
				slog.Int(log.FoldKey, k),
				log.ErrAttr(err))
			result.Failed = true
			result.MeanScore = math.NaN()
			result.StdErr = math.NaN()
			for j := range result.FoldScores {
				result.FoldScores[j] = math.NaN()
			}
			return result
		}
		result.FoldScores[k] = score
	}

	result.MeanScore = mean(result.FoldScores)
	result.StdErr = stdErr(result.FoldScores, result.MeanScore)
	return result
}

// rank orders candidates by mean score. Failed candidates sort last, and
// exact ties keep grid enumeration order.
func (r *SearchResult) rank(maximize bool) {
	r.ranked = make([]int, len(r.Results))
	for i := range r.ranked {
		r.ranked[i] = i
	}
	sort.SliceStable(r.ranked, func(a, b int) bool {
		ra, rb := r.Results[r.ranked[a]], r.Results[r.ranked[b]]
		if ra.Failed != rb.Failed {
			return !ra.Failed
		}
		if ra.Failed {
			return false
		}
		if ra.MeanScore == rb.MeanScore {
			return false
		}
		if maximize {
			return ra.MeanScore > rb.MeanScore
		}
		return ra.MeanScore < rb.MeanScore
	})
}

// Best returns the top-ranked candidate.
func (r *SearchResult) Best() CandidateResult {
	return r.Results[r.ranked[0]]
}

// Finalize refits the winning candidate on the full training set through
// the supplied fit function and reports its error.
func (r *SearchResult) Finalize(fit func(Candidate) error) error {
	return fit(r.Best().Candidate)
}

// Top returns the n best candidates in rank order.
func (r *SearchResult) Top(n int) []CandidateResult {
	if n > len(r.ranked) {
		n = len(r.ranked)
	}
	out := make([]CandidateResult, n)
	for i := 0; i < n; i++ {
		out[i] = r.Results[r.ranked[i]]
	}
	return out
}

func subsetRows(X *mat.Dense, idx []int) *mat.Dense {
	_, cols := X.Dims()
	out := mat.NewDense(len(idx), cols, nil)
	for i, r := range idx {
		out.SetRow(i, mat.Row(nil, r, X))
	}
	return out
}

func subsetVec(y *mat.VecDense, idx []int) *mat.VecDense {
	out := mat.NewVecDense(len(idx), nil)
	for i, r := range idx {
		out.SetVec(i, y.AtVec(r))
	}
	return out
}

func mean(xs []float64) float64 {
	var sum float64
	for _, v := range xs {
		sum += v
	}
	return sum / float64(len(xs))
}

// stdErr is the standard error of the mean over fold scores, matching the
// summary statistic reported alongside each candidate.
func stdErr(xs []float64, m float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var ss float64
	for _, v := range xs {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss/float64(len(xs)-1)) / math.Sqrt(float64(len(xs)))
}

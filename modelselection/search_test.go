package modelselection

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/voteworks/electnet/pkg/errors"
)

func searchData(n int) (*mat.Dense, *mat.VecDense) {
	X := mat.NewDense(n, 2, nil)
	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, float64(i))
		X.Set(i, 1, float64(i%7))
		y.SetVec(i, float64(i)*2)
	}
	return X, y
}

func TestGridSearchCV_PicksKnownOptimum(t *testing.T) {
	grid, err := NewParamGrid([]float64{0.1, 1, 10}, []float64{0, 0.5, 1})
	require.NoError(t, err)

	// Score depends only on the candidate, so the optimum is known:
	// maximize -(penalty-1)^2 - (mixture-0.5)^2 peaks at (1, 0.5).
	gs := &GridSearchCV{
		Grid:     grid,
		CV:       NewKFold(5, true, 42),
		Metric:   "synthetic",
		Maximize: true,
		FitScore: func(c Candidate, _ *mat.Dense, _ *mat.VecDense, _ *mat.Dense, _ *mat.VecDense) (float64, error) {
			return -math.Pow(c.Penalty-1, 2) - math.Pow(c.Mixture-0.5, 2), nil
		},
	}

	X, y := searchData(50)
	res, err := gs.Run(X, y)
	require.NoError(t, err)

	best := res.Best()
	assert.Equal(t, 1.0, best.Candidate.Penalty)
	assert.Equal(t, 0.5, best.Candidate.Mixture)
	assert.False(t, best.Failed)
	assert.InDelta(t, 0.0, best.StdErr, 1e-12, "constant fold scores have zero standard error")
}

func TestGridSearchCV_MinimizeDirection(t *testing.T) {
	grid, err := NewParamGrid([]float64{0.1, 1, 10}, []float64{0.5})
	require.NoError(t, err)

	gs := &GridSearchCV{
		Grid:     grid,
		CV:       NewKFold(5, false, 0),
		Metric:   "rmse",
		Maximize: false,
		FitScore: func(c Candidate, _ *mat.Dense, _ *mat.VecDense, _ *mat.Dense, _ *mat.VecDense) (float64, error) {
			return c.Penalty, nil
		},
	}

	X, y := searchData(20)
	res, err := gs.Run(X, y)
	require.NoError(t, err)
	assert.Equal(t, 0.1, res.Best().Candidate.Penalty)
}

func TestGridSearchCV_FailedCandidateRanksLast(t *testing.T) {
	grid, err := NewParamGrid([]float64{0.1, 1, 10}, []float64{0.5})
	require.NoError(t, err)

	gs := &GridSearchCV{
		Grid:     grid,
		CV:       NewKFold(5, false, 0),
		Metric:   "synthetic",
		Maximize: true,
		FitScore: func(c Candidate, _ *mat.Dense, _ *mat.VecDense, _ *mat.Dense, _ *mat.VecDense) (float64, error) {
			if c.Penalty == 10 {
				return 0, errors.NewConvergenceError("elastic net", 100, c.Penalty, c.Mixture)
			}
			return c.Penalty, nil
		},
	}

	X, y := searchData(20)
	res, err := gs.Run(X, y)
	require.NoError(t, err)

	// The failing candidate would have won on raw score; it must instead
	// be excluded from the top and carry NaN.
	assert.Equal(t, 1.0, res.Best().Candidate.Penalty)

	ranked := res.Top(3)
	last := ranked[2]
	assert.True(t, last.Failed)
	assert.True(t, math.IsNaN(last.MeanScore))
}

func TestGridSearchCV_PanicIsContained(t *testing.T) {
	grid, err := NewParamGrid([]float64{0.1, 1}, []float64{0.5})
	require.NoError(t, err)

	gs := &GridSearchCV{
		Grid:     grid,
		CV:       NewKFold(5, false, 0),
		Metric:   "synthetic",
		Maximize: true,
		FitScore: func(c Candidate, _ *mat.Dense, _ *mat.VecDense, _ *mat.Dense, _ *mat.VecDense) (float64, error) {
			if c.Penalty == 1 {
				panic("solver blew up")
			}
			return c.Penalty, nil
		},
	}

	X, y := searchData(20)
	res, err := gs.Run(X, y)
	require.NoError(t, err)
	assert.Equal(t, 0.1, res.Best().Candidate.Penalty)
}

func TestGridSearchCV_AllCandidatesFailed(t *testing.T) {
	grid, err := NewParamGrid([]float64{1}, []float64{0.5})
	require.NoError(t, err)

	gs := &GridSearchCV{
		Grid:     grid,
		CV:       NewKFold(5, false, 0),
		Metric:   "synthetic",
		Maximize: true,
		FitScore: func(Candidate, *mat.Dense, *mat.VecDense, *mat.Dense, *mat.VecDense) (float64, error) {
			return 0, errors.New("boom")
		},
	}

	X, y := searchData(20)
	_, err = gs.Run(X, y)
	require.Error(t, err)
}

func TestGridSearchCV_TieBreakByGridOrder(t *testing.T) {
	grid, err := NewParamGrid([]float64{0.1, 1, 10}, []float64{0, 1})
	require.NoError(t, err)

	gs := &GridSearchCV{
		Grid:     grid,
		CV:       NewKFold(5, false, 0),
		Metric:   "synthetic",
		Maximize: true,
		FitScore: func(Candidate, *mat.Dense, *mat.VecDense, *mat.Dense, *mat.VecDense) (float64, error) {
			return 1.0, nil
		},
	}

	X, y := searchData(20)
	res, err := gs.Run(X, y)
	require.NoError(t, err)

	// All scores tie, so the first grid candidate wins.
	best := res.Best()
	assert.Equal(t, 0.1, best.Candidate.Penalty)
	assert.Equal(t, 0.0, best.Candidate.Mixture)
}

func TestGridSearchCV_FoldsSeeTrainingDataOnly(t *testing.T) {
	grid, err := NewParamGrid([]float64{1}, []float64{0.5})
	require.NoError(t, err)

	n := 50
	gs := &GridSearchCV{
		Grid:     grid,
		CV:       NewKFold(5, true, 42),
		Metric:   "synthetic",
		Maximize: true,
		FitScore: func(_ Candidate, XTrain *mat.Dense, yTrain *mat.VecDense, XTest *mat.Dense, yTest *mat.VecDense) (float64, error) {
			trainRows, _ := XTrain.Dims()
			testRows, _ := XTest.Dims()
			assert.Equal(t, n, trainRows+testRows)
			assert.Equal(t, trainRows, yTrain.Len())
			assert.Equal(t, testRows, yTest.Len())

			// Rows carry their original index in column 0, so overlap
			// between train and test is detectable.
			seen := make(map[float64]bool, trainRows)
			for i := 0; i < trainRows; i++ {
				seen[XTrain.At(i, 0)] = true
			}
			for i := 0; i < testRows; i++ {
				assert.False(t, seen[XTest.At(i, 0)], "row leaked into both sets")
			}
			return 1.0, nil
		},
	}

	X, y := searchData(n)
	_, err = gs.Run(X, y)
	require.NoError(t, err)
}

package preprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/voteworks/electnet/pkg/errors"
)

func TestStandardScaler_FitTransform(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 10,
		2, 20,
		3, 30,
		4, 40,
	})

	scaler := NewStandardScalerDefault()
	scaled, err := scaler.FitTransform(X)
	require.NoError(t, err)

	rows, cols := scaled.Dims()
	require.Equal(t, 4, rows)
	require.Equal(t, 2, cols)

	// Each column should have zero mean and unit variance after scaling.
	for j := 0; j < cols; j++ {
		var sum, sumSq float64
		for i := 0; i < rows; i++ {
			v := scaled.At(i, j)
			sum += v
			sumSq += v * v
		}
		mean := sum / float64(rows)
		variance := sumSq/float64(rows) - mean*mean
		assert.InDelta(t, 0.0, mean, 1e-12, "column %d mean", j)
		assert.InDelta(t, 1.0, variance, 1e-12, "column %d variance", j)
	}
}

func TestStandardScaler_FrozenStatistics(t *testing.T) {
	train := mat.NewDense(3, 1, []float64{0, 5, 10})
	test := mat.NewDense(2, 1, []float64{5, 15})

	scaler := NewStandardScalerDefault()
	require.NoError(t, scaler.Fit(train))

	scaled, err := scaler.Transform(test)
	require.NoError(t, err)

	// Train mean 5, population std sqrt(50/3). Test rows must be scaled
	// with the training statistics, not their own.
	std := math.Sqrt(50.0 / 3.0)
	assert.InDelta(t, 0.0, scaled.At(0, 0), 1e-12)
	assert.InDelta(t, 10.0/std, scaled.At(1, 0), 1e-12)
}

func TestStandardScaler_ConstantColumn(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		7, 1,
		7, 2,
		7, 3,
	})

	scaler := NewStandardScalerDefault()
	scaled, err := scaler.FitTransform(X)
	require.NoError(t, err)

	// A constant column has zero variance; scaling must not produce NaN.
	for i := 0; i < 3; i++ {
		assert.False(t, math.IsNaN(scaled.At(i, 0)))
		assert.InDelta(t, 0.0, scaled.At(i, 0), 1e-12)
	}
}

func TestStandardScaler_InverseTransform(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		1, 100,
		2, 200,
		3, 300,
	})

	scaler := NewStandardScalerDefault()
	scaled, err := scaler.FitTransform(X)
	require.NoError(t, err)

	restored, err := scaler.InverseTransform(scaled)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			assert.InDelta(t, X.At(i, j), restored.At(i, j), 1e-9)
		}
	}
}

func TestStandardScaler_NotFitted(t *testing.T) {
	scaler := NewStandardScalerDefault()
	_, err := scaler.Transform(mat.NewDense(1, 1, []float64{1}))
	require.Error(t, err)

	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))
}

func TestStandardScaler_DimensionMismatch(t *testing.T) {
	scaler := NewStandardScalerDefault()
	require.NoError(t, scaler.Fit(mat.NewDense(2, 2, []float64{1, 2, 3, 4})))

	_, err := scaler.Transform(mat.NewDense(2, 3, nil))
	require.Error(t, err)

	var de *errors.DimensionError
	assert.True(t, errors.As(err, &de))
}

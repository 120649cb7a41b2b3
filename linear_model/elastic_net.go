package linear_model

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/voteworks/electnet/core/model"
	"github.com/voteworks/electnet/pkg/errors"
)

// ElasticNet is a penalized linear regression fitted by cyclic coordinate
// descent. The objective is
//
//	(1/2n)·Σ(y - Xw - b)² + penalty·(mixture·‖w‖₁ + (1-mixture)/2·‖w‖₂²)
//
// The intercept is never penalized. mixture=1 gives the Lasso, mixture=0
// gives Ridge.
type ElasticNet struct {
	model.BaseEstimator

	// Hyperparameters
	penalty      float64
	mixture      float64
	fitIntercept bool
	maxIter      int
	tol          float64

	// Learned parameters
	coef      []float64
	intercept float64
	nFeatures int
	nIter     int
}

var (
	_ model.Regressor   = (*ElasticNet)(nil)
	_ model.LinearModel = (*ElasticNet)(nil)
)

// ElasticNetOption is a functional option for ElasticNet.
type ElasticNetOption func(*ElasticNet)

// NewElasticNet creates an ElasticNet regressor. Defaults: penalty=1.0,
// mixture=0.5, intercept fitted, max 10000 iterations, tol 1e-7.
func NewElasticNet(opts ...ElasticNetOption) *ElasticNet {
	en := &ElasticNet{
		penalty:      1.0,
		mixture:      0.5,
		fitIntercept: true,
		maxIter:      10000,
		tol:          1e-7,
	}
	for _, opt := range opts {
		opt(en)
	}
	return en
}

// WithPenalty sets the overall regularization strength.
func WithPenalty(penalty float64) ElasticNetOption {
	return func(en *ElasticNet) {
		en.penalty = penalty
	}
}

// WithMixture sets the L1/L2 mixing ratio in [0, 1].
func WithMixture(mixture float64) ElasticNetOption {
	return func(en *ElasticNet) {
		en.mixture = mixture
	}
}

// WithFitIntercept controls whether an unpenalized intercept is fitted.
func WithFitIntercept(fit bool) ElasticNetOption {
	return func(en *ElasticNet) {
		en.fitIntercept = fit
	}
}

// WithMaxIter sets the coordinate descent sweep budget.
func WithMaxIter(maxIter int) ElasticNetOption {
	return func(en *ElasticNet) {
		en.maxIter = maxIter
	}
}

// WithTol sets the convergence tolerance on the largest coefficient update.
func WithTol(tol float64) ElasticNetOption {
	return func(en *ElasticNet) {
		en.tol = tol
	}
}

// Fit runs cyclic coordinate descent until the largest coefficient update
// in a sweep falls below tol. A fit that exhausts maxIter returns
// ConvergenceError; grid search records the cell as failed and continues.
func (en *ElasticNet) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewModelError("ElasticNet.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("ElasticNet.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("ElasticNet.Fit", "y must be a column vector")
	}
	if en.penalty < 0 {
		return errors.NewValueError("ElasticNet.Fit", "penalty must be non-negative")
	}
	if en.mixture < 0 || en.mixture > 1 {
		return errors.NewValueError("ElasticNet.Fit", "mixture must be in [0, 1]")
	}

	en.nFeatures = c
	n := float64(r)

	// Column means for implicit centering when fitting an intercept.
	colMean := make([]float64, c)
	yMean := 0.0
	if en.fitIntercept {
		for j := 0; j < c; j++ {
			var sum float64
			for i := 0; i < r; i++ {
				sum += X.At(i, j)
			}
			colMean[j] = sum / n
		}
		for i := 0; i < r; i++ {
			yMean += y.At(i, 0)
		}
		yMean /= n
	}

	// Per-column mean squares of the centered design, constant across sweeps.
	colSq := make([]float64, c)
	for j := 0; j < c; j++ {
		var sum float64
		for i := 0; i < r; i++ {
			v := X.At(i, j) - colMean[j]
			sum += v * v
		}
		colSq[j] = sum / n
	}

	w := make([]float64, c)
	resid := make([]float64, r)
	for i := 0; i < r; i++ {
		resid[i] = y.At(i, 0) - yMean
	}

	l1 := en.penalty * en.mixture
	l2 := en.penalty * (1 - en.mixture)

	converged := false
	for iter := 0; iter < en.maxIter; iter++ {
		maxDelta := 0.0

		for j := 0; j < c; j++ {
			if colSq[j] == 0 {
				// Constant column: nothing to fit.
				continue
			}

			// rho is the partial correlation of column j with the residual,
			// with column j's own contribution added back.
			var rho float64
			for i := 0; i < r; i++ {
				xij := X.At(i, j) - colMean[j]
				rho += xij * (resid[i] + xij*w[j])
			}
			rho /= n

			wNew := softThreshold(rho, l1) / (colSq[j] + l2)

			if delta := wNew - w[j]; delta != 0 {
				for i := 0; i < r; i++ {
					resid[i] -= (X.At(i, j) - colMean[j]) * delta
				}
				if ad := math.Abs(delta); ad > maxDelta {
					maxDelta = ad
				}
				w[j] = wNew
			}
		}

		en.nIter = iter + 1

		if maxDelta < en.tol {
			converged = true
			break
		}
	}

	if err := errors.CheckNumericalStability("ElasticNet.Fit", w, en.nIter); err != nil {
		return err
	}
	en.coef = w
	en.intercept = 0
	if en.fitIntercept {
		en.intercept = yMean
		for j := 0; j < c; j++ {
			en.intercept -= w[j] * colMean[j]
		}
	}
	en.SetFitted()

	// The partially converged solution stays usable; grid search treats
	// the error as a failed cell, direct callers may keep the model.
	if !converged {
		return errors.NewConvergenceError("ElasticNet.Fit", en.maxIter, en.penalty, en.mixture)
	}
	return nil
}

// Predict returns X*coef + intercept as an n x 1 matrix.
func (en *ElasticNet) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !en.IsFitted() {
		return nil, errors.NewNotFittedError("ElasticNet", "Predict")
	}

	r, c := X.Dims()
	if c != en.nFeatures {
		return nil, errors.NewDimensionError("ElasticNet.Predict", en.nFeatures, c, 1)
	}

	predictions := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		pred := en.intercept
		for j := 0; j < c; j++ {
			pred += X.At(i, j) * en.coef[j]
		}
		predictions.Set(i, 0, pred)
	}

	return predictions, nil
}

// Coef returns the learned coefficients.
func (en *ElasticNet) Coef() []float64 {
	if en.coef == nil {
		return nil
	}
	coef := make([]float64, len(en.coef))
	copy(coef, en.coef)
	return coef
}

// Intercept returns the learned intercept.
func (en *ElasticNet) Intercept() float64 {
	return en.intercept
}

// NIter returns the number of coordinate descent sweeps performed.
func (en *ElasticNet) NIter() int {
	return en.nIter
}

// NonZeroCount returns the number of coefficients not shrunk to exactly
// zero. At mixture=1 this count is non-increasing in the penalty.
func (en *ElasticNet) NonZeroCount() int {
	count := 0
	for _, v := range en.coef {
		if v != 0 {
			count++
		}
	}
	return count
}

// softThreshold is the proximal operator of the L1 penalty.
func softThreshold(v, gamma float64) float64 {
	switch {
	case v > gamma:
		return v - gamma
	case v < -gamma:
		return v + gamma
	default:
		return 0
	}
}

package model

import "gonum.org/v1/gonum/mat"

// Fitter is implemented by supervised estimators.
type Fitter interface {
	// Fit trains the estimator on X (n_samples x n_features) and y
	// (n_samples x 1).
	Fit(X, y mat.Matrix) error
}

// Predictor is implemented by estimators that produce predictions.
type Predictor interface {
	// Predict returns an n_samples x 1 matrix of predicted values or labels.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// LinearModel exposes the trained parameters of a linear estimator.
type LinearModel interface {
	// Coef returns the learned coefficients, one per feature column.
	Coef() []float64
	// Intercept returns the learned intercept.
	Intercept() float64
}

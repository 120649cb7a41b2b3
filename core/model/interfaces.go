package model

import (
	"gonum.org/v1/gonum/mat"
)

// Regressor is a supervised estimator with a continuous target.
type Regressor interface {
	Fitter
	Predictor
}

// Classifier is a supervised estimator with a categorical target. Predict
// returns thresholded labels; PredictProba returns per-class probabilities.
type Classifier interface {
	Fitter
	Predictor

	// PredictProba returns an n_samples x n_classes matrix of class
	// probabilities, columns ordered by Classes().
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Classes returns the unique labels seen during fitting, ascending.
	Classes() []int
}

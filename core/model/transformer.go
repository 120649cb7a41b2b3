package model

import "gonum.org/v1/gonum/mat"

// Transformer is implemented by stateless-after-fit data transforms such as
// the standard scaler and the one-hot encoder.
type Transformer interface {
	// Fit learns the transform parameters from X.
	Fit(X mat.Matrix) error

	// Transform applies the fitted parameters to X, returning a new matrix.
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform fits on X and transforms it in one call.
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

package metrics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/voteworks/electnet/pkg/errors"
)

// Accuracy computes the fraction of exact label matches. Labels are compared
// after rounding to the nearest integer so 0/1 indicators and factored
// two-level labels score identically.
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("Accuracy", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("Accuracy", n, yPred.Len(), 0)
	}

	correct := 0
	for i := 0; i < n; i++ {
		if roundLabel(yTrue.AtVec(i)) == roundLabel(yPred.AtVec(i)) {
			correct++
		}
	}

	return float64(correct) / float64(n), nil
}

// ConfusionMatrix holds the four binary outcome counts with class 1 treated
// as positive.
type ConfusionMatrix struct {
	TruePositives  int
	TrueNegatives  int
	FalsePositives int
	FalseNegatives int
}

// NewConfusionMatrix tallies outcome counts from binary label vectors.
func NewConfusionMatrix(yTrue, yPred *mat.VecDense) (*ConfusionMatrix, error) {
	n := yTrue.Len()
	if n == 0 {
		return nil, errors.NewValueError("ConfusionMatrix", "empty vector")
	}
	if yPred.Len() != n {
		return nil, errors.NewDimensionError("ConfusionMatrix", n, yPred.Len(), 0)
	}

	cm := &ConfusionMatrix{}
	for i := 0; i < n; i++ {
		truth := roundLabel(yTrue.AtVec(i))
		pred := roundLabel(yPred.AtVec(i))
		if truth != 0 && truth != 1 {
			return nil, errors.NewValueError("ConfusionMatrix", "labels must be binary (0 or 1)")
		}
		if pred != 0 && pred != 1 {
			return nil, errors.NewValueError("ConfusionMatrix", "predictions must be binary (0 or 1)")
		}

		switch {
		case truth == 1 && pred == 1:
			cm.TruePositives++
		case truth == 0 && pred == 0:
			cm.TrueNegatives++
		case truth == 0 && pred == 1:
			cm.FalsePositives++
		default:
			cm.FalseNegatives++
		}
	}

	return cm, nil
}

// Sensitivity returns the true positive rate TP / (TP + FN). When no
// positives exist the metric is undefined; 0 is returned with an
// UndefinedMetricWarning.
func (cm *ConfusionMatrix) Sensitivity() float64 {
	denom := cm.TruePositives + cm.FalseNegatives
	if denom == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("sensitivity", "no positive labels present", 0))
		return 0
	}
	return float64(cm.TruePositives) / float64(denom)
}

// Specificity returns the true negative rate TN / (TN + FP). When no
// negatives exist the metric is undefined; 0 is returned with an
// UndefinedMetricWarning.
func (cm *ConfusionMatrix) Specificity() float64 {
	denom := cm.TrueNegatives + cm.FalsePositives
	if denom == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("specificity", "no negative labels present", 0))
		return 0
	}
	return float64(cm.TrueNegatives) / float64(denom)
}

// Accuracy returns the fraction of correct outcomes in the matrix.
func (cm *ConfusionMatrix) Accuracy() float64 {
	total := cm.TruePositives + cm.TrueNegatives + cm.FalsePositives + cm.FalseNegatives
	if total == 0 {
		return 0
	}
	return float64(cm.TruePositives+cm.TrueNegatives) / float64(total)
}

// Sensitivity computes the true positive rate from label vectors.
func Sensitivity(yTrue, yPred *mat.VecDense) (float64, error) {
	cm, err := NewConfusionMatrix(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return cm.Sensitivity(), nil
}

// Specificity computes the true negative rate from label vectors.
func Specificity(yTrue, yPred *mat.VecDense) (float64, error) {
	cm, err := NewConfusionMatrix(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return cm.Specificity(), nil
}

// LogLoss computes the mean negative log-likelihood of positive-class
// probabilities against binary labels. Probabilities at the extremes are
// clamped so a fully confident wrong prediction stays finite.
func LogLoss(yTrue, yProba *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("LogLoss", "empty vector")
	}
	if yProba.Len() != n {
		return 0, errors.NewDimensionError("LogLoss", n, yProba.Len(), 0)
	}

	var sum float64
	for i := 0; i < n; i++ {
		p := yProba.AtVec(i)
		if p < 0 || p > 1 {
			return 0, errors.NewValueError("LogLoss", "probabilities must be in [0, 1]")
		}
		if roundLabel(yTrue.AtVec(i)) == 1 {
			sum -= errors.StabilizeLog(p)
		} else {
			sum -= errors.StabilizeLog(1 - p)
		}
	}
	return sum / float64(n), nil
}

func roundLabel(v float64) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}

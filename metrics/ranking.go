package metrics

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/voteworks/electnet/pkg/errors"
)

// ROCAUC computes the area under the ROC curve from binary labels and
// continuous scores, using the rank-sum (Mann-Whitney) formulation. Tied
// scores contribute half a concordant pair, so a constant score yields 0.5.
//
// When only one class is present the metric is undefined; 0.5 is returned
// with an UndefinedMetricWarning. Scoring from thresholded 0/1 predictions
// instead of probabilities degrades the metric and should be avoided; see
// report.WithThresholdedAUC for the one deliberate exception.
func ROCAUC(yTrue, yScore *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("ROCAUC", "empty vector")
	}
	if yScore.Len() != n {
		return 0, errors.NewDimensionError("ROCAUC", n, yScore.Len(), 0)
	}

	nPos, nNeg := 0, 0
	for i := 0; i < n; i++ {
		switch yTrue.AtVec(i) {
		case 1:
			nPos++
		case 0:
			nNeg++
		default:
			return 0, errors.NewValueError("ROCAUC", "labels must be binary (0 or 1)")
		}
	}

	if nPos == 0 || nNeg == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("roc_auc", "only one class present", 0.5))
		return 0.5, nil
	}

	// Sort indices by score ascending, compute mid-ranks for ties.
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		return yScore.AtVec(idx[a]) < yScore.AtVec(idx[b])
	})

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && yScore.AtVec(idx[j+1]) == yScore.AtVec(idx[i]) {
			j++
		}
		// Average rank across the tie group (1-based ranks).
		midRank := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[idx[k]] = midRank
		}
		i = j + 1
	}

	var rankSumPos float64
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == 1 {
			rankSumPos += ranks[i]
		}
	}

	u := rankSumPos - float64(nPos)*float64(nPos+1)/2
	return u / (float64(nPos) * float64(nNeg)), nil
}

// ROCAUCMatrix computes ROC AUC from single-column matrices. Extra columns
// beyond the first are ignored.
func ROCAUCMatrix(yTrue, yScore mat.Matrix) (float64, error) {
	if yTrue == nil || yScore == nil {
		return 0, errors.NewValueError("ROCAUCMatrix", "nil matrix")
	}

	rTrue, cTrue := yTrue.Dims()
	rScore, _ := yScore.Dims()
	if rTrue == 0 || cTrue == 0 {
		return 0, errors.NewValueError("ROCAUCMatrix", "empty matrix")
	}
	if rTrue != rScore {
		return 0, errors.NewDimensionError("ROCAUCMatrix", rTrue, rScore, 0)
	}

	yTrueVec := mat.NewVecDense(rTrue, nil)
	yScoreVec := mat.NewVecDense(rTrue, nil)
	for i := 0; i < rTrue; i++ {
		yTrueVec.SetVec(i, yTrue.At(i, 0))
		yScoreVec.SetVec(i, yScore.At(i, 0))
	}

	return ROCAUC(yTrueVec, yScoreVec)
}

// Package modelselection provides k-fold cross-validation, hyperparameter
// grids, and exhaustive grid search for tuning penalized linear models.
package modelselection

import (
	"math/rand/v2"

	"github.com/voteworks/electnet/pkg/errors"
)

// Fold holds the row indices of one cross-validation split.
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// KFold splits row indices into k disjoint folds. With Shuffle set the
// indices are permuted with a PCG source seeded from RandomSeed, so the same
// seed always yields the same folds.
type KFold struct {
	NSplits    int
	Shuffle    bool
	RandomSeed int
}

// NewKFold creates a k-fold splitter. nSplits below 2 falls back to 5.
func NewKFold(nSplits int, shuffle bool, randomSeed int) *KFold {
	if nSplits < 2 {
		nSplits = 5
	}
	return &KFold{
		NSplits:    nSplits,
		Shuffle:    shuffle,
		RandomSeed: randomSeed,
	}
}

// Split partitions [0, nSamples) into NSplits folds. Every index lands in
// exactly one test set, and fold sizes differ by at most one row.
func (kf *KFold) Split(nSamples int) ([]Fold, error) {
	if nSamples < kf.NSplits {
		return nil, errors.NewValueError("KFold.Split",
			"number of samples is smaller than the number of folds")
	}

	indices := make([]int, nSamples)
	for i := range indices {
		indices[i] = i
	}

	if kf.Shuffle {
		r := rand.New(rand.NewPCG(uint64(kf.RandomSeed), uint64(kf.RandomSeed)))
		r.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	folds := make([]Fold, kf.NSplits)
	foldSize := nSamples / kf.NSplits
	remainder := nSamples % kf.NSplits

	isTest := make([]bool, nSamples)
	currentIdx := 0
	for i := 0; i < kf.NSplits; i++ {
		testSize := foldSize
		if i < remainder {
			testSize++
		}

		testIndices := make([]int, testSize)
		copy(testIndices, indices[currentIdx:currentIdx+testSize])
		for _, idx := range testIndices {
			isTest[idx] = true
		}

		trainIndices := make([]int, 0, nSamples-testSize)
		for _, idx := range indices {
			if !isTest[idx] {
				trainIndices = append(trainIndices, idx)
			}
		}
		for _, idx := range testIndices {
			isTest[idx] = false
		}

		folds[i] = Fold{
			TrainIndices: trainIndices,
			TestIndices:  testIndices,
		}
		currentIdx += testSize
	}

	return folds, nil
}

package dataset

import (
	"math/rand/v2"

	"github.com/voteworks/electnet/pkg/errors"
)

// Split partitions the table into train and test tables. testFrac is the
// share of rows held out, shuffled by a PCG seeded from seed so the same
// seed always yields the same split. testFrac of 0 returns the full table
// for training and a nil test table.
func Split(t *Table, testFrac float64, seed int64) (train, test *Table, err error) {
	if testFrac < 0 || testFrac >= 1 {
		return nil, nil, errors.NewValueError("Split", "test fraction must be in [0, 1)")
	}
	if testFrac == 0 {
		return t, nil, nil
	}

	n := t.NumRows()
	nTest := int(float64(n) * testFrac)
	if nTest == 0 || nTest == n {
		return nil, nil, errors.NewValueError("Split", "test fraction leaves an empty partition")
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	r := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	r.Shuffle(n, func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	test, err = t.Select(indices[:nTest])
	if err != nil {
		return nil, nil, err
	}
	train, err = t.Select(indices[nTest:])
	if err != nil {
		return nil, nil, err
	}
	return train, test, nil
}

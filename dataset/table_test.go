package dataset

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords(n int) []Record {
	records := make([]Record, n)
	for i := range records {
		records[i] = Record{
			State:          fmt.Sprintf("S%d", i%3),
			County:         fmt.Sprintf("County%d", i),
			FIPS:           1000 + i,
			Population:     float64(10000 + i*100),
			TotalVotes2012: float64(5000 + i*50),
			RepVotes2012:   float64(2000 + i*30),
			IRepublican12:  i % 2,
			IRepublican16:  (i + 1) % 2,
		}
	}
	return records
}

func TestNewTable(t *testing.T) {
	table, err := NewTable(sampleRecords(10))
	require.NoError(t, err)
	assert.Equal(t, 10, table.NumRows())

	share, err := table.Numeric(ColRepShare)
	require.NoError(t, err)
	assert.InDelta(t, 2000.0/5000.0, share[0], 1e-12)

	states, err := table.Categorical(ColState)
	require.NoError(t, err)
	assert.Equal(t, "S0", states[0])
	assert.Equal(t, "S1", states[1])

	_, err = table.Numeric("no_such_column")
	assert.Error(t, err)
	_, err = table.Categorical(ColPopulation)
	assert.Error(t, err)
}

func TestTable_WithNumericIsImmutable(t *testing.T) {
	table, err := NewTable(sampleRecords(5))
	require.NoError(t, err)

	logPop := []float64{1, 2, 3, 4, 5}
	derived, err := table.WithNumeric("log_population", logPop)
	require.NoError(t, err)

	// The new column exists only on the derived table.
	_, err = derived.Numeric("log_population")
	assert.NoError(t, err)
	_, err = table.Numeric("log_population")
	assert.Error(t, err)

	// Mutating the caller's slice must not reach the table.
	logPop[0] = 99
	col, err := derived.Numeric("log_population")
	require.NoError(t, err)
	assert.Equal(t, 1.0, col[0])
}

func TestTable_Select(t *testing.T) {
	table, err := NewTable(sampleRecords(10))
	require.NoError(t, err)

	sub, err := table.Select([]int{3, 7, 1})
	require.NoError(t, err)
	assert.Equal(t, 3, sub.NumRows())

	counties, err := sub.Categorical(ColCounty)
	require.NoError(t, err)
	assert.Equal(t, []string{"County3", "County7", "County1"}, counties)

	_, err = table.Select([]int{10})
	assert.Error(t, err)
	_, err = table.Select(nil)
	assert.Error(t, err)
}

func TestTable_MatrixAndVector(t *testing.T) {
	table, err := NewTable(sampleRecords(4))
	require.NoError(t, err)

	X, err := table.Matrix(ColPopulation, ColTotalVotes)
	require.NoError(t, err)
	rows, cols := X.Dims()
	assert.Equal(t, 4, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, 10000.0, X.At(0, 0))
	assert.Equal(t, 5050.0, X.At(1, 1))

	y, err := table.Vector(ColRepublican16)
	require.NoError(t, err)
	assert.Equal(t, 1.0, y.AtVec(0))
	assert.Equal(t, 0.0, y.AtVec(1))

	_, err = table.Matrix("no_such_column")
	assert.Error(t, err)
}

func TestSplit(t *testing.T) {
	table, err := NewTable(sampleRecords(100))
	require.NoError(t, err)

	train, test, err := Split(table, 0.2, 42)
	require.NoError(t, err)
	assert.Equal(t, 80, train.NumRows())
	assert.Equal(t, 20, test.NumRows())

	// Same seed reproduces the split exactly.
	train2, test2, err := Split(table, 0.2, 42)
	require.NoError(t, err)
	trainFIPS, _ := train.Numeric(ColFIPS)
	trainFIPS2, _ := train2.Numeric(ColFIPS)
	assert.Equal(t, trainFIPS, trainFIPS2)
	testFIPS, _ := test.Numeric(ColFIPS)
	testFIPS2, _ := test2.Numeric(ColFIPS)
	assert.Equal(t, testFIPS, testFIPS2)

	// Partitions are disjoint and exhaustive over FIPS codes.
	seen := make(map[float64]bool, 100)
	for _, v := range trainFIPS {
		seen[v] = true
	}
	for _, v := range testFIPS {
		assert.False(t, seen[v], "fips %v in both partitions", v)
		seen[v] = true
	}
	assert.Len(t, seen, 100)
}

func TestSplit_ZeroFraction(t *testing.T) {
	table, err := NewTable(sampleRecords(10))
	require.NoError(t, err)

	train, test, err := Split(table, 0, 42)
	require.NoError(t, err)
	assert.Same(t, table, train)
	assert.Nil(t, test)
}

func TestSplit_InvalidFraction(t *testing.T) {
	table, err := NewTable(sampleRecords(10))
	require.NoError(t, err)

	_, _, err = Split(table, -0.1, 42)
	assert.Error(t, err)
	_, _, err = Split(table, 1.0, 42)
	assert.Error(t, err)
	_, _, err = Split(table, 0.01, 42)
	assert.Error(t, err, "fraction rounding to zero test rows")
}

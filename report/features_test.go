package report

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voteworks/electnet/dataset"
	"github.com/voteworks/electnet/preprocessing"
)

func featureRecords(n int) []dataset.Record {
	states := []string{"TX", "CA", "NY"}
	records := make([]dataset.Record, n)
	for i := range records {
		total := float64(1000 + i*10)
		rep := total * (0.3 + 0.4*float64(i%2))
		records[i] = dataset.Record{
			State:          states[i%len(states)],
			County:         fmt.Sprintf("County%d", i),
			FIPS:           1000 + i,
			Population:     float64(5000 + i*300),
			TotalVotes2012: total,
			RepVotes2012:   rep,
			IRepublican12:  i % 2,
			IRepublican16:  i % 2,
		}
	}
	return records
}

func TestFeatureBuilder_Matrix(t *testing.T) {
	table, err := dataset.NewTable(featureRecords(12))
	require.NoError(t, err)

	fb := NewFeatureBuilder(dataset.RegressionSchema())
	require.NoError(t, fb.Fit(table))

	names := fb.Names()
	// Regression features: state one-hot (3 states + placeholder), county
	// one-hot (12 counties + placeholder), population, and total votes.
	require.Len(t, names, 4+13+2)
	assert.Contains(t, names, "state_TX")
	assert.Contains(t, names, "county_County0")
	assert.Contains(t, names, dataset.ColPopulation)
	assert.Contains(t, names, dataset.ColTotalVotes)

	X, err := fb.Matrix(table)
	require.NoError(t, err)
	rows, cols := X.Dims()
	assert.Equal(t, 12, rows)
	assert.Equal(t, 19, cols)

	// Identifier and label columns never enter the matrix.
	assert.NotContains(t, names, dataset.ColFIPS)
	assert.NotContains(t, names, dataset.ColRepShare)
	assert.NotContains(t, names, dataset.ColRepublican16)
}

func TestFeatureBuilder_UnseenCategoryAtEval(t *testing.T) {
	train, err := dataset.NewTable(featureRecords(9))
	require.NoError(t, err)

	evalRecords := featureRecords(3)
	evalRecords[0].State = "WY"       // never seen during fitting
	evalRecords[1].County = "Nowhere" // likewise
	eval, err := dataset.NewTable(evalRecords)
	require.NoError(t, err)

	fb := NewFeatureBuilder(dataset.RegressionSchema())
	require.NoError(t, fb.Fit(train))

	X, err := fb.Matrix(eval)
	require.NoError(t, err)

	// Both categorical features map unseen levels to their placeholder
	// column instead of failing.
	col := func(name string) int {
		for j, n := range fb.Names() {
			if n == name {
				return j
			}
		}
		return -1
	}
	statePlaceholder := col("state_" + preprocessing.UnseenLevel)
	countyPlaceholder := col("county_" + preprocessing.UnseenLevel)
	require.GreaterOrEqual(t, statePlaceholder, 0)
	require.GreaterOrEqual(t, countyPlaceholder, 0)

	assert.Equal(t, 1.0, X.At(0, statePlaceholder))
	assert.Equal(t, 0.0, X.At(0, countyPlaceholder), "row 0 county was seen in training")
	assert.Equal(t, 1.0, X.At(1, countyPlaceholder))
	assert.Equal(t, 0.0, X.At(1, statePlaceholder), "row 1 state was seen in training")
}

func TestFeatureBuilder_Label(t *testing.T) {
	table, err := dataset.NewTable(featureRecords(6))
	require.NoError(t, err)

	fb := NewFeatureBuilder(dataset.ClassificationSchema())
	require.NoError(t, fb.Fit(table))

	y, err := fb.Label(table)
	require.NoError(t, err)
	assert.Equal(t, 6, y.Len())
	assert.Equal(t, 0.0, y.AtVec(0))
	assert.Equal(t, 1.0, y.AtVec(1))
}

func TestFeatureBuilder_NotFitted(t *testing.T) {
	table, err := dataset.NewTable(featureRecords(3))
	require.NoError(t, err)

	fb := NewFeatureBuilder(dataset.RegressionSchema())
	_, err = fb.Matrix(table)
	assert.Error(t, err)
}

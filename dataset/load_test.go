package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voteworks/electnet/pkg/errors"
)

const sampleCSV = `state,county,fips,population,total_votes_2012,rep_votes_2012,i_republican_2012,i_republican_2016
TX,Travis,48453,1200000,400000,140000,0,0
TX,King,48269,280,160,152,1,1
CA,Alameda,6001,1600000,600000,120000,0,0
`

func TestRead(t *testing.T) {
	records, dropped, err := Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, 0, dropped)
	require.Len(t, records, 3)

	r := records[1]
	assert.Equal(t, "TX", r.State)
	assert.Equal(t, "King", r.County)
	assert.Equal(t, 48269, r.FIPS)
	assert.Equal(t, 1, r.IRepublican12)
	assert.Equal(t, 1, r.IRepublican16)
	assert.InDelta(t, 152.0/160.0, r.RepShare2012(), 1e-12)
}

func TestRead_DropsInvalidRows(t *testing.T) {
	csv := `state,county,fips,population,total_votes_2012,rep_votes_2012,i_republican_2012,i_republican_2016
TX,Travis,48453,1200000,400000,140000,0,0
,Nowhere,1,100,50,25,0,0
TX,King,48269,280,,152,1,1
TX,Loving,48301,82,60,70,1,1
CA,Alameda,6001,1600000,600000,120000,2,0
CA,Marin,6041,260000,130000,30000,0,0
`
	records, dropped, err := Read(strings.NewReader(csv))
	require.NoError(t, err)

	// Dropped: missing state, missing total votes, rep votes above total,
	// indicator outside {0, 1}.
	assert.Equal(t, 4, dropped)
	require.Len(t, records, 2)
	assert.Equal(t, "Travis", records[0].County)
	assert.Equal(t, "Marin", records[1].County)
}

func TestRead_AllRowsDropped(t *testing.T) {
	csv := `state,county,fips,population,total_votes_2012,rep_votes_2012,i_republican_2012,i_republican_2016
,Nowhere,1,100,50,25,0,0
`
	_, dropped, err := Read(strings.NewReader(csv))
	require.Error(t, err)
	assert.Equal(t, 1, dropped)
}

func TestRead_Empty(t *testing.T) {
	_, _, err := Read(strings.NewReader("state,county,fips,population,total_votes_2012,rep_votes_2012,i_republican_2012,i_republican_2016\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
}

func TestLoad_MissingFile(t *testing.T) {
	_, _, err := Load("testdata/does-not-exist.csv")
	require.Error(t, err)

	var dle *errors.DataLoadError
	assert.True(t, errors.As(err, &dle))
}

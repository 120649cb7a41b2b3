// Package dataset loads and cleans the county-level election table and
// exposes it as an immutable, schema-validated structure for the modeling
// stages.
package dataset

// Record is one cleaned county-year row. Vote counts and indicators refer
// to the 2012 presidential race except for the 2016 majority label.
type Record struct {
	State          string
	County         string
	FIPS           int
	Population     float64
	TotalVotes2012 float64
	RepVotes2012   float64
	IRepublican12  int
	IRepublican16  int
}

// rawRecord is the gocsv binding target. Numeric fields are pointers so an
// empty cell parses as nil instead of a zero value, which would be
// indistinguishable from real data.
type rawRecord struct {
	State          string   `csv:"state"`
	County         string   `csv:"county"`
	FIPS           *int     `csv:"fips"`
	Population     *float64 `csv:"population"`
	TotalVotes2012 *float64 `csv:"total_votes_2012"`
	RepVotes2012   *float64 `csv:"rep_votes_2012"`
	IRepublican12  *int     `csv:"i_republican_2012"`
	IRepublican16  *int     `csv:"i_republican_2016"`
}

// validate reports why a raw row cannot become a Record, or "" if it can.
func (r *rawRecord) validate() string {
	switch {
	case r.State == "":
		return "missing state"
	case r.County == "":
		return "missing county"
	case r.FIPS == nil:
		return "missing fips"
	case r.Population == nil:
		return "missing population"
	case r.TotalVotes2012 == nil:
		return "missing total_votes_2012"
	case r.RepVotes2012 == nil:
		return "missing rep_votes_2012"
	case r.IRepublican12 == nil:
		return "missing i_republican_2012"
	case r.IRepublican16 == nil:
		return "missing i_republican_2016"
	case *r.Population <= 0:
		return "non-positive population"
	case *r.TotalVotes2012 <= 0:
		return "non-positive total_votes_2012"
	case *r.RepVotes2012 < 0 || *r.RepVotes2012 > *r.TotalVotes2012:
		return "rep_votes_2012 outside [0, total_votes_2012]"
	case *r.IRepublican12 != 0 && *r.IRepublican12 != 1:
		return "i_republican_2012 not in {0, 1}"
	case *r.IRepublican16 != 0 && *r.IRepublican16 != 1:
		return "i_republican_2016 not in {0, 1}"
	}
	return ""
}

func (r *rawRecord) toRecord() Record {
	return Record{
		State:          r.State,
		County:         r.County,
		FIPS:           *r.FIPS,
		Population:     *r.Population,
		TotalVotes2012: *r.TotalVotes2012,
		RepVotes2012:   *r.RepVotes2012,
		IRepublican12:  *r.IRepublican12,
		IRepublican16:  *r.IRepublican16,
	}
}

// RepShare2012 is the 2012 Republican share of the total county vote, the
// regression target.
func (r Record) RepShare2012() float64 {
	return r.RepVotes2012 / r.TotalVotes2012
}

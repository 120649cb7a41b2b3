package dataset

import (
	"fmt"

	"github.com/voteworks/electnet/pkg/errors"
)

// Role says how a column participates in modeling.
type Role string

const (
	RoleFeature  Role = "feature"
	RoleLabel    Role = "label"
	RoleID       Role = "id"
	RoleExcluded Role = "excluded"
)

// Kind is the column's value type.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
)

// Field describes one column: its name, its modeling role, and its kind.
type Field struct {
	Name string
	Role Role
	Kind Kind
}

// Schema is an ordered, validated list of column descriptions. It replaces
// runtime formula resolution with a structure that is checked once up front.
type Schema struct {
	Fields []Field
}

// Column names of the election table, including the derived vote-share
// column added after loading.
const (
	ColState        = "state"
	ColCounty       = "county"
	ColFIPS         = "fips"
	ColPopulation   = "population"
	ColTotalVotes   = "total_votes_2012"
	ColRepVotes     = "rep_votes_2012"
	ColRepShare     = "rep_share_2012"
	ColRepublican12 = "i_republican_2012"
	ColRepublican16 = "i_republican_2016"
)

// NewSchema validates the field list: names must be unique and non-empty,
// roles and kinds must be known, and a label must be numeric (binary
// indicator) or the vote share.
func NewSchema(fields []Field) (*Schema, error) {
	if len(fields) == 0 {
		return nil, errors.NewValueError("NewSchema", "empty field list")
	}

	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return nil, errors.NewValueError("NewSchema", "field with empty name")
		}
		if seen[f.Name] {
			return nil, errors.NewValueError("NewSchema",
				fmt.Sprintf("duplicate field %q", f.Name))
		}
		seen[f.Name] = true

		switch f.Role {
		case RoleFeature, RoleLabel, RoleID, RoleExcluded:
		default:
			return nil, errors.NewValueError("NewSchema",
				fmt.Sprintf("field %q has unknown role %q", f.Name, f.Role))
		}
		switch f.Kind {
		case KindNumeric, KindCategorical:
		default:
			return nil, errors.NewValueError("NewSchema",
				fmt.Sprintf("field %q has unknown kind %q", f.Name, f.Kind))
		}
		if f.Role == RoleLabel && f.Kind != KindNumeric {
			return nil, errors.NewValueError("NewSchema",
				fmt.Sprintf("label %q must be numeric", f.Name))
		}
	}
	return &Schema{Fields: fields}, nil
}

// RegressionSchema models the 2012 Republican vote share from population,
// turnout, and geography. Both geographic columns are categorical features;
// county levels unseen during fitting map to the encoder's placeholder.
// Identifier and label-adjacent columns are kept out of the feature set.
func RegressionSchema() *Schema {
	s, err := NewSchema([]Field{
		{Name: ColFIPS, Role: RoleID, Kind: KindNumeric},
		{Name: ColState, Role: RoleFeature, Kind: KindCategorical},
		{Name: ColCounty, Role: RoleFeature, Kind: KindCategorical},
		{Name: ColPopulation, Role: RoleFeature, Kind: KindNumeric},
		{Name: ColTotalVotes, Role: RoleFeature, Kind: KindNumeric},
		{Name: ColRepShare, Role: RoleLabel, Kind: KindNumeric},
		{Name: ColRepublican12, Role: RoleExcluded, Kind: KindNumeric},
		{Name: ColRepublican16, Role: RoleExcluded, Kind: KindNumeric},
	})
	if err != nil {
		panic(err) // static schema, validated at test time
	}
	return s
}

// ClassificationSchema models the 2016 majority indicator from the 2012
// results and county characteristics.
func ClassificationSchema() *Schema {
	s, err := NewSchema([]Field{
		{Name: ColFIPS, Role: RoleID, Kind: KindNumeric},
		{Name: ColState, Role: RoleFeature, Kind: KindCategorical},
		{Name: ColCounty, Role: RoleFeature, Kind: KindCategorical},
		{Name: ColPopulation, Role: RoleFeature, Kind: KindNumeric},
		{Name: ColTotalVotes, Role: RoleFeature, Kind: KindNumeric},
		{Name: ColRepShare, Role: RoleFeature, Kind: KindNumeric},
		{Name: ColRepublican12, Role: RoleFeature, Kind: KindNumeric},
		{Name: ColRepublican16, Role: RoleLabel, Kind: KindNumeric},
	})
	if err != nil {
		panic(err)
	}
	return s
}

// Features returns the fields with the feature role, in schema order.
func (s *Schema) Features() []Field {
	var out []Field
	for _, f := range s.Fields {
		if f.Role == RoleFeature {
			out = append(out, f)
		}
	}
	return out
}

// Label returns the single label field.
func (s *Schema) Label() (Field, error) {
	var label *Field
	for i, f := range s.Fields {
		if f.Role == RoleLabel {
			if label != nil {
				return Field{}, errors.NewValueError("Schema.Label", "multiple label fields")
			}
			label = &s.Fields[i]
		}
	}
	if label == nil {
		return Field{}, errors.NewValueError("Schema.Label", "no label field")
	}
	return *label, nil
}

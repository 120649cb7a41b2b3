package dataset

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/voteworks/electnet/pkg/errors"
)

// Table is an immutable column store over cleaned records. Stage
// transitions derive new tables instead of mutating; the column slices are
// shared, so callers must treat returned slices as read-only.
type Table struct {
	n           int
	numeric     map[string][]float64
	categorical map[string][]string
}

// NewTable builds a table from records, including the derived
// rep_share_2012 column.
func NewTable(records []Record) (*Table, error) {
	if len(records) == 0 {
		return nil, errors.NewModelError("NewTable", "empty data", errors.ErrEmptyData)
	}

	n := len(records)
	t := &Table{
		n: n,
		numeric: map[string][]float64{
			ColFIPS:         make([]float64, n),
			ColPopulation:   make([]float64, n),
			ColTotalVotes:   make([]float64, n),
			ColRepVotes:     make([]float64, n),
			ColRepShare:     make([]float64, n),
			ColRepublican12: make([]float64, n),
			ColRepublican16: make([]float64, n),
		},
		categorical: map[string][]string{
			ColState:  make([]string, n),
			ColCounty: make([]string, n),
		},
	}

	for i, r := range records {
		t.numeric[ColFIPS][i] = float64(r.FIPS)
		t.numeric[ColPopulation][i] = r.Population
		t.numeric[ColTotalVotes][i] = r.TotalVotes2012
		t.numeric[ColRepVotes][i] = r.RepVotes2012
		t.numeric[ColRepShare][i] = r.RepShare2012()
		t.numeric[ColRepublican12][i] = float64(r.IRepublican12)
		t.numeric[ColRepublican16][i] = float64(r.IRepublican16)
		t.categorical[ColState][i] = r.State
		t.categorical[ColCounty][i] = r.County
	}
	return t, nil
}

// NumRows returns the row count.
func (t *Table) NumRows() int {
	return t.n
}

// Numeric returns a numeric column by name.
func (t *Table) Numeric(name string) ([]float64, error) {
	col, ok := t.numeric[name]
	if !ok {
		return nil, errors.NewValueError("Table.Numeric",
			fmt.Sprintf("no numeric column %q", name))
	}
	return col, nil
}

// Categorical returns a categorical column by name.
func (t *Table) Categorical(name string) ([]string, error) {
	col, ok := t.categorical[name]
	if !ok {
		return nil, errors.NewValueError("Table.Categorical",
			fmt.Sprintf("no categorical column %q", name))
	}
	return col, nil
}

// WithNumeric derives a new table with an added or replaced numeric column.
// The receiver is left untouched.
func (t *Table) WithNumeric(name string, values []float64) (*Table, error) {
	if len(values) != t.n {
		return nil, errors.NewDimensionError("Table.WithNumeric", t.n, len(values), 0)
	}

	out := t.clone()
	col := make([]float64, t.n)
	copy(col, values)
	out.numeric[name] = col
	return out, nil
}

// Select derives a new table containing only the given rows, in order.
func (t *Table) Select(indices []int) (*Table, error) {
	if len(indices) == 0 {
		return nil, errors.NewModelError("Table.Select", "empty selection", errors.ErrEmptyData)
	}
	for _, idx := range indices {
		if idx < 0 || idx >= t.n {
			return nil, errors.NewValueError("Table.Select",
				fmt.Sprintf("row index %d out of range [0, %d)", idx, t.n))
		}
	}

	out := &Table{
		n:           len(indices),
		numeric:     make(map[string][]float64, len(t.numeric)),
		categorical: make(map[string][]string, len(t.categorical)),
	}
	for name, col := range t.numeric {
		sub := make([]float64, len(indices))
		for i, idx := range indices {
			sub[i] = col[idx]
		}
		out.numeric[name] = sub
	}
	for name, col := range t.categorical {
		sub := make([]string, len(indices))
		for i, idx := range indices {
			sub[i] = col[idx]
		}
		out.categorical[name] = sub
	}
	return out, nil
}

// Matrix assembles the named numeric columns into an n x len(cols) matrix.
func (t *Table) Matrix(cols ...string) (*mat.Dense, error) {
	if len(cols) == 0 {
		return nil, errors.NewValueError("Table.Matrix", "no columns requested")
	}

	X := mat.NewDense(t.n, len(cols), nil)
	for j, name := range cols {
		col, err := t.Numeric(name)
		if err != nil {
			return nil, err
		}
		for i, v := range col {
			X.Set(i, j, v)
		}
	}
	return X, nil
}

// Vector returns a numeric column as a *mat.VecDense copy.
func (t *Table) Vector(name string) (*mat.VecDense, error) {
	col, err := t.Numeric(name)
	if err != nil {
		return nil, err
	}
	out := mat.NewVecDense(t.n, nil)
	for i, v := range col {
		out.SetVec(i, v)
	}
	return out, nil
}

func (t *Table) clone() *Table {
	out := &Table{
		n:           t.n,
		numeric:     make(map[string][]float64, len(t.numeric)),
		categorical: make(map[string][]string, len(t.categorical)),
	}
	for name, col := range t.numeric {
		out.numeric[name] = col
	}
	for name, col := range t.categorical {
		out.categorical[name] = col
	}
	return out
}

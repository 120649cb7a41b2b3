package report

import (
	"gonum.org/v1/gonum/mat"

	"github.com/voteworks/electnet/dataset"
	"github.com/voteworks/electnet/pkg/errors"
	"github.com/voteworks/electnet/preprocessing"
)

// FeatureBuilder turns a schema's feature columns into a design matrix.
// Categorical columns are one-hot encoded with encoders fitted once on the
// training table, so categories seen only at evaluation time fall into the
// placeholder column instead of failing. Standardization is not done here:
// the grid search scales per fold to keep fold statistics leak-free.
type FeatureBuilder struct {
	schema   *dataset.Schema
	encoders map[string]*preprocessing.OneHotEncoder
	names    []string
	fitted   bool
}

// NewFeatureBuilder creates a builder for the schema's feature columns.
func NewFeatureBuilder(schema *dataset.Schema) *FeatureBuilder {
	return &FeatureBuilder{
		schema:   schema,
		encoders: make(map[string]*preprocessing.OneHotEncoder),
	}
}

// Fit learns the categorical levels from the training table.
func (b *FeatureBuilder) Fit(t *dataset.Table) error {
	b.names = b.names[:0]
	for _, f := range b.schema.Features() {
		switch f.Kind {
		case dataset.KindNumeric:
			b.names = append(b.names, f.Name)
		case dataset.KindCategorical:
			col, err := t.Categorical(f.Name)
			if err != nil {
				return err
			}
			enc := preprocessing.NewOneHotEncoder()
			if err := enc.Fit(col); err != nil {
				return err
			}
			b.encoders[f.Name] = enc
			b.names = append(b.names, enc.ColumnNames(f.Name)...)
		}
	}
	b.fitted = true
	return nil
}

// Matrix assembles the design matrix for t using the fitted encoders.
func (b *FeatureBuilder) Matrix(t *dataset.Table) (*mat.Dense, error) {
	if !b.fitted {
		return nil, errors.NewNotFittedError("FeatureBuilder", "Matrix")
	}

	X := mat.NewDense(t.NumRows(), len(b.names), nil)
	j := 0
	for _, f := range b.schema.Features() {
		switch f.Kind {
		case dataset.KindNumeric:
			col, err := t.Numeric(f.Name)
			if err != nil {
				return nil, err
			}
			for i, v := range col {
				X.Set(i, j, v)
			}
			j++
		case dataset.KindCategorical:
			col, err := t.Categorical(f.Name)
			if err != nil {
				return nil, err
			}
			encoded, err := b.encoders[f.Name].Transform(col)
			if err != nil {
				return nil, err
			}
			_, w := encoded.Dims()
			for i := 0; i < t.NumRows(); i++ {
				for k := 0; k < w; k++ {
					X.Set(i, j+k, encoded.At(i, k))
				}
			}
			j += w
		}
	}
	return X, nil
}

// Label returns the schema's label column from t.
func (b *FeatureBuilder) Label(t *dataset.Table) (*mat.VecDense, error) {
	label, err := b.schema.Label()
	if err != nil {
		return nil, err
	}
	return t.Vector(label.Name)
}

// Names returns the design matrix column names in order.
func (b *FeatureBuilder) Names() []string {
	out := make([]string, len(b.names))
	copy(out, b.names)
	return out
}

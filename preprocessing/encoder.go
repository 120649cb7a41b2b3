package preprocessing

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/voteworks/electnet/core/model"
	"github.com/voteworks/electnet/pkg/errors"
)

// UnseenLevel is the placeholder level reserved for categories that appear
// only after fitting. County and state columns hit this during
// cross-validation when a fold holds out every row of some county.
const UnseenLevel = "__unseen__"

// OneHotEncoder expands a categorical column into indicator columns, one per
// level seen at Fit time plus one placeholder column for unseen levels.
// Mapping unknown categories to the placeholder keeps prediction total
// instead of failing on novel values.
type OneHotEncoder struct {
	model.BaseEstimator

	levels []string
	index  map[string]int
}

// NewOneHotEncoder creates an unfitted OneHotEncoder.
func NewOneHotEncoder() *OneHotEncoder {
	return &OneHotEncoder{}
}

// Fit records the distinct levels of values, sorted for a deterministic
// column order.
func (e *OneHotEncoder) Fit(values []string) error {
	if len(values) == 0 {
		return errors.NewModelError("OneHotEncoder.Fit", "empty data", errors.ErrEmptyData)
	}

	seen := make(map[string]bool)
	for _, v := range values {
		if v == UnseenLevel {
			return errors.NewValueError("OneHotEncoder.Fit",
				fmt.Sprintf("input contains the reserved level %q", UnseenLevel))
		}
		seen[v] = true
	}

	e.levels = make([]string, 0, len(seen))
	for v := range seen {
		e.levels = append(e.levels, v)
	}
	sort.Strings(e.levels)

	e.index = make(map[string]int, len(e.levels))
	for i, v := range e.levels {
		e.index[v] = i
	}

	e.SetFitted()
	return nil
}

// Transform returns an n x Width() indicator matrix. Values never seen at
// Fit time light up the trailing placeholder column.
func (e *OneHotEncoder) Transform(values []string) (*mat.Dense, error) {
	if !e.IsFitted() {
		return nil, errors.NewNotFittedError("OneHotEncoder", "Transform")
	}
	if len(values) == 0 {
		return nil, errors.NewModelError("OneHotEncoder.Transform", "empty data", errors.ErrEmptyData)
	}

	result := mat.NewDense(len(values), e.Width(), nil)
	for i, v := range values {
		col, ok := e.index[v]
		if !ok {
			col = len(e.levels) // placeholder column
		}
		result.Set(i, col, 1.0)
	}

	return result, nil
}

// FitTransform fits on values and transforms them in one call.
func (e *OneHotEncoder) FitTransform(values []string) (*mat.Dense, error) {
	if err := e.Fit(values); err != nil {
		return nil, err
	}
	return e.Transform(values)
}

// Width returns the number of output columns: one per fitted level plus the
// placeholder.
func (e *OneHotEncoder) Width() int {
	return len(e.levels) + 1
}

// Levels returns the fitted levels in column order, excluding the
// placeholder.
func (e *OneHotEncoder) Levels() []string {
	levels := make([]string, len(e.levels))
	copy(levels, e.levels)
	return levels
}

// ColumnNames returns a name per output column, prefixed with the feature
// name, matching the layout produced by Transform.
func (e *OneHotEncoder) ColumnNames(feature string) []string {
	names := make([]string, 0, e.Width())
	for _, level := range e.levels {
		names = append(names, feature+"_"+level)
	}
	names = append(names, feature+"_"+UnseenLevel)
	return names
}

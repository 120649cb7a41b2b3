package modelselection

import (
	"math"

	"github.com/voteworks/electnet/pkg/errors"
)

// Candidate is one point of the hyperparameter grid.
type Candidate struct {
	Penalty float64
	Mixture float64
}

// ParamGrid enumerates the Cartesian product of penalty and mixture values.
// Candidates come out in a fixed order: mixtures in grid order, penalties
// varying fastest. Ties during ranking are broken by this order.
type ParamGrid struct {
	Penalties []float64
	Mixtures  []float64
}

// NewParamGrid builds a grid from explicit penalty and mixture values.
func NewParamGrid(penalties, mixtures []float64) (*ParamGrid, error) {
	if len(penalties) == 0 {
		return nil, errors.NewValueError("NewParamGrid", "empty penalty grid")
	}
	if len(mixtures) == 0 {
		return nil, errors.NewValueError("NewParamGrid", "empty mixture grid")
	}
	for _, p := range penalties {
		if p < 0 || math.IsNaN(p) {
			return nil, errors.NewValueError("NewParamGrid", "penalty must be non-negative")
		}
	}
	for _, m := range mixtures {
		if m < 0 || m > 1 || math.IsNaN(m) {
			return nil, errors.NewValueError("NewParamGrid", "mixture must be in [0, 1]")
		}
	}
	return &ParamGrid{Penalties: penalties, Mixtures: mixtures}, nil
}

// Size returns the number of candidates in the grid.
func (g *ParamGrid) Size() int {
	return len(g.Penalties) * len(g.Mixtures)
}

// Candidates materializes the full grid in enumeration order.
func (g *ParamGrid) Candidates() []Candidate {
	out := make([]Candidate, 0, g.Size())
	for _, m := range g.Mixtures {
		for _, p := range g.Penalties {
			out = append(out, Candidate{Penalty: p, Mixture: m})
		}
	}
	return out
}

// LogSpace returns count values spaced evenly on a log10 scale between min
// and max inclusive. The endpoints are set exactly rather than recomputed
// through the exponent, so min and max survive round-trips.
func LogSpace(min, max float64, count int) ([]float64, error) {
	if count < 2 {
		return nil, errors.NewValueError("LogSpace", "count must be at least 2")
	}
	if min <= 0 || max <= 0 {
		return nil, errors.NewValueError("LogSpace", "bounds must be positive")
	}
	if min >= max {
		return nil, errors.NewValueError("LogSpace", "min must be less than max")
	}

	lo, hi := math.Log10(min), math.Log10(max)
	step := (hi - lo) / float64(count-1)
	out := make([]float64, count)
	for i := range out {
		out[i] = math.Pow(10, lo+float64(i)*step)
	}
	out[0] = min
	out[count-1] = max
	return out, nil
}

// LinSpaceStep returns values from min to max inclusive at the given step.
// Values are computed as min + i*step to avoid accumulating float error,
// and max is appended when the last step lands within tolerance of it.
func LinSpaceStep(min, max, step float64) ([]float64, error) {
	if step <= 0 {
		return nil, errors.NewValueError("LinSpaceStep", "step must be positive")
	}
	if min > max {
		return nil, errors.NewValueError("LinSpaceStep", "min must not exceed max")
	}

	const tol = 1e-9
	var out []float64
	for i := 0; ; i++ {
		v := min + float64(i)*step
		if v > max+tol {
			break
		}
		if v > max {
			v = max
		}
		out = append(out, v)
	}
	if out[len(out)-1] < max-tol {
		out = append(out, max)
	}
	return out, nil
}

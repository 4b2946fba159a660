package match

import (
	"fmt"
	"sort"
)

// Weights assigns each scored dimension its share of the overall result.
// A valid table covers exactly the nine weighted dimensions and sums to 100.
// The gender dimension is intentionally absent: it is enforced by the hard
// filter, not averaged in.
type Weights map[Dimension]int

// weightedDimensions is the required key set for a weight table.
var weightedDimensions = []Dimension{
	DimBudget, DimLocation, DimCleanliness, DimSchedule, DimSmoking,
	DimPets, DimDiet, DimHobbies, DimTraits,
}

// DefaultWeights returns the reference weight table. Callers may override it
// per invocation; the true production weighting is configuration, not code.
func DefaultWeights() Weights {
	return Weights{
		DimBudget:      20,
		DimLocation:    15,
		DimCleanliness: 15,
		DimSchedule:    10,
		DimSmoking:     10,
		DimPets:        10,
		DimDiet:        5,
		DimHobbies:     10,
		DimTraits:      5,
	}
}

// Validate checks the table covers every required dimension, nothing else,
// no negative entries, and sums to exactly 100.
func (w Weights) Validate() error {
	sum := 0
	for _, dim := range weightedDimensions {
		v, ok := w[dim]
		if !ok {
			return &ConfigurationError{Reason: fmt.Sprintf("weight table missing dimension %q", dim)}
		}
		if v < 0 {
			return &ConfigurationError{Reason: fmt.Sprintf("negative weight for dimension %q", dim)}
		}
		sum += v
	}
	if len(w) != len(weightedDimensions) {
		for dim := range w {
			if _, ok := scorers[dim]; !ok || dim == DimGender {
				return &ConfigurationError{Reason: fmt.Sprintf("unknown dimension %q in weight table", dim)}
			}
		}
	}
	if sum != 100 {
		return &ConfigurationError{Reason: fmt.Sprintf("weights sum to %d, want 100", sum)}
	}
	return nil
}

// aggregate combines the per-dimension scores into a single 0-100 value,
// renormalizing by the applicable weight so that dimensions neither side
// cares about do not drag the average down. The bool is false in the
// degenerate case where no weighted dimension applied.
func (w Weights) aggregate(breakdown map[Dimension]DimensionScore) (int, bool) {
	sum, weightSum := 0, 0
	// Iterate in fixed order so any future floating-point variant stays
	// deterministic as well.
	dims := make([]Dimension, 0, len(w))
	for dim := range w {
		dims = append(dims, dim)
	}
	sort.Slice(dims, func(i, j int) bool { return dims[i] < dims[j] })
	for _, dim := range dims {
		ds, ok := breakdown[dim]
		if !ok || !ds.Applicable {
			continue
		}
		sum += w[dim] * ds.Score
		weightSum += w[dim]
	}
	if weightSum == 0 {
		return 0, false
	}
	return roundRatio(sum, weightSum*100), true
}

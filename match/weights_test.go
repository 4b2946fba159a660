package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWeightsAreValid(t *testing.T) {
	assert.NoError(t, DefaultWeights().Validate())
}

func TestWeightsValidate(t *testing.T) {
	t.Run("sum below 100", func(t *testing.T) {
		w := DefaultWeights()
		w[DimBudget] = 15 // 95 total
		var cerr *ConfigurationError
		require.ErrorAs(t, w.Validate(), &cerr)
	})
	t.Run("missing dimension", func(t *testing.T) {
		w := DefaultWeights()
		delete(w, DimPets)
		var cerr *ConfigurationError
		require.ErrorAs(t, w.Validate(), &cerr)
	})
	t.Run("unknown dimension", func(t *testing.T) {
		w := DefaultWeights()
		w[Dimension("astrology")] = 0
		var cerr *ConfigurationError
		require.ErrorAs(t, w.Validate(), &cerr)
	})
	t.Run("gender is not weighable", func(t *testing.T) {
		w := DefaultWeights()
		w[DimGender] = 0
		var cerr *ConfigurationError
		require.ErrorAs(t, w.Validate(), &cerr)
	})
	t.Run("negative weight", func(t *testing.T) {
		w := DefaultWeights()
		w[DimBudget] = -5
		w[DimLocation] = 40
		var cerr *ConfigurationError
		require.ErrorAs(t, w.Validate(), &cerr)
	})
}

func TestAggregateRenormalizes(t *testing.T) {
	w := DefaultWeights()
	breakdown := map[Dimension]DimensionScore{
		DimBudget:      {Score: 80, Applicable: true},
		DimLocation:    {Score: 100, Applicable: true},
		DimCleanliness: {Score: 60, Applicable: true},
		DimSchedule:    {Score: 100, Applicable: true},
		DimSmoking:     {Score: 100, Applicable: true},
		DimPets:        {Score: 80, Applicable: true},
		DimDiet:        {Applicable: false},
		DimHobbies:     {Applicable: false},
		DimTraits:      {Applicable: false},
		DimGender:      {Score: 100, Applicable: true},
	}

	// Applicable weight: 20+15+15+10+10+10 = 80.
	// Weighted sum: 1600+1500+900+1000+1000+800 = 6800 -> round(85) = 85.
	got, ok := w.aggregate(breakdown)
	require.True(t, ok)
	assert.Equal(t, 85, got)
}

func TestAggregateIgnoresGender(t *testing.T) {
	w := DefaultWeights()
	all100 := map[Dimension]DimensionScore{}
	for _, dim := range weightedDimensions {
		all100[dim] = DimensionScore{Score: 100, Applicable: true}
	}
	all100[DimGender] = DimensionScore{Score: 0, Applicable: true}

	got, ok := w.aggregate(all100)
	require.True(t, ok)
	assert.Equal(t, 100, got, "unweighted gender entry must not drag the average")
}

func TestAggregateNothingApplicable(t *testing.T) {
	breakdown := map[Dimension]DimensionScore{}
	for _, dim := range weightedDimensions {
		breakdown[dim] = DimensionScore{Applicable: false}
	}
	got, ok := DefaultWeights().aggregate(breakdown)
	assert.False(t, ok)
	assert.Equal(t, 0, got)
}

package match

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func window(t *testing.T, start, end string) *MoveInWindow {
	t.Helper()
	s, err := time.Parse("2006-01-02", start)
	if err != nil {
		t.Fatal(err)
	}
	w := MoveInWindow{Start: s}
	if end != "" {
		e, err := time.Parse("2006-01-02", end)
		if err != nil {
			t.Fatal(err)
		}
		w.End = &e
	}
	return &w
}

func TestHardFilterSelf(t *testing.T) {
	s := testProfile(t, "u1", nil)
	c := testProfile(t, "u1", func(p *Profile) { p.Budget = BudgetRange{Min: 9000, Max: 9999} })
	excluded, reason := hardFilter(s, c)
	assert.True(t, excluded)
	assert.Equal(t, ExcludedSelf, reason, "self-match wins over every other rule")
}

func TestHardFilterDateOverlap(t *testing.T) {
	s := testProfile(t, "s", func(p *Profile) { p.MoveIn = window(t, "2025-01-01", "2025-02-01") })

	t.Run("disjoint windows excluded", func(t *testing.T) {
		c := testProfile(t, "c", func(p *Profile) { p.MoveIn = window(t, "2025-06-01", "2025-07-01") })
		excluded, reason := hardFilter(s, c)
		assert.True(t, excluded)
		assert.Equal(t, ExcludedNoDateOverlap, reason)
	})
	t.Run("overlapping windows pass", func(t *testing.T) {
		c := testProfile(t, "c", func(p *Profile) { p.MoveIn = window(t, "2025-01-20", "2025-03-01") })
		excluded, _ := hardFilter(s, c)
		assert.False(t, excluded)
	})
	t.Run("open-ended window overlaps", func(t *testing.T) {
		c := testProfile(t, "c", func(p *Profile) { p.MoveIn = window(t, "2025-01-15", "") })
		excluded, _ := hardFilter(s, c)
		assert.False(t, excluded)
	})
	t.Run("missing window means flexible", func(t *testing.T) {
		c := testProfile(t, "c", nil)
		excluded, _ := hardFilter(s, c)
		assert.False(t, excluded)
	})
	t.Run("open-ended starting after seeker end excluded", func(t *testing.T) {
		c := testProfile(t, "c", func(p *Profile) { p.MoveIn = window(t, "2025-05-01", "") })
		excluded, reason := hardFilter(s, c)
		assert.True(t, excluded)
		assert.Equal(t, ExcludedNoDateOverlap, reason)
	})
}

func TestHardFilterGender(t *testing.T) {
	t.Run("mutually unsatisfiable excluded", func(t *testing.T) {
		s := testProfile(t, "s", func(p *Profile) {
			p.Gender = GenderMale
			p.AcceptedGenders = []Gender{GenderMale}
		})
		c := testProfile(t, "c", func(p *Profile) {
			p.Gender = GenderFemale
			p.AcceptedGenders = []Gender{GenderFemale}
		})
		excluded, reason := hardFilter(s, c)
		assert.True(t, excluded)
		assert.Equal(t, ExcludedGenderMismatch, reason)
	})
	t.Run("one-way miss passes to scoring", func(t *testing.T) {
		s := testProfile(t, "s", func(p *Profile) {
			p.Gender = GenderFemale
			p.AcceptedGenders = []Gender{GenderFemale}
		})
		c := testProfile(t, "c", func(p *Profile) { p.Gender = GenderMale })
		excluded, _ := hardFilter(s, c)
		assert.False(t, excluded)
	})
	t.Run("unspecified gender never excluded", func(t *testing.T) {
		s := testProfile(t, "s", func(p *Profile) { p.AcceptedGenders = []Gender{GenderNonBinary} })
		c := testProfile(t, "c", nil)
		excluded, _ := hardFilter(s, c)
		assert.False(t, excluded)
	})
}

func TestHardFilterBudget(t *testing.T) {
	s := testProfile(t, "s", func(p *Profile) { p.Budget = BudgetRange{Min: 500, Max: 1000} })

	t.Run("disjoint ranges excluded", func(t *testing.T) {
		c := testProfile(t, "c", func(p *Profile) { p.Budget = BudgetRange{Min: 1500, Max: 2000} })
		excluded, reason := hardFilter(s, c)
		assert.True(t, excluded)
		assert.Equal(t, ExcludedBudgetMismatch, reason)
	})
	t.Run("touching ranges pass", func(t *testing.T) {
		c := testProfile(t, "c", func(p *Profile) { p.Budget = BudgetRange{Min: 1000, Max: 1500} })
		excluded, _ := hardFilter(s, c)
		assert.False(t, excluded)
	})
}

func TestHardFilterOrder(t *testing.T) {
	// A candidate hitting both the date and budget rules reports the date
	// reason: rules short-circuit in documented order.
	s := testProfile(t, "s", func(p *Profile) {
		p.MoveIn = window(t, "2025-01-01", "2025-02-01")
		p.Budget = BudgetRange{Min: 500, Max: 1000}
	})
	c := testProfile(t, "c", func(p *Profile) {
		p.MoveIn = window(t, "2025-06-01", "2025-07-01")
		p.Budget = BudgetRange{Min: 5000, Max: 6000}
	})
	_, reason := hardFilter(s, c)
	assert.Equal(t, ExcludedNoDateOverlap, reason)
}

package match

import (
	"math"
	"strings"
)

// Dimension names one independent preference axis.
type Dimension string

const (
	DimBudget      Dimension = "budget"
	DimLocation    Dimension = "location"
	DimCleanliness Dimension = "cleanliness"
	DimSchedule    Dimension = "schedule"
	DimSmoking     Dimension = "smoking"
	DimPets        Dimension = "pets"
	DimDiet        Dimension = "diet"
	DimHobbies     Dimension = "hobbies"
	DimTraits      Dimension = "desired_traits"

	// DimGender is reported in the breakdown for display but carries no
	// weight: unsatisfiable preferences are handled by the hard filter.
	DimGender Dimension = "gender"
)

// DimensionScore is one scorer's verdict. Non-applicable dimensions are left
// out of the weighted average entirely rather than counted as zero.
type DimensionScore struct {
	Score      int  `json:"score"`
	Applicable bool `json:"applicable"`
}

// scorer is a pure function of two normalized profiles.
type scorer func(seeker, candidate *Profile) DimensionScore

var scorers = map[Dimension]scorer{
	DimBudget:      scoreBudget,
	DimLocation:    scoreLocation,
	DimCleanliness: scoreCleanliness,
	DimSchedule:    scoreSchedule,
	DimSmoking:     scoreSmoking,
	DimPets:        scorePets,
	DimDiet:        scoreDiet,
	DimHobbies:     scoreHobbies,
	DimTraits:      scoreTraits,
	DimGender:      scoreGender,
}

// scoreAll runs every dimension scorer over a normalized pair.
func scoreAll(seeker, candidate *Profile) map[Dimension]DimensionScore {
	out := make(map[Dimension]DimensionScore, len(scorers))
	for dim, fn := range scorers {
		out[dim] = fn(seeker, candidate)
	}
	return out
}

// roundRatio returns round-half-up(100 * num / den).
func roundRatio(num, den int) int {
	if den == 0 {
		return 0
	}
	return int(math.Floor(float64(num)/float64(den)*100 + 0.5))
}

// scoreBudget scores 100 * overlap width / union width of the two ranges.
// Ranges touching at a single point have zero overlap width and score 0.
// Budget is always present, so this dimension is always applicable.
func scoreBudget(s, c *Profile) DimensionScore {
	lo := s.Budget.Min
	if c.Budget.Min > lo {
		lo = c.Budget.Min
	}
	hi := s.Budget.Max
	if c.Budget.Max < hi {
		hi = c.Budget.Max
	}
	overlap := hi - lo
	if overlap < 0 {
		overlap = 0
	}

	unionLo := s.Budget.Min
	if c.Budget.Min < unionLo {
		unionLo = c.Budget.Min
	}
	unionHi := s.Budget.Max
	if c.Budget.Max > unionHi {
		unionHi = c.Budget.Max
	}
	union := unionHi - unionLo
	if union == 0 {
		// Both ranges are the same single point: a perfect agreement.
		return DimensionScore{Score: 100, Applicable: true}
	}
	return DimensionScore{Score: roundRatio(overlap, union), Applicable: true}
}

// scoreLocation gives 100 when any preferred locations intersect
// (case-insensitive exact or substring), 40 when neither side lists a
// preference, 0 otherwise.
func scoreLocation(s, c *Profile) DimensionScore {
	if len(s.Locations) == 0 && len(c.Locations) == 0 {
		return DimensionScore{Score: 40, Applicable: true}
	}
	for _, a := range s.Locations {
		for _, b := range c.Locations {
			if a == b || strings.Contains(a, b) || strings.Contains(b, a) {
				return DimensionScore{Score: 100, Applicable: true}
			}
		}
	}
	return DimensionScore{Score: 0, Applicable: true}
}

func scoreCleanliness(s, c *Profile) DimensionScore {
	dist := cleanlinessRank[s.Cleanliness] - cleanlinessRank[c.Cleanliness]
	if dist < 0 {
		dist = -dist
	}
	score := 100
	switch dist {
	case 1:
		score = 60
	case 2:
		score = 20
	}
	return DimensionScore{Score: score, Applicable: true}
}

// scoreSchedule: identical shifts 100; any remote worker softens location
// friction to 70; opposite shifts (day vs overnight) 30; adjacent shifts 60.
func scoreSchedule(s, c *Profile) DimensionScore {
	if s.WorkSchedule == c.WorkSchedule {
		return DimensionScore{Score: 100, Applicable: true}
	}
	if s.WorkLocation == WorkRemote || c.WorkLocation == WorkRemote {
		return DimensionScore{Score: 70, Applicable: true}
	}
	opposite := (s.WorkSchedule == ShiftDay && c.WorkSchedule == ShiftOvernight) ||
		(s.WorkSchedule == ShiftOvernight && c.WorkSchedule == ShiftDay)
	if opposite {
		return DimensionScore{Score: 30, Applicable: true}
	}
	return DimensionScore{Score: 60, Applicable: true}
}

func scoreSmoking(s, c *Profile) DimensionScore {
	if (c.Smokes && !s.ToleratesSmokers) || (s.Smokes && !c.ToleratesSmokers) {
		return DimensionScore{Score: 0, Applicable: true}
	}
	if !s.Smokes && !c.Smokes {
		return DimensionScore{Score: 100, Applicable: true}
	}
	return DimensionScore{Score: 70, Applicable: true}
}

// petPolicyForbids parses the free-text pet policy for a refusal.
func petPolicyForbids(policy string) bool {
	p := strings.ToLower(policy)
	return strings.Contains(p, "no pet") ||
		strings.Contains(p, "not allowed") ||
		strings.Contains(p, "no animals")
}

func scorePets(s, c *Profile) DimensionScore {
	if (s.HasPets && petPolicyForbids(c.PetPolicy)) || (c.HasPets && petPolicyForbids(s.PetPolicy)) {
		return DimensionScore{Score: 0, Applicable: true}
	}
	if s.HasPets == c.HasPets {
		return DimensionScore{Score: 100, Applicable: true}
	}
	return DimensionScore{Score: 80, Applicable: true}
}

// scoreDiet: exact match 100, differing-but-stated diets 50; "other" (which
// unspecified normalizes to) on either side makes the dimension inapplicable.
// A share-vs-separate cooking mismatch subtracts 30, floored at 0.
func scoreDiet(s, c *Profile) DimensionScore {
	if s.Diet == DietOther || c.Diet == DietOther {
		return DimensionScore{Applicable: false}
	}
	score := 50
	if s.Diet == c.Diet {
		score = 100
	}
	if s.Cooking != "" && c.Cooking != "" && s.Cooking != c.Cooking {
		score -= 30
	}
	if score < 0 {
		score = 0
	}
	return DimensionScore{Score: score, Applicable: true}
}

// jaccard returns (|intersection|, |union|) of two normalized tag sets.
func jaccard(a, b []string) (int, int) {
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}
	inter := 0
	union := len(a)
	for _, t := range b {
		if _, ok := set[t]; ok {
			inter++
		} else {
			union++
		}
	}
	return inter, union
}

func scoreHobbies(s, c *Profile) DimensionScore {
	if len(s.Hobbies) == 0 || len(c.Hobbies) == 0 {
		return DimensionScore{Applicable: false}
	}
	inter, union := jaccard(s.Hobbies, c.Hobbies)
	return DimensionScore{Score: roundRatio(inter, union), Applicable: true}
}

// scoreTraits compares the seeker's desired-roommate traits against the tags
// the candidate describes themselves with (their own traits plus hobbies).
func scoreTraits(s, c *Profile) DimensionScore {
	if len(s.DesiredTraits) == 0 {
		return DimensionScore{Applicable: false}
	}
	derived := normalizeTags(append(append([]string{}, c.DesiredTraits...), c.Hobbies...))
	inter, union := jaccard(s.DesiredTraits, derived)
	return DimensionScore{Score: roundRatio(inter, union), Applicable: true}
}

// scoreGender is informational only: applicable when the seeker restricts
// genders and the candidate states one. Mutual mismatches never reach here,
// the hard filter removes them first.
func scoreGender(s, c *Profile) DimensionScore {
	if len(s.AcceptedGenders) == 0 || c.Gender == "" {
		return DimensionScore{Applicable: false}
	}
	if s.acceptsGender(c.Gender) {
		return DimensionScore{Score: 100, Applicable: true}
	}
	return DimensionScore{Score: 0, Applicable: true}
}

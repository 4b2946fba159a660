package match

// ExclusionReason says why a candidate was disqualified before ranking.
type ExclusionReason string

const (
	ExcludedSelf             ExclusionReason = "SELF"
	ExcludedNoDateOverlap    ExclusionReason = "NO_DATE_OVERLAP"
	ExcludedGenderMismatch   ExclusionReason = "GENDER_MISMATCH"
	ExcludedBudgetMismatch   ExclusionReason = "BUDGET_MISMATCH"
	ExcludedNoApplicableDims ExclusionReason = "NO_APPLICABLE_DIMENSIONS"
)

// hardFilter applies the disqualifying rules in order, short-circuiting on the
// first hit. Both profiles must already be normalized. Exclusions are
// first-class outcomes, not errors.
func hardFilter(seeker, candidate *Profile) (bool, ExclusionReason) {
	if candidate.ID == seeker.ID {
		return true, ExcludedSelf
	}

	// Non-overlapping move-in windows. A missing window means flexible and
	// overlaps everything.
	if seeker.MoveIn != nil && candidate.MoveIn != nil && !seeker.MoveIn.overlaps(*candidate.MoveIn) {
		return true, ExcludedNoDateOverlap
	}

	// Gender preference must be mutually unsatisfiable to disqualify: a
	// one-way miss is left to scoring so it is not penalized twice.
	if !seeker.acceptsGender(candidate.Gender) && !candidate.acceptsGender(seeker.Gender) {
		return true, ExcludedGenderMismatch
	}

	// Strictly disjoint budget ranges. Ranges touching at a single point
	// survive the filter and score 0 on the budget dimension instead.
	if candidate.Budget.Min > seeker.Budget.Max || seeker.Budget.Min > candidate.Budget.Max {
		return true, ExcludedBudgetMismatch
	}

	return false, ""
}

package match

import "strings"

// Normalize turns a possibly-partial raw profile into a canonical one with
// every optional field resolved to its neutral default, so the scorers never
// have to branch on "field absent". Missing optional data is not an error;
// structurally invalid data is.
//
// Defaults: cleanliness somewhat-tidy, cleaning frequency weekly, diet other,
// housing type no-preference, work location hybrid, work schedule day, empty
// tag sets, empty gender preference = any. Tag sets and locations are
// trimmed, lower-cased and de-duplicated.
func Normalize(p Profile) (Profile, error) {
	if p.ID == "" {
		return Profile{}, &ValidationError{ProfileID: p.ID, Field: "id", Reason: "missing"}
	}
	if p.Age < 18 {
		return Profile{}, &ValidationError{ProfileID: p.ID, Field: "age", Reason: "must be at least 18"}
	}
	if p.Budget.Min < 0 || p.Budget.Max < 0 {
		return Profile{}, &ValidationError{ProfileID: p.ID, Field: "budget", Reason: "must not be negative"}
	}
	if p.Budget.Min > p.Budget.Max {
		return Profile{}, &ValidationError{ProfileID: p.ID, Field: "budget", Reason: "min greater than max"}
	}
	if p.MoveIn != nil && p.MoveIn.End != nil && p.MoveIn.Start.After(*p.MoveIn.End) {
		return Profile{}, &ValidationError{ProfileID: p.ID, Field: "move_in", Reason: "start after end"}
	}

	// Work on a copy; the caller's snapshot stays untouched.
	out := p
	out.Locations = normalizeTags(p.Locations)
	out.Hobbies = normalizeTags(p.Hobbies)
	out.DesiredTraits = normalizeTags(p.DesiredTraits)
	if p.MoveIn != nil {
		w := *p.MoveIn
		out.MoveIn = &w
	}
	if len(p.AcceptedGenders) > 0 {
		out.AcceptedGenders = append([]Gender(nil), p.AcceptedGenders...)
	} else {
		out.AcceptedGenders = nil // empty set means any
	}

	if out.Cleanliness == "" {
		out.Cleanliness = CleanSomewhatTidy
	}
	if out.CleaningFrequency == "" {
		out.CleaningFrequency = CleanWeekly
	}
	if out.Diet == "" {
		out.Diet = DietOther
	}
	if out.HousingType == "" {
		out.HousingType = HousingNoPreference
	}
	if out.WorkLocation == "" {
		out.WorkLocation = WorkHybrid
	}
	if out.WorkSchedule == "" {
		out.WorkSchedule = ShiftDay
	}
	return out, nil
}

// normalizeTags trims, lower-cases and de-duplicates a tag list, preserving
// first-seen order. Always returns a non-nil slice.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

package match

import "time"

// Gender is an optional self-description. The empty string means unspecified.
type Gender string

const (
	GenderFemale    Gender = "female"
	GenderMale      Gender = "male"
	GenderNonBinary Gender = "non-binary"
	GenderOther     Gender = "other"
)

// Cleanliness is an ordered enum, tidiest first.
type Cleanliness string

const (
	CleanVeryTidy     Cleanliness = "very-tidy"
	CleanSomewhatTidy Cleanliness = "somewhat-tidy"
	CleanMessy        Cleanliness = "doesnt-mind-mess"
)

// cleanlinessRank maps the ordered levels onto integers for distance scoring.
var cleanlinessRank = map[Cleanliness]int{
	CleanVeryTidy:     0,
	CleanSomewhatTidy: 1,
	CleanMessy:        2,
}

// CleaningFrequency is an ordered enum from most to least frequent.
type CleaningFrequency string

const (
	CleanDaily        CleaningFrequency = "daily"
	CleanFewTimesWeek CleaningFrequency = "few-times-a-week"
	CleanWeekly       CleaningFrequency = "weekly"
	CleanAsNeeded     CleaningFrequency = "as-needed"
)

type Diet string

const (
	DietVegetarian Diet = "vegetarian"
	DietVegan      Diet = "vegan"
	DietOmnivore   Diet = "omnivore"
	DietHalal      Diet = "halal"
	DietKosher     Diet = "kosher"
	DietOther      Diet = "other"
)

type CookingPreference string

const (
	CookingShare    CookingPreference = "share"
	CookingSeparate CookingPreference = "separate"
)

type WorkLocation string

const (
	WorkRemote WorkLocation = "remote"
	WorkOffice WorkLocation = "office"
	WorkHybrid WorkLocation = "hybrid"
)

type WorkSchedule string

const (
	ShiftDay       WorkSchedule = "day"
	ShiftEvening   WorkSchedule = "afternoon-evening"
	ShiftOvernight WorkSchedule = "overnight"
)

type HousingType string

const (
	HousingApartment    HousingType = "apartment"
	HousingHouse        HousingType = "house"
	HousingStudio       HousingType = "studio"
	HousingSharedRoom   HousingType = "shared-room"
	HousingPrivateRoom  HousingType = "private-room"
	HousingEntirePlace  HousingType = "entire-place"
	HousingNoPreference HousingType = "no-preference"
)

type LeaseTerm string

const (
	LeaseShort LeaseTerm = "short"
	LeaseLong  LeaseTerm = "long"
)

// BudgetRange is a monthly rent range in whole currency units.
type BudgetRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// MoveInWindow is the acceptable move-in period. A nil End means open-ended.
type MoveInWindow struct {
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end,omitempty"`
}

// overlaps reports whether two windows share at least one day.
// Open-ended windows overlap everything at or after their start.
func (w MoveInWindow) overlaps(o MoveInWindow) bool {
	if w.End != nil && o.Start.After(*w.End) {
		return false
	}
	if o.End != nil && w.Start.After(*o.End) {
		return false
	}
	return true
}

// Profile is one seeker's or candidate's preference snapshot. Raw profiles may
// leave optional fields at their zero values; Normalize resolves those to the
// documented neutral defaults before any scoring happens. The engine never
// mutates a Profile it is given.
type Profile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Age         int    `json:"age"`
	Occupation  string `json:"occupation"`

	// Preferred locations, free text. Empty means no location preference.
	Locations []string `json:"locations"`

	Budget      BudgetRange   `json:"budget"`
	MoveIn      *MoveInWindow `json:"move_in,omitempty"`
	HousingType HousingType   `json:"housing_type"`
	LivingSpace string        `json:"living_space"`

	Cleanliness       Cleanliness       `json:"cleanliness"`
	CleaningFrequency CleaningFrequency `json:"cleaning_frequency"`
	Smokes            bool              `json:"smokes"`
	ToleratesSmokers  bool              `json:"tolerates_smokers"`
	HasPets           bool              `json:"has_pets"`
	PetPolicy         string            `json:"pet_policy"`
	Diet              Diet              `json:"diet"`
	Cooking           CookingPreference `json:"cooking"`

	WorkLocation WorkLocation `json:"work_location"`
	WorkSchedule WorkSchedule `json:"work_schedule"`

	Hobbies       []string `json:"hobbies"`
	DesiredTraits []string `json:"desired_traits"`

	Gender Gender `json:"gender,omitempty"`
	// AcceptedGenders empty (or nil) means any.
	AcceptedGenders []Gender `json:"accepted_genders,omitempty"`

	StayDuration string    `json:"stay_duration"`
	LeaseTerm    LeaseTerm `json:"lease_term"`
}

// acceptsGender reports whether the profile's gender preference admits g.
// An empty preference set means "any"; an unspecified candidate gender is
// never rejected.
func (p *Profile) acceptsGender(g Gender) bool {
	if len(p.AcceptedGenders) == 0 || g == "" {
		return true
	}
	for _, a := range p.AcceptedGenders {
		if a == g {
			return true
		}
	}
	return false
}

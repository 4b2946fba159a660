package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"gitea.kood.tech/martasalum/roomie-match/backend/match"
)

// profileStore persists raw profile snapshots. The engine itself never
// touches the database; this layer assembles the seeker and candidate pool
// for it.
type profileStore struct {
	db *sql.DB
}

const profileColumns = `user_id, display_name, age, occupation, locations,
		budget_min, budget_max, move_in_start, move_in_end,
		housing_type, living_space, cleanliness, cleaning_frequency,
		smokes, tolerates_smokers, has_pets, pet_policy, diet, cooking,
		work_location, work_schedule, hobbies, desired_traits,
		gender, accepted_genders, stay_duration, lease_term`

// get loads one profile; the bool reports whether it exists and is complete.
func (s *profileStore) get(ctx context.Context, userID string) (match.Profile, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+`, is_complete FROM profiles WHERE user_id = $1`, userID)
	p, complete, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return match.Profile{}, false, nil
	}
	if err != nil {
		return match.Profile{}, false, err
	}
	return p, complete, nil
}

// candidates returns every complete profile except the caller's own and the
// ones the caller has dismissed. Dismissal filtering mirrors the matches
// endpoints so the policy stays consistent.
func (s *profileStore) candidates(ctx context.Context, userID string) ([]match.Profile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+profileColumns+`, is_complete
		FROM profiles p
		WHERE p.is_complete = TRUE
		  AND p.user_id <> $1
		  AND NOT EXISTS (
		      SELECT 1 FROM dismissed_matches d
		      WHERE d.user_id = $1 AND d.dismissed_user_id = p.user_id
		  )
		ORDER BY p.user_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pool []match.Profile
	for rows.Next() {
		p, _, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		pool = append(pool, p)
	}
	return pool, rows.Err()
}

func (s *profileStore) upsert(ctx context.Context, p match.Profile) error {
	return upsertProfile(ctx, s.db, p)
}

// execer lets the upsert run on either the pool or a seeder transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func upsertProfile(ctx context.Context, ex execer, p match.Profile) error {
	locations, err := json.Marshal(emptyIfNil(p.Locations))
	if err != nil {
		return err
	}
	hobbies, err := json.Marshal(emptyIfNil(p.Hobbies))
	if err != nil {
		return err
	}
	traits, err := json.Marshal(emptyIfNil(p.DesiredTraits))
	if err != nil {
		return err
	}
	genders, err := json.Marshal(p.AcceptedGenders)
	if err != nil {
		return err
	}
	if p.AcceptedGenders == nil {
		genders = []byte("[]")
	}

	var moveInStart, moveInEnd interface{}
	if p.MoveIn != nil {
		moveInStart = p.MoveIn.Start
		if p.MoveIn.End != nil {
			moveInEnd = *p.MoveIn.End
		}
	}

	_, err = ex.ExecContext(ctx, `
		INSERT INTO profiles (
			user_id, display_name, age, occupation, locations,
			budget_min, budget_max, move_in_start, move_in_end,
			housing_type, living_space, cleanliness, cleaning_frequency,
			smokes, tolerates_smokers, has_pets, pet_policy, diet, cooking,
			work_location, work_schedule, hobbies, desired_traits,
			gender, accepted_genders, stay_duration, lease_term,
			is_complete, updated_at
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,
			$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,NOW()
		)
		ON CONFLICT (user_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			age = EXCLUDED.age,
			occupation = EXCLUDED.occupation,
			locations = EXCLUDED.locations,
			budget_min = EXCLUDED.budget_min,
			budget_max = EXCLUDED.budget_max,
			move_in_start = EXCLUDED.move_in_start,
			move_in_end = EXCLUDED.move_in_end,
			housing_type = EXCLUDED.housing_type,
			living_space = EXCLUDED.living_space,
			cleanliness = EXCLUDED.cleanliness,
			cleaning_frequency = EXCLUDED.cleaning_frequency,
			smokes = EXCLUDED.smokes,
			tolerates_smokers = EXCLUDED.tolerates_smokers,
			has_pets = EXCLUDED.has_pets,
			pet_policy = EXCLUDED.pet_policy,
			diet = EXCLUDED.diet,
			cooking = EXCLUDED.cooking,
			work_location = EXCLUDED.work_location,
			work_schedule = EXCLUDED.work_schedule,
			hobbies = EXCLUDED.hobbies,
			desired_traits = EXCLUDED.desired_traits,
			gender = EXCLUDED.gender,
			accepted_genders = EXCLUDED.accepted_genders,
			stay_duration = EXCLUDED.stay_duration,
			lease_term = EXCLUDED.lease_term,
			is_complete = EXCLUDED.is_complete,
			updated_at = NOW()`,
		p.ID, p.DisplayName, p.Age, p.Occupation, locations,
		p.Budget.Min, p.Budget.Max, moveInStart, moveInEnd,
		string(p.HousingType), p.LivingSpace, string(p.Cleanliness), string(p.CleaningFrequency),
		p.Smokes, p.ToleratesSmokers, p.HasPets, p.PetPolicy, string(p.Diet), string(p.Cooking),
		string(p.WorkLocation), string(p.WorkSchedule), hobbies, traits,
		string(p.Gender), genders, p.StayDuration, string(p.LeaseTerm),
		isComplete(p),
	)
	return err
}

// dismiss records that userID never wants targetID in their matches again.
// Idempotent.
func (s *profileStore) dismiss(ctx context.Context, userID, targetID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO dismissed_matches (user_id, dismissed_user_id) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`, userID, targetID)
	return err
}

// candidateExists reports whether targetID has a complete profile.
func (s *profileStore) candidateExists(ctx context.Context, targetID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM users u
			JOIN profiles p ON p.user_id = u.id
			WHERE u.id = $1 AND p.is_complete = TRUE
		)`, targetID).Scan(&exists)
	return exists, err
}

// isComplete gates matching: a profile takes part in the pool once the fields
// the engine validates are filled in.
func isComplete(p match.Profile) bool {
	return p.DisplayName != "" && p.Age >= 18 && p.Budget.Max > 0
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProfile(row rowScanner) (match.Profile, bool, error) {
	var (
		p                          match.Profile
		locations, hobbies, traits []byte
		genders                    []byte
		moveInStart, moveInEnd     sql.NullTime
		housingType, cleanliness   string
		cleaningFreq, diet         string
		cooking, workLoc, workSch  string
		gender, leaseTerm          string
		complete                   bool
	)
	err := row.Scan(
		&p.ID, &p.DisplayName, &p.Age, &p.Occupation, &locations,
		&p.Budget.Min, &p.Budget.Max, &moveInStart, &moveInEnd,
		&housingType, &p.LivingSpace, &cleanliness, &cleaningFreq,
		&p.Smokes, &p.ToleratesSmokers, &p.HasPets, &p.PetPolicy, &diet, &cooking,
		&workLoc, &workSch, &hobbies, &traits,
		&gender, &genders, &p.StayDuration, &leaseTerm,
		&complete,
	)
	if err != nil {
		return match.Profile{}, false, err
	}

	p.HousingType = match.HousingType(housingType)
	p.Cleanliness = match.Cleanliness(cleanliness)
	p.CleaningFrequency = match.CleaningFrequency(cleaningFreq)
	p.Diet = match.Diet(diet)
	p.Cooking = match.CookingPreference(cooking)
	p.WorkLocation = match.WorkLocation(workLoc)
	p.WorkSchedule = match.WorkSchedule(workSch)
	p.Gender = match.Gender(gender)
	p.LeaseTerm = match.LeaseTerm(leaseTerm)

	if err := json.Unmarshal(locations, &p.Locations); err != nil {
		return match.Profile{}, false, fmt.Errorf("decode locations: %w", err)
	}
	if err := json.Unmarshal(hobbies, &p.Hobbies); err != nil {
		return match.Profile{}, false, fmt.Errorf("decode hobbies: %w", err)
	}
	if err := json.Unmarshal(traits, &p.DesiredTraits); err != nil {
		return match.Profile{}, false, fmt.Errorf("decode desired_traits: %w", err)
	}
	if err := json.Unmarshal(genders, &p.AcceptedGenders); err != nil {
		return match.Profile{}, false, fmt.Errorf("decode accepted_genders: %w", err)
	}

	if moveInStart.Valid {
		w := match.MoveInWindow{Start: moveInStart.Time}
		if moveInEnd.Valid {
			end := moveInEnd.Time
			w.End = &end
		}
		p.MoveIn = &w
	}
	return p, complete, nil
}

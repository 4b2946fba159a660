package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"gitea.kood.tech/martasalum/roomie-match/backend/match"
)

const dateLayout = "2006-01-02"

// profilePayload is the wire shape of a raw profile. Dates travel as
// YYYY-MM-DD strings; everything else maps onto the engine's Profile.
type profilePayload struct {
	DisplayName string   `json:"display_name"`
	Age         int      `json:"age"`
	Occupation  string   `json:"occupation"`
	Locations   []string `json:"locations"`

	BudgetMin   int    `json:"budget_min"`
	BudgetMax   int    `json:"budget_max"`
	MoveInStart string `json:"move_in_start,omitempty"`
	MoveInEnd   string `json:"move_in_end,omitempty"`
	HousingType string `json:"housing_type"`
	LivingSpace string `json:"living_space"`

	Cleanliness       string `json:"cleanliness"`
	CleaningFrequency string `json:"cleaning_frequency"`
	Smokes            bool   `json:"smokes"`
	ToleratesSmokers  bool   `json:"tolerates_smokers"`
	HasPets           bool   `json:"has_pets"`
	PetPolicy         string `json:"pet_policy"`
	Diet              string `json:"diet"`
	Cooking           string `json:"cooking"`

	WorkLocation string `json:"work_location"`
	WorkSchedule string `json:"work_schedule"`

	Hobbies       []string `json:"hobbies"`
	DesiredTraits []string `json:"desired_traits"`

	Gender          string   `json:"gender,omitempty"`
	AcceptedGenders []string `json:"accepted_genders,omitempty"`

	StayDuration string `json:"stay_duration"`
	LeaseTerm    string `json:"lease_term"`
}

// toProfile converts the payload into an engine profile for userID.
// Date parsing is the only failure mode; structural validation is the
// engine normalizer's job.
func (pp *profilePayload) toProfile(userID string) (match.Profile, error) {
	p := match.Profile{
		ID:                userID,
		DisplayName:       pp.DisplayName,
		Age:               pp.Age,
		Occupation:        pp.Occupation,
		Locations:         pp.Locations,
		Budget:            match.BudgetRange{Min: pp.BudgetMin, Max: pp.BudgetMax},
		HousingType:       match.HousingType(pp.HousingType),
		LivingSpace:       pp.LivingSpace,
		Cleanliness:       match.Cleanliness(pp.Cleanliness),
		CleaningFrequency: match.CleaningFrequency(pp.CleaningFrequency),
		Smokes:            pp.Smokes,
		ToleratesSmokers:  pp.ToleratesSmokers,
		HasPets:           pp.HasPets,
		PetPolicy:         pp.PetPolicy,
		Diet:              match.Diet(pp.Diet),
		Cooking:           match.CookingPreference(pp.Cooking),
		WorkLocation:      match.WorkLocation(pp.WorkLocation),
		WorkSchedule:      match.WorkSchedule(pp.WorkSchedule),
		Hobbies:           pp.Hobbies,
		DesiredTraits:     pp.DesiredTraits,
		Gender:            match.Gender(pp.Gender),
		StayDuration:      pp.StayDuration,
		LeaseTerm:         match.LeaseTerm(pp.LeaseTerm),
	}
	for _, g := range pp.AcceptedGenders {
		p.AcceptedGenders = append(p.AcceptedGenders, match.Gender(g))
	}

	if pp.MoveInStart != "" {
		start, err := time.Parse(dateLayout, pp.MoveInStart)
		if err != nil {
			return match.Profile{}, err
		}
		w := match.MoveInWindow{Start: start}
		if pp.MoveInEnd != "" {
			end, err := time.Parse(dateLayout, pp.MoveInEnd)
			if err != nil {
				return match.Profile{}, err
			}
			w.End = &end
		}
		p.MoveIn = &w
	} else if pp.MoveInEnd != "" {
		return match.Profile{}, errors.New("move_in_end without move_in_start")
	}
	return p, nil
}

func payloadFromProfile(p match.Profile) profilePayload {
	pp := profilePayload{
		DisplayName:       p.DisplayName,
		Age:               p.Age,
		Occupation:        p.Occupation,
		Locations:         p.Locations,
		BudgetMin:         p.Budget.Min,
		BudgetMax:         p.Budget.Max,
		HousingType:       string(p.HousingType),
		LivingSpace:       p.LivingSpace,
		Cleanliness:       string(p.Cleanliness),
		CleaningFrequency: string(p.CleaningFrequency),
		Smokes:            p.Smokes,
		ToleratesSmokers:  p.ToleratesSmokers,
		HasPets:           p.HasPets,
		PetPolicy:         p.PetPolicy,
		Diet:              string(p.Diet),
		Cooking:           string(p.Cooking),
		WorkLocation:      string(p.WorkLocation),
		WorkSchedule:      string(p.WorkSchedule),
		Hobbies:           p.Hobbies,
		DesiredTraits:     p.DesiredTraits,
		Gender:            string(p.Gender),
		StayDuration:      p.StayDuration,
		LeaseTerm:         string(p.LeaseTerm),
	}
	for _, g := range p.AcceptedGenders {
		pp.AcceptedGenders = append(pp.AcceptedGenders, string(g))
	}
	if p.MoveIn != nil {
		pp.MoveInStart = p.MoveIn.Start.Format(dateLayout)
		if p.MoveIn.End != nil {
			pp.MoveInEnd = p.MoveIn.End.Format(dateLayout)
		}
	}
	return pp
}

func (a *app) meHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := callerID(r)
		var email string
		if err := a.db.QueryRowContext(r.Context(),
			"SELECT email FROM users WHERE id = $1", userID).Scan(&email); err != nil {
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}
		_, complete, err := a.store.get(r.Context(), userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"id":               userID,
			"email":            email,
			"profile_complete": complete,
		})
	}
}

func (a *app) getMyProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _, err := a.store.get(r.Context(), callerID(r))
		if err != nil {
			a.logger.Error("loading profile", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}
		if p.ID == "" {
			writeError(w, http.StatusNotFound, "no_profile")
			return
		}
		writeJSON(w, http.StatusOK, payloadFromProfile(p))
	}
}

func (a *app) putMyProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pp profilePayload
		if err := json.NewDecoder(r.Body).Decode(&pp); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		p, err := pp.toProfile(callerID(r))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date")
			return
		}

		// Run the engine's structural validation up front so a broken
		// budget or window is rejected at write time, not match time.
		if _, err := match.Normalize(p); err != nil {
			var verr *match.ValidationError
			if errors.As(err, &verr) {
				writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
					"error": "invalid_profile",
					"field": verr.Field,
				})
				return
			}
			writeError(w, http.StatusInternalServerError, "validation_error")
			return
		}

		if err := a.store.upsert(r.Context(), p); err != nil {
			a.logger.Error("saving profile", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}

		// The caller's cached match list is stale now.
		if a.cache != nil {
			if err := a.cache.invalidate(r.Context(), p.ID); err != nil {
				a.logger.Warn("invalidating match cache", zap.Error(err))
			}
		}
		writeJSON(w, http.StatusOK, map[string]bool{"saved": true, "complete": isComplete(p)})
	}
}

func (a *app) userSummaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		targetID := mux.Vars(r)["id"]
		p, complete, err := a.store.get(r.Context(), targetID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}
		if p.ID == "" || !complete {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"id":           p.ID,
			"display_name": p.DisplayName,
			"age":          p.Age,
			"occupation":   p.Occupation,
		})
	}
}

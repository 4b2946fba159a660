package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"gitea.kood.tech/martasalum/roomie-match/backend/match"
)

// detailedMatch is one ranked candidate decorated with display info.
type detailedMatch struct {
	CandidateID string                                   `json:"candidate_id"`
	DisplayName string                                   `json:"display_name"`
	Age         int                                      `json:"age,omitempty"`
	Occupation  string                                   `json:"occupation,omitempty"`
	Score       int                                      `json:"score"`
	Rank        int                                      `json:"rank"`
	Breakdown   map[match.Dimension]match.DimensionScore `json:"breakdown"`
}

// matchesHandler serves GET /matches and GET /matches/detailed. Both gate on
// a complete profile, share one cached engine outcome per user, and accept
// ?limit= and ?include_excluded= query params.
func (a *app) matchesHandler(detailed bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := callerID(r)

		seeker, complete, err := a.store.get(r.Context(), userID)
		if err != nil {
			a.logger.Error("loading seeker profile", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}
		if seeker.ID == "" || !complete {
			writeError(w, http.StatusForbidden, "incomplete_profile")
			return
		}

		limit := a.cfg.Match.TopN
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				writeError(w, http.StatusBadRequest, "invalid_limit")
				return
			}
			limit = n
		}
		includeExcluded := r.URL.Query().Get("include_excluded") == "true"

		outcome, err := a.computeMatches(r, userID, seeker)
		if err != nil {
			var verr *match.ValidationError
			if errors.As(err, &verr) {
				// The stored profile went structurally bad; the
				// write path should have caught it.
				writeError(w, http.StatusUnprocessableEntity, "invalid_profile")
				return
			}
			var cerr *match.ConfigurationError
			if errors.As(err, &cerr) {
				a.logger.Error("match configuration rejected", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "match_config_error")
				return
			}
			a.logger.Error("computing matches", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "match_error")
			return
		}

		results := outcome.Results
		if limit > 0 && len(results) > limit {
			results = results[:limit]
		}

		resp := map[string]interface{}{}
		if detailed {
			resp["matches"] = a.decorateResults(r, results)
		} else {
			ids := make([]string, len(results))
			for i, res := range results {
				ids[i] = res.CandidateID
			}
			resp["matches"] = ids
		}
		if includeExcluded {
			resp["excluded"] = outcome.Excluded
		}
		if len(outcome.Failed) > 0 {
			// Partial result: some candidates failed validation.
			failed := make([]string, len(outcome.Failed))
			for i, f := range outcome.Failed {
				failed[i] = f.CandidateID
			}
			resp["failed"] = failed
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// computeMatches returns the cached engine outcome for userID, running the
// full pipeline on a miss. The cached value is always the untruncated
// outcome with exclusions, so one entry serves every request variant.
func (a *app) computeMatches(r *http.Request, userID string, seeker match.Profile) (*match.Outcome, error) {
	ctx := r.Context()

	if a.cache != nil {
		cached, err := a.cache.get(ctx, userID)
		if err != nil {
			a.logger.Warn("match cache read", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	pool, err := a.store.candidates(ctx, userID)
	if err != nil {
		return nil, err
	}

	outcome, err := match.Match(seeker, pool, match.Options{
		Weights:         a.weights,
		IncludeExcluded: true,
	})
	if err != nil {
		return nil, err
	}

	if a.cache != nil {
		if err := a.cache.set(ctx, userID, outcome); err != nil {
			a.logger.Warn("match cache write", zap.Error(err))
		}
	}
	return outcome, nil
}

// decorateResults attaches candidate display info, batched through the
// summary dataloader so a page of results costs one query.
func (a *app) decorateResults(r *http.Request, results []match.MatchResult) []detailedMatch {
	ctx := r.Context()
	loader := newSummaryLoader(a.db)

	thunks := make([]func() (*userSummary, error), len(results))
	for i, res := range results {
		thunks[i] = loader.Load(ctx, res.CandidateID)
	}

	out := make([]detailedMatch, len(results))
	for i, res := range results {
		dm := detailedMatch{
			CandidateID: res.CandidateID,
			DisplayName: res.CandidateID,
			Score:       res.Score,
			Rank:        res.Rank,
			Breakdown:   res.Breakdown,
		}
		if summary, err := thunks[i](); err == nil && summary != nil {
			dm.DisplayName = summary.DisplayName
			dm.Age = summary.Age
			dm.Occupation = summary.Occupation
		}
		out[i] = dm
	}
	return out
}

// dismissMatchHandler handles POST /matches/{id}/dismiss. Idempotent; the
// dismissed user disappears from every later candidate pool.
func (a *app) dismissMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := callerID(r)
		targetID := mux.Vars(r)["id"]

		exists, err := a.store.candidateExists(r.Context(), targetID)
		if err != nil {
			a.logger.Error("checking dismiss target", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}
		if !exists || targetID == userID {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}

		if err := a.store.dismiss(r.Context(), userID, targetID); err != nil {
			a.logger.Error("recording dismissal", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "dismiss_error")
			return
		}

		if a.cache != nil {
			if err := a.cache.invalidate(r.Context(), userID); err != nil {
				a.logger.Warn("invalidating match cache", zap.Error(err))
			}
		}
		writeJSON(w, http.StatusCreated, map[string]bool{"dismissed": true})
	}
}

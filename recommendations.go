package main

import (
	"database/sql"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kindred-app/backend/engine"
)

// RecommendationResult is one entry of the detailed recommendations list.
type RecommendationResult struct {
	UserID      int     `json:"user_id"`
	DisplayName string  `json:"display_name"`
	Score       float64 `json:"score"`
}

func newRequestRNG() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// GET /recommendations
// Returns the ordered candidate IDs for the caller. A caller without a
// completed profile still gets the candidate pool, just in random order;
// an empty pool is an empty list, never an error.
func recommendationsHandler(db *sql.DB) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value(userIDKey).(int)

		ranked, err := rankForUser(db, userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "recommendation_error")
			log.Println("recommendation error:", err)
			return
		}

		final := engine.Diversify(ranked, cfg.RandomFactor, newRequestRNG())

		ids := make([]int, len(final))
		for i, c := range final {
			ids[i] = c.UserID
		}
		writeJSON(w, http.StatusOK, map[string][]int{"recommendations": ids})
	})
}

// GET /recommendations/detailed
// Returns recommendations with their scores, best-first without diversity
// injection so the scores read in order. Scores are undefined without a
// completed profile, so this endpoint is gated where the plain one degrades.
func recommendationsDetailedHandler(db *sql.DB) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value(userIDKey).(int)

		profile, err := loadProfile(db, userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}
		if profile == nil || !profile.Complete {
			writeError(w, http.StatusForbidden, "incomplete_profile")
			return
		}

		history, err := loadInteractions(db, userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "recommendation_error")
			return
		}
		pool, err := loadCandidatePool(db, userID, cfg.PoolLimit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "recommendation_error")
			return
		}

		scored := engine.RankScored(
			engine.Candidate{UserID: userID, Profile: profile},
			pool,
			engine.ExclusionSet(history),
		)

		// Resolve display names in one batched query instead of N lookups.
		loaders := NewDataLoaders(db)
		ids := make([]int, len(scored))
		for i, rc := range scored {
			ids[i] = rc.UserID
		}
		summaries, errs := loaders.SummaryLoader.LoadMany(r.Context(), ids)()

		results := make([]RecommendationResult, 0, len(scored))
		for i, rc := range scored {
			res := RecommendationResult{UserID: rc.UserID, Score: rc.Score}
			if errs == nil || errs[i] == nil {
				if summaries[i] != nil {
					res.DisplayName = summaries[i].DisplayName
				}
			}
			results = append(results, res)
		}
		writeJSON(w, http.StatusOK, map[string][]RecommendationResult{"recommendations": results})
	})
}

// rankForUser assembles the engine inputs for one request: the caller's
// profile snapshot (nil when absent), the bounded candidate pool, and the
// all-time exclusion set derived from the interaction log.
func rankForUser(db *sql.DB, userID int) ([]engine.Candidate, error) {
	profile, err := loadProfile(db, userID)
	if err != nil {
		return nil, err
	}
	history, err := loadInteractions(db, userID)
	if err != nil {
		return nil, err
	}
	pool, err := loadCandidatePool(db, userID, cfg.PoolLimit)
	if err != nil {
		return nil, err
	}

	return engine.Rank(
		engine.Candidate{UserID: userID, Profile: profile},
		pool,
		engine.ExclusionSet(history),
		newRequestRNG(),
	), nil
}

// isCurrentlyRecommendable mirrors the recommendation eligibility rules for
// permission checks: the target must have a completed profile and must not
// already be in the requester's exclusion set. Ordering is irrelevant here,
// so the pool is not ranked.
func isCurrentlyRecommendable(db *sql.DB, me, targetID int) (bool, error) {
	if me == targetID || !userExistsWithProfile(db, targetID) {
		return false, nil
	}
	history, err := loadInteractions(db, me)
	if err != nil {
		return false, err
	}
	return !engine.ExclusionSet(history).Contains(targetID), nil
}

// parseUserIDPath extracts {id} from paths shaped like /prefix/{id}/action.
func parseUserIDPath(r *http.Request, prefix, action string) (int, bool) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	wantLen := 3
	if action == "" {
		wantLen = 2
	}
	if len(parts) != wantLen || parts[0] != prefix {
		return 0, false
	}
	if action != "" && parts[2] != action {
		return 0, false
	}
	id, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	return id, true
}

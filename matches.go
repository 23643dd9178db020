package main

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/kindred-app/backend/engine"
)

// GET /matches
// Recomputes the caller's mutual matches from the interaction log: everyone
// who approved the caller, filtered down to the ones the caller approved
// back, oldest admirer first.
func matchesHandler(db *sql.DB) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		userID := r.Context().Value(userIDKey).(int)

		admirers, err := loadAdmirers(db, userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "db_error")
			log.Println("loadAdmirers error:", err)
			return
		}
		myApproved, err := loadApprovedSet(db, userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}

		matched := engine.FindMutualMatches(admirers, myApproved)

		ids := make([]int, len(matched))
		for i, c := range matched {
			ids[i] = c.UserID
		}
		writeJSON(w, http.StatusOK, map[string][]int{"matches": ids})
	})
}

// loadAdmirers returns the users who have approved userID, in the order
// their first approve was recorded.
func loadAdmirers(db *sql.DB, userID int) ([]engine.Candidate, error) {
	rows, err := db.Query(`
		SELECT actor_id, MIN(created_at) AS first_approve
		FROM interactions
		WHERE target_id = $1 AND action = 'approve'
		GROUP BY actor_id
		ORDER BY first_approve
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var admirers []engine.Candidate
	for rows.Next() {
		var c engine.Candidate
		var firstApprove sql.NullTime
		if err := rows.Scan(&c.UserID, &firstApprove); err != nil {
			return nil, err
		}
		admirers = append(admirers, c)
	}
	return admirers, rows.Err()
}

// haveMatch reports whether a durable match record exists for the pair.
// Chat and profile visibility hang off this.
func haveMatch(db *sql.DB, a, b int) bool {
	var exists bool
	err := db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM matches
			WHERE user1_id = LEAST($1::int, $2::int) AND user2_id = GREATEST($1::int, $2::int)
		)
	`, a, b).Scan(&exists)
	if err != nil {
		log.Println("haveMatch query error:", err)
		return false
	}
	return exists
}

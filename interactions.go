package main

import (
	"database/sql"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/kindred-app/backend/engine"
)

// Interaction handlers.
//
// TERMINOLOGY
// approve: the caller wants to match with the target. When the target has
//          also approved the caller at any point, a durable match record is
//          created in the same transaction.
// reject:  the caller never wants to see the target again.
// view:    the caller looked at the target's profile; does not affect
//          recommendations.
//
// The log is append-only: a later action never edits or removes an earlier
// one, and any recorded approve or reject keeps the target out of future
// recommendation pools for good.

// A dispatcher router function for all /interactions/{id}/... requests
func interactionsRouter(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := strings.Trim(r.URL.Path, "/")
		parts := strings.Split(path, "/")
		if r.Method != http.MethodPost || len(parts) != 3 || parts[0] != "interactions" {
			http.NotFound(w, r)
			return
		}

		switch parts[2] {
		case "approve":
			approveHandler(db).ServeHTTP(w, r)
		case "reject":
			recordInteractionHandler(db, engine.ActionReject).ServeHTTP(w, r)
		case "view":
			recordInteractionHandler(db, engine.ActionView).ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	}
}

// sessionIDFromRequest picks up the client session identifier, falling back
// to a fresh one when the header is missing or not a valid UUID.
func sessionIDFromRequest(r *http.Request) string {
	if sid := r.Header.Get("X-Session-ID"); sid != "" {
		if _, err := uuid.Parse(sid); err == nil {
			return sid
		}
	}
	return uuid.NewString()
}

// POST /interactions/{id}/approve
// Appends the approve and, when the opposite approve already exists, records
// the mutual match atomically. Responds with whether a match formed.
func approveHandler(db *sql.DB) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		targetID, ok := parseUserIDPath(r, "interactions", "approve")
		if !ok {
			http.NotFound(w, r)
			return
		}

		me := r.Context().Value(userIDKey).(int)
		if targetID == me {
			writeError(w, http.StatusBadRequest, "invalid_target")
			return
		}
		if !userExistsWithProfile(db, targetID) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}

		sessionID := sessionIDFromRequest(r)

		type response struct {
			Matched bool `json:"matched"`
			MatchID *int `json:"match_id,omitempty"`
		}
		var resp response

		err := withTx(r.Context(), db, func(tx *sql.Tx) error {
			// Serialize concurrent approves for the same pair. Without this,
			// two reciprocal approves racing at READ COMMITTED each miss the
			// other's uncommitted row and neither writes the match.
			if _, err := tx.Exec(`
				SELECT pg_advisory_xact_lock(LEAST($1::int, $2::int), GREATEST($1::int, $2::int))
			`, me, targetID); err != nil {
				return err
			}

			if _, err := tx.Exec(`
				INSERT INTO interactions (actor_id, target_id, action, session_id)
				VALUES ($1, $2, 'approve', $3)
			`, me, targetID, sessionID); err != nil {
				return err
			}

			myApproved, err := loadApprovedSet(tx, me)
			if err != nil {
				return err
			}
			theirApproved, err := loadApprovedSet(tx, targetID)
			if err != nil {
				return err
			}

			if !engine.IsMutualMatch(myApproved, targetID, theirApproved, me) {
				return nil
			}

			// Both directions exist: record the match once per pair.
			resp.Matched = true
			var matchID int
			err = tx.QueryRow(`
				INSERT INTO matches (user1_id, user2_id)
				VALUES (LEAST($1::int, $2::int), GREATEST($1::int, $2::int))
				ON CONFLICT (user1_id, user2_id) DO NOTHING
				RETURNING id
			`, me, targetID).Scan(&matchID)
			if err == sql.ErrNoRows {
				// Match row already existed (repeat approve)
				err = tx.QueryRow(`
					SELECT id FROM matches
					WHERE user1_id = LEAST($1::int, $2::int) AND user2_id = GREATEST($1::int, $2::int)
				`, me, targetID).Scan(&matchID)
			}
			if err != nil {
				return err
			}
			resp.MatchID = &matchID
			return nil
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "db_error")
			log.Println("approveHandler tx error:", err)
			return
		}

		if resp.Matched {
			// Let both sides know right away if they are connected
			notifyMatch(me, targetID)
		}
		writeJSON(w, http.StatusCreated, resp)
	})
}

// POST /interactions/{id}/reject and /interactions/{id}/view share the same
// shape: append one row, nothing derived.
func recordInteractionHandler(db *sql.DB, action engine.Action) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		targetID, ok := parseUserIDPath(r, "interactions", string(action))
		if !ok {
			http.NotFound(w, r)
			return
		}

		me := r.Context().Value(userIDKey).(int)
		if targetID == me {
			writeError(w, http.StatusBadRequest, "invalid_target")
			return
		}
		if !userExistsWithProfile(db, targetID) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}

		_, err := db.Exec(`
			INSERT INTO interactions (actor_id, target_id, action, session_id)
			VALUES ($1, $2, $3, $4)
		`, me, targetID, string(action), sessionIDFromRequest(r))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "db_error")
			log.Println("recordInteractionHandler error:", err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]bool{"recorded": true})
	})
}

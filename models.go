package main

import (
	"database/sql"
	"encoding/json"

	"github.com/kindred-app/backend/engine"
)

const profileColumns = `
	location_city, location_district,
	career_position, career_company,
	education_degree, education_school, education_major,
	interests, traits,
	about_me, looking_for, is_complete`

func scanProfile(row interface{ Scan(...interface{}) error }) (*engine.Profile, error) {
	var p engine.Profile
	var interests, traits json.RawMessage
	err := row.Scan(
		&p.City, &p.District,
		&p.Position, &p.Company,
		&p.Degree, &p.School, &p.Major,
		&interests, &traits,
		&p.AboutMe, &p.LookingFor, &p.Complete,
	)
	if err != nil {
		return nil, err
	}
	p.Interests = stringsFromRaw(interests)
	p.Traits = stringsFromRaw(traits)
	return &p, nil
}

// loadProfile returns the user's profile snapshot, or nil when none exists.
func loadProfile(db *sql.DB, userID int) (*engine.Profile, error) {
	row := db.QueryRow(`SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// loadCandidatePool materializes the candidate list for a recommendation
// request: every other user with a completed profile, oldest accounts first
// so tie-breaking is stable across requests, bounded by limit to keep the
// request cost proportional to it.
func loadCandidatePool(db *sql.DB, userID, limit int) ([]engine.Candidate, error) {
	rows, err := db.Query(`
		SELECT p.user_id, `+profileColumns+`
		FROM profiles p
		WHERE p.is_complete = TRUE AND p.user_id <> $1
		ORDER BY p.user_id
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pool []engine.Candidate
	for rows.Next() {
		var c engine.Candidate
		var p engine.Profile
		var interests, traits json.RawMessage
		err := rows.Scan(
			&c.UserID,
			&p.City, &p.District,
			&p.Position, &p.Company,
			&p.Degree, &p.School, &p.Major,
			&interests, &traits,
			&p.AboutMe, &p.LookingFor, &p.Complete,
		)
		if err != nil {
			return nil, err
		}
		p.Interests = stringsFromRaw(interests)
		p.Traits = stringsFromRaw(traits)
		c.Profile = &p
		pool = append(pool, c)
	}
	return pool, rows.Err()
}

// loadInteractions returns the full interaction history recorded by a user.
func loadInteractions(db *sql.DB, actorID int) ([]engine.Interaction, error) {
	rows, err := db.Query(`
		SELECT actor_id, target_id, action, session_id, created_at
		FROM interactions
		WHERE actor_id = $1
		ORDER BY created_at, id
	`, actorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []engine.Interaction
	for rows.Next() {
		var it engine.Interaction
		if err := rows.Scan(&it.ActorID, &it.TargetID, &it.Action, &it.SessionID, &it.CreatedAt); err != nil {
			return nil, err
		}
		history = append(history, it)
	}
	return history, rows.Err()
}

// loadApprovedSet derives the set of users the actor has ever approved
// without materializing the whole history.
func loadApprovedSet(q interface {
	Query(string, ...interface{}) (*sql.Rows, error)
}, actorID int) (engine.IDSet, error) {
	rows, err := q.Query(`
		SELECT DISTINCT target_id FROM interactions
		WHERE actor_id = $1 AND action = 'approve'
	`, actorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	approved := engine.NewIDSet()
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		approved.Add(id)
	}
	return approved, rows.Err()
}

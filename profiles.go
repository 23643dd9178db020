package main

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
)

// Dispatcher for /users/* to route summary and profile views
func usersDispatcher(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := strings.Trim(r.URL.Path, "/")
		parts := strings.Split(path, "/")
		if len(parts) < 2 || parts[0] != "users" {
			http.NotFound(w, r)
			return
		}
		if len(parts) == 2 {
			userSummaryHandler(db).ServeHTTP(w, r)
			return
		}
		if len(parts) == 3 && parts[2] == "profile" {
			userProfileHandler(db).ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	}
}

// GET /users/{id} - lightweight summary for lists
func userSummaryHandler(db *sql.DB) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) != 2 || parts[0] != "users" {
			http.NotFound(w, r)
			return
		}
		userID, err := strconv.Atoi(parts[1])
		if err != nil {
			http.NotFound(w, r)
			return
		}

		var displayName string
		err = db.QueryRow(`
			SELECT COALESCE(p.display_name, 'User ' || u.id::text)
			FROM users u
			LEFT JOIN profiles p ON p.user_id = u.id
			WHERE u.id = $1
		`, userID).Scan(&displayName)
		if err != nil {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}

		online, err := isOnlineNow(db, userID)
		if err != nil {
			// Not critical. If the check fails, assume offline
			online = false
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"id":           userID,
			"display_name": displayName,
			"is_online":    online,
		})
	})
}

// GET /users/{id}/profile
// Visible only to users the target is currently recommendable to, or to a
// mutually matched peer.
func userProfileHandler(db *sql.DB) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) != 3 || parts[0] != "users" || parts[2] != "profile" {
			http.NotFound(w, r)
			return
		}
		targetID, err := strconv.Atoi(parts[1])
		if err != nil {
			http.NotFound(w, r)
			return
		}
		requesterID := r.Context().Value(userIDKey).(int)

		allowed := haveMatch(db, requesterID, targetID)
		if !allowed {
			allowed, err = isCurrentlyRecommendable(db, requesterID, targetID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "db_error")
				log.Println("isCurrentlyRecommendable error:", err)
				return
			}
		}
		if !allowed {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}

		profile, err := loadProfile(db, targetID)
		if err != nil || profile == nil {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}

		var displayName string
		_ = db.QueryRow(`SELECT display_name FROM profiles WHERE user_id = $1`, targetID).Scan(&displayName)

		online, err := isOnlineNow(db, targetID)
		if err != nil {
			online = false
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"id":                targetID,
			"display_name":      displayName,
			"about_me":          profile.AboutMe,
			"looking_for":       profile.LookingFor,
			"location_city":     profile.City,
			"location_district": profile.District,
			"career_position":   profile.Position,
			"career_company":    profile.Company,
			"education_degree":  profile.Degree,
			"education_school":  profile.School,
			"education_major":   profile.Major,
			"interests":         profile.Interests,
			"traits":            profile.Traits,
			"is_online":         online,
		})
	})
}

// POST/PATCH /me/profile/complete
// Upserts the caller's profile snapshot and marks it complete. Profiles are
// only ever replaced whole; the engine sees them as immutable snapshots.
func completeProfileHandler(db *sql.DB) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodPatch {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		type ProfileRequest struct {
			DisplayName      string   `json:"display_name"`
			AboutMe          string   `json:"about_me"`
			LookingFor       string   `json:"looking_for"`
			LocationCity     string   `json:"location_city"`
			LocationDistrict string   `json:"location_district"`
			CareerPosition   string   `json:"career_position"`
			CareerCompany    string   `json:"career_company"`
			EducationDegree  string   `json:"education_degree"`
			EducationSchool  string   `json:"education_school"`
			EducationMajor   string   `json:"education_major"`
			Interests        []string `json:"interests"`
			Traits           []string `json:"traits"`
		}
		var req ProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		userID := r.Context().Value(userIDKey).(int)

		interests, _ := json.Marshal(req.Interests)
		traits, _ := json.Marshal(req.Traits)

		_, err := db.Exec(`
			INSERT INTO profiles (
				user_id, display_name, about_me, looking_for,
				location_city, location_district,
				career_position, career_company,
				education_degree, education_school, education_major,
				interests, traits, is_complete, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, TRUE, NOW()
			)
			ON CONFLICT (user_id) DO UPDATE SET
				display_name = EXCLUDED.display_name,
				about_me = EXCLUDED.about_me,
				looking_for = EXCLUDED.looking_for,
				location_city = EXCLUDED.location_city,
				location_district = EXCLUDED.location_district,
				career_position = EXCLUDED.career_position,
				career_company = EXCLUDED.career_company,
				education_degree = EXCLUDED.education_degree,
				education_school = EXCLUDED.education_school,
				education_major = EXCLUDED.education_major,
				interests = EXCLUDED.interests,
				traits = EXCLUDED.traits,
				is_complete = TRUE,
				updated_at = NOW()
		`,
			userID, req.DisplayName, req.AboutMe, req.LookingFor,
			req.LocationCity, req.LocationDistrict,
			req.CareerPosition, req.CareerCompany,
			req.EducationDegree, req.EducationSchool, req.EducationMajor,
			interests, traits,
		)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "profile_save_error")
			log.Println("Error saving profile:", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// GET /me/profile
func meProfileHandler(db *sql.DB) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		userID := r.Context().Value(userIDKey).(int)

		profile, err := loadProfile(db, userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}
		if profile == nil {
			writeError(w, http.StatusNotFound, "profile_not_found")
			return
		}

		var displayName string
		_ = db.QueryRow(`SELECT display_name FROM profiles WHERE user_id = $1`, userID).Scan(&displayName)

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"id":                userID,
			"display_name":      displayName,
			"about_me":          profile.AboutMe,
			"looking_for":       profile.LookingFor,
			"location_city":     profile.City,
			"location_district": profile.District,
			"career_position":   profile.Position,
			"career_company":    profile.Company,
			"education_degree":  profile.Degree,
			"education_school":  profile.School,
			"education_major":   profile.Major,
			"interests":         profile.Interests,
			"traits":            profile.Traits,
			"is_complete":       profile.Complete,
		})
	})
}

// GET /me - identity summary
func meHandler(db *sql.DB) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value(userIDKey).(int)
		var email string
		var displayName sql.NullString
		err := db.QueryRow(`
			SELECT u.email, p.display_name
			FROM users u
			LEFT JOIN profiles p ON p.user_id = u.id
			WHERE u.id = $1
		`, userID).Scan(&email, &displayName)
		if err != nil {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"id":           userID,
			"email":        email,
			"display_name": displayName.String,
		})
	})
}

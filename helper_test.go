package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// Initialize config for handler tests. Handlers read cfg and jwtSecret; the
// zero values would silently break pool loading and token parsing.
func init() {
	jwtSecret = []byte("test-secret-key-for-testing")
	cfg = Config{
		Port:         "8080",
		JWTSecret:    jwtSecret,
		RandomFactor: 0.3,
		PoolLimit:    200,
	}
}

// createTestUser creates a user with the given email and password, returns TestUser with ID and Token
func createTestUser(t *testing.T, email, password string) TestUser {
	t.Helper()

	// Clean up existing user
	db.Exec("DELETE FROM users WHERE email = $1", email)

	// Create user
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to generate bcrypt hash: %v", err)
	}

	_, err = db.Exec("INSERT INTO users (email, password_hash) VALUES ($1, $2)", email, string(hash))
	if err != nil {
		t.Fatalf("failed to insert user: %v", err)
	}

	// Get user ID
	var userID int
	err = db.QueryRow("SELECT id FROM users WHERE email = $1", email).Scan(&userID)
	if err != nil {
		t.Fatalf("failed to get user ID: %v", err)
	}

	// Login to get token
	token := loginUser(t, email, password)

	return TestUser{
		ID:       userID,
		Email:    email,
		Password: password,
		Token:    token,
	}
}

// loginUser logs in a user and returns the JWT token
func loginUser(t *testing.T, email, password string) string {
	t.Helper()

	reqBody := []byte(fmt.Sprintf(`{"email":"%s","password":"%s"}`, email, password))
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	loginHandler(db).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("login failed for %s: status %d", email, w.Code)
	}

	var respBody map[string]string
	json.NewDecoder(w.Body).Decode(&respBody)
	token, ok := respBody["token"]
	if !ok {
		t.Fatalf("expected token in login response, got %v", respBody)
	}

	return token
}

// createTestProfile upserts a complete profile for a user via the handler
func createTestProfile(t *testing.T, user TestUser, profile TestProfile) {
	t.Helper()

	// Clean up existing profile
	db.Exec("DELETE FROM profiles WHERE user_id = $1", user.ID)

	profileJSON, err := json.Marshal(profile)
	if err != nil {
		t.Fatalf("failed to marshal profile: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/me/profile/complete", bytes.NewBuffer(profileJSON))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+user.Token)
	w := httptest.NewRecorder()

	completeProfileHandler(db).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("failed to create profile for user %d: status %d", user.ID, w.Code)
	}
}

// recordInteraction inserts a directed interaction row
func recordInteraction(t *testing.T, actorID, targetID int, action string) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO interactions (actor_id, target_id, action, session_id)
		VALUES ($1, $2, $3, gen_random_uuid())
	`, actorID, targetID, action)
	if err != nil {
		t.Fatalf("failed to record interaction: %v", err)
	}
}

// getDefaultTestProfile returns a default complete profile for testing
func getDefaultTestProfile() TestProfile {
	return TestProfile{
		DisplayName:      "Test User",
		AboutMe:          "I love testing!",
		LookingFor:       "A study buddy",
		LocationCity:     "Tallinn",
		LocationDistrict: "Kesklinn",
		CareerPosition:   "Developer",
		CareerCompany:    "Testco",
		EducationDegree:  "BSc",
		EducationSchool:  "Test University",
		EducationMajor:   "Computer Science",
		Interests:        []string{"hiking", "chess"},
		Traits:           []string{"curious", "patient"},
	}
}

// cleanupTestData removes users (and their cascaded rows) by email
func cleanupTestData(emails ...string) {
	for _, email := range emails {
		db.Exec("DELETE FROM users WHERE email = $1", email)
	}
}

package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	writeJSON(w, http.StatusTeapot, map[string]int{"answer": 42})

	if w.Code != http.StatusTeapot {
		t.Fatalf("expected status 418, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}

	var body map[string]int
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("body is not valid JSON: %v", err)
	}
	if body["answer"] != 42 {
		t.Errorf("expected answer 42, got %v", body)
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, http.StatusForbidden, "incomplete_profile")

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", w.Code)
	}

	var body map[string]string
	json.NewDecoder(w.Body).Decode(&body)
	if body["error"] != "incomplete_profile" {
		t.Errorf("expected error incomplete_profile, got %v", body)
	}
}

func TestStringsFromRaw(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want int
	}{
		{"valid array", `["a","b","c"]`, 3},
		{"empty array", `[]`, 0},
		{"null", `null`, 0},
		{"malformed", `{"not":"an array"}`, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := stringsFromRaw(json.RawMessage(tc.raw))
			if len(got) != tc.want {
				t.Errorf("stringsFromRaw(%s) = %v, want %d elements", tc.raw, got, tc.want)
			}
		})
	}
}

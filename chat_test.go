package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

// ============================================================================
// CHAT TEST SUITE (persistence and history; WS framing tested manually)
// ============================================================================

func TestChatSuite(t *testing.T) {
	userA := createTestUser(t, "chat_a@example.com", "passwordA")
	userB := createTestUser(t, "chat_b@example.com", "passwordB")
	userStranger := createTestUser(t, "chat_s@example.com", "passwordS")

	defer cleanupTestData(userA.Email, userB.Email, userStranger.Email)

	for _, u := range []TestUser{userA, userB, userStranger} {
		createTestProfile(t, u, getDefaultTestProfile())
	}

	t.Run("Messaging Requires A Match", func(t *testing.T) {
		if _, _, _, err := saveChatMsg(db, userA.ID, userB.ID, "hello?"); err == nil {
			t.Fatal("expected message between unmatched users to be refused")
		}
	})

	// Form the match
	postInteraction(t, userA, userB.ID, "approve")
	postInteraction(t, userB, userA.ID, "approve")

	t.Run("Matched Users Can Message", func(t *testing.T) {
		msgID, chatID, _, err := saveChatMsg(db, userA.ID, userB.ID, "hello!")
		if err != nil {
			t.Fatalf("expected message to save, got %v", err)
		}
		if msgID == 0 || chatID == 0 {
			t.Errorf("expected real ids, got msg %d chat %d", msgID, chatID)
		}

		// Replies land in the same chat
		_, chatID2, _, err := saveChatMsg(db, userB.ID, userA.ID, "hi back")
		if err != nil {
			t.Fatalf("expected reply to save, got %v", err)
		}
		if chatID2 != chatID {
			t.Errorf("expected one chat per pair, got %d and %d", chatID, chatID2)
		}
	})

	t.Run("Strangers Stay Locked Out", func(t *testing.T) {
		if _, _, _, err := saveChatMsg(db, userStranger.ID, userA.ID, "let me in"); err == nil {
			t.Fatal("expected message from unmatched stranger to be refused")
		}
	})

	t.Run("History Endpoint", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/chats/"+strconv.Itoa(userB.ID)+"/messages", nil)
		req.Header.Set("Authorization", "Bearer "+userA.Token)
		w := httptest.NewRecorder()

		getChatHistoryHandler(db).ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}

		var msgs []ChatMessage
		json.NewDecoder(w.Body).Decode(&msgs)
		if len(msgs) != 2 {
			t.Fatalf("expected 2 messages in history, got %d", len(msgs))
		}
	})

	t.Run("History Between Strangers Is Empty", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/chats/"+strconv.Itoa(userA.ID)+"/messages", nil)
		req.Header.Set("Authorization", "Bearer "+userStranger.Token)
		w := httptest.NewRecorder()

		getChatHistoryHandler(db).ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}

		var msgs []ChatMessage
		json.NewDecoder(w.Body).Decode(&msgs)
		if len(msgs) != 0 {
			t.Errorf("expected empty history, got %d messages", len(msgs))
		}
	})
}

package main

import (
	"log"
	"net/http"
)

var (
	cfg       Config
	jwtSecret []byte
)

func main() {
	cfg = loadConfig()
	jwtSecret = cfg.JWTSecret

	initDB(cfg.DatabaseURL)

	mux := http.NewServeMux()

	// Core auth & user endpoints
	mux.Handle("/register", registerHandler(db))
	mux.Handle("/login", loginHandler(db))
	mux.Handle("/me", meHandler(db))
	mux.Handle("/me/profile", meProfileHandler(db))
	mux.Handle("/me/profile/complete", completeProfileHandler(db)) // POST/PATCH alias

	// Ping: mark this user as online "now"
	mux.Handle("/me/ping", mePingHandler(db)) // POST

	// Recommendations & matching
	mux.Handle("/recommendations", recommendationsHandler(db))
	mux.Handle("/recommendations/detailed", recommendationsDetailedHandler(db))
	mux.Handle("/interactions/", interactionsRouter(db)) // POST /interactions/{id}/{approve|reject|view}
	mux.Handle("/matches", matchesHandler(db))           // GET /matches

	// Users dispatcher (summary, profile)
	mux.Handle("/users/", usersDispatcher(db))

	// WebSocket chat endpoint
	mux.Handle("/ws/chat", wsChatHandler(db))

	// For fetching message history
	mux.Handle("/chats/", getChatHistoryHandler(db))

	// Chat summary for sidebar ordering + unread badge
	mux.Handle("/chats/summary", chatSummaryHandler(db)) // GET

	// Mark messages from peer as read in the active chat
	mux.Handle("/chats/read", chatsMarkReadHandler(db)) // POST /chats/read?peer_id=123

	// Health check endpoint for Docker
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	log.Printf("Starting Kindred backend on port %s...", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, withCORS(mux)); err != nil {
		log.Fatal(err)
	}
}

package handlers

import (
	"net/http"

	"github.com/devjournal/devjournal-backend/internal/realtime"
)

// EventsSocket upgrades to a websocket event feed for the authenticated user.
// Browsers cannot set headers on websocket requests, so the token also rides
// in the query string.
func EventsSocket(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		token = r.URL.Query().Get("token")
	}

	userID, ok, err := sessions.Validate(r.Context(), token)
	if err != nil || !ok {
		writeUnauthorized(w)
		return
	}

	realtime.ServeWS(eventHub, w, r, userID.String())
}

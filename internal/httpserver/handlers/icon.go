package handlers

import (
	"net/http"

	"github.com/streetpass/streetpass/internal/httpserver/deps"
)

// IconState reports the badge state the extension renders.
func IconState(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Icon.State(r.Context()))
	}
}

// IconSeen clears the unread counter. Called when the popup opens.
func IconSeen(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Icon.ClearUnread(r.Context()))
	}
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/streetpass/streetpass/internal/domain"
	"github.com/streetpass/streetpass/internal/httpserver/deps"
)

// GetSettings returns the current user settings.
func GetSettings(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Settings.Get(r.Context()))
	}
}

// PutSettings replaces the user settings.
func PutSettings(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var settings domain.Settings
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&settings); err != nil {
			writeError(w, http.StatusBadRequest, "malformed settings")
			return
		}

		writeJSON(w, http.StatusOK, d.Settings.Put(r.Context(), settings))
	}
}

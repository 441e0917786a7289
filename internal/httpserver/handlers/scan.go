package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/streetpass/streetpass/internal/httpserver/deps"
	"github.com/streetpass/streetpass/internal/logger"
)

type scanRequest struct {
	URL string `json:"url"`
}

type scanResponse struct {
	Observed int `json:"observed"`
}

// Scan fetches a page server-side and observes its rel=me links, for
// clients without a content script of their own.
func Scan(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
			writeError(w, http.StatusBadRequest, "url is required")
			return
		}

		observed, err := d.Scanner.Scan(r.Context(), req.URL)
		if err != nil {
			d.Logger.Warn("page scan failed",
				logger.String("url", req.URL),
				logger.Error(err))
			writeError(w, http.StatusBadGateway, "page could not be scanned")
			return
		}

		writeJSON(w, http.StatusOK, scanResponse{Observed: observed})
	}
}

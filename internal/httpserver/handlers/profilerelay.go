package handlers

import (
	"net/http"

	"github.com/streetpass/streetpass/internal/domain"
	"github.com/streetpass/streetpass/internal/httpserver/deps"
)

// Profile resolves a single link on demand, without touching the href
// store. Results are cached so popup hovers do not hammer remote hosts.
func Profile(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		href := r.URL.Query().Get("url")
		if !domain.IsHTTPOrHTTPS(href) {
			writeError(w, http.StatusBadRequest, "url must be http or https")
			return
		}

		if cached, ok := d.ProfileCache.Get(href); ok {
			writeJSON(w, http.StatusOK, cached)
			return
		}

		data := d.Resolver.Resolve(r.Context(), href)
		if data.IsProfile() {
			d.ProfileCache.Add(href, data)
		}
		writeJSON(w, http.StatusOK, data)
	}
}

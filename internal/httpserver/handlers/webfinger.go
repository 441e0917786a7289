package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/streetpass/streetpass/internal/domain"
	"github.com/streetpass/streetpass/internal/httpserver/deps"
)

// Webfinger is the companion responder for the service's own identity,
// so the service is itself discoverable the way the profiles it verifies
// are. Disabled (404) when no identity is configured.
func Webfinger(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.IdentitySubject == "" {
			http.NotFound(w, r)
			return
		}

		resource := r.URL.Query().Get("resource")
		if resource != "" && !matchesSubject(resource, d.IdentitySubject, d.IdentityProfileURL) {
			http.NotFound(w, r)
			return
		}

		doc := domain.Webfinger{
			Subject: d.IdentitySubject,
			Links: []domain.WebfingerLink{
				{
					Rel:  "http://webfinger.net/rel/profile-page",
					Type: "text/html",
					Href: d.IdentityProfileURL,
				},
			},
		}
		if d.IdentityProfileURL != "" {
			doc.Aliases = []string{d.IdentityProfileURL}
		}

		w.Header().Set("Content-Type", "application/jrd+json")
		_ = json.NewEncoder(w).Encode(doc)
	}
}

func matchesSubject(resource, subject, profileURL string) bool {
	if resource == subject || resource == profileURL {
		return true
	}
	// Accept the account form without the acct: prefix.
	return strings.TrimPrefix(resource, "acct:") == strings.TrimPrefix(subject, "acct:")
}

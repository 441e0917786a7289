package handlers

import (
	"net/http"

	"github.com/streetpass/streetpass/internal/domain"
	"github.com/streetpass/streetpass/internal/httpserver/deps"
)

type profilesResponse struct {
	Profiles []profileEntry `json:"profiles"`
}

type profileEntry struct {
	domain.HrefData
	// DisplayHref is the website URL as the popup renders it.
	DisplayHref string `json:"displayHref"`
	// OpenURL is the profile link with the user's URL scheme applied.
	OpenURL string `json:"openUrl"`
}

// Profiles returns the deduplicated, time-ordered profile list.
// ?hidden=true lists dismissed profiles instead of visible ones.
func Profiles(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		opts := domain.ListOptions{Hidden: r.URL.Query().Get("hidden") == "true"}

		snapshot := d.Hrefs.Snapshot(ctx)
		scheme := d.Settings.Get(ctx).ProfileURLScheme

		listed := domain.ListProfiles(snapshot, opts)
		entries := make([]profileEntry, 0, len(listed))
		for _, record := range listed {
			entries = append(entries, profileEntry{
				HrefData:    record,
				DisplayHref: domain.DisplayHref(record.WebsiteURL),
				OpenURL:     domain.ProfileURL(record.ProfileData, scheme),
			})
		}

		writeJSON(w, http.StatusOK, profilesResponse{Profiles: entries})
	}
}

// ExportProfiles serves the visible profile list as a JSON download.
func ExportProfiles(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profiles := domain.ListProfiles(d.Hrefs.Snapshot(r.Context()), domain.ListOptions{})

		w.Header().Set("Content-Disposition", `attachment; filename="streetpass-profiles.json"`)
		writeJSON(w, http.StatusOK, profiles)
	}
}

// Reset wipes the href store and turns the icon off. The only destructive
// operation in the API; explicit user action.
func Reset(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		d.Hrefs.Reset(ctx)
		d.Icon.Access(ctx, func(domain.IconState) (domain.IconState, bool) {
			return domain.IconOff(), true
		})
		w.WriteHeader(http.StatusNoContent)
	}
}

package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/streetpass/streetpass/internal/httpserver/deps"
	"github.com/streetpass/streetpass/internal/httpserver/handlers"
)

func init() { Register(registerProfiles) }

func registerProfiles(r chi.Router, d deps.Deps) {
	r.Get("/api/profiles", handlers.Profiles(d))
	r.Get("/api/profiles/export", handlers.ExportProfiles(d))
	r.Post("/api/reset", handlers.Reset(d))
}

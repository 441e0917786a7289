package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/streetpass/streetpass/internal/httpserver/deps"
	"github.com/streetpass/streetpass/internal/httpserver/handlers"
)

func init() { Register(registerIcon) }

func registerIcon(r chi.Router, d deps.Deps) {
	r.Get("/api/icon-state", handlers.IconState(d))
	r.Post("/api/icon-state/seen", handlers.IconSeen(d))
}

package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/streetpass/streetpass/internal/httpserver/deps"
	"github.com/streetpass/streetpass/internal/httpserver/handlers"
)

func init() { Register(registerScan) }

func registerScan(r chi.Router, d deps.Deps) {
	r.Post("/api/scan", handlers.Scan(d))
}

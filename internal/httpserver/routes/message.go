package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/streetpass/streetpass/internal/httpserver/deps"
	"github.com/streetpass/streetpass/internal/httpserver/handlers"
)

func init() { Register(registerMessage) }

func registerMessage(r chi.Router, d deps.Deps) {
	r.Post("/api/message", handlers.Message(d))
}

// Package server wires the HTTP routes and middleware of the application.
package server

import (
	"log/slog"
	"net/http"

	"github.com/rs/cors"

	"github.com/starquake/quizdesk/internal/api"
	"github.com/starquake/quizdesk/internal/config"
	"github.com/starquake/quizdesk/internal/logging"
	"github.com/starquake/quizdesk/internal/store"
)

// NewServer creates the application handler: the routes wrapped in CORS and request logging.
func NewServer(logger *slog.Logger, cfg *config.Config, stores *store.Stores) http.Handler {
	mux := http.NewServeMux()
	AddRoutes(mux, logger, cfg, stores)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", api.RoleHeader},
	})

	var handler http.Handler = mux
	handler = c.Handler(handler)
	handler = logging.Middleware(logger, handler)

	return handler
}

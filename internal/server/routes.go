package server

import (
	"log/slog"
	"net/http"

	"github.com/starquake/quizdesk/internal/api"
	"github.com/starquake/quizdesk/internal/config"
	"github.com/starquake/quizdesk/internal/health"
	"github.com/starquake/quizdesk/internal/static"
	"github.com/starquake/quizdesk/internal/store"
)

// AddRoutes registers the API, the health check and the static frontend on mux.
func AddRoutes(
	mux *http.ServeMux,
	logger *slog.Logger,
	cfg *config.Config,
	stores *store.Stores,
) {
	api.AddRoutes(mux, logger, stores)
	mux.Handle("GET /healthz", health.HandleHealthz(logger, stores))
	mux.Handle("GET /", static.Handler(cfg.PublicDir, cfg.IsProduction()))
}

package api

import (
	"log/slog"
	"net/http"

	"github.com/starquake/quizdesk/internal/store"
)

// AddRoutes registers the /api routes on mux.
func AddRoutes(mux *http.ServeMux, logger *slog.Logger, stores *store.Stores) {
	mux.Handle("POST /api/login", HandleLogin(logger, stores.Users))
	mux.Handle("GET /api/quizzes", HandleQuizList(logger, stores.Quizzes))
	mux.Handle("GET /api/quizzes/{id}", HandleQuizGet(logger, stores.Quizzes))
	mux.Handle("POST /api/quizzes", RequireAdmin(logger, HandleQuizCreate(logger, stores.Quizzes)))
	mux.Handle("DELETE /api/quizzes/{id}", RequireAdmin(logger, HandleQuizDelete(logger, stores.Quizzes)))

	// One pattern per method: a method-less "/api/" would conflict with the static "GET /".
	notFound := HandleNotFound(logger)
	for _, method := range []string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions,
	} {
		mux.Handle(method+" /api/", notFound)
	}
}

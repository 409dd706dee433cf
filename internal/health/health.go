// Package health provides health check endpoints.
package health

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/starquake/quizdesk/internal/httputil"
	"github.com/starquake/quizdesk/internal/logging"
	"github.com/starquake/quizdesk/internal/store"
)

// HandleHealthz returns a handler that reports whether the database is reachable.
// Returns 503 with status "degraded" when it is not.
func HandleHealthz(logger *slog.Logger, stores *store.Stores) http.Handler {
	type healthStatus struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks,omitempty"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		httpStatus := http.StatusOK
		health := healthStatus{
			Status: "ok",
			Checks: make(map[string]string),
		}

		if err := stores.Quizzes.Ping(ctx); err != nil {
			logger.ErrorContext(ctx, "database health check failed", logging.ErrAttr(err))
			health.Status = "degraded"
			health.Checks["database"] = fmt.Sprintf("unhealthy: %v", err)
			httpStatus = http.StatusServiceUnavailable
		} else {
			health.Checks["database"] = "healthy"
		}

		logger.DebugContext(ctx, "health check performed", slog.String("status", health.Status))
		if err := httputil.EncodeJSON(w, httpStatus, health); err != nil {
			logger.ErrorContext(ctx, "error encoding health status", logging.ErrAttr(err))
		}
	})
}

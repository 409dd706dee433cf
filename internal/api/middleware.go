package api

import (
	"log/slog"
	"net/http"

	"github.com/starquake/quizdesk/internal/user"
)

// RoleHeader carries the caller's role. It is supplied by the client and trusted as is.
const RoleHeader = "X-User-Role"

const msgForbidden = "forbidden"

// RequireAdmin only passes requests whose RoleHeader is exactly "admin" on to next.
// Every other request gets a 403 and never reaches next.
func RequireAdmin(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if role := r.Header.Get(RoleHeader); role != string(user.RoleAdmin) {
			logger.InfoContext(
				r.Context(),
				"admin route rejected",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("role", role),
			)
			writeMessage(w, r, logger, http.StatusForbidden, msgForbidden)

			return
		}

		next.ServeHTTP(w, r)
	})
}

package permissions

import (
	"errors"
	"net/http"

	"github.com/concordlabs/concord/pkg/middleware"
)

// RequirePermissions creates HTTP middleware that rejects requests whose
// caller lacks any of the required permissions. All privileged routes must
// be wrapped by this before they mutate state.
func RequirePermissions(resolver *Resolver, required ...Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var userID *string
			if user := middleware.GetCurrentUser(r); user != nil {
				userID = &user.ID
			}

			err := resolver.CheckRequestPermissions(r.Context(), r, required, userID)
			if err == nil {
				next.ServeHTTP(w, r)
				return
			}

			switch {
			case errors.Is(err, ErrChannelNotFound):
				writeDetail(w, http.StatusNotFound, "channel not found")
			case IsPermissionError(err):
				resolver.logger.WithError(err).Warn("api permission error")
				writeDetail(w, http.StatusForbidden, "Not enough permissions")
			default:
				resolver.logger.WithError(err).Error("permission check failed")
				writeDetail(w, http.StatusInternalServerError, "permission check failed")
			}
		})
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"detail":"` + detail + `"}`))
}

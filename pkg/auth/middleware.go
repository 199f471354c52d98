package auth

import (
	"log/slog"
	"net/http"

	"github.com/rhuss/authgate/pkg/api"
	"github.com/rhuss/authgate/pkg/debug"
	"github.com/rhuss/authgate/pkg/observability"
	"github.com/rhuss/authgate/pkg/transport"
)

// DefaultExcludedPaths lists the API paths that skip authentication.
var DefaultExcludedPaths = []string{
	"/api/v1/stat*",
	"/api/v1/unauthorized/",
	"/api/v1/forbidden/",
	"/api/v1/auth_session/login/",
}

// Middleware returns the request gate for provider. A nil provider or
// KindNone disables the gate.
func Middleware(provider Provider, excluded []string) transport.Middleware {
	return func(next http.Handler) http.Handler {
		if provider == nil || provider.Kind() == KindNone {
			return next
		}
		kind := string(provider.Kind())

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !RequireAuth(r.URL.Path, excluded) {
				observability.AuthDecisionsTotal.WithLabelValues(kind, observability.OutcomeExcluded).Inc()
				next.ServeHTTP(w, r)
				return
			}

			if provider.AuthorizationHeader(r) == "" && provider.SessionCookie(r) == "" {
				debug.Log("auth", "no credentials", "path", r.URL.Path, "remote_addr", r.RemoteAddr)
				observability.AuthDecisionsTotal.WithLabelValues(kind, observability.OutcomeUnauthorized).Inc()
				transport.WriteAPIError(w, api.NewUnauthorizedError("Unauthorized"))
				return
			}

			user := provider.CurrentUser(r.Context(), r)
			if user == nil {
				slog.Warn("authentication failed",
					"kind", kind,
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
				)
				observability.AuthDecisionsTotal.WithLabelValues(kind, observability.OutcomeForbidden).Inc()
				transport.WriteAPIError(w, api.NewForbiddenError("Forbidden"))
				return
			}

			debug.Log("auth", "authentication succeeded", "user_id", user.ID, "path", r.URL.Path)
			observability.AuthDecisionsTotal.WithLabelValues(kind, observability.OutcomeAllowed).Inc()
			next.ServeHTTP(w, r.WithContext(SetUser(r.Context(), user)))
		})
	}
}

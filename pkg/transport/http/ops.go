package http

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/rhuss/authgate/pkg/transport"
)

const readinessTimeout = 2 * time.Second

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}

// handleReadyz runs every configured health check. Any failure answers
// 503 with the failing component names.
func (a *Adapter) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	names := make([]string, 0, len(a.config.HealthChecks))
	for name := range a.config.HealthChecks {
		names = append(names, name)
	}
	sort.Strings(names)

	failed := map[string]string{}
	for _, name := range names {
		if err := a.config.HealthChecks[name](ctx); err != nil {
			slog.Warn("readiness check failed", "component", name, "error", err)
			failed[name] = err.Error()
		}
	}

	if len(failed) > 0 {
		transport.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "unavailable",
			"failed": failed,
		})
		return
	}
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/rhuss/authgate/pkg/account"
	"github.com/rhuss/authgate/pkg/api"
	"github.com/rhuss/authgate/pkg/auth"
	"github.com/rhuss/authgate/pkg/session"
	"github.com/rhuss/authgate/pkg/transport"
)

// handleStatus handles GET /api/v1/status.
func (a *Adapter) handleStatus(w http.ResponseWriter, _ *http.Request) {
	transport.WriteJSON(w, http.StatusOK, api.StatusResponse{Status: "OK"})
}

// handleStats handles GET /api/v1/stats.
func (a *Adapter) handleStats(w http.ResponseWriter, r *http.Request) {
	n, err := a.accounts.CountUsers(r.Context())
	if err != nil {
		slog.Error("counting users failed", "error", err)
		transport.WriteAPIError(w, api.NewServerError("counting users failed"))
		return
	}
	transport.WriteJSON(w, http.StatusOK, api.StatsResponse{Users: n})
}

func (a *Adapter) handleUnauthorized(w http.ResponseWriter, _ *http.Request) {
	transport.WriteAPIError(w, api.NewUnauthorizedError("Unauthorized"))
}

func (a *Adapter) handleForbidden(w http.ResponseWriter, _ *http.Request) {
	transport.WriteAPIError(w, api.NewForbiddenError("Forbidden"))
}

// handleCurrentUser handles GET /api/v1/users/me. Without an
// authenticated principal the route does not exist.
func (a *Adapter) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil {
		handleNotFound(w, r)
		return
	}
	transport.WriteJSON(w, http.StatusOK, userView(u))
}

// handleSessionLogin handles POST /api/v1/auth_session/login. It is only
// available when the gate uses a session provider.
func (a *Adapter) handleSessionLogin(w http.ResponseWriter, r *http.Request) {
	sp, ok := a.provider.(auth.SessionProvider)
	if !ok {
		handleNotFound(w, r)
		return
	}

	fields, ok := a.formFields(w, r, "email", "password")
	if !ok {
		return
	}

	u, err := a.accounts.Authenticate(r.Context(), fields[0], fields[1])
	switch {
	case errors.Is(err, account.ErrUnknownEmail):
		transport.WriteAPIError(w, api.NewNotFoundError("no user found for this email"))
		return
	case errors.Is(err, account.ErrWrongPassword):
		transport.WriteAPIError(w, api.NewUnauthorizedError("wrong password"))
		return
	case err != nil:
		slog.Error("login failed", "error", err)
		transport.WriteAPIError(w, api.NewServerError("login failed"))
		return
	}

	sessionID := sp.CreateSession(r.Context(), u.ID)
	if sessionID == "" {
		transport.WriteAPIError(w, api.NewServerError("could not create session"))
		return
	}

	session.SetCookie(w, sessionID, a.cookieOptions(sp.CookieName()))
	transport.WriteJSON(w, http.StatusOK, userView(u))
}

// handleSessionLogout handles DELETE /api/v1/auth_session/logout.
func (a *Adapter) handleSessionLogout(w http.ResponseWriter, r *http.Request) {
	sp, ok := a.provider.(auth.SessionProvider)
	if !ok || !sp.DestroySession(r.Context(), r) {
		handleNotFound(w, r)
		return
	}

	session.ClearCookie(w, a.cookieOptions(sp.CookieName()))
	transport.WriteJSON(w, http.StatusOK, struct{}{})
}

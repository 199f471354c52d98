package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/rhuss/authgate/pkg/account"
	"github.com/rhuss/authgate/pkg/api"
	"github.com/rhuss/authgate/pkg/session"
	"github.com/rhuss/authgate/pkg/transport"
)

const passwordRule = "password must be at most 72 bytes"

func (a *Adapter) handleIndex(w http.ResponseWriter, _ *http.Request) {
	transport.WriteJSON(w, http.StatusOK, api.MessageResponse{Message: "Bienvenue"})
}

// handleRegister handles POST /users.
func (a *Adapter) handleRegister(w http.ResponseWriter, r *http.Request) {
	fields, ok := a.formFields(w, r, "email", "password")
	if !ok {
		return
	}

	name := account.WithName(r.PostForm.Get("first_name"), r.PostForm.Get("last_name"))
	u, err := a.accounts.Register(r.Context(), fields[0], fields[1], name)
	if errors.Is(err, account.ErrAlreadyRegistered) {
		transport.WriteJSON(w, http.StatusBadRequest, api.MessageResponse{Message: "email already registered"})
		return
	}
	if errors.Is(err, account.ErrInvalidPassword) {
		transport.WriteAPIError(w, api.NewInvalidRequestError("password", passwordRule))
		return
	}
	if err != nil {
		slog.Error("registration failed", "error", err)
		transport.WriteAPIError(w, api.NewServerError("registration failed"))
		return
	}

	transport.WriteJSON(w, http.StatusOK, api.MessageResponse{Email: u.Email, Message: "user created"})
}

// handleLogin handles POST /sessions.
func (a *Adapter) handleLogin(w http.ResponseWriter, r *http.Request) {
	fields, ok := a.formFields(w, r, "email", "password")
	if !ok {
		return
	}
	email := fields[0]

	if !a.accounts.ValidLogin(r.Context(), email, fields[1]) {
		transport.WriteAPIError(w, api.NewUnauthorizedError("Unauthorized"))
		return
	}

	sessionID := a.accounts.CreateSession(r.Context(), email)
	if sessionID == "" {
		transport.WriteAPIError(w, api.NewUnauthorizedError("Unauthorized"))
		return
	}

	session.SetCookie(w, sessionID, a.cookieOptions(AccountCookieName))
	transport.WriteJSON(w, http.StatusOK, api.MessageResponse{Email: email, Message: "logged in"})
}

// handleLogout handles DELETE /sessions.
func (a *Adapter) handleLogout(w http.ResponseWriter, r *http.Request) {
	sessionID := session.CookieValue(r, AccountCookieName)
	if a.accounts.UserFromSession(r.Context(), sessionID) == nil || !a.accounts.DestroySession(r.Context(), sessionID) {
		transport.WriteAPIError(w, api.NewForbiddenError("Forbidden"))
		return
	}

	session.ClearCookie(w, a.cookieOptions(AccountCookieName))
	transport.WriteJSON(w, http.StatusOK, struct{}{})
}

// handleProfile handles GET /profile.
func (a *Adapter) handleProfile(w http.ResponseWriter, r *http.Request) {
	u := a.accounts.UserFromSession(r.Context(), session.CookieValue(r, AccountCookieName))
	if u == nil {
		transport.WriteAPIError(w, api.NewForbiddenError("Forbidden"))
		return
	}
	transport.WriteJSON(w, http.StatusOK, api.ProfileResponse{Email: u.Email})
}

// handleResetToken handles POST /reset_password. Unknown and missing
// emails are both answered with 403.
func (a *Adapter) handleResetToken(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.config.MaxBodySize)
	email := r.PostFormValue("email")

	token, err := a.accounts.ResetPasswordToken(r.Context(), email)
	if errors.Is(err, account.ErrUnknownEmail) {
		transport.WriteAPIError(w, api.NewForbiddenError("Forbidden"))
		return
	}
	if err != nil {
		slog.Error("issuing reset token failed", "error", err)
		transport.WriteAPIError(w, api.NewServerError("issuing reset token failed"))
		return
	}

	transport.WriteJSON(w, http.StatusOK, api.ResetTokenResponse{Email: email, ResetToken: token})
}

// handleUpdatePassword handles PUT /reset_password.
func (a *Adapter) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	fields, ok := a.formFields(w, r, "email", "reset_token", "new_password")
	if !ok {
		return
	}

	err := a.accounts.UpdatePassword(r.Context(), fields[1], fields[2])
	if errors.Is(err, account.ErrInvalidResetToken) {
		transport.WriteAPIError(w, api.NewForbiddenError("Forbidden"))
		return
	}
	if errors.Is(err, account.ErrInvalidPassword) {
		transport.WriteAPIError(w, api.NewInvalidRequestError("new_password", passwordRule))
		return
	}
	if err != nil {
		slog.Error("password update failed", "error", err)
		transport.WriteAPIError(w, api.NewServerError("password update failed"))
		return
	}

	transport.WriteJSON(w, http.StatusOK, api.MessageResponse{Email: fields[0], Message: "Password updated"})
}

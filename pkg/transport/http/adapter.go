package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rhuss/authgate/pkg/account"
	"github.com/rhuss/authgate/pkg/api"
	"github.com/rhuss/authgate/pkg/auth"
	"github.com/rhuss/authgate/pkg/observability"
	"github.com/rhuss/authgate/pkg/session"
	"github.com/rhuss/authgate/pkg/transport"
	"github.com/rhuss/authgate/pkg/users"
)

// AccountCookieName is the cookie used by the account endpoints
// (/sessions, /profile). The API v1 routes use the provider's cookie name.
const AccountCookieName = "session_id"

// APIPrefix is the subtree guarded by the authentication gate.
const APIPrefix = "/api/v1/"

// HealthCheck reports whether a backing dependency is usable.
type HealthCheck func(ctx context.Context) error

// Config holds configuration for the HTTP adapter.
type Config struct {
	// ExcludedPaths lists API paths served without authentication.
	// Nil means auth.DefaultExcludedPaths.
	ExcludedPaths []string

	CookieSecure    bool
	SessionLifetime time.Duration
	MaxBodySize     int64

	// MetricsPath serves Prometheus metrics when non-empty.
	MetricsPath string

	// HealthChecks are run by GET /readyz, keyed by component name.
	HealthChecks map[string]HealthCheck
}

// DefaultConfig returns the default adapter configuration.
func DefaultConfig() Config {
	return Config{
		MaxBodySize: 1 << 20, // 1 MB
		MetricsPath: "/metrics",
	}
}

// Adapter serves the authgate endpoints over HTTP.
//
// Routes under /api/v1/ pass through the authentication gate built from
// the configured provider. The account endpoints and the operational
// endpoints are served outside the gate.
type Adapter struct {
	provider auth.Provider
	accounts *account.Service
	config   Config
	mux      *http.ServeMux
	api      *http.ServeMux
	handler  http.Handler
}

// NewAdapter creates an HTTP adapter. provider may be nil, which leaves
// the API unauthenticated. Middleware is applied around the whole mux in
// the given order.
func NewAdapter(provider auth.Provider, accounts *account.Service, cfg Config, middlewares ...transport.Middleware) *Adapter {
	if cfg.ExcludedPaths == nil {
		cfg.ExcludedPaths = auth.DefaultExcludedPaths
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = DefaultConfig().MaxBodySize
	}

	a := &Adapter{
		provider: provider,
		accounts: accounts,
		config:   cfg,
		mux:      http.NewServeMux(),
		api:      http.NewServeMux(),
	}

	a.handleAPI("GET /api/v1/status", a.handleStatus)
	a.handleAPI("GET /api/v1/stats", a.handleStats)
	a.handleAPI("GET /api/v1/unauthorized", a.handleUnauthorized)
	a.handleAPI("GET /api/v1/forbidden", a.handleForbidden)
	a.handleAPI("GET /api/v1/users/me", a.handleCurrentUser)
	a.handleAPI("POST /api/v1/auth_session/login", a.handleSessionLogin)
	a.handleAPI("DELETE /api/v1/auth_session/logout", a.handleSessionLogout)
	a.api.HandleFunc(APIPrefix, handleNotFound)

	a.mux.Handle(APIPrefix, auth.Middleware(provider, cfg.ExcludedPaths)(a.api))

	a.mux.HandleFunc("GET /{$}", a.handleIndex)
	a.mux.HandleFunc("POST /users", a.handleRegister)
	a.mux.HandleFunc("POST /sessions", a.handleLogin)
	a.mux.HandleFunc("DELETE /sessions", a.handleLogout)
	a.mux.HandleFunc("GET /profile", a.handleProfile)
	a.mux.HandleFunc("POST /reset_password", a.handleResetToken)
	a.mux.HandleFunc("PUT /reset_password", a.handleUpdatePassword)

	a.mux.HandleFunc("GET /healthz", handleHealthz)
	a.mux.HandleFunc("GET /readyz", a.handleReadyz)
	if cfg.MetricsPath != "" {
		a.mux.Handle("GET "+cfg.MetricsPath, promhttp.Handler())
	}
	a.mux.HandleFunc("/", handleNotFound)

	a.handler = transport.Chain(middlewares...)(observability.MetricsMiddleware(a.mux))
	return a
}

// Handler returns the http.Handler for this adapter. Use this to integrate
// with an http.Server or test with httptest.
func (a *Adapter) Handler() http.Handler {
	return a.handler
}

// handleAPI registers h for pattern and for the same path with a
// trailing slash.
func (a *Adapter) handleAPI(pattern string, h http.HandlerFunc) {
	method, path, _ := strings.Cut(pattern, " ")
	a.api.HandleFunc(pattern, h)
	a.api.HandleFunc(method+" "+path+"/{$}", h)
}

// cookieOptions returns the options for a session cookie named name.
func (a *Adapter) cookieOptions(name string) session.CookieOptions {
	return session.CookieOptions{
		Name:   name,
		Secure: a.config.CookieSecure,
		MaxAge: a.config.SessionLifetime,
	}
}

// formFields parses the form body and returns the named fields in order.
// A missing or empty field answers 400 "<name> missing".
func (a *Adapter) formFields(w http.ResponseWriter, r *http.Request, names ...string) ([]string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, a.config.MaxBodySize)
	if err := r.ParseForm(); err != nil {
		transport.WriteAPIError(w, api.NewInvalidRequestError("body", "invalid form body"))
		return nil, false
	}

	values := make([]string, len(names))
	for i, name := range names {
		values[i] = r.PostForm.Get(name)
		if values[i] == "" {
			transport.WriteAPIError(w, api.NewInvalidRequestError(name, name+" missing"))
			return nil, false
		}
	}
	return values, true
}

func handleNotFound(w http.ResponseWriter, _ *http.Request) {
	transport.WriteAPIError(w, api.NewNotFoundError("Not found"))
}

// userView projects u for JSON output.
func userView(u *users.User) api.UserView {
	return api.UserView{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName(),
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

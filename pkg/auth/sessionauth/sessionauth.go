// Package sessionauth authenticates requests by session cookie.
//
// One Provider type serves the three session strategies; they differ only
// in the session.Registry chain injected at construction:
//
//	session_auth      MemoryRegistry
//	session_exp_auth  ExpiryRegistry(MemoryRegistry)
//	session_db_auth   PersistentRegistry(ExpiryRegistry(MemoryRegistry))
package sessionauth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rhuss/authgate/pkg/auth"
	"github.com/rhuss/authgate/pkg/session"
	"github.com/rhuss/authgate/pkg/storage"
	"github.com/rhuss/authgate/pkg/users"
)

// Provider resolves the user bound to the request's session cookie.
type Provider struct {
	auth.Base
	kind     auth.Kind
	registry session.Registry
	users    users.Store
}

var _ auth.SessionProvider = (*Provider)(nil)

// New creates a session provider of the given kind. kind must satisfy
// auth.Kind.IsSession.
func New(kind auth.Kind, registry session.Registry, store users.Store, sessionName string) *Provider {
	if sessionName == "" {
		sessionName = session.DefaultCookieName
	}
	return &Provider{
		Base:     auth.Base{SessionName: sessionName},
		kind:     kind,
		registry: registry,
		users:    store,
	}
}

func (p *Provider) Kind() auth.Kind {
	return p.kind
}

// CookieName returns the session cookie name.
func (p *Provider) CookieName() string {
	return p.SessionName
}

// Registry returns the session registry chain.
func (p *Provider) Registry() session.Registry {
	return p.registry
}

func (p *Provider) CreateSession(ctx context.Context, userID string) string {
	return p.registry.Create(ctx, userID)
}

// UserIDForSession returns the user id bound to sessionID, or "".
func (p *Provider) UserIDForSession(ctx context.Context, sessionID string) string {
	return p.registry.Lookup(ctx, sessionID)
}

func (p *Provider) CurrentUser(ctx context.Context, r *http.Request) *users.User {
	userID := p.UserIDForSession(ctx, p.SessionCookie(r))
	if userID == "" {
		return nil
	}

	u, err := p.users.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Warn("user lookup failed", "user_id", userID, "error", err)
		}
		return nil
	}
	return u
}

func (p *Provider) DestroySession(ctx context.Context, r *http.Request) bool {
	sessionID := p.SessionCookie(r)
	if sessionID == "" {
		return false
	}
	return p.registry.Destroy(ctx, sessionID)
}

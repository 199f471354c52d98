package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/rhuss/authgate/pkg/session"
	"github.com/rhuss/authgate/pkg/users"
)

// Kind names an authentication strategy, as selected by AUTH_TYPE.
type Kind string

const (
	// KindNone disables the request gate entirely.
	KindNone Kind = "none"

	// KindBase gates requests but never resolves a user: any request
	// with credentials is forbidden.
	KindBase Kind = "auth"

	// KindBasic authenticates the Authorization: Basic header.
	KindBasic Kind = "basic_auth"

	// KindSession authenticates an in-memory session cookie.
	KindSession Kind = "session_auth"

	// KindSessionExpiry authenticates a session cookie with a lifetime.
	KindSessionExpiry Kind = "session_exp_auth"

	// KindSessionPersistent authenticates a session cookie against a
	// durable session store.
	KindSessionPersistent Kind = "session_db_auth"
)

// Kinds lists every supported strategy.
var Kinds = []Kind{KindNone, KindBase, KindBasic, KindSession, KindSessionExpiry, KindSessionPersistent}

// ParseKind validates s as a Kind. The empty string selects KindNone.
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return KindNone, nil
	}
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown auth type %q", s)
}

// IsSession reports whether the strategy authenticates session cookies.
func (k Kind) IsSession() bool {
	switch k {
	case KindSession, KindSessionExpiry, KindSessionPersistent:
		return true
	}
	return false
}

// Provider implements one authentication strategy.
type Provider interface {
	// Kind identifies the strategy.
	Kind() Kind

	// AuthorizationHeader returns the raw Authorization header, or "".
	AuthorizationHeader(r *http.Request) string

	// SessionCookie returns the session cookie value, or "".
	SessionCookie(r *http.Request) string

	// CurrentUser resolves the caller, or returns nil.
	CurrentUser(ctx context.Context, r *http.Request) *users.User
}

// SessionProvider is a Provider that can also open and close sessions,
// as needed by the login and logout endpoints.
type SessionProvider interface {
	Provider

	// CreateSession starts a session for userID and returns its id, or "".
	CreateSession(ctx context.Context, userID string) string

	// DestroySession ends the session named by r's cookie and reports
	// whether one was removed.
	DestroySession(ctx context.Context, r *http.Request) bool

	// CookieName returns the session cookie name.
	CookieName() string
}

// Base carries the credential accessors every provider shares. Embedded
// on its own it is the KindBase provider.
type Base struct {
	SessionName string
}

func (b Base) Kind() Kind {
	return KindBase
}

func (b Base) AuthorizationHeader(r *http.Request) string {
	if r == nil {
		return ""
	}
	return r.Header.Get("Authorization")
}

func (b Base) SessionCookie(r *http.Request) string {
	return session.CookieValue(r, b.SessionName)
}

// CurrentUser never resolves a user for the base provider.
func (b Base) CurrentUser(context.Context, *http.Request) *users.User {
	return nil
}

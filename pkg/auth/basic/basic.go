// Package basic implements HTTP Basic authentication.
//
// The credential pipeline is split into small steps, each returning ""
// (or ok=false) when its input is absent or malformed so the next step
// short-circuits:
//
//	header -> ExtractEncodedToken -> DecodeToken -> SplitCredentials -> ResolveUser
package basic

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/rhuss/authgate/pkg/auth"
	"github.com/rhuss/authgate/pkg/debug"
	"github.com/rhuss/authgate/pkg/users"
	"github.com/rhuss/authgate/pkg/users/password"
)

const scheme = "Basic"

// ExtractEncodedToken returns the token of a "Basic <token>" header. The
// header must consist of exactly two space-separated parts.
func ExtractEncodedToken(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != scheme {
		return ""
	}
	return parts[1]
}

// DecodeToken base64-decodes token with the standard alphabet. Returns ""
// when the token is not valid base64 or does not decode to UTF-8.
func DecodeToken(token string) string {
	if token == "" {
		return ""
	}
	b, err := base64.StdEncoding.DecodeString(token)
	if err != nil || !utf8.Valid(b) {
		return ""
	}
	return string(b)
}

// SplitCredentials splits decoded at its first colon. The secret may
// itself contain colons.
func SplitCredentials(decoded string) (identifier, secret string, ok bool) {
	return strings.Cut(decoded, ":")
}

// Provider authenticates the Authorization: Basic header against a
// users.Store.
type Provider struct {
	auth.Base
	users  users.Store
	hasher password.Hasher
}

var _ auth.Provider = (*Provider)(nil)

// New creates a Basic provider. sessionName is only used to report the
// presence of a session cookie to the request gate.
func New(store users.Store, hasher password.Hasher, sessionName string) *Provider {
	return &Provider{
		Base:   auth.Base{SessionName: sessionName},
		users:  store,
		hasher: hasher,
	}
}

func (p *Provider) Kind() auth.Kind {
	return auth.KindBasic
}

// ResolveUser returns the first user registered under identifier whose
// password matches secret.
func (p *Provider) ResolveUser(ctx context.Context, identifier, secret string) *users.User {
	if identifier == "" {
		return nil
	}
	found, err := p.users.Search(ctx, users.Criteria{Email: identifier})
	if err != nil {
		slog.Warn("user lookup failed", "error", err)
		return nil
	}
	for _, u := range found {
		if u.IsValidPassword(p.hasher, secret) {
			return u
		}
	}
	debug.Log("auth", "basic credentials rejected", "candidates", len(found))
	return nil
}

func (p *Provider) CurrentUser(ctx context.Context, r *http.Request) *users.User {
	token := ExtractEncodedToken(p.AuthorizationHeader(r))
	if token == "" {
		return nil
	}
	decoded := DecodeToken(token)
	if decoded == "" {
		return nil
	}
	identifier, secret, ok := SplitCredentials(decoded)
	if !ok {
		return nil
	}
	return p.ResolveUser(ctx, identifier, secret)
}

// Package noop provides the provider selected when authentication is
// disabled. The request gate lets every request through untouched.
package noop

import (
	"context"
	"net/http"

	"github.com/rhuss/authgate/pkg/auth"
	"github.com/rhuss/authgate/pkg/users"
)

// Provider is the KindNone provider.
type Provider struct {
	auth.Base
}

var _ auth.Provider = (*Provider)(nil)

// New creates a no-op provider.
func New() *Provider {
	return &Provider{}
}

func (p *Provider) Kind() auth.Kind {
	return auth.KindNone
}

// CurrentUser always returns nil: with the gate disabled there is no caller identity.
func (p *Provider) CurrentUser(context.Context, *http.Request) *users.User {
	return nil
}

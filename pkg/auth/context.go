package auth

import (
	"context"

	"github.com/rhuss/authgate/pkg/users"
)

// userKey is a private type for the user context key.
type userKey struct{}

// SetUser stores the authenticated user in the context.
func SetUser(ctx context.Context, u *users.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFromContext retrieves the authenticated user.
// Returns nil if the request was not authenticated.
func UserFromContext(ctx context.Context) *users.User {
	if v, ok := ctx.Value(userKey{}).(*users.User); ok {
		return v
	}
	return nil
}

// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// ActorSystem is the actor recorded on deletions performed by
// background jobs and seed tooling rather than an authenticated user.
const ActorSystem = "system"

// UserContext contains authenticated user information.
// MayoraltyID is informational (the user's home tenant); services always
// receive the target tenant as an explicit argument, never from context.
type UserContext struct {
	UserID      int64
	Username    string
	MayoraltyID int64
	Email       string
	Role        string
	IsAdmin     bool
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetActor returns the username of the authenticated user, or ActorSystem
// when the operation runs without a user (migrations, seeding, workers).
// This is the string recorded in deleted_by and in archive entries.
func GetActor(ctx context.Context) string {
	if u := GetUser(ctx); u != nil && u.Username != "" {
		return u.Username
	}
	return ActorSystem
}

// HasRole checks if user has specific role.
func HasRole(ctx context.Context, role string) bool {
	u := GetUser(ctx)
	if u == nil {
		return false
	}
	return u.Role == role
}

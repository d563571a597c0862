package api

import (
	"context"

	"github.com/traitforge/disc-engine/internal/models"
)

type contextKey string

const userContextKey contextKey = "authenticated_user"

// UserFromContext extracts the authenticated user from context
func UserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(userContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// ContextWithUser adds the authenticated user to context
func ContextWithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

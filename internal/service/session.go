package service

import (
	"context"

	"github.com/ajmikallu/signalist-stock-tracker-app/internal/model"
)

type sessionKey struct{}

// WithUser attaches the authenticated user to ctx
func WithUser(ctx context.Context, user *model.SessionUser) context.Context {
	return context.WithValue(ctx, sessionKey{}, user)
}

// CurrentUser returns the authenticated user for this request, or nil
func CurrentUser(ctx context.Context) *model.SessionUser {
	user, _ := ctx.Value(sessionKey{}).(*model.SessionUser)
	if user == nil || user.ID == "" {
		return nil
	}
	return user
}

// CurrentUserEmail returns the signed-in user's email, or "" when signed out
func CurrentUserEmail(ctx context.Context) string {
	if user := CurrentUser(ctx); user != nil {
		return user.Email
	}
	return ""
}

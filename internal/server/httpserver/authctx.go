package httpserver

import (
	"context"

	"github.com/harmwatch/server/internal/model"
)

type ctxKey string

const userKey ctxKey = "hw.user"

// WithUser stores the authenticated user in the request context.
func WithUser(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromCtx fetches the authenticated user from the request context.
func UserFromCtx(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userKey).(*model.User)
	return u, ok
}

package httpx

import "context"

type ctxKey string

const (
	CtxKeyUserID ctxKey = "user_id"
	CtxKeyGroup  ctxKey = "group"
)

// UserIDFromCtx returns the authenticated user id, or "" when the request
// carried no valid session.
func UserIDFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}

func groupFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyGroup).(string); ok {
		return v
	}
	return ""
}

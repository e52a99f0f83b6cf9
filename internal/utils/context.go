package utils

import "context"

type ctxKey string

const sessionIDKey ctxKey = "checkout_session_id"

// WithSessionID stores the authenticated checkout session (set by the auth middleware).
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// GetSessionIDFromContext retrieves the session id safely
func GetSessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDKey).(string)
	return id, ok && id != ""
}

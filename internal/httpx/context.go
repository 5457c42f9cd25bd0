package httpx

import (
	"context"
	"net/http"
)

type contextKey string

const (
	userIDKey    contextKey = "userID"
	usernameKey  contextKey = "username"
	requestIDKey contextKey = "requestID"
)

// ContextWithUser returns a new context carrying the authenticated identity.
func ContextWithUser(ctx context.Context, userID int64, username string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, usernameKey, username)
}

// UserIDFrom retrieves the authenticated user id, 0 when anonymous.
func UserIDFrom(r *http.Request) int64 {
	if v, ok := r.Context().Value(userIDKey).(int64); ok {
		return v
	}
	return 0
}

// UsernameFrom retrieves the authenticated username, "" when anonymous.
func UsernameFrom(r *http.Request) string {
	if v, ok := r.Context().Value(usernameKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

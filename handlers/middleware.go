package handlers

import (
	"context"
	"net/http"
	"strings"

	"cinelist/utils"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "cinelist_session"

type contextKey string

const userIDKey contextKey = "userID"

// userIDFromContext returns the authenticated user id, or "" when the
// request carried no valid session.
func userIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// ContextWithUserID injects a user id, for tests and internal callers.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// RequireAuth validates the session token from the cookie or the bearer
// header and injects the user id into the request context. Requests without
// a valid session are rejected before any store access.
func RequireAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := tokenFromRequest(r)
			if tokenStr == "" {
				jsonError(w, "Not authenticated", http.StatusUnauthorized)
				return
			}

			claims, err := utils.ValidateSessionToken(secret, tokenStr)
			if err != nil {
				jsonError(w, "Invalid or expired session", http.StatusUnauthorized)
				return
			}

			ctx := ContextWithUserID(r.Context(), claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	auth := r.Header.Get("Authorization")
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}

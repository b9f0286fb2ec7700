package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"blogplatform/internal/httputil"
	"blogplatform/internal/model"
	"blogplatform/internal/session"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session"

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// UserIDKey is the context key for the authenticated user's ID
	UserIDKey contextKey = "user_id"

	// SessionTokenKey is the context key for the request's session token
	SessionTokenKey contextKey = "session_token"
)

// SessionMiddleware resolves the session cookie on every request.
// Requests without a live session get a fresh anonymous one, so flash
// messages work before login (failed registration, the login guard).
func SessionMiddleware(store session.Store, maxAge time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			var userID int64

			if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
				id, err := store.UserID(r.Context(), cookie.Value)
				if err == nil {
					token = cookie.Value
					userID = id
				} else if !errors.Is(err, model.ErrSessionNotFound) {
					httputil.WriteInternalError(w, "Session store unavailable")
					return
				}
			}

			if token == "" {
				anon, err := store.Create(r.Context(), 0)
				if err != nil {
					httputil.WriteInternalError(w, "Session store unavailable")
					return
				}
				token = anon
				SetSessionCookie(w, token, maxAge)
			}

			ctx := context.WithValue(r.Context(), SessionTokenKey, token)
			if userID != 0 {
				ctx = context.WithValue(ctx, UserIDKey, userID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireLogin guards a route group: unauthenticated requests are flashed
// the given message and redirected to the login page.
func RequireLogin(store session.Store, category, message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := GetUserIDFromContext(r.Context()); !ok {
				if token, ok := GetSessionToken(r.Context()); ok {
					_ = store.AddFlash(r.Context(), token, model.Flash{Category: category, Message: message})
				}
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SetSessionCookie writes the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, token string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie on the response.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetUserIDFromContext extracts the user ID from the request context
// Returns the user ID and true if found, or 0 and false if not found
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}

// GetSessionToken extracts the session token from the request context.
func GetSessionToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(SessionTokenKey).(string)
	return token, ok
}

package auth

import (
	"context"
	"net/http"
)

// contextKey is an unexported type used for context keys in this package.
// Using a package-private type prevents collisions: only this package can
// create a key of type contextKey, so only this package can read or write
// the userID value in the context.
type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth enforces authentication on protected routes.
//
// It reads the JWT from the "token" HttpOnly cookie, validates it, and
// stores the userID in the request context. If the token is missing or
// invalid, it returns 401 Unauthorized — the client reacts by redirecting
// to the login flow.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}`))
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext retrieves the authenticated user's ID from the request
// context. Returns ("", false) if the request is anonymous.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// extractUserID reads the JWT cookie and validates it.
func extractUserID(r *http.Request, tokens *TokenService) (string, error) {
	cookie, err := r.Cookie("token")
	if err != nil {
		return "", err
	}

	return tokens.Validate(cookie.Value)
}

// Package middleware provides HTTP middlewares for authentication and
// logging on the development server.
package middleware

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const userKey ctxKey = "user"

// TokenValidator resolves a bearer token to a user ID.
type TokenValidator interface {
	UserIDForToken(token string) (int, bool)
}

// TokenAuth enforces bearer-token authentication. On success the resolved
// user ID is stored in the request context for downstream handlers.
func TokenAuth(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				unauthorized(w)
				return
			}
			userID, ok := tokens.UserIDForToken(token)
			if !ok {
				unauthorized(w)
				return
			}
			ctx := context.WithValue(r.Context(), userKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"detail":"Could not validate credentials"}`))
}

// UserIDFromContext extracts the authenticated user ID from the request
// context. Returns 0 and false if not present.
func UserIDFromContext(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(userKey).(int)
	return id, ok
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"todoapi/internal/auth"
)

type contextKey string

const identityKey contextKey = "identity"

// Auth gates protected routes: it requires a valid Bearer token and puts
// the verified identity into the request context before the handler runs.
func Auth(jwtSecret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				writeUnauthorized(w, "Authorization token missing")
				return
			}

			tokenStr := strings.TrimPrefix(header, "Bearer ")
			identity, err := auth.VerifyToken(tokenStr, jwtSecret)
			if err != nil {
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity extracts the authenticated identity from the request
// context. Only valid downstream of Auth.
func GetIdentity(ctx context.Context) auth.Identity {
	return ctx.Value(identityKey).(auth.Identity)
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"message":"` + message + `"}`))
}

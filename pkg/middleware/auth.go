package middleware

import (
	"net/http"
	"strings"

	"github.com/threadline/threadline/pkg/auth"
	"github.com/threadline/threadline/pkg/response"
)

// Auth verifies the bearer token and injects the requester identity
// (id + role) into the request context for downstream authorization checks.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

		if token == "" {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Error(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := auth.WithRequester(r.Context(), auth.Requester{
			ID:   claims.UserID,
			Role: claims.Role,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects requesters without the admin role.
// Must be wired after Auth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, ok := auth.RequesterFrom(r.Context())
		if !ok {
			response.Unauthorized(w)
			return
		}
		if !req.IsAdmin() {
			response.Forbidden(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

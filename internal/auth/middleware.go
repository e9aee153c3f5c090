package auth

import (
	"net/http"
	"strings"

	"medialog/internal/core"
)

// Context key for user
type contextKey string

const userContextKey = contextKey("user")

// SessionMiddleware resolves the request's user from the auth cookie or a
// Bearer token and stores it in the request context. Unauthenticated requests
// proceed with the anonymous user.
func SessionMiddleware(service *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenPlaintext := tokenFromRequest(r)
			if tokenPlaintext == "" {
				r = contextSetUser(r, AnonymousUser)
				next.ServeHTTP(w, r)
				return
			}

			user, err := service.ValidateToken(tokenPlaintext)
			if err != nil {
				r = contextSetUser(r, AnonymousUser)
				next.ServeHTTP(w, r)
				return
			}

			r = contextSetUser(r, user)
			next.ServeHTTP(w, r)
		})
	}
}

// tokenFromRequest prefers the session cookie, falling back to a Bearer token
// for API clients.
func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie("auth_token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authorizationHeader := r.Header.Get("Authorization")
	if authorizationHeader == "" {
		return ""
	}

	headerParts := strings.Split(authorizationHeader, " ")
	if len(headerParts) != 2 || headerParts[0] != "Bearer" {
		return ""
	}

	return headerParts[1]
}

// RequireAuthentication rejects anonymous requests
func RequireAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r)

		if user.IsAnonymous() {
			core.WriteErrorResponse(w, http.StatusUnauthorized, core.NewAppError(
				core.ErrCodeUnauthorized, "Authentication required", nil))
			return
		}

		next.ServeHTTP(w, r)
	})
}

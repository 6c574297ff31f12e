package middleware

import (
	"net/http"
	"strings"

	"github.com/apridachin/girya-storekeeper/internal/api/shared"
)

// BearerAuth requires an "Authorization: Bearer <token>" header. The token
// is the caller's warehouse credential; it is not verified here but stored
// in the request context as the owner of everything the request creates.
// The warehouse rejects bad tokens on first use.
func BearerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized,
				"Authorization header required", nil, shared.WithElevatedLogLevel())
			return
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		token = strings.TrimSpace(token)
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized,
				"Invalid authorization format", nil, shared.WithElevatedLogLevel())
			return
		}

		next.ServeHTTP(w, r.WithContext(shared.SetOwner(r.Context(), token)))
	})
}

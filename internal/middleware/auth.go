package middleware

import (
	"net/http"

	"github.com/futurenote/futurenote/internal/ctxkeys"
	"github.com/futurenote/futurenote/internal/service"
)

// RequireAdmin checks the admin session cookie and adds the admin to the context.
// Missing or invalid sessions get 401; an invalid cookie is also cleared.
func RequireAdmin(auth *service.AdminAuthService) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(service.AdminCookieName)
			if err != nil || cookie.Value == "" {
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			claims, err := auth.VerifyJWT(cookie.Value)
			if err != nil {
				auth.ClearJWTCookie(w)
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			ctx := ctxkeys.WithAdmin(r.Context(), &ctxkeys.Admin{
				ID:    claims.AdminID,
				Email: claims.Email,
				Role:  claims.Role,
			})
			next(w, r.WithContext(ctx))
		}
	}
}

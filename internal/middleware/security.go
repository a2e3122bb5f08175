package middleware

import (
	"net/http"

	"github.com/futurenote/futurenote/internal/ctxkeys"
)

// SecurityHeaders sets the response headers shared by JSON and HTML responses.
// Must run after NonceMiddleware and Config.
//
// Referrer-Policy is no-referrer: the respond, delete and unsubscribe pages
// are reached through URLs carrying action tokens.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()

		styleSrc := "'none'"
		if nonce := GetNonce(r.Context()); nonce != "" {
			styleSrc = "'nonce-" + nonce + "'"
		}
		h.Set("Content-Security-Policy",
			"default-src 'none'; style-src "+styleSrc+"; img-src 'self' data:; base-uri 'none'; form-action 'self'; frame-ancestors 'none'")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")

		cfg := ctxkeys.Config(r.Context())
		if cfg != nil && cfg.IsProduction() {
			h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}

package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/futurenote/futurenote/internal/ctxkeys"
	"github.com/futurenote/futurenote/internal/ratelimit"
)

// ClientIP resolves the submitter identifier once and stores it in the context.
// trustedHops is the number of reverse proxies in front of the server; with 0
// the forwarding headers are ignored.
func ClientIP(trustedHops int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := ctxkeys.WithClientIP(r.Context(), getClientIP(r, trustedHops))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func requestIP(r *http.Request) string {
	if ip := ctxkeys.ClientIP(r.Context()); ip != "" {
		return ip
	}
	return getClientIP(r, 0)
}

// RateLimit counts each request against rule under "<prefix>:<ip>".
// Rejections get 429 with Retry-After and the X-RateLimit-* headers.
func RateLimit(limiter *ratelimit.Limiter, prefix string, rule ratelimit.Rule) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ip := requestIP(r)

			res, err := limiter.Check(r.Context(), prefix+":"+ip, rule)
			if err != nil {
				// A broken store must not take the public form down
				slog.Error("rate limit check failed", "prefix", prefix, "error", err)
				next(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

			if !res.Allowed {
				retryAfter := int(time.Until(res.ResetAt).Seconds()) + 1
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

				slog.Warn("rate limit exceeded",
					"ip", ip,
					"path", r.URL.Path,
				)
				writeJSONError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
				return
			}

			next(w, r)
		}
	}
}

// getClientIP returns the peer address, or with trusted proxies the address
// the outermost trusted proxy saw. Entries left of that in X-Forwarded-For
// are client supplied and never used.
func getClientIP(r *http.Request, trustedHops int) string {
	if trustedHops > 0 {
		var hops []string
		for _, part := range strings.Split(r.Header.Get("X-Forwarded-For"), ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				hops = append(hops, ip)
			}
		}
		if len(hops) > 0 {
			return hops[max(len(hops)-trustedHops, 0)]
		}

		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

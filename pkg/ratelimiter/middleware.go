package ratelimiter

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/depselect/pkg/clientip"
	"github.com/dmitrymomot/depselect/pkg/logger"
)

// KeyFunc picks the bucket of a request. An empty key bypasses the limiter.
type KeyFunc func(r *http.Request) string

// ByIP keys requests by client address.
func ByIP() KeyFunc {
	return func(r *http.Request) string {
		if ip := clientip.FromContext(r.Context()); ip != "" {
			return ip
		}
		return clientip.GetIP(r)
	}
}

// Middleware answers 429 with Retry-After once the bucket of a key is empty.
// Every response carries the X-RateLimit-* headers.
func Middleware(l *Limiter, keyFunc KeyFunc, log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			res, err := l.Allow(r.Context(), key)
			if err != nil {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(max(res.Remaining, 0)))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

			if !res.Allowed() {
				h.Set("Retry-After", strconv.Itoa(max(int(res.RetryAfter().Seconds()), 1)))
				log.WarnContext(r.Context(), "rate limited",
					logger.Component("ratelimiter"), logger.Key(key))
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

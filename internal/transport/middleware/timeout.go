package middleware

import (
	"context"
	"net/http"
	"time"
)

// Timeout bounds each request's context. Storage calls observe the deadline,
// so an expired request rolls back its transaction.
func Timeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

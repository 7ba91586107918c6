package middleware

import (
	"net/http"
	"time"
)

type httpObserver interface {
	ObserveHTTP(method, route string, status int, d time.Duration)
}

// Metrics records request counts and latency per route pattern. It must wrap
// the ServeMux directly so that the pattern set during routing is visible.
func Metrics(obs httpObserver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			obs.ObserveHTTP(r.Method, route, sw.status, time.Since(start))
		})
	}
}

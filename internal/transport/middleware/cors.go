package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/heartmarshall/auditlog-backend/internal/config"
)

type originSet struct {
	any     bool
	origins map[string]struct{}
}

func newOriginSet(csv string) originSet {
	s := originSet{origins: make(map[string]struct{})}
	for _, o := range strings.Split(csv, ",") {
		o = strings.TrimSpace(o)
		switch o {
		case "":
		case "*":
			s.any = true
		default:
			s.origins[o] = struct{}{}
		}
	}
	return s
}

func (s originSet) allows(origin string) bool {
	if s.any {
		return true
	}
	_, ok := s.origins[origin]
	return ok
}

// CORS answers preflight requests and decorates responses for allowed
// origins. Browser clients need ExposedHeaders to read X-Request-Id and the
// Idempotent-Replayed marker of a replayed ingest.
//
// Only OPTIONS requests carrying Access-Control-Request-Method are treated
// as preflight; a preflight from a disallowed origin gets 403.
func CORS(cfg config.CORSConfig) Middleware {
	allowed := newOriginSet(cfg.AllowedOrigins)
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Add("Vary", "Origin")
			ok := allowed.allows(origin)

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				if !ok {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				h.Set("Access-Control-Allow-Origin", origin)
				if cfg.AllowCredentials {
					h.Set("Access-Control-Allow-Credentials", "true")
				}
				h.Set("Access-Control-Allow-Methods", cfg.AllowedMethods)
				h.Set("Access-Control-Allow-Headers", cfg.AllowedHeaders)
				h.Set("Access-Control-Max-Age", maxAge)
				w.WriteHeader(http.StatusNoContent)
				return
			}

			if ok {
				h.Set("Access-Control-Allow-Origin", origin)
				if cfg.AllowCredentials {
					h.Set("Access-Control-Allow-Credentials", "true")
				}
				if cfg.ExposedHeaders != "" {
					h.Set("Access-Control-Expose-Headers", cfg.ExposedHeaders)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

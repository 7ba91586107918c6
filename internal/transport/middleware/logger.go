package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/heartmarshall/auditlog-backend/pkg/ctxutil"
)

type logAttrsKey struct{}

// logAttrs collects attributes that inner middleware learn after Logger has
// already passed the request on, such as the resolved tenant.
type logAttrs struct {
	mu    sync.Mutex
	attrs []slog.Attr
}

func addLogAttr(ctx context.Context, attr slog.Attr) {
	la, ok := ctx.Value(logAttrsKey{}).(*logAttrs)
	if !ok {
		return
	}
	la.mu.Lock()
	la.attrs = append(la.attrs, attr)
	la.mu.Unlock()
}

// Logger writes one "http.request" record per request once the handler
// returns. 5xx log at error, 4xx at warn so rejected tenants and replay
// conflicts stand out, everything else at info.
func Logger(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			extra := &logAttrs{}
			ctx := context.WithValue(r.Context(), logAttrsKey{}, extra)

			next.ServeHTTP(sw, r.WithContext(ctx))

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.status),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", ctxutil.RequestIDFromCtx(r.Context())),
			}
			extra.mu.Lock()
			attrs = append(attrs, extra.attrs...)
			extra.mu.Unlock()

			level := slog.LevelInfo
			switch {
			case sw.status >= 500:
				level = slog.LevelError
			case sw.status >= 400:
				level = slog.LevelWarn
			}
			logger.LogAttrs(r.Context(), level, "http.request", attrs...)
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the response status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

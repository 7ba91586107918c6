package middleware

import (
	"net/http"

	"github.com/heartmarshall/auditlog-backend/internal/auth"
)

// AdminKeyHeader carries the operator key for /admin routes.
const AdminKeyHeader = "X-Admin-Key"

// AdminKey rejects requests whose X-Admin-Key does not match the bcrypt hash.
// An empty hash disables the admin surface entirely.
func AdminKey(hash string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !auth.CheckAdminKey(hash, r.Header.Get(AdminKeyHeader)) {
				writeError(w, http.StatusForbidden, "forbidden", "invalid admin key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

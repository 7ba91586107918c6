package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/heartmarshall/auditlog-backend/internal/auth"
	"github.com/heartmarshall/auditlog-backend/pkg/ctxutil"
)

type tokenVerifier interface {
	VerifyToken(token string) (auth.Claims, error)
}

// TenantFromToken resolves the tenant from the Bearer token's tenant claim.
// A missing or invalid token is rejected with 401; a valid token without a
// tenant claim with 403.
func TenantFromToken(verifier tokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "unauthenticated", "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthenticated", "invalid token")
				return
			}
			if claims.TenantID == "" {
				writeError(w, http.StatusForbidden, "missing_tenant_context", "token missing tenant context")
				return
			}

			ctx := ctxutil.WithTenantID(r.Context(), claims.TenantID)
			if claims.Subject != "" {
				ctx = ctxutil.WithSubject(ctx, claims.Subject)
			}
			addLogAttr(ctx, slog.String("tenant_id", claims.TenantID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TenantFromHeader trusts the tenant named in header. Use only behind a
// gateway that authenticates callers and sets the header itself.
func TenantFromHeader(header string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenantID := strings.TrimSpace(r.Header.Get(header))
			if tenantID == "" {
				writeError(w, http.StatusForbidden, "missing_tenant_context", "missing "+header+" header")
				return
			}

			ctx := ctxutil.WithTenantID(r.Context(), tenantID)
			addLogAttr(ctx, slog.String("tenant_id", tenantID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}

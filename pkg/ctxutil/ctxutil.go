package ctxutil

import (
	"context"
)

type ctxKey string

const (
	tenantIDKey  ctxKey = "tenant_id"
	subjectKey   ctxKey = "subject"
	requestIDKey ctxKey = "request_id"
)

// WithTenantID stores the tenant ID in the context.
func WithTenantID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, tenantIDKey, id)
}

// TenantIDFromCtx extracts the tenant ID from the context.
// Returns "" and false if the value is missing or empty.
func TenantIDFromCtx(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(tenantIDKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// WithSubject stores the authenticated principal (token subject) in the context.
func WithSubject(ctx context.Context, sub string) context.Context {
	return context.WithValue(ctx, subjectKey, sub)
}

// SubjectFromCtx extracts the token subject. Returns an empty string if absent.
func SubjectFromCtx(ctx context.Context) string {
	sub, _ := ctx.Value(subjectKey).(string)
	return sub
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

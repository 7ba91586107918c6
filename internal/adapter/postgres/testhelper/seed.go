package testhelper

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/auditlog-backend/internal/domain"
	"github.com/heartmarshall/auditlog-backend/pkg/ctxutil"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedTenant creates a tenant with a unique id. tenants is not under row
// level security, so the plain pool can write it.
func SeedTenant(t *testing.T, pool *pgxpool.Pool) domain.Tenant {
	t.Helper()

	suffix := uniqueSuffix()
	tenant := domain.Tenant{
		ID:        "tenant-" + suffix,
		Name:      "Tenant " + suffix,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO tenants (id, name, created_at) VALUES ($1, $2, $3)`,
		tenant.ID, tenant.Name, tenant.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedTenant: %v", err)
	}

	return tenant
}

// TenantCtx returns a background context carrying tenantID.
func TenantCtx(tenantID string) context.Context {
	return ctxutil.WithTenantID(context.Background(), tenantID)
}

// BuildEvent returns an event ready for insertion. The hash is a fixed
// placeholder; repository tests do not depend on fingerprint semantics.
func BuildEvent(key string, occurredAt time.Time, refs ...domain.EntityRef) domain.Event {
	return domain.Event{
		ID:             uuid.New(),
		OccurredAt:     occurredAt.UTC().Truncate(time.Microsecond),
		Type:           "order.created",
		Actor:          domain.Actor{Kind: "user", ID: "u-" + uniqueSuffix()},
		Entities:       refs,
		Payload:        json.RawMessage(`{"amount":42}`),
		IdempotencyKey: key,
		Hash:           "0000000000000000000000000000000000000000000000000000000000000000",
	}
}

// UniqueKey returns a fresh idempotency key.
func UniqueKey() string {
	return "key-" + uniqueSuffix()
}

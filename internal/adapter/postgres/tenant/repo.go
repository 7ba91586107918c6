// Package tenant implements the tenant registry using PostgreSQL.
// The tenants table is outside row level security; it only records which
// identifiers may be bound to a transaction.
package tenant

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"

	postgres "github.com/heartmarshall/auditlog-backend/internal/adapter/postgres"
	"github.com/heartmarshall/auditlog-backend/internal/domain"
)

// Repo provides tenant persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new tenant repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type tenantRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

// Create registers t. An existing id returns domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, t domain.Tenant) (domain.Tenant, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var row tenantRow
	err := pgxscan.Get(ctx, q, &row,
		`INSERT INTO tenants (id, name) VALUES ($1, $2)
		 RETURNING id, name, created_at`,
		t.ID, t.Name,
	)
	if err != nil {
		return domain.Tenant{}, postgres.MapError(err, "tenant", t.ID)
	}

	return toDomain(row), nil
}

// GetByID returns the tenant with the given id.
func (r *Repo) GetByID(ctx context.Context, id string) (domain.Tenant, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var row tenantRow
	err := pgxscan.Get(ctx, q, &row,
		`SELECT id, name, created_at FROM tenants WHERE id = $1`, id,
	)
	if err != nil {
		if pgxscan.NotFound(err) {
			return domain.Tenant{}, fmt.Errorf("tenant %s: %w", id, domain.ErrNotFound)
		}
		return domain.Tenant{}, postgres.MapError(err, "tenant", id)
	}

	return toDomain(row), nil
}

func toDomain(row tenantRow) domain.Tenant {
	return domain.Tenant{ID: row.ID, Name: row.Name, CreatedAt: row.CreatedAt.UTC()}
}

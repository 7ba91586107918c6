package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// GrantAppRole gives role the privileges the service needs: read and append
// on the event tables and tenant onboarding. No UPDATE or DELETE is granted,
// events are immutable. The role must exist and must not bypass RLS.
func GrantAppRole(ctx context.Context, q Querier, role string) error {
	ident := pgx.Identifier{role}.Sanitize()

	var bypass bool
	err := q.QueryRow(ctx,
		`SELECT rolsuper OR rolbypassrls FROM pg_roles WHERE rolname = $1`, role,
	).Scan(&bypass)
	if err != nil {
		return fmt.Errorf("lookup role %s: %w", role, err)
	}
	if bypass {
		return fmt.Errorf("role %s bypasses row level security", role)
	}

	stmts := []string{
		"GRANT USAGE ON SCHEMA public TO " + ident,
		"GRANT SELECT, INSERT ON tenants, events, event_entities TO " + ident,
	}
	for _, stmt := range stmts {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("grant to %s: %w", role, err)
		}
	}
	return nil
}

// ErrIsolationBypassed is returned by IsolationProbe when tenant isolation
// would not be enforced for the current connection.
var ErrIsolationBypassed = errors.New("row level security bypassed")

// isolatedTables must have row level security enabled and forced.
var isolatedTables = []string{"events", "event_entities"}

// IsolationProbe checks that queries on q are filtered by row level
// security: the session role does not bypass it and every tenant table has
// it enabled and forced.
type IsolationProbe struct {
	db Querier
}

// NewIsolationProbe creates a probe running on db.
func NewIsolationProbe(db Querier) *IsolationProbe {
	return &IsolationProbe{db: db}
}

// CheckIsolation returns ErrIsolationBypassed (wrapped) when a table or the
// role escapes the tenant policies.
func (p *IsolationProbe) CheckIsolation(ctx context.Context) error {
	var bypass bool
	err := p.db.QueryRow(ctx,
		`SELECT rolsuper OR rolbypassrls FROM pg_roles WHERE rolname = current_user`,
	).Scan(&bypass)
	if err != nil {
		return fmt.Errorf("lookup session role: %w", err)
	}
	if bypass {
		return fmt.Errorf("session role: %w", ErrIsolationBypassed)
	}

	rows, err := p.db.Query(ctx,
		`SELECT relname, relrowsecurity AND relforcerowsecurity
		   FROM pg_class
		  WHERE relname = ANY($1) AND relkind = 'r'`,
		isolatedTables,
	)
	if err != nil {
		return fmt.Errorf("lookup table security: %w", err)
	}
	defer rows.Close()

	seen := 0
	for rows.Next() {
		var (
			table  string
			forced bool
		)
		if err := rows.Scan(&table, &forced); err != nil {
			return fmt.Errorf("scan table security: %w", err)
		}
		if !forced {
			return fmt.Errorf("table %s: %w", table, ErrIsolationBypassed)
		}
		seen++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("lookup table security: %w", err)
	}
	if seen != len(isolatedTables) {
		return fmt.Errorf("expected %d tenant tables, found %d: %w", len(isolatedTables), seen, ErrIsolationBypassed)
	}
	return nil
}

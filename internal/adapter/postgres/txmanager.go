package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/heartmarshall/auditlog-backend/internal/domain"
	"github.com/heartmarshall/auditlog-backend/pkg/ctxutil"
)

// tenantSettingSQL binds the tenant for the current transaction only
// (is_local = true), so a pooled connection never carries it further.
const tenantSettingSQL = "SELECT set_config('app.tenant_id', $1, true)"

type boundTenantKey struct{}

// ErrNoTransaction is returned by Savepoint when called outside RunInTx.
var ErrNoTransaction = errors.New("no transaction in context")

// TxManager manages database transactions using the context pattern.
// Nested RunInTx calls are NOT supported. Nested RunInTenantTx calls for
// the same tenant reuse the outer transaction.
type TxManager struct {
	db Beginner
}

// NewTxManager creates a new TxManager.
func NewTxManager(db Beginner) *TxManager {
	return &TxManager{db: db}
}

// RunInTx executes fn within a database transaction.
// Isolation level: Read Committed (PostgreSQL default).
// On success: commits.
// On error from fn: rolls back and returns the error.
// On panic from fn: rolls back and re-panics.
func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, nil, fn)
}

// RunInTenantTx is RunInTx with the context tenant bound to app.tenant_id
// before fn runs, so row level security policies see it. The binding ends
// with the transaction; every call binds again.
//
// Returns domain.ErrMissingTenantContext without touching the database if
// the context carries no tenant.
func (m *TxManager) RunInTenantTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tenantID, ok := ctxutil.TenantIDFromCtx(ctx)
	if !ok {
		return domain.ErrMissingTenantContext
	}

	if bound, ok := ctx.Value(boundTenantKey{}).(string); ok {
		if _, inTx := txFromCtx(ctx); inTx {
			if bound != tenantID {
				return fmt.Errorf("tenant %q requested inside transaction bound to %q: %w",
					tenantID, bound, domain.ErrMissingTenantContext)
			}
			return fn(ctx)
		}
	}

	bind := func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, tenantSettingSQL, tenantID); err != nil {
			return fmt.Errorf("bind tenant: %w", err)
		}
		return nil
	}

	return m.run(context.WithValue(ctx, boundTenantKey{}, tenantID), bind, fn)
}

// Savepoint runs fn inside a savepoint of the transaction in ctx. An error
// from fn rolls back to the savepoint only; the outer transaction, including
// its tenant binding, stays usable.
func (m *TxManager) Savepoint(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	tx, ok := txFromCtx(ctx)
	if !ok {
		return ErrNoTransaction
	}

	sp, err := tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin savepoint: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = sp.Rollback(ctx)
			panic(r)
		}
	}()

	if err := fn(withTx(ctx, sp)); err != nil {
		if rbErr := sp.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback to savepoint failed: %w (original error: %v)", rbErr, err)
		}
		return err
	}

	if err := sp.Commit(ctx); err != nil {
		return fmt.Errorf("release savepoint: %w", err)
	}

	return nil
}

func (m *TxManager) run(ctx context.Context, bind func(context.Context, pgx.Tx) error, fn func(ctx context.Context) error) (err error) {
	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			panic(r)
		}
	}()

	if bind != nil {
		if err := bind(ctx, tx); err != nil {
			_ = tx.Rollback(ctx)
			return err
		}
	}

	txCtx := withTx(ctx, tx)

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback failed: %w (original error: %v)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

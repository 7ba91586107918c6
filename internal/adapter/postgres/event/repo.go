// Package event implements the Event store using PostgreSQL.
// Events are append-only; every query runs under the tenant bound by
// postgres.TxManager.RunInTenantTx and is filtered by row level security.
package event

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/auditlog-backend/internal/adapter/postgres"
	"github.com/heartmarshall/auditlog-backend/internal/domain"
)

// IdempotencyConstraint is the unique constraint on (tenant_id, idempotency_key).
const IdempotencyConstraint = "uq_events_tenant_idempotency"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var columns = []string{
	"event_id", "tenant_id", "occurred_at", "ingested_at", "type",
	"actor_kind", "actor_id", "payload", "trace", "idempotency_key", "hash",
}

// Repo provides event persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new event repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type eventRow struct {
	EventID        uuid.UUID `db:"event_id"`
	TenantID       string    `db:"tenant_id"`
	OccurredAt     time.Time `db:"occurred_at"`
	IngestedAt     time.Time `db:"ingested_at"`
	Type           string    `db:"type"`
	ActorKind      string    `db:"actor_kind"`
	ActorID        string    `db:"actor_id"`
	Payload        []byte    `db:"payload"`
	Trace          []byte    `db:"trace"`
	IdempotencyKey string    `db:"idempotency_key"`
	Hash           string    `db:"hash"`
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts ev for the bound tenant and returns it with tenant_id and
// ingested_at filled by the database. Entities are not written here.
//
// A duplicate idempotency key returns domain.ErrAlreadyExists. Callers that
// need the transaction to survive it must run Create inside a savepoint.
func (r *Repo) Create(ctx context.Context, ev domain.Event) (domain.Event, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query, args, err := psql.Insert("events").
		Columns("event_id", "occurred_at", "type", "actor_kind", "actor_id",
			"payload", "trace", "idempotency_key", "hash").
		Values(ev.ID, ev.OccurredAt, ev.Type, ev.Actor.Kind, ev.Actor.ID,
			[]byte(ev.Payload), nullableJSON(ev.Trace), ev.IdempotencyKey, ev.Hash).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return domain.Event{}, fmt.Errorf("build insert event: %w", err)
	}

	var row eventRow
	if err := pgxscan.Get(ctx, q, &row, query, args...); err != nil {
		if postgres.IsConstraintViolation(err, IdempotencyConstraint) {
			return domain.Event{}, fmt.Errorf("event %s: %w", ev.IdempotencyKey, domain.ErrAlreadyExists)
		}
		if postgres.IsForeignKeyViolation(err, "") {
			return domain.Event{}, fmt.Errorf("tenant not provisioned: %w", domain.ErrMissingTenantContext)
		}
		return domain.Event{}, postgres.MapError(err, "event", ev.IdempotencyKey)
	}

	out := toDomainEvent(row)
	out.Entities = ev.Entities
	return out, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns an event of the bound tenant. Events of other tenants are
// invisible and yield domain.ErrNotFound.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Event, error) {
	return r.getOne(ctx, sq.Eq{"event_id": id}, id.String())
}

// GetByIdempotencyKey returns the bound tenant's event stored under key.
func (r *Repo) GetByIdempotencyKey(ctx context.Context, key string) (domain.Event, error) {
	return r.getOne(ctx, sq.Eq{"idempotency_key": key}, key)
}

func (r *Repo) getOne(ctx context.Context, where sq.Eq, ref string) (domain.Event, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query, args, err := psql.Select(columns...).From("events").Where(where).ToSql()
	if err != nil {
		return domain.Event{}, fmt.Errorf("build select event: %w", err)
	}

	var row eventRow
	if err := pgxscan.Get(ctx, q, &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return domain.Event{}, fmt.Errorf("event %s: %w", ref, domain.ErrNotFound)
		}
		return domain.Event{}, postgres.MapError(err, "event", ref)
	}

	return toDomainEvent(row), nil
}

// List returns one page of the bound tenant's events, newest first.
// hasMore reports whether another page follows.
func (r *Repo) List(ctx context.Context, df domain.EventFilter) ([]domain.Event, bool, error) {
	f := fromDomainFilter(df)
	f.normalize()

	sb := psql.Select(qualified("e")...).From("events e")
	if f.Type != "" {
		sb = sb.Where(sq.Eq{"e.type": f.Type})
	}
	if f.ActorID != "" {
		sb = sb.Where(sq.Eq{"e.actor_id": f.ActorID})
	}
	sb = applyCursor(sb, "e", f.Cursor).
		OrderBy("e.occurred_at DESC", "e.event_id DESC").
		Limit(uint64(f.Limit + 1))

	return r.selectPage(ctx, sb, f.Limit)
}

// ListByEntity returns one page of the timeline of ref, newest first. It scans
// the association index and joins the events it points to.
func (r *Repo) ListByEntity(ctx context.Context, ref domain.EntityRef, cursor *domain.Cursor, limit int) ([]domain.Event, bool, error) {
	limit = clampLimit(limit)

	sb := psql.Select(qualified("e")...).
		From("event_entities ee").
		Join("events e ON e.event_id = ee.event_id").
		Where(sq.Eq{"ee.entity_kind": ref.Kind, "ee.entity_id": ref.ID})
	sb = applyCursor(sb, "ee", cursor).
		OrderBy("ee.occurred_at DESC", "ee.event_id DESC").
		Limit(uint64(limit + 1))

	return r.selectPage(ctx, sb, limit)
}

// selectPage runs a query fetching limit+1 rows and trims the probe row.
func (r *Repo) selectPage(ctx context.Context, sb sq.SelectBuilder, limit int) ([]domain.Event, bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query, args, err := sb.ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("build select events: %w", err)
	}

	var rows []eventRow
	if err := pgxscan.Select(ctx, q, &rows, query, args...); err != nil {
		return nil, false, fmt.Errorf("select events: %w", err)
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}

	events := make([]domain.Event, len(rows))
	for i, row := range rows {
		events[i] = toDomainEvent(row)
	}
	return events, hasMore, nil
}

// ---------------------------------------------------------------------------
// Mapping helpers
// ---------------------------------------------------------------------------

func qualified(alias string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = alias + "." + c
	}
	return out
}

func toDomainEvent(row eventRow) domain.Event {
	ev := domain.Event{
		ID:             row.EventID,
		TenantID:       row.TenantID,
		OccurredAt:     row.OccurredAt.UTC(),
		IngestedAt:     row.IngestedAt.UTC(),
		Type:           row.Type,
		Actor:          domain.Actor{Kind: row.ActorKind, ID: row.ActorID},
		Payload:        json.RawMessage(row.Payload),
		IdempotencyKey: row.IdempotencyKey,
		Hash:           row.Hash,
	}
	if len(row.Trace) > 0 {
		ev.Trace = json.RawMessage(row.Trace)
	}
	return ev
}

// nullableJSON maps an absent document to SQL NULL.
func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return []byte(raw)
}

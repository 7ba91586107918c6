// Package assoc implements the association index between events and the
// entities they reference. Rows duplicate occurred_at so timelines can be
// served from the index without touching events for ordering.
package assoc

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/auditlog-backend/internal/adapter/postgres"
	"github.com/heartmarshall/auditlog-backend/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides event_entities persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new association repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Insert links eventID to every ref. refs must already be deduplicated.
func (r *Repo) Insert(ctx context.Context, eventID uuid.UUID, occurredAt time.Time, refs []domain.EntityRef) error {
	if len(refs) == 0 {
		return nil
	}

	q := postgres.QuerierFromCtx(ctx, r.db)

	ib := psql.Insert("event_entities").Columns("event_id", "entity_kind", "entity_id", "occurred_at")
	for _, ref := range refs {
		ib = ib.Values(eventID, ref.Kind, ref.ID, occurredAt)
	}

	query, args, err := ib.ToSql()
	if err != nil {
		return fmt.Errorf("build insert event_entities: %w", err)
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "event_entities", eventID.String())
	}
	return nil
}

type refRow struct {
	EventID    uuid.UUID `db:"event_id"`
	EntityKind string    `db:"entity_kind"`
	EntityID   string    `db:"entity_id"`
}

// ListByEvents returns the entity references of each event in ids.
// Events without references are absent from the map.
func (r *Repo) ListByEvents(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]domain.EntityRef, error) {
	out := make(map[uuid.UUID][]domain.EntityRef, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.db)

	var rows []refRow
	err := pgxscan.Select(ctx, q, &rows,
		`SELECT event_id, entity_kind, entity_id
		   FROM event_entities
		  WHERE event_id = ANY($1)
		  ORDER BY event_id, entity_kind, entity_id`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("select event_entities: %w", err)
	}

	for _, row := range rows {
		out[row.EventID] = append(out[row.EventID], domain.EntityRef{Kind: row.EntityKind, ID: row.EntityID})
	}
	return out, nil
}

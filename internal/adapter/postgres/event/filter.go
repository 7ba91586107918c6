package event

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/heartmarshall/auditlog-backend/internal/domain"
)

// Filter defines parameters for listing a tenant's events.
type Filter struct {
	// Type matches events.type exactly. Empty means no filter.
	Type string

	// ActorID matches events.actor_id exactly. Empty means no filter.
	ActorID string

	// Cursor continues a previous page. nil starts from the newest event.
	Cursor *domain.Cursor

	// Limit is the page size. Default: 50, max: 100.
	Limit int
}

const (
	DefaultLimit = 50
	MaxLimit     = 100
)

func fromDomainFilter(df domain.EventFilter) Filter {
	return Filter{Type: df.Type, ActorID: df.ActorID, Cursor: df.Cursor, Limit: df.Limit}
}

// normalize applies defaults and clamps values.
func (f *Filter) normalize() {
	f.Limit = clampLimit(f.Limit)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// applyCursor adds the keyset predicate for (occurred_at DESC, event_id DESC)
// ordering. alias is the table alias owning both columns.
func applyCursor(sb sq.SelectBuilder, alias string, c *domain.Cursor) sq.SelectBuilder {
	if c == nil {
		return sb
	}
	if c.HasEventID() {
		return sb.Where(sq.Expr("("+alias+".occurred_at, "+alias+".event_id) < (?, ?)", c.OccurredAt, c.EventID))
	}
	return sb.Where(sq.Lt{alias + ".occurred_at": c.OccurredAt})
}

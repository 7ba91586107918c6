package timeline

import (
	"github.com/heartmarshall/auditlog-backend/internal/domain"
)

// Input holds the parameters of a timeline query. Entity is a "kind:id"
// reference; Cursor is the next_cursor of a previous page.
type Input struct {
	Entity string
	Cursor string
	Limit  int
}

// Validate checks the limit. Entity and cursor are checked while parsing
// so that their dedicated errors reach the caller.
func (i Input) Validate() error {
	if i.Limit > MaxLimit {
		return domain.NewValidationError("limit", "max 100")
	}
	return nil
}

type query struct {
	ref    domain.EntityRef
	cursor *domain.Cursor
	limit  int
}

func (i Input) parse() (query, error) {
	ref, err := domain.ParseEntityRef(i.Entity)
	if err != nil {
		return query{}, err
	}

	q := query{ref: ref, limit: i.Limit}
	if q.limit <= 0 {
		q.limit = DefaultLimit
	}

	if i.Cursor != "" {
		c, err := domain.DecodeCursor(i.Cursor)
		if err != nil {
			return query{}, err
		}
		q.cursor = &c
	}
	return q, nil
}

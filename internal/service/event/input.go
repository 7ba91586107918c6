package event

import (
	"strings"

	"github.com/heartmarshall/auditlog-backend/internal/domain"
)

// ListInput holds the parameters for listing events. Cursor is the opaque
// next_cursor of a previous page.
type ListInput struct {
	Type    string
	ActorID string
	Cursor  string
	Limit   int
}

// Validate checks all fields and collects all errors.
func (i ListInput) Validate() error {
	var errs []domain.FieldError
	if i.Limit > MaxLimit {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "max 100"})
	}
	if len(i.Type) > 255 {
		errs = append(errs, domain.FieldError{Field: "type", Message: "max 255 characters"})
	}
	if len(i.ActorID) > 255 {
		errs = append(errs, domain.FieldError{Field: "actor_id", Message: "max 255 characters"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func (i ListInput) filter() (domain.EventFilter, error) {
	f := domain.EventFilter{
		Type:    strings.TrimSpace(i.Type),
		ActorID: strings.TrimSpace(i.ActorID),
		Limit:   i.Limit,
	}
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if i.Cursor != "" {
		c, err := domain.DecodeCursor(i.Cursor)
		if err != nil {
			return domain.EventFilter{}, err
		}
		f.Cursor = &c
	}
	return f, nil
}

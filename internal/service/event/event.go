package event

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/auditlog-backend/internal/domain"
	"github.com/heartmarshall/auditlog-backend/pkg/ctxutil"
)

// Get returns one event of the tenant in ctx with its entity references.
// Events of other tenants are reported as domain.ErrNotFound.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.Event, error) {
	if _, ok := ctxutil.TenantIDFromCtx(ctx); !ok {
		return domain.Event{}, domain.ErrMissingTenantContext
	}

	var ev domain.Event
	err := s.tx.RunInTenantTx(ctx, func(ctx context.Context) error {
		var err error
		ev, err = s.events.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}

		refs, err := s.assoc.ListByEvents(ctx, []uuid.UUID{ev.ID})
		if err != nil {
			return fmt.Errorf("list entity links: %w", err)
		}
		ev.Entities = refs[ev.ID]
		return nil
	})
	if err != nil {
		return domain.Event{}, err
	}

	return ev, nil
}

// List returns one page of the tenant's events, newest first.
func (s *Service) List(ctx context.Context, input ListInput) (domain.Page, error) {
	if _, ok := ctxutil.TenantIDFromCtx(ctx); !ok {
		return domain.Page{}, domain.ErrMissingTenantContext
	}

	if err := input.Validate(); err != nil {
		return domain.Page{}, err
	}

	filter, err := input.filter()
	if err != nil {
		return domain.Page{}, err
	}

	var page domain.Page
	err = s.tx.RunInTenantTx(ctx, func(ctx context.Context) error {
		events, hasMore, err := s.events.List(ctx, filter)
		if err != nil {
			return fmt.Errorf("list events: %w", err)
		}

		refs, err := s.assoc.ListByEvents(ctx, domain.EventIDs(events))
		if err != nil {
			return fmt.Errorf("list entity links: %w", err)
		}
		domain.AttachEntities(events, refs)

		page = domain.NewPage(events, hasMore)
		return nil
	})
	if err != nil {
		return domain.Page{}, err
	}

	return page, nil
}

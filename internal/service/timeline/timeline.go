package timeline

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/heartmarshall/auditlog-backend/internal/domain"
	"github.com/heartmarshall/auditlog-backend/pkg/ctxutil"
)

// Timeline returns one page of events linked to the entity, newest first.
// An event linked to several entities appears in each of their timelines.
func (s *Service) Timeline(ctx context.Context, input Input) (domain.Page, error) {
	ctx, span := s.tracer.Start(ctx, "timeline.Query")
	defer span.End()

	tenantID, ok := ctxutil.TenantIDFromCtx(ctx)
	if !ok {
		return domain.Page{}, domain.ErrMissingTenantContext
	}

	if err := input.Validate(); err != nil {
		return domain.Page{}, err
	}

	q, err := input.parse()
	if err != nil {
		return domain.Page{}, err
	}

	span.SetAttributes(
		attribute.String("tenant_id", tenantID),
		attribute.String("entity.kind", q.ref.Kind),
		attribute.Int("limit", q.limit),
	)

	var page domain.Page
	err = s.tx.RunInTenantTx(ctx, func(ctx context.Context) error {
		events, hasMore, err := s.events.ListByEntity(ctx, q.ref, q.cursor, q.limit)
		if err != nil {
			return fmt.Errorf("list timeline: %w", err)
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
		span.RecordError(err)
		span.SetStatus(codes.Error, "timeline query failed")
		return domain.Page{}, err
	}

	s.log.DebugContext(ctx, "timeline served",
		slog.String("tenant_id", tenantID),
		slog.String("entity", q.ref.String()),
		slog.Int("events", len(page.Events)),
	)

	return page, nil
}

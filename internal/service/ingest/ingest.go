package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/heartmarshall/auditlog-backend/internal/domain"
	"github.com/heartmarshall/auditlog-backend/pkg/ctxutil"
)

// Result is the outcome of a successful ingest.
type Result struct {
	Event  domain.Event
	Status domain.IngestStatus
}

// Create records an event for the tenant in ctx.
//
// The first request for a key stores the event and returns IngestCreated.
// Later requests with the same fingerprint return the stored event with
// IngestReplayed. A different fingerprint under the same key yields an
// *domain.IdempotencyConflictError. Concurrent requests for one key are
// resolved by the database unique constraint; exactly one of them creates.
func (s *Service) Create(ctx context.Context, input CreateInput) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "ingest.Create")
	defer span.End()

	tenantID, ok := ctxutil.TenantIDFromCtx(ctx)
	if !ok {
		return Result{}, domain.ErrMissingTenantContext
	}
	span.SetAttributes(
		attribute.String("tenant_id", tenantID),
		attribute.String("event.type", input.Type),
	)

	if err := input.Validate(); err != nil {
		return Result{}, err
	}

	hash := input.Hash
	if hash == "" {
		var err error
		hash, err = Fingerprint(input.Payload, input.OccurredAt, input.Type, input.Actor)
		if err != nil {
			return Result{}, domain.NewValidationError("payload", err.Error())
		}
	}

	candidate := domain.Event{
		ID:             uuid.New(),
		OccurredAt:     input.OccurredAt.UTC(),
		Type:           input.Type,
		Actor:          input.Actor,
		Entities:       domain.DedupeEntityRefs(input.Entities),
		Payload:        input.Payload,
		Trace:          input.Trace,
		IdempotencyKey: input.IdempotencyKey,
		Hash:           hash,
	}

	var result Result
	err := s.tx.RunInTenantTx(ctx, func(ctx context.Context) error {
		var err error
		result, err = s.createOrReplay(ctx, candidate)
		return err
	})
	if err != nil {
		s.recordFailure(ctx, tenantID, input.IdempotencyKey, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "ingest failed")
		return Result{}, err
	}

	span.SetAttributes(
		attribute.String("event.id", result.Event.ID.String()),
		attribute.String("ingest.status", result.Status.String()),
	)

	if result.Status == domain.IngestReplayed {
		s.metrics.IngestOutcome(OutcomeReplayed)
		s.log.InfoContext(ctx, "event replayed",
			slog.String("tenant_id", tenantID),
			slog.String("event_id", result.Event.ID.String()),
			slog.String("idempotency_key", input.IdempotencyKey),
		)
		return result, nil
	}

	s.metrics.IngestOutcome(OutcomeCreated)
	s.log.InfoContext(ctx, "event created",
		slog.String("tenant_id", tenantID),
		slog.String("event_id", result.Event.ID.String()),
		slog.String("type", result.Event.Type),
		slog.Int("entities", len(result.Event.Entities)),
	)
	return result, nil
}

// createOrReplay runs inside the tenant transaction. The insert happens in a
// savepoint so that a unique violation leaves the outer transaction usable
// for the lookup that follows.
func (s *Service) createOrReplay(ctx context.Context, candidate domain.Event) (Result, error) {
	var created domain.Event
	err := s.tx.Savepoint(ctx, func(ctx context.Context) error {
		ev, err := s.events.Create(ctx, candidate)
		if err != nil {
			return err
		}
		if err := s.assoc.Insert(ctx, ev.ID, ev.OccurredAt, candidate.Entities); err != nil {
			return fmt.Errorf("insert entity links: %w", err)
		}
		created = ev
		return nil
	})
	if err == nil {
		return Result{Event: created, Status: domain.IngestCreated}, nil
	}
	if !errors.Is(err, domain.ErrAlreadyExists) {
		return Result{}, fmt.Errorf("create event: %w", err)
	}

	existing, err := s.events.GetByIdempotencyKey(ctx, candidate.IdempotencyKey)
	if errors.Is(err, domain.ErrNotFound) {
		return Result{}, fmt.Errorf("key %q conflicted but no event is visible: %w", candidate.IdempotencyKey, domain.ErrCreateFailed)
	}
	if err != nil {
		return Result{}, fmt.Errorf("get existing event: %w", err)
	}

	if existing.Hash != candidate.Hash {
		return Result{}, domain.NewHashMismatchError(candidate.IdempotencyKey)
	}

	refs, err := s.assoc.ListByEvents(ctx, []uuid.UUID{existing.ID})
	if err != nil {
		return Result{}, fmt.Errorf("list entity links: %w", err)
	}
	existing.Entities = refs[existing.ID]

	return Result{Event: existing, Status: domain.IngestReplayed}, nil
}

func (s *Service) recordFailure(ctx context.Context, tenantID, key string, err error) {
	switch {
	case errors.Is(err, domain.ErrIdempotencyConflict):
		s.metrics.IngestOutcome(OutcomeConflict)
		s.log.WarnContext(ctx, "idempotency conflict",
			slog.String("tenant_id", tenantID),
			slog.String("idempotency_key", key),
		)
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrMissingTenantContext):
	default:
		s.metrics.IngestOutcome(OutcomeFailed)
	}
}

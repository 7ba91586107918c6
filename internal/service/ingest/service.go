package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/heartmarshall/auditlog-backend/internal/domain"
)

// Ingest outcomes reported to the outcome recorder.
const (
	OutcomeCreated  = "created"
	OutcomeReplayed = "replayed"
	OutcomeConflict = "conflict"
	OutcomeFailed   = "failed"
)

type txManager interface {
	RunInTenantTx(ctx context.Context, fn func(ctx context.Context) error) error
	Savepoint(ctx context.Context, fn func(ctx context.Context) error) error
}

type eventRepo interface {
	Create(ctx context.Context, ev domain.Event) (domain.Event, error)
	GetByIdempotencyKey(ctx context.Context, key string) (domain.Event, error)
}

type assocRepo interface {
	Insert(ctx context.Context, eventID uuid.UUID, occurredAt time.Time, refs []domain.EntityRef) error
	ListByEvents(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]domain.EntityRef, error)
}

type outcomeRecorder interface {
	IngestOutcome(outcome string)
}

// Service records audit events exactly once per (tenant, idempotency key).
type Service struct {
	log     *slog.Logger
	tx      txManager
	events  eventRepo
	assoc   assocRepo
	metrics outcomeRecorder
	tracer  trace.Tracer
}

// NewService creates a new ingest service. metrics may be an untyped nil
// interface; a typed nil pointer is not detected and will be called.
func NewService(
	log *slog.Logger,
	tx txManager,
	events eventRepo,
	assoc assocRepo,
	metrics outcomeRecorder,
) *Service {
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &Service{
		log:     log.With("service", "ingest"),
		tx:      tx,
		events:  events,
		assoc:   assoc,
		metrics: metrics,
		tracer:  otel.Tracer("github.com/heartmarshall/auditlog-backend/internal/service/ingest"),
	}
}

type nopRecorder struct{}

func (nopRecorder) IngestOutcome(string) {}

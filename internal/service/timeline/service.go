package timeline

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/heartmarshall/auditlog-backend/internal/domain"
)

const (
	DefaultLimit = 50
	MaxLimit     = 100
)

type txManager interface {
	RunInTenantTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type eventRepo interface {
	ListByEntity(ctx context.Context, ref domain.EntityRef, cursor *domain.Cursor, limit int) ([]domain.Event, bool, error)
}

type assocRepo interface {
	ListByEvents(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]domain.EntityRef, error)
}

// Service answers "what happened to entity X" queries.
type Service struct {
	log    *slog.Logger
	tx     txManager
	events eventRepo
	assoc  assocRepo
	tracer trace.Tracer
}

// NewService creates a new timeline service.
func NewService(
	log *slog.Logger,
	tx txManager,
	events eventRepo,
	assoc assocRepo,
) *Service {
	return &Service{
		log:    log.With("service", "timeline"),
		tx:     tx,
		events: events,
		assoc:  assoc,
		tracer: otel.Tracer("github.com/heartmarshall/auditlog-backend/internal/service/timeline"),
	}
}

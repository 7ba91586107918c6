package event

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

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
	GetByID(ctx context.Context, id uuid.UUID) (domain.Event, error)
	List(ctx context.Context, filter domain.EventFilter) ([]domain.Event, bool, error)
}

type assocRepo interface {
	ListByEvents(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]domain.EntityRef, error)
}

// Service provides read access to a tenant's events.
type Service struct {
	log    *slog.Logger
	tx     txManager
	events eventRepo
	assoc  assocRepo
}

// NewService creates a new event read service.
func NewService(
	log *slog.Logger,
	tx txManager,
	events eventRepo,
	assoc assocRepo,
) *Service {
	return &Service{
		log:    log.With("service", "event"),
		tx:     tx,
		events: events,
		assoc:  assoc,
	}
}

package ingest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/auditlog-backend/internal/domain"
)

var (
	_ txManager       = &txManagerMock{}
	_ eventRepo       = &eventRepoMock{}
	_ assocRepo       = &assocRepoMock{}
	_ outcomeRecorder = &outcomeRecorderMock{}
)

// ---------------------------------------------------------------------------
// txManagerMock
// ---------------------------------------------------------------------------

type txManagerMock struct {
	RunInTenantTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
	SavepointFunc     func(ctx context.Context, fn func(ctx context.Context) error) error

	calls struct {
		RunInTenantTx []struct{ Ctx context.Context }
		Savepoint     []struct{ Ctx context.Context }
	}
	lockRunInTenantTx sync.RWMutex
	lockSavepoint     sync.RWMutex
}

func (mock *txManagerMock) RunInTenantTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if mock.RunInTenantTxFunc == nil {
		panic("txManagerMock.RunInTenantTxFunc: method is nil but txManager.RunInTenantTx was just called")
	}
	mock.lockRunInTenantTx.Lock()
	mock.calls.RunInTenantTx = append(mock.calls.RunInTenantTx, struct{ Ctx context.Context }{Ctx: ctx})
	mock.lockRunInTenantTx.Unlock()
	return mock.RunInTenantTxFunc(ctx, fn)
}

func (mock *txManagerMock) RunInTenantTxCalls() []struct{ Ctx context.Context } {
	mock.lockRunInTenantTx.RLock()
	calls := mock.calls.RunInTenantTx
	mock.lockRunInTenantTx.RUnlock()
	return calls
}

func (mock *txManagerMock) Savepoint(ctx context.Context, fn func(ctx context.Context) error) error {
	if mock.SavepointFunc == nil {
		panic("txManagerMock.SavepointFunc: method is nil but txManager.Savepoint was just called")
	}
	mock.lockSavepoint.Lock()
	mock.calls.Savepoint = append(mock.calls.Savepoint, struct{ Ctx context.Context }{Ctx: ctx})
	mock.lockSavepoint.Unlock()
	return mock.SavepointFunc(ctx, fn)
}

func (mock *txManagerMock) SavepointCalls() []struct{ Ctx context.Context } {
	mock.lockSavepoint.RLock()
	calls := mock.calls.Savepoint
	mock.lockSavepoint.RUnlock()
	return calls
}

// ---------------------------------------------------------------------------
// eventRepoMock
// ---------------------------------------------------------------------------

type eventRepoMock struct {
	CreateFunc              func(ctx context.Context, ev domain.Event) (domain.Event, error)
	GetByIdempotencyKeyFunc func(ctx context.Context, key string) (domain.Event, error)

	calls struct {
		Create []struct {
			Ctx context.Context
			Ev  domain.Event
		}
		GetByIdempotencyKey []struct {
			Ctx context.Context
			Key string
		}
	}
	lockCreate              sync.RWMutex
	lockGetByIdempotencyKey sync.RWMutex
}

func (mock *eventRepoMock) Create(ctx context.Context, ev domain.Event) (domain.Event, error) {
	if mock.CreateFunc == nil {
		panic("eventRepoMock.CreateFunc: method is nil but eventRepo.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Ev  domain.Event
	}{Ctx: ctx, Ev: ev}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, ev)
}

func (mock *eventRepoMock) CreateCalls() []struct {
	Ctx context.Context
	Ev  domain.Event
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *eventRepoMock) GetByIdempotencyKey(ctx context.Context, key string) (domain.Event, error) {
	if mock.GetByIdempotencyKeyFunc == nil {
		panic("eventRepoMock.GetByIdempotencyKeyFunc: method is nil but eventRepo.GetByIdempotencyKey was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Key string
	}{Ctx: ctx, Key: key}
	mock.lockGetByIdempotencyKey.Lock()
	mock.calls.GetByIdempotencyKey = append(mock.calls.GetByIdempotencyKey, callInfo)
	mock.lockGetByIdempotencyKey.Unlock()
	return mock.GetByIdempotencyKeyFunc(ctx, key)
}

func (mock *eventRepoMock) GetByIdempotencyKeyCalls() []struct {
	Ctx context.Context
	Key string
} {
	mock.lockGetByIdempotencyKey.RLock()
	calls := mock.calls.GetByIdempotencyKey
	mock.lockGetByIdempotencyKey.RUnlock()
	return calls
}

// ---------------------------------------------------------------------------
// assocRepoMock
// ---------------------------------------------------------------------------

type assocRepoMock struct {
	InsertFunc       func(ctx context.Context, eventID uuid.UUID, occurredAt time.Time, refs []domain.EntityRef) error
	ListByEventsFunc func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]domain.EntityRef, error)

	calls struct {
		Insert []struct {
			Ctx        context.Context
			EventID    uuid.UUID
			OccurredAt time.Time
			Refs       []domain.EntityRef
		}
		ListByEvents []struct {
			Ctx context.Context
			IDs []uuid.UUID
		}
	}
	lockInsert       sync.RWMutex
	lockListByEvents sync.RWMutex
}

func (mock *assocRepoMock) Insert(ctx context.Context, eventID uuid.UUID, occurredAt time.Time, refs []domain.EntityRef) error {
	if mock.InsertFunc == nil {
		panic("assocRepoMock.InsertFunc: method is nil but assocRepo.Insert was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		EventID    uuid.UUID
		OccurredAt time.Time
		Refs       []domain.EntityRef
	}{Ctx: ctx, EventID: eventID, OccurredAt: occurredAt, Refs: refs}
	mock.lockInsert.Lock()
	mock.calls.Insert = append(mock.calls.Insert, callInfo)
	mock.lockInsert.Unlock()
	return mock.InsertFunc(ctx, eventID, occurredAt, refs)
}

func (mock *assocRepoMock) InsertCalls() []struct {
	Ctx        context.Context
	EventID    uuid.UUID
	OccurredAt time.Time
	Refs       []domain.EntityRef
} {
	mock.lockInsert.RLock()
	calls := mock.calls.Insert
	mock.lockInsert.RUnlock()
	return calls
}

func (mock *assocRepoMock) ListByEvents(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]domain.EntityRef, error) {
	if mock.ListByEventsFunc == nil {
		panic("assocRepoMock.ListByEventsFunc: method is nil but assocRepo.ListByEvents was just called")
	}
	callInfo := struct {
		Ctx context.Context
		IDs []uuid.UUID
	}{Ctx: ctx, IDs: ids}
	mock.lockListByEvents.Lock()
	mock.calls.ListByEvents = append(mock.calls.ListByEvents, callInfo)
	mock.lockListByEvents.Unlock()
	return mock.ListByEventsFunc(ctx, ids)
}

func (mock *assocRepoMock) ListByEventsCalls() []struct {
	Ctx context.Context
	IDs []uuid.UUID
} {
	mock.lockListByEvents.RLock()
	calls := mock.calls.ListByEvents
	mock.lockListByEvents.RUnlock()
	return calls
}

// ---------------------------------------------------------------------------
// outcomeRecorderMock
// ---------------------------------------------------------------------------

type outcomeRecorderMock struct {
	IngestOutcomeFunc func(outcome string)

	calls struct {
		IngestOutcome []struct{ Outcome string }
	}
	lockIngestOutcome sync.RWMutex
}

func (mock *outcomeRecorderMock) IngestOutcome(outcome string) {
	mock.lockIngestOutcome.Lock()
	mock.calls.IngestOutcome = append(mock.calls.IngestOutcome, struct{ Outcome string }{Outcome: outcome})
	mock.lockIngestOutcome.Unlock()
	if mock.IngestOutcomeFunc != nil {
		mock.IngestOutcomeFunc(outcome)
	}
}

func (mock *outcomeRecorderMock) IngestOutcomeCalls() []struct{ Outcome string } {
	mock.lockIngestOutcome.RLock()
	calls := mock.calls.IngestOutcome
	mock.lockIngestOutcome.RUnlock()
	return calls
}

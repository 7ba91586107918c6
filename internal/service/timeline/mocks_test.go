package timeline

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/auditlog-backend/internal/domain"
)

var (
	_ txManager = &txManagerMock{}
	_ eventRepo = &eventRepoMock{}
	_ assocRepo = &assocRepoMock{}
)

type txManagerMock struct {
	RunInTenantTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error

	calls struct {
		RunInTenantTx []struct{ Ctx context.Context }
	}
	lockRunInTenantTx sync.RWMutex
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

type eventRepoMock struct {
	ListByEntityFunc func(ctx context.Context, ref domain.EntityRef, cursor *domain.Cursor, limit int) ([]domain.Event, bool, error)

	calls struct {
		ListByEntity []struct {
			Ctx    context.Context
			Ref    domain.EntityRef
			Cursor *domain.Cursor
			Limit  int
		}
	}
	lockListByEntity sync.RWMutex
}

func (mock *eventRepoMock) ListByEntity(ctx context.Context, ref domain.EntityRef, cursor *domain.Cursor, limit int) ([]domain.Event, bool, error) {
	if mock.ListByEntityFunc == nil {
		panic("eventRepoMock.ListByEntityFunc: method is nil but eventRepo.ListByEntity was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Ref    domain.EntityRef
		Cursor *domain.Cursor
		Limit  int
	}{Ctx: ctx, Ref: ref, Cursor: cursor, Limit: limit}
	mock.lockListByEntity.Lock()
	mock.calls.ListByEntity = append(mock.calls.ListByEntity, callInfo)
	mock.lockListByEntity.Unlock()
	return mock.ListByEntityFunc(ctx, ref, cursor, limit)
}

func (mock *eventRepoMock) ListByEntityCalls() []struct {
	Ctx    context.Context
	Ref    domain.EntityRef
	Cursor *domain.Cursor
	Limit  int
} {
	mock.lockListByEntity.RLock()
	calls := mock.calls.ListByEntity
	mock.lockListByEntity.RUnlock()
	return calls
}

type assocRepoMock struct {
	ListByEventsFunc func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]domain.EntityRef, error)

	calls struct {
		ListByEvents []struct {
			Ctx context.Context
			IDs []uuid.UUID
		}
	}
	lockListByEvents sync.RWMutex
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

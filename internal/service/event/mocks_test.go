package event

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
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (domain.Event, error)
	ListFunc    func(ctx context.Context, filter domain.EventFilter) ([]domain.Event, bool, error)

	calls struct {
		GetByID []struct {
			Ctx context.Context
			ID  uuid.UUID
		}
		List []struct {
			Ctx    context.Context
			Filter domain.EventFilter
		}
	}
	lockGetByID sync.RWMutex
	lockList    sync.RWMutex
}

func (mock *eventRepoMock) GetByID(ctx context.Context, id uuid.UUID) (domain.Event, error) {
	if mock.GetByIDFunc == nil {
		panic("eventRepoMock.GetByIDFunc: method is nil but eventRepo.GetByID was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
	}{Ctx: ctx, ID: id}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

func (mock *eventRepoMock) List(ctx context.Context, filter domain.EventFilter) ([]domain.Event, bool, error) {
	if mock.ListFunc == nil {
		panic("eventRepoMock.ListFunc: method is nil but eventRepo.List was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Filter domain.EventFilter
	}{Ctx: ctx, Filter: filter}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, callInfo)
	mock.lockList.Unlock()
	return mock.ListFunc(ctx, filter)
}

func (mock *eventRepoMock) ListCalls() []struct {
	Ctx    context.Context
	Filter domain.EventFilter
} {
	mock.lockList.RLock()
	calls := mock.calls.List
	mock.lockList.RUnlock()
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

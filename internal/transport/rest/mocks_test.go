package rest

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/auditlog-backend/internal/domain"
	eventsvc "github.com/heartmarshall/auditlog-backend/internal/service/event"
	"github.com/heartmarshall/auditlog-backend/internal/service/ingest"
	"github.com/heartmarshall/auditlog-backend/internal/service/tenant"
	"github.com/heartmarshall/auditlog-backend/internal/service/timeline"
)

// ingestServiceMock is a mock implementation of ingestService.
type ingestServiceMock struct {
	CreateFunc func(ctx context.Context, input ingest.CreateInput) (ingest.Result, error)

	calls struct {
		Create []struct {
			Ctx   context.Context
			Input ingest.CreateInput
		}
	}
	lockCreate sync.RWMutex
}

var _ ingestService = &ingestServiceMock{}

func (m *ingestServiceMock) Create(ctx context.Context, input ingest.CreateInput) (ingest.Result, error) {
	if m.CreateFunc == nil {
		panic("ingestServiceMock.CreateFunc: method is nil but ingestService.Create was just called")
	}
	m.lockCreate.Lock()
	m.calls.Create = append(m.calls.Create, struct {
		Ctx   context.Context
		Input ingest.CreateInput
	}{ctx, input})
	m.lockCreate.Unlock()
	return m.CreateFunc(ctx, input)
}

func (m *ingestServiceMock) CreateCalls() []struct {
	Ctx   context.Context
	Input ingest.CreateInput
} {
	m.lockCreate.RLock()
	defer m.lockCreate.RUnlock()
	return m.calls.Create
}

// eventServiceMock is a mock implementation of eventService.
type eventServiceMock struct {
	GetFunc  func(ctx context.Context, id uuid.UUID) (domain.Event, error)
	ListFunc func(ctx context.Context, input eventsvc.ListInput) (domain.Page, error)

	calls struct {
		Get  []struct{ ID uuid.UUID }
		List []struct{ Input eventsvc.ListInput }
	}
	lockGet  sync.RWMutex
	lockList sync.RWMutex
}

var _ eventService = &eventServiceMock{}

func (m *eventServiceMock) Get(ctx context.Context, id uuid.UUID) (domain.Event, error) {
	if m.GetFunc == nil {
		panic("eventServiceMock.GetFunc: method is nil but eventService.Get was just called")
	}
	m.lockGet.Lock()
	m.calls.Get = append(m.calls.Get, struct{ ID uuid.UUID }{id})
	m.lockGet.Unlock()
	return m.GetFunc(ctx, id)
}

func (m *eventServiceMock) GetCalls() []struct{ ID uuid.UUID } {
	m.lockGet.RLock()
	defer m.lockGet.RUnlock()
	return m.calls.Get
}

func (m *eventServiceMock) List(ctx context.Context, input eventsvc.ListInput) (domain.Page, error) {
	if m.ListFunc == nil {
		panic("eventServiceMock.ListFunc: method is nil but eventService.List was just called")
	}
	m.lockList.Lock()
	m.calls.List = append(m.calls.List, struct{ Input eventsvc.ListInput }{input})
	m.lockList.Unlock()
	return m.ListFunc(ctx, input)
}

func (m *eventServiceMock) ListCalls() []struct{ Input eventsvc.ListInput } {
	m.lockList.RLock()
	defer m.lockList.RUnlock()
	return m.calls.List
}

// timelineServiceMock is a mock implementation of timelineService.
type timelineServiceMock struct {
	TimelineFunc func(ctx context.Context, input timeline.Input) (domain.Page, error)

	calls struct {
		Timeline []struct{ Input timeline.Input }
	}
	lockTimeline sync.RWMutex
}

var _ timelineService = &timelineServiceMock{}

func (m *timelineServiceMock) Timeline(ctx context.Context, input timeline.Input) (domain.Page, error) {
	if m.TimelineFunc == nil {
		panic("timelineServiceMock.TimelineFunc: method is nil but timelineService.Timeline was just called")
	}
	m.lockTimeline.Lock()
	m.calls.Timeline = append(m.calls.Timeline, struct{ Input timeline.Input }{input})
	m.lockTimeline.Unlock()
	return m.TimelineFunc(ctx, input)
}

func (m *timelineServiceMock) TimelineCalls() []struct{ Input timeline.Input } {
	m.lockTimeline.RLock()
	defer m.lockTimeline.RUnlock()
	return m.calls.Timeline
}

// tenantServiceMock is a mock implementation of tenantService.
type tenantServiceMock struct {
	ProvisionFunc func(ctx context.Context, input tenant.ProvisionInput) (domain.ProvisionedTenant, error)
	GetFunc       func(ctx context.Context, id string) (domain.Tenant, error)
}

var _ tenantService = &tenantServiceMock{}

func (m *tenantServiceMock) Provision(ctx context.Context, input tenant.ProvisionInput) (domain.ProvisionedTenant, error) {
	if m.ProvisionFunc == nil {
		panic("tenantServiceMock.ProvisionFunc: method is nil but tenantService.Provision was just called")
	}
	return m.ProvisionFunc(ctx, input)
}

func (m *tenantServiceMock) Get(ctx context.Context, id string) (domain.Tenant, error) {
	if m.GetFunc == nil {
		panic("tenantServiceMock.GetFunc: method is nil but tenantService.Get was just called")
	}
	return m.GetFunc(ctx, id)
}

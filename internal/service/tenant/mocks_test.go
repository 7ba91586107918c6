package tenant

import (
	"context"
	"sync"

	"github.com/heartmarshall/auditlog-backend/internal/domain"
)

var (
	_ txManager         = &txManagerMock{}
	_ tenantRepo        = &tenantRepoMock{}
	_ clientProvisioner = &clientProvisionerMock{}
)

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (mock *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if mock.RunInTxFunc == nil {
		panic("txManagerMock.RunInTxFunc: method is nil but txManager.RunInTx was just called")
	}
	return mock.RunInTxFunc(ctx, fn)
}

type tenantRepoMock struct {
	CreateFunc  func(ctx context.Context, t domain.Tenant) (domain.Tenant, error)
	GetByIDFunc func(ctx context.Context, id string) (domain.Tenant, error)

	calls struct {
		Create []struct {
			Ctx context.Context
			T   domain.Tenant
		}
	}
	lockCreate sync.RWMutex
}

func (mock *tenantRepoMock) Create(ctx context.Context, t domain.Tenant) (domain.Tenant, error) {
	if mock.CreateFunc == nil {
		panic("tenantRepoMock.CreateFunc: method is nil but tenantRepo.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		T   domain.Tenant
	}{Ctx: ctx, T: t}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, t)
}

func (mock *tenantRepoMock) CreateCalls() []struct {
	Ctx context.Context
	T   domain.Tenant
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *tenantRepoMock) GetByID(ctx context.Context, id string) (domain.Tenant, error) {
	if mock.GetByIDFunc == nil {
		panic("tenantRepoMock.GetByIDFunc: method is nil but tenantRepo.GetByID was just called")
	}
	return mock.GetByIDFunc(ctx, id)
}

type clientProvisionerMock struct {
	CreateTenantClientFunc func(ctx context.Context, tenantID, name string) (domain.TenantClient, error)
}

func (mock *clientProvisionerMock) CreateTenantClient(ctx context.Context, tenantID, name string) (domain.TenantClient, error) {
	if mock.CreateTenantClientFunc == nil {
		panic("clientProvisionerMock.CreateTenantClientFunc: method is nil but clientProvisioner.CreateTenantClient was just called")
	}
	return mock.CreateTenantClientFunc(ctx, tenantID, name)
}

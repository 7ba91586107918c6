package tenant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/auditlog-backend/internal/domain"
)

const maxNameLen = 255

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type tenantRepo interface {
	Create(ctx context.Context, t domain.Tenant) (domain.Tenant, error)
	GetByID(ctx context.Context, id string) (domain.Tenant, error)
}

type clientProvisioner interface {
	CreateTenantClient(ctx context.Context, tenantID, name string) (domain.TenantClient, error)
}

// Service onboards tenants.
type Service struct {
	log     *slog.Logger
	tx      txManager
	tenants tenantRepo
	clients clientProvisioner
}

// NewService creates a new tenant service.
func NewService(
	log *slog.Logger,
	tx txManager,
	tenants tenantRepo,
	clients clientProvisioner,
) *Service {
	return &Service{
		log:     log.With("service", "tenant"),
		tx:      tx,
		tenants: tenants,
		clients: clients,
	}
}

// ProvisionInput holds the parameters for onboarding a tenant.
type ProvisionInput struct {
	Name string
}

// Validate checks all fields and collects all errors.
func (i ProvisionInput) Validate() error {
	name := strings.TrimSpace(i.Name)
	if name == "" {
		return domain.NewValidationError("name", "required")
	}
	if len(name) > maxNameLen {
		return domain.NewValidationError("name", "max 255 characters")
	}
	return nil
}

// Provision registers a tenant and creates its identity client in one
// transaction. A provisioner failure rolls the tenant row back.
func (s *Service) Provision(ctx context.Context, input ProvisionInput) (domain.ProvisionedTenant, error) {
	if err := input.Validate(); err != nil {
		return domain.ProvisionedTenant{}, err
	}

	var out domain.ProvisionedTenant
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		t, err := s.tenants.Create(ctx, domain.Tenant{
			ID:   uuid.NewString(),
			Name: strings.TrimSpace(input.Name),
		})
		if err != nil {
			return fmt.Errorf("create tenant: %w", err)
		}

		client, err := s.clients.CreateTenantClient(ctx, t.ID, t.Name)
		if err != nil {
			return fmt.Errorf("provision identity client: %w", err)
		}

		out = domain.ProvisionedTenant{Tenant: t, Client: client}
		return nil
	})
	if err != nil {
		return domain.ProvisionedTenant{}, err
	}

	s.log.InfoContext(ctx, "tenant provisioned",
		slog.String("tenant_id", out.Tenant.ID),
		slog.String("client_id", out.Client.ClientID),
	)

	return out, nil
}

// Get returns the tenant with the given id.
func (s *Service) Get(ctx context.Context, id string) (domain.Tenant, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Tenant{}, domain.NewValidationError("id", "required")
	}

	t, err := s.tenants.GetByID(ctx, id)
	if err != nil {
		return domain.Tenant{}, fmt.Errorf("get tenant: %w", err)
	}
	return t, nil
}

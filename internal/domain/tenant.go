package domain

import "time"

// Tenant is an isolation boundary. Tenants are created once and never modified.
type Tenant struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// TenantClient holds identity-provider credentials issued for a tenant.
// The secret is returned once at provisioning time and never stored.
type TenantClient struct {
	ClientID     string
	ClientSecret string
}

// ProvisionedTenant is the result of onboarding a tenant.
type ProvisionedTenant struct {
	Tenant Tenant
	Client TenantClient
}

package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/heartmarshall/auditlog-backend/internal/domain"
)

// LocalProvisioner issues tenant client credentials without an external
// identity provider. Secrets are random and never stored.
type LocalProvisioner struct{}

// NewLocalProvisioner creates a LocalProvisioner.
func NewLocalProvisioner() *LocalProvisioner {
	return &LocalProvisioner{}
}

// CreateTenantClient returns credentials for tenantID.
func (p *LocalProvisioner) CreateTenantClient(_ context.Context, tenantID, _ string) (domain.TenantClient, error) {
	secret, err := GenerateSecret()
	if err != nil {
		return domain.TenantClient{}, err
	}
	return domain.TenantClient{
		ClientID:     "tenant-" + tenantID,
		ClientSecret: secret,
	}, nil
}

// GenerateSecret returns 32 random bytes encoded as unpadded base64url.
func GenerateSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

package config

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Auth.validate(); err != nil {
		return fmt.Errorf("auth: %w", err)
	}

	if c.Admin.APIKeyHash != "" {
		if _, err := bcrypt.Cost([]byte(c.Admin.APIKeyHash)); err != nil {
			return fmt.Errorf("admin.api_key_hash must be a bcrypt hash: %w", err)
		}
	}

	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be > 0 (got %d)", c.Server.MaxBodyBytes)
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RequestsPerSecond <= 0 {
			return fmt.Errorf("rate_limit.requests_per_second must be > 0 (got %v)", c.RateLimit.RequestsPerSecond)
		}
		if c.RateLimit.Burst < 1 {
			return fmt.Errorf("rate_limit.burst must be >= 1 (got %d)", c.RateLimit.Burst)
		}
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("telemetry.sample_ratio must be within [0, 1] (got %v)", c.Telemetry.SampleRatio)
	}

	return nil
}

func (a *AuthConfig) validate() error {
	switch a.Mode {
	case AuthModeToken:
		if !a.UsesRSA() && len(a.JWTSecret) < 32 {
			return fmt.Errorf("jwt_secret must be at least 32 characters when no jwt_public_key is set (got %d)", len(a.JWTSecret))
		}
		if a.TenantClaim == "" {
			return fmt.Errorf("tenant_claim must not be empty")
		}
	case AuthModeHeader:
		if a.TenantHeader == "" {
			return fmt.Errorf("tenant_header must not be empty in header mode")
		}
	default:
		return fmt.Errorf("mode must be %q or %q (got %q)", AuthModeToken, AuthModeHeader, a.Mode)
	}
	return nil
}

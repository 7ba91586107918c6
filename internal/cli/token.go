package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/auditlog-backend/internal/auth"
)

type tokenOptions struct {
	Subject     string
	Secret      string
	Issuer      string
	TenantClaim string
	TTL         time.Duration
}

// NewTokenCommand creates the token command group.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Development token helpers",
	}

	opts := &tokenOptions{}
	mint := &cobra.Command{
		Use:   "mint <tenant-id>",
		Short: "Mint an HS256 bearer token scoped to a tenant",
		Long: `Mint an HS256 bearer token for local development and tests.

Without --secret the signing secret, issuer and tenant claim are read from the
service configuration.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Secret == "" {
				cfg, err := loadConfig(rootOpts)
				if err != nil {
					return err
				}
				if cfg.Auth.JWTSecret == "" {
					return errors.New("configuration has no auth.jwt_secret; pass --secret")
				}
				opts.Secret = cfg.Auth.JWTSecret
				opts.Issuer = cfg.Auth.JWTIssuer
				opts.TenantClaim = cfg.Auth.TenantClaim
			}

			mgr := auth.NewJWTManager(opts.Secret, opts.Issuer, opts.TenantClaim, opts.TTL)
			token, err := mgr.IssueToken(opts.Subject, args[0])
			if err != nil {
				return fmt.Errorf("mint token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	mint.Flags().StringVar(&opts.Subject, "subject", "auditctl", "token subject")
	mint.Flags().StringVar(&opts.Secret, "secret", "", "HS256 signing secret (overrides config)")
	mint.Flags().StringVar(&opts.Issuer, "issuer", "auditlog", "token issuer, used with --secret")
	mint.Flags().StringVar(&opts.TenantClaim, "tenant-claim", "tid", "tenant claim name, used with --secret")
	mint.Flags().DurationVar(&opts.TTL, "ttl", time.Hour, "token lifetime")

	cmd.AddCommand(mint)
	return cmd
}

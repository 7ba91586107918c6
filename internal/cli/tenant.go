package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/auditlog-backend/internal/adapter/postgres"
	tenantrepo "github.com/heartmarshall/auditlog-backend/internal/adapter/postgres/tenant"
	"github.com/heartmarshall/auditlog-backend/internal/app"
	"github.com/heartmarshall/auditlog-backend/internal/auth"
	tenantsvc "github.com/heartmarshall/auditlog-backend/internal/service/tenant"
)

// NewTenantCommand creates the tenant command group.
func NewTenantCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Manage tenants",
	}

	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Register a tenant and print its client credentials",
		Long: `Register a tenant directly in the database, bypassing the admin API.

The client secret is printed once and is not stored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			logger := app.NewLogger(cfg.Log)
			ctx := cmd.Context()

			pool, err := postgres.NewPool(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := tenantsvc.NewService(logger, postgres.NewTxManager(pool), tenantrepo.New(pool), auth.NewLocalProvisioner())
			out, err := svc.Provision(ctx, tenantsvc.ProvisionInput{Name: args[0]})
			if err != nil {
				logger.Error("provision tenant", slog.String("error", err.Error()))
				return fmt.Errorf("provision tenant: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"id":            out.Tenant.ID,
				"name":          out.Tenant.Name,
				"created_at":    out.Tenant.CreatedAt,
				"client_id":     out.Client.ClientID,
				"client_secret": out.Client.ClientSecret,
			})
		},
	}

	cmd.AddCommand(create)
	return cmd
}

package cli

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/auditlog-backend/internal/adapter/postgres"
	"github.com/heartmarshall/auditlog-backend/internal/config"
	"github.com/heartmarshall/auditlog-backend/migrations"
)

// NewMigrateCommand creates the migrate command group.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	var grantRole string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect schema migrations",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Long: `Apply all pending migrations as the connecting (owner) role.

With --grant-role the named application role is granted the privileges the
service needs. The role must exist and must not bypass row level security.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withProvider(cmd.Context(), rootOpts, func(ctx context.Context, p *goose.Provider, db config.DatabaseConfig) error {
				results, err := p.Up(ctx)
				if err != nil {
					return fmt.Errorf("migrate up: %w", err)
				}
				for _, r := range results {
					fmt.Fprintf(cmd.OutOrStdout(), "applied %s (%s)\n", r.Source.Path, r.Duration.Round(time.Millisecond))
				}
				if len(results) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "no pending migrations")
				}

				if grantRole == "" {
					return nil
				}
				return grant(ctx, db, grantRole)
			})
		},
	}
	up.Flags().StringVar(&grantRole, "grant-role", "", "application role to grant read/append privileges to")

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withProvider(cmd.Context(), rootOpts, func(ctx context.Context, p *goose.Provider, _ config.DatabaseConfig) error {
				r, err := p.Down(ctx)
				if err != nil {
					return fmt.Errorf("migrate down: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "rolled back %s\n", r.Source.Path)
				return nil
			})
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withProvider(cmd.Context(), rootOpts, func(ctx context.Context, p *goose.Provider, _ config.DatabaseConfig) error {
				statuses, err := p.Status(ctx)
				if err != nil {
					return fmt.Errorf("migrate status: %w", err)
				}
				for _, s := range statuses {
					fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", s.State, s.Source.Path)
				}
				return nil
			})
		},
	}

	cmd.AddCommand(up, down, status)
	return cmd
}

func withProvider(ctx context.Context, opts *RootOptions, fn func(context.Context, *goose.Provider, config.DatabaseConfig) error) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	db, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("sql.Open: %w", err)
	}
	defer db.Close()

	provider, err := migrations.NewProvider(db)
	if err != nil {
		return err
	}

	return fn(ctx, provider, cfg.Database)
}

func grant(ctx context.Context, db config.DatabaseConfig, role string) error {
	pool, err := postgres.NewPool(ctx, db)
	if err != nil {
		return err
	}
	defer pool.Close()

	return postgres.GrantAppRole(ctx, pool, role)
}

package testhelper

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/heartmarshall/auditlog-backend/internal/adapter/postgres"
	"github.com/heartmarshall/auditlog-backend/internal/config"
	"github.com/heartmarshall/auditlog-backend/migrations"
)

// AppRole is the non-superuser role tests connect as, so that row level
// security applies exactly as in production.
const AppRole = "auditlog_app"

const (
	ownerUser     = "testuser"
	ownerPassword = "testpass"
	appPassword   = "apppass"
	dbName        = "testdb"
)

// cluster is the one Postgres container shared by every test in the process.
type cluster struct {
	once     sync.Once
	appDSN   string
	ownerDSN string
	err      error
}

var shared cluster

// SetupTestDB returns a pool connected as AppRole to the shared, migrated
// test database. The container starts on first use and lives until the
// process exits; the pool is closed via t.Cleanup.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	return shared.pool(t, func(c *cluster) string { return c.appDSN })
}

// SetupOwnerDB returns a pool connected as the schema owner. Row level
// security does not filter for this role unless FORCE is set on the table.
func SetupOwnerDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	return shared.pool(t, func(c *cluster) string { return c.ownerDSN })
}

func (c *cluster) pool(t *testing.T, dsn func(*cluster) string) *pgxpool.Pool {
	t.Helper()

	c.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		c.err = c.start(ctx)
	})
	if c.err != nil {
		t.Fatalf("testhelper: postgres unavailable: %v", c.err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, config.DatabaseConfig{
		DSN:             dsn(c),
		MaxConns:        8,
		MinConns:        1,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 5 * time.Minute,
	})
	if err != nil {
		t.Fatalf("testhelper: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func (c *cluster) start(ctx context.Context) error {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     ownerUser,
				"POSTGRES_PASSWORD": ownerPassword,
				"POSTGRES_DB":       dbName,
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		return fmt.Errorf("start container: %w", err)
	}

	endpoint, err := container.PortEndpoint(ctx, "5432/tcp", "")
	if err != nil {
		return fmt.Errorf("container endpoint: %w", err)
	}
	c.ownerDSN = fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable", ownerUser, ownerPassword, endpoint, dbName)
	c.appDSN = fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable", AppRole, appPassword, endpoint, dbName)

	if err := migrate(ctx, c.ownerDSN); err != nil {
		return err
	}
	return provisionAppRole(ctx, c.ownerDSN)
}

func migrate(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("sql.Open: %w", err)
	}
	defer db.Close()

	provider, err := migrations.NewProvider(db)
	if err != nil {
		return err
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// provisionAppRole creates AppRole the way an operator would before running
// "auditctl migrate up --grant-role".
func provisionAppRole(ctx context.Context, ownerDSN string) error {
	owner, err := pgxpool.New(ctx, ownerDSN)
	if err != nil {
		return fmt.Errorf("owner pool: %w", err)
	}
	defer owner.Close()

	stmt := fmt.Sprintf("CREATE ROLE %s LOGIN PASSWORD '%s' NOSUPERUSER NOBYPASSRLS", AppRole, appPassword)
	if _, err := owner.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("create app role: %w", err)
	}
	return postgres.GrantAppRole(ctx, owner, AppRole)
}

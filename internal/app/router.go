package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/auditlog-backend/internal/adapter/postgres"
	"github.com/heartmarshall/auditlog-backend/internal/adapter/postgres/assoc"
	"github.com/heartmarshall/auditlog-backend/internal/adapter/postgres/event"
	tenantrepo "github.com/heartmarshall/auditlog-backend/internal/adapter/postgres/tenant"
	"github.com/heartmarshall/auditlog-backend/internal/auth"
	"github.com/heartmarshall/auditlog-backend/internal/config"
	"github.com/heartmarshall/auditlog-backend/internal/observability"
	eventsvc "github.com/heartmarshall/auditlog-backend/internal/service/event"
	"github.com/heartmarshall/auditlog-backend/internal/service/ingest"
	tenantsvc "github.com/heartmarshall/auditlog-backend/internal/service/tenant"
	"github.com/heartmarshall/auditlog-backend/internal/service/timeline"
	"github.com/heartmarshall/auditlog-backend/internal/transport/middleware"
	"github.com/heartmarshall/auditlog-backend/internal/transport/rest"
)

// HandlerDeps holds the runtime collaborators of the HTTP handler. Metrics
// and Limiter are optional.
type HandlerDeps struct {
	Pool           *pgxpool.Pool
	Logger         *slog.Logger
	Metrics        *observability.Metrics
	Limiter        middleware.Limiter
	LimiterBackend string
	Version        string
}

// NewHandler builds repositories, services and routes around an open pool.
func NewHandler(cfg config.Config, deps HandlerDeps) (http.Handler, error) {
	logger := deps.Logger
	txm := postgres.NewTxManager(deps.Pool)

	// Repositories.
	eventRepo := event.New(deps.Pool)
	assocRepo := assoc.New(deps.Pool)
	tenantRepo := tenantrepo.New(deps.Pool)

	// Services.
	var (
		outcomes interface{ IngestOutcome(string) }
		rejected interface{ RateLimited(string) }
	)
	if deps.Metrics != nil {
		outcomes, rejected = deps.Metrics, deps.Metrics
	}
	ingestService := ingest.NewService(logger, txm, eventRepo, assocRepo, outcomes)
	eventService := eventsvc.NewService(logger, txm, eventRepo, assocRepo)
	timelineService := timeline.NewService(logger, txm, eventRepo, assocRepo)
	tenantService := tenantsvc.NewService(logger, txm, tenantRepo, auth.NewLocalProvisioner())

	// Handlers.
	eventHandler, err := rest.NewEventHandler(ingestService, eventService, timelineService, cfg.Server.MaxBodyBytes, logger)
	if err != nil {
		return nil, err
	}
	adminHandler := rest.NewAdminHandler(tenantService, logger)
	healthHandler := rest.NewHealthHandler(deps.Pool, postgres.NewIsolationProbe(deps.Pool), deps.Version)

	tenantMW, err := tenantMiddleware(cfg.Auth)
	if err != nil {
		return nil, err
	}
	api := []middleware.Middleware{tenantMW}
	if deps.Limiter != nil {
		api = append(api, middleware.RateLimit(deps.Limiter, deps.LimiterBackend, rejected, logger))
	}
	tenantScoped := middleware.Chain(api...)
	adminOnly := middleware.AdminKey(cfg.Admin.APIKeyHash)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", healthHandler.Live)
	mux.HandleFunc("GET /ready", healthHandler.Ready)
	mux.HandleFunc("GET /health", healthHandler.Health)
	if deps.Metrics != nil {
		mux.Handle("GET /metrics", deps.Metrics.Handler())
	}

	mux.Handle("POST /v1/events", tenantScoped(http.HandlerFunc(eventHandler.Create)))
	mux.Handle("GET /v1/events", tenantScoped(http.HandlerFunc(eventHandler.List)))
	mux.Handle("GET /v1/events/{event_id}", tenantScoped(http.HandlerFunc(eventHandler.Get)))
	mux.Handle("GET /v1/timeline", tenantScoped(http.HandlerFunc(eventHandler.Timeline)))

	mux.Handle("POST /admin/tenants", adminOnly(http.HandlerFunc(adminHandler.CreateTenant)))
	mux.Handle("GET /admin/tenants/{id}", adminOnly(http.HandlerFunc(adminHandler.GetTenant)))

	var metrics middleware.Middleware
	if deps.Metrics != nil {
		metrics = middleware.Metrics(deps.Metrics)
	}

	return middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		middleware.Timeout(cfg.Server.RequestTimeout),
		metrics,
	)(mux), nil
}

func tenantMiddleware(cfg config.AuthConfig) (middleware.Middleware, error) {
	switch cfg.Mode {
	case config.AuthModeHeader:
		return middleware.TenantFromHeader(cfg.TenantHeader), nil
	case config.AuthModeToken:
		if cfg.UsesRSA() {
			verifier, err := auth.NewRS256Verifier(cfg.JWTPublicKey, cfg.JWTIssuer, cfg.TenantClaim)
			if err != nil {
				return nil, err
			}
			return middleware.TenantFromToken(verifier), nil
		}
		return middleware.TenantFromToken(auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.TenantClaim, cfg.AccessTokenTTL)), nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}
}

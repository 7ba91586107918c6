package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/auditlog-backend/internal/adapter/postgres"
	"github.com/heartmarshall/auditlog-backend/internal/config"
	"github.com/heartmarshall/auditlog-backend/internal/observability"
	"github.com/heartmarshall/auditlog-backend/internal/transport/middleware"
)

// Run is the application entry point. It loads configuration, connects to
// the database, serves HTTP until ctx is cancelled and then drains in-flight
// requests within the configured shutdown timeout.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("auth_mode", cfg.Auth.Mode),
	)

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Telemetry, Version, logger)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("tracing shutdown", slog.String("error", err.Error()))
		}
	}()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	var metrics *observability.Metrics
	if cfg.Telemetry.MetricsEnabled {
		metrics = observability.NewMetrics()
	}

	limiter, backend, closeLimiter := newLimiter(ctx, *cfg, logger)
	defer closeLimiter()

	handler, err := NewHandler(*cfg, HandlerDeps{
		Pool:           pool,
		Logger:         logger,
		Metrics:        metrics,
		Limiter:        limiter,
		LimiterBackend: backend,
		Version:        BuildVersion(),
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

		sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("stopped")
	return nil
}

// newLimiter picks the rate limiter backend. Redis is used when configured
// and reachable; otherwise buckets stay in process.
func newLimiter(ctx context.Context, cfg config.Config, logger *slog.Logger) (middleware.Limiter, string, func()) {
	if !cfg.RateLimit.Enabled {
		return nil, "", func() {}
	}

	rl := cfg.RateLimit
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := client.Ping(pctx).Err()
		cancel()
		if err == nil {
			logger.Info("rate limiter", slog.String("backend", "redis"), slog.String("addr", cfg.Redis.Addr))
			return middleware.NewRedisLimiter(client, rl.RequestsPerSecond, rl.Burst), "redis", func() { _ = client.Close() }
		}

		logger.Warn("redis unreachable, falling back to in-process rate limiting",
			slog.String("addr", cfg.Redis.Addr),
			slog.String("error", err.Error()),
		)
		_ = client.Close()
	}

	local := middleware.NewLocalLimiter(rl.RequestsPerSecond, rl.Burst, rl.CleanupInterval)
	return local, "local", local.Stop
}

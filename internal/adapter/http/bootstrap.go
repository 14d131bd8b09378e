package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"taskapp/internal/adapter/database/memory"
	"taskapp/internal/adapter/database/postgres"
	postgresrepo "taskapp/internal/adapter/database/postgres/repository"
	rediscache "taskapp/internal/adapter/database/redis"
	"taskapp/internal/adapter/database/sqlite"
	sqliterepo "taskapp/internal/adapter/database/sqlite/repository"
	"taskapp/internal/adapter/http/routes"
	"taskapp/internal/core/port"
	"taskapp/internal/core/telemetry"
	"taskapp/pkg"
	"taskapp/pkg/config"
	"taskapp/pkg/tracing"
)

func StartServer(ctx context.Context, metrics *tracing.AppMetrics, logger *config.AppLogger) error {
	return StartServerWithConfig(ctx, metrics, logger, config.GetDefaultConfig())
}

// StartServerWithConfig wires the storage and cache adapters the
// configuration asks for, mounts the router and serves until ctx is
// cancelled, then drains in-flight requests.
func StartServerWithConfig(ctx context.Context, metrics *tracing.AppMetrics, logger *config.AppLogger, cfg *config.AppConfig) error {
	probe := telemetry.NewOTELProbe(slog.Default())

	taskRepo, closeDB, err := buildTaskRepository(ctx, cfg, probe)

	if err != nil {
		return err
	}

	defer closeDB()

	cacheStore := buildCacheStore(ctx, cfg)

	if cacheStore != nil {
		defer cacheStore.Close()
	}

	container := NewContainer(taskRepo, probe, logger)

	router := routes.SetupRouterWithConfig(routes.HandlersConfig{
		TaskHandler: container.TaskHandler,
	}, metrics, logger, cfg, cacheStore)

	slog.Info("Server starting",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"rate_limit_enabled", cfg.RateLimitEnabled,
		"cache_enabled", cfg.CacheEnabled)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func buildTaskRepository(ctx context.Context, cfg *config.AppConfig, probe port.Telemetry) (port.TaskRepository, func(), error) {
	if cfg.DatabaseURL != "" {
		db, err := postgres.NewDB(ctx, cfg.DatabaseURL, pkg.ResolveFromRoot(cfg.PGMigrationsPath))

		if err != nil {
			return nil, nil, err
		}

		return postgresrepo.NewTaskRepository(db), db.Close, nil
	}

	db, err := sqlite.NewDB(cfg.DatabasePath, pkg.ResolveFromRoot(cfg.MigrationsPath))

	if err != nil {
		return nil, nil, err
	}

	return sqliterepo.NewTaskRepository(db, probe), func() { db.Close() }, nil
}

func buildCacheStore(ctx context.Context, cfg *config.AppConfig) port.CacheRepository {
	if !cfg.CacheEnabled {
		return nil
	}

	if cfg.RedisURL != "" {
		store, err := rediscache.NewCacheRepository(ctx, cfg.RedisURL)

		if err == nil {
			return store
		}

		slog.Warn("Redis unavailable, falling back to in-process cache", "error", err)
	}

	return memory.NewCacheRepository(5 * time.Minute)
}

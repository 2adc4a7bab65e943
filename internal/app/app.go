package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/weekboard/api/internal/cache"
	"github.com/weekboard/api/internal/config"
	"github.com/weekboard/api/internal/database"
	"github.com/weekboard/api/internal/handler"
	"github.com/weekboard/api/internal/ratelimit"
	"github.com/weekboard/api/internal/repository"
	"github.com/weekboard/api/internal/router"
	"github.com/weekboard/api/internal/service"
	"github.com/weekboard/api/internal/worker"
)

// Run assembles and runs the application until SIGINT/SIGTERM.
func Run(cfg *config.Config, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// track cleanup functions (LIFO order)
	cleanupFuncs := make([]func() error, 0)
	defer func() {
		// execute cleanup in reverse order
		for i := len(cleanupFuncs) - 1; i >= 0; i-- {
			if err := cleanupFuncs[i](); err != nil {
				logger.Error("Cleanup failed", "error", err)
			}
		}
	}()

	// Database: driver and dialect are decided here, once, and injected.
	db, dialect, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	cleanupFuncs = append(cleanupFuncs, db.Close)
	logger.Info("Database connected", "driver", cfg.Database.Driver)

	if dialect == database.DialectSQLite {
		if err := database.Migrate(ctx, db, dialect); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
	}

	// Redis
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	cleanupFuncs = append(cleanupFuncs, redisClient.Close)
	logger.Info("Redis connected")

	// Repositories
	userRepo := repository.NewUserRepository(db, dialect)
	taskRepo := repository.NewTaskRepository(db, dialect)

	// Services
	cacheTTL := time.Duration(cfg.Analytics.CacheTTL) * time.Second
	taskService := service.NewTaskService(taskRepo, userRepo, redisClient, cacheTTL, logger)
	authService := service.NewAuthService(userRepo, redisClient, cfg.JWT)

	// Handlers
	taskHandler := handler.NewTaskHandler(taskService, logger)
	authHandler := handler.NewAuthHandler(authService, logger)

	// Rate limiter (optional)
	var rateLimiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter, err = ratelimit.NewRateLimiter(cfg, logger)
		if err != nil {
			return fmt.Errorf("create rate limiter: %w", err)
		}
		cleanupFuncs = append(cleanupFuncs, rateLimiter.Close)
	}

	// Background workers
	var analyticsWorker *worker.AnalyticsWorker
	if cfg.Analytics.SnapshotMinutes > 0 {
		interval := time.Duration(cfg.Analytics.SnapshotMinutes) * time.Minute
		analyticsWorker = worker.NewAnalyticsWorker(taskService, interval, logger)
	}
	workers := StartWorkers(ctx, analyticsWorker)

	// HTTP server
	mux := router.Setup(router.RouterConfig{
		AuthHandler: authHandler,
		TaskHandler: taskHandler,
		AuthService: authService,
		RateLimiter: rateLimiter,
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      mux,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for shutdown signal or server failure
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	case s := <-sig:
		logger.Info("Shutdown signal received", "signal", s.String())
	}

	// Stop workers first, then drain in-flight requests.
	workers.Cancel()
	workers.WG.Wait()

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}

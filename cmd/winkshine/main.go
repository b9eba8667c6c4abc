package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/winkshine/winkshine-admin/internal/app"
	"github.com/winkshine/winkshine-admin/internal/auth"
	"github.com/winkshine/winkshine-admin/internal/branding"
	"github.com/winkshine/winkshine-admin/internal/category"
	"github.com/winkshine/winkshine-admin/internal/dashboard"
	"github.com/winkshine/winkshine-admin/internal/observability"
	"github.com/winkshine/winkshine-admin/internal/platform/cache"
	"github.com/winkshine/winkshine-admin/internal/platform/db"
	"github.com/winkshine/winkshine-admin/internal/shared"
	"github.com/winkshine/winkshine-admin/internal/users"
	"github.com/winkshine/winkshine-admin/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		// Stats fall back to direct counts when the cache is away.
		logger.Warn("redis unavailable", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	auditLogger := shared.NewAuditLogger(pool)

	usersRepo := users.NewRepository(pool)
	usersService := users.NewService(usersRepo, auditLogger, logger)
	usersHandler := users.NewHandler(logger, usersService)

	tokenIssuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	authService := auth.NewService(usersRepo, tokenIssuer, logger)
	gate := auth.NewGate(authService, logger)
	authHandler := auth.NewHandler(logger, authService, gate)

	categoryRepo := category.NewRepository(pool)
	categoryService := category.NewService(categoryRepo)
	categoryHandler := category.NewHandler(logger, categoryService)

	dashboardService := dashboard.NewService(usersRepo, redisClient, cfg.StatsCacheTTL, logger)
	dashboardHandler := dashboard.NewHandler(logger, dashboardService)

	brandingRepo := branding.NewRepository(pool)
	brandingHandler := branding.NewHandler(logger, brandingRepo)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Gate:             gate,
		AuthHandler:      authHandler,
		UsersHandler:     usersHandler,
		CategoryHandler:  categoryHandler,
		DashboardHandler: dashboardHandler,
		BrandingHandler:  brandingHandler,
		Metrics:          metrics,
	})

	if redisClient != nil {
		// Warm the dashboard cache early so the first request after boot
		// does not pay for the counts.
		jobsClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		defer func() {
			if err := jobsClient.Close(); err != nil {
				logger.Warn("jobs client close", slog.Any("error", err))
			}
		}()
		if _, err := jobsClient.EnqueueStatsWarmup(ctx, "api-boot"); err != nil {
			logger.Warn("enqueue stats warmup", slog.Any("error", err))
		}
	}

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("winkshine admin api listening", slog.String("addr", cfg.AppAddr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", slog.Any("error", err))
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server run", slog.Any("error", err))
			os.Exit(1)
		}
	}
}

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/sentinel-id/sentinel/internal/app"
	"github.com/sentinel-id/sentinel/internal/auth"
	"github.com/sentinel-id/sentinel/internal/customers"
	"github.com/sentinel-id/sentinel/internal/notify"
	"github.com/sentinel-id/sentinel/internal/observability"
	"github.com/sentinel-id/sentinel/internal/platform/cache"
	"github.com/sentinel-id/sentinel/internal/platform/db"
	"github.com/sentinel-id/sentinel/internal/rbac"
	"github.com/sentinel-id/sentinel/internal/token"
	"github.com/sentinel-id/sentinel/internal/users"
	"github.com/sentinel-id/sentinel/internal/verification"
	"github.com/sentinel-id/sentinel/jobs"
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

	if err := db.Migrate(ctx, cfg.PGDSN); err != nil {
		logger.Error("run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	jobsClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()
	notifier := notify.NewQueue(jobsClient, logger)

	codec := token.NewCodec([]byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	gate := auth.NewGate(codec, logger)

	usersRepo := users.NewRepository(pool)
	rbacRepo := rbac.NewRepository(pool)
	rbacMiddleware := rbac.Middleware{Logger: logger}

	verificationRepo := verification.NewRepository(pool)
	verificationService := verification.NewService(verificationRepo, usersRepo, notifier, cfg.PublicBaseURL, cfg.VerificationTTL, logger)

	usersService := users.NewService(usersRepo, rbacRepo, verificationService, logger)
	usersHandler := users.NewHandler(logger, usersService, rbacMiddleware)

	metrics := observability.NewMetrics()

	limiter := auth.NewRedisLimiter(redisClient, int64(cfg.LoginAttemptLimit), cfg.LoginAttemptWindow)
	authService := auth.NewService(usersRepo, rbacRepo, codec, limiter, logger)
	authHandler := auth.NewHandler(logger, authService, verificationService).WithMetrics(metrics)

	verificationHandler := verification.NewHandler(logger, verificationService, authService)

	customersRepo := customers.NewRepository(pool)
	customersService := customers.NewService(customersRepo)
	customersHandler := customers.NewHandler(logger, customersService, rbacMiddleware)

	router := app.NewRouter(app.RouterParams{
		Logger:              logger,
		Config:              cfg,
		Gate:                gate,
		AuthHandler:         authHandler,
		UsersHandler:        usersHandler,
		VerificationHandler: verificationHandler,
		CustomersHandler:    customersHandler,
		Metrics:             metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server exit", slog.Any("error", err))
		os.Exit(1)
	}
}

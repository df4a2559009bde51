// Copyright (c) 2026 Kaiwa. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Kaiwa HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire the token service, identity cache, and rate limiter.
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
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

	"github.com/taibuivan/kaiwa/internal/api"
	"github.com/taibuivan/kaiwa/internal/core/message"
	"github.com/taibuivan/kaiwa/internal/core/space"
	"github.com/taibuivan/kaiwa/internal/identity"
	"github.com/taibuivan/kaiwa/internal/platform/config"
	"github.com/taibuivan/kaiwa/internal/platform/constants"
	"github.com/taibuivan/kaiwa/internal/platform/middleware"
	"github.com/taibuivan/kaiwa/internal/platform/migration"
	pgstore "github.com/taibuivan/kaiwa/internal/platform/postgres"
	redisstore "github.com/taibuivan/kaiwa/internal/platform/redis"
	"github.com/taibuivan/kaiwa/internal/platform/sec"
	"github.com/taibuivan/kaiwa/internal/ratelimit"
	"github.com/taibuivan/kaiwa/internal/users/account"
	"github.com/taibuivan/kaiwa/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "kaiwa"))
	slog.SetDefault(log)

	log.Info("[Kaiwa] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "kaiwa"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Auth Core ──────────────────────────────────────────────────────
	tokenService, err := sec.NewTokenService(cfg.TokenSecret, cfg.TokenAlgorithm, constants.AuthIssuer)
	must(log, err, "initialize token service")

	userRepository := auth.NewUserRepository(pool)

	identityCache := identity.NewCache(identity.NewRedisStore(rdb), cfg.IdentityCacheTTL, log)
	identityResolver := identity.NewResolver(tokenService, identityCache, auth.IdentitySource(userRepository), log)

	limiter, err := ratelimit.NewRedisLimiter(startupCtx, rdb)
	must(log, err, "initialize rate limiter")

	loginGuard := middleware.Guard(limiter, constants.OperationLogin, ratelimit.Limit{
		Requests: cfg.LoginRateLimit,
		Window:   cfg.LoginRateWindow,
	})
	messageGuard := middleware.Guard(limiter, constants.OperationMessageCreate, ratelimit.Limit{
		Requests: cfg.MessageRateLimit,
		Window:   cfg.MessageRateWindow,
	})

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	authService := auth.NewService(userRepository, tokenService, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authHandler := auth.NewHandler(authService, loginGuard)

	accountService := account.NewService(userRepository)
	accountHandler := account.NewHandler(accountService)

	spaceRepository := space.NewSpaceRepository(pool)
	spaceService := space.NewService(spaceRepository)
	spaceHandler := space.NewHandler(spaceService)

	messageRepository := message.NewMessageRepository(pool)
	messageService := message.NewService(messageRepository, spaceService)
	messageHandler := message.NewHandler(messageService, messageGuard)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Account:   accountHandler,
		Space:     spaceHandler,
		Message:   messageHandler,
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, identityResolver, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}

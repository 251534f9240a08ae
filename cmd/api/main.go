package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/posts-service/internal/api/http"
	"github.com/spec-kit/posts-service/internal/api/http/handlers"
	"github.com/spec-kit/posts-service/internal/auth"
	"github.com/spec-kit/posts-service/internal/config"
	"github.com/spec-kit/posts-service/internal/events"
	"github.com/spec-kit/posts-service/internal/observability"
	"github.com/spec-kit/posts-service/internal/persistence"
	"github.com/spec-kit/posts-service/internal/repository"
	"github.com/spec-kit/posts-service/internal/service"
	"github.com/spec-kit/posts-service/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.Pool, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	userRepo := repository.NewUserRepository(pg.Pool)
	postRepo := repository.NewPostRepository(pg.Pool)
	attemptRepo := repository.NewLoginAttemptRepository(redis.Client, cfg.Auth.LoginAttemptWindow())

	hasher := auth.NewPasswordHasher(auth.Argon2Params{
		Memory:  uint32(cfg.Auth.Argon2MemoryKiB),
		Time:    uint32(cfg.Auth.Argon2Time),
		Threads: uint8(cfg.Auth.Argon2Threads),
	})
	passwords := worker.NewHashPool(hasher, cfg.Auth.HashConcurrency)

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(dispatcher, logger)

	metrics := observability.NewMetrics()
	codec := auth.NewTokenCodec()

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		Users:     userRepo,
		Attempts:  attemptRepo,
		Passwords: passwords,
		Codec:     codec,
		Events:    dispatcher,
		Metrics:   metrics,
		Logger:    logger,
	})
	usersService := service.NewUsersService(service.UsersDependencies{
		Users:     userRepo,
		Passwords: passwords,
		Events:    dispatcher,
		Logger:    logger,
	})
	postsService := service.NewPostsService(postRepo)

	guards := auth.NewGuards(
		auth.NewAuthGuard(codec, []byte(cfg.Auth.AccessTokenSecret), userRepo),
		httptransport.RejectionRecorder(metrics, logger),
	)

	app := httptransport.NewApp(cfg.App.Name, logger)
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:       logger,
		Metrics:      metrics,
		Timeout:      cfg.App.RequestTimeout(),
		AllowOrigins: cfg.App.CORSAllowOrigins,
	})
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:      handlers.NewAuthHandler(authService),
		Users:     handlers.NewUsersHandler(usersService),
		Posts:     handlers.NewPostsHandler(postsService),
		Guards:    guards,
		PostOwner: postsService,
		Metrics:   metrics.Handler(),
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
